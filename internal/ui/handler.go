package ui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/pkg/log"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

// UserFinder is the read side of model.User the handler needs.
type UserFinder interface {
	Page(ctx context.Context, page, pageSize int, search string) ([]model.User, int64, error)
	FindByLogin(ctx context.Context, login string) (*model.User, error)
}

// Handler manages HTTP requests for the UI
type Handler struct {
	Logger log.Logger
	Users  UserFinder
	config atomic.Pointer[cfg.Config]
}

func NewHandler(logger log.Logger, config *cfg.Config, users UserFinder) *Handler {
	h := &Handler{
		Logger: logger,
		Users:  users,
	}
	h.config.Store(config)
	return h
}

// SetConfig swaps the config seen by subsequent requests.
func (h *Handler) SetConfig(config *cfg.Config) {
	h.config.Store(config)
}

// RegisterRoutes sets up the HTTP routes for the UI
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users", h.getUsers)
	mux.HandleFunc("GET /api/users/{login}", h.getUser)
	mux.HandleFunc("GET /healthz", h.health)
}

// UserView is one stored user as served by the API
type UserView struct {
	Rank int `json:"rank"`
	model.UserRecord
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int64 `json:"totalPages"`
}

type UsersResponse struct {
	Users      []UserView `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// getUsers returns a page of users ranked by followers
func (h *Handler) getUsers(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := queryInt(r, "pageSize", defaultPageSize)
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	search := r.URL.Query().Get("search")

	users, total, err := h.Users.Page(r.Context(), page, pageSize, search)
	if err != nil {
		h.Logger.Error(r.Context(), "Failed to fetch users: %v", err)
		http.Error(w, "Failed to fetch users", http.StatusInternalServerError)
		return
	}

	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, toView(&users[i]))
	}

	h.writeJSON(w, r, http.StatusOK, UsersResponse{
		Users: views,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalCount: total,
			TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	login := r.PathValue("login")

	user, err := h.Users.FindByLogin(r.Context(), login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		h.Logger.Error(r.Context(), "Failed to fetch user %s: %v", login, err)
		http.Error(w, "Failed to fetch user", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, r, http.StatusOK, toView(user))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	config := h.config.Load()
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": config.App.Version,
		"env":     config.App.Env,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error(r.Context(), "Failed to encode JSON response: %v", err)
	}
}

func toView(u *model.User) UserView {
	return UserView{Rank: u.Rank, UserRecord: u.Record()}
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return v
}
