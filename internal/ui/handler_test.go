package ui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/pkg/log"
)

type fakeUsers struct {
	users []model.User
	err   error

	gotPage, gotPageSize int
	gotSearch            string
}

func (f *fakeUsers) Page(_ context.Context, page, pageSize int, search string) ([]model.User, int64, error) {
	f.gotPage, f.gotPageSize, f.gotSearch = page, pageSize, search
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.users, int64(len(f.users)), nil
}

func (f *fakeUsers) FindByLogin(_ context.Context, login string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if strings.EqualFold(f.users[i].Login, login) {
			return &f.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestServer(users *fakeUsers) *httptest.Server {
	config := &cfg.Config{}
	config.App.Version = "0.0.1"
	return httptest.NewServer(NewServer(log.NewNopLogger(), config, users).Routes())
}

func sampleUsers() []model.User {
	growth := 50.0
	octo := model.UserFromRecord(1, model.UserRecord{
		Candidate: model.Candidate{Login: "octo", Type: "User"},
		Details: &model.Details{
			Followers:          model.Some(150),
			FollowersGrowthPct: &growth,
			SponsorsCount:      model.NA[int](),
		},
	})
	ghost := model.UserFromRecord(2, model.UserRecord{Candidate: model.Candidate{Login: "ghost", Type: "User"}})
	return []model.User{octo, ghost}
}

func TestGetUsersPaginates(t *testing.T) {
	users := &fakeUsers{users: sampleUsers()}
	srv := newTestServer(users)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/users?page=2&pageSize=500&search=oct")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 2, users.gotPage)
	assert.Equal(t, defaultPageSize, users.gotPageSize)
	assert.Equal(t, "oct", users.gotSearch)

	var body struct {
		Users      []map[string]interface{} `json:"users"`
		Pagination Pagination               `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Users, 2)
	assert.Equal(t, "octo", body.Users[0]["login"])
	assert.Equal(t, float64(1), body.Users[0]["rank"])
	assert.Equal(t, float64(150), body.Users[0]["followers"])
	assert.Equal(t, "N/A", body.Users[0]["sponsors_count"])
	assert.NotContains(t, body.Users[1], "followers")
	assert.Equal(t, int64(2), body.Pagination.TotalCount)
	assert.Equal(t, int64(1), body.Pagination.TotalPages)
}

func TestGetUsersDefaults(t *testing.T) {
	users := &fakeUsers{}
	srv := newTestServer(users)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/users?page=-3")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 1, users.gotPage)
	assert.Equal(t, defaultPageSize, users.gotPageSize)
}

func TestGetUserByLogin(t *testing.T) {
	srv := newTestServer(&fakeUsers{users: sampleUsers()})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/users/OCTO")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, "octo", view["login"])
	assert.Equal(t, 50.0, view["followers_growth_pct"])

	resp, err = http.Get(srv.URL + "/api/users/nobody")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDatabaseErrors(t *testing.T) {
	srv := newTestServer(&fakeUsers{err: errors.New("db down")})
	defer srv.Close()

	for _, path := range []string{"/api/users", "/api/users/octo"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, path)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&fakeUsers{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/users", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthFollowsReloadedConfig(t *testing.T) {
	config := &cfg.Config{}
	config.App.Version = "0.0.1"
	server := NewServer(log.NewNopLogger(), config, &fakeUsers{})
	srv := httptest.NewServer(server.Routes())
	defer srv.Close()

	health := func() map[string]string {
		resp, err := http.Get(srv.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body
	}
	assert.Equal(t, "0.0.1", health()["version"])

	reloaded := &cfg.Config{}
	reloaded.App.Version = "0.0.2"
	reloaded.App.Env = "development"
	server.SetConfig(reloaded)

	body := health()
	assert.Equal(t, "0.0.2", body["version"])
	assert.Equal(t, "development", body["env"])
}
