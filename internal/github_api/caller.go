// Package githubapi talks to the GitHub REST and GraphQL APIs. Every call
// goes through Transport, so retries, rate-limit waits and throttling are
// handled in one place; the methods here build URLs and decode responses
// into typed values at the boundary.
package githubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/pkg/log"
)

const (
	SearchPerPage = 100
	ReposPerPage  = 100
)

type Caller struct {
	Logger    log.Logger
	Config    *cfg.Config
	Transport *Transport
}

func NewCaller(logger log.Logger, config *cfg.Config, transport *Transport) *Caller {
	return &Caller{
		Logger:    logger,
		Config:    config,
		Transport: transport,
	}
}

func (c *Caller) HasToken() bool {
	return c.Config.HasToken()
}

// SearchUsers fetches one page of the user search.
func (c *Caller) SearchUsers(ctx context.Context, page, perPage int) ([]SearchUserItem, error) {
	fullUrl := fmt.Sprintf("%s/search/users?q=%s&per_page=%d&page=%d",
		c.baseUrl(), url.QueryEscape(c.Config.GithubApi.SearchQuery), perPage, page)

	var raw SearchUsersResponse
	if err := c.getJSON(ctx, fullUrl, fmt.Sprintf("search page %d", page), &raw); err != nil {
		return nil, err
	}
	return raw.Items, nil
}

func (c *Caller) UserDetail(ctx context.Context, login string) (*UserDetailResponse, error) {
	fullUrl := fmt.Sprintf("%s/users/%s", c.baseUrl(), url.PathEscape(login))

	var detail UserDetailResponse
	if err := c.getJSON(ctx, fullUrl, "user detail "+login, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// UserRepos lists one page of repositories the user owns, most recently
// updated first.
func (c *Caller) UserRepos(ctx context.Context, login string, page int) ([]RepoResponse, error) {
	fullUrl := fmt.Sprintf("%s/users/%s/repos?type=owner&per_page=%d&sort=updated&page=%d",
		c.baseUrl(), url.PathEscape(login), ReposPerPage, page)

	var repos []RepoResponse
	if err := c.getJSON(ctx, fullUrl, fmt.Sprintf("repos %s page %d", login, page), &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// PublicEvents returns the user's public events, newest first.
func (c *Caller) PublicEvents(ctx context.Context, login string) ([]EventResponse, error) {
	fullUrl := fmt.Sprintf("%s/users/%s/events/public", c.baseUrl(), url.PathEscape(login))

	var events []EventResponse
	if err := c.getJSON(ctx, fullUrl, "events "+login, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// UserRepositoriesGraph fetches one page of owned public repositories with
// language sizes. after is empty for the first page. Every failure wraps
// ErrGraphQuery.
func (c *Caller) UserRepositoriesGraph(ctx context.Context, login string, first int, after string) (*RepositoryConnection, error) {
	variables := map[string]interface{}{
		"login": login,
		"first": first,
		"after": nil,
	}
	if after != "" {
		variables["after"] = after
	}

	var data repositoriesData
	if err := c.graphql(ctx, repositoriesQuery, variables, "repositories "+login, &data); err != nil {
		return nil, err
	}
	if data.User == nil || data.User.Repositories == nil {
		return &RepositoryConnection{}, nil
	}
	return data.User.Repositories, nil
}

// Sponsorship returns sponsor and sponsoring counts. Both are unavailable
// without a credential or when the query fails.
func (c *Caller) Sponsorship(ctx context.Context, login string) (model.Maybe[int], model.Maybe[int]) {
	if !c.HasToken() {
		return model.NA[int](), model.NA[int]()
	}

	var data sponsorshipData
	err := c.graphql(ctx, sponsorshipQuery, map[string]interface{}{"login": login}, "sponsorship "+login, &data)
	if err != nil {
		c.Logger.Warn(ctx, "Failed to fetch sponsorship for %s: %v", login, err)
		return model.NA[int](), model.NA[int]()
	}
	if data.User == nil {
		return model.NA[int](), model.NA[int]()
	}

	sponsors, sponsoring := model.NA[int](), model.NA[int]()
	if data.User.Sponsors != nil {
		sponsors = model.FromPtr(data.User.Sponsors.TotalCount)
	}
	if data.User.Sponsoring != nil {
		sponsoring = model.FromPtr(data.User.Sponsoring.TotalCount)
	}
	return sponsors, sponsoring
}

func (c *Caller) getJSON(ctx context.Context, fullUrl, label string, v interface{}) error {
	outcome := c.Transport.Execute(ctx, Request{Method: http.MethodGet, URL: fullUrl, Label: label})
	if err := outcome.Error(); err != nil {
		return err
	}
	if err := json.Unmarshal(outcome.Body, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, label, err)
	}
	return nil
}

func (c *Caller) graphql(ctx context.Context, query string, variables map[string]interface{}, label string, v interface{}) error {
	if !c.HasToken() {
		return fmt.Errorf("%w: %s: no credential configured", ErrGraphQuery, label)
	}

	outcome := c.Transport.Execute(ctx, Request{
		Method: http.MethodPost,
		URL:    c.Config.GithubApi.GraphqlUrl,
		Body:   graphRequest{Query: query, Variables: variables},
		Label:  "graphql " + label,
	})
	if err := outcome.Error(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrGraphQuery, label, err)
	}

	var raw graphResponse
	if err := json.Unmarshal(outcome.Body, &raw); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrGraphQuery, label, errors.Join(ErrDecode, err))
	}
	if len(raw.Errors) > 0 {
		messages := make([]string, 0, len(raw.Errors))
		for _, e := range raw.Errors {
			messages = append(messages, e.Message)
		}
		return fmt.Errorf("%w: %s: %s", ErrGraphQuery, label, strings.Join(messages, "; "))
	}
	if len(raw.Data) == 0 || string(raw.Data) == "null" {
		return fmt.Errorf("%w: %s: empty data", ErrGraphQuery, label)
	}
	if err := json.Unmarshal(raw.Data, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrGraphQuery, label, errors.Join(ErrDecode, err))
	}
	return nil
}

func (c *Caller) baseUrl() string {
	return strings.TrimSuffix(c.Config.GithubApi.BaseUrl, "/")
}
