package crawler

import (
	"context"

	githubapi "github.com/thep200/github-user-crawler/internal/github_api"
	"github.com/thep200/github-user-crawler/internal/model"
)

// The crawler only needs these calls; *githubapi.Caller implements all of them.

type SearchAPI interface {
	SearchUsers(ctx context.Context, page, perPage int) ([]githubapi.SearchUserItem, error)
}

type RepoAPI interface {
	HasToken() bool
	UserRepositoriesGraph(ctx context.Context, login string, first int, after string) (*githubapi.RepositoryConnection, error)
	UserRepos(ctx context.Context, login string, page int) ([]githubapi.RepoResponse, error)
}

type UserAPI interface {
	UserDetail(ctx context.Context, login string) (*githubapi.UserDetailResponse, error)
	Sponsorship(ctx context.Context, login string) (model.Maybe[int], model.Maybe[int])
	PublicEvents(ctx context.Context, login string) ([]githubapi.EventResponse, error)
}

type GithubAPI interface {
	SearchAPI
	RepoAPI
	UserAPI
}
