// Repository summary
// Stars, languages and latest push over a user's owned public repositories.
// GraphQL gives language bytes; on any failure the REST listing is used instead
// and languages are counted per repository.

package crawler

import (
	"context"
	"errors"

	githubapi "github.com/thep200/github-user-crawler/internal/github_api"
	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/pkg/log"
)

const (
	DefaultMaxRepos = 200
	graphPageSize   = 50
)

type RepoSummarizer struct {
	Logger   log.Logger
	API      RepoAPI
	MaxRepos int
}

func NewRepoSummarizer(logger log.Logger, api RepoAPI, maxRepos int) *RepoSummarizer {
	if maxRepos <= 0 {
		maxRepos = DefaultMaxRepos
	}
	return &RepoSummarizer{Logger: logger, API: api, MaxRepos: maxRepos}
}

// Summarize never fails: a summary built from whatever could be read is
// always returned. Graph and REST results are never merged for one user.
func (s *RepoSummarizer) Summarize(ctx context.Context, login string) model.RepoSummary {
	if s.API.HasToken() {
		summary, err := s.summarizeGraph(ctx, login)
		if err == nil {
			return summary
		}
		s.Logger.Warn(ctx, "GraphQL repositories failed for %s, falling back to REST: %v", login, err)
	}
	return s.summarizeRest(ctx, login)
}

func (s *RepoSummarizer) summarizeGraph(ctx context.Context, login string) (model.RepoSummary, error) {
	summary := newSummary(model.UnitBytes)
	after := ""
	fetched := 0

	for fetched < s.MaxRepos {
		first := min(graphPageSize, s.MaxRepos-fetched)
		conn, err := s.API.UserRepositoriesGraph(ctx, login, first, after)
		if err != nil {
			return model.RepoSummary{}, err
		}

		for _, node := range conn.Nodes {
			summary.TotalStars += node.StargazerCount
			trackPushed(&summary, node.PushedAt)
			if node.Languages != nil {
				for i, edge := range node.Languages.Edges {
					if i >= 10 {
						break
					}
					summary.Languages.Add(edge.Node.Name, edge.Size)
				}
			}
			summary.ReposExamined++
		}
		fetched += len(conn.Nodes)

		if !conn.PageInfo.HasNextPage || conn.PageInfo.EndCursor == nil || len(conn.Nodes) == 0 {
			break
		}
		after = *conn.PageInfo.EndCursor
	}

	return summary, nil
}

func (s *RepoSummarizer) summarizeRest(ctx context.Context, login string) model.RepoSummary {
	summary := newSummary(model.UnitRepos)
	examined := 0

	for page := 1; examined < s.MaxRepos; page++ {
		repos, err := s.API.UserRepos(ctx, login, page)
		if err != nil {
			if !errors.Is(err, githubapi.ErrNotFound) {
				s.Logger.Warn(ctx, "Repositories page %d failed for %s: %v", page, login, err)
			}
			break
		}
		if len(repos) == 0 {
			break
		}

		for _, repo := range repos {
			if examined >= s.MaxRepos {
				break
			}
			if repo.Private {
				continue
			}
			examined++
			summary.TotalStars += repo.StargazersCount
			trackPushed(&summary, repo.PushedAt)
			if repo.Language != nil {
				summary.Languages.Add(*repo.Language, 1)
			}
			summary.ReposExamined++
		}
	}

	return summary
}

func newSummary(unit model.LanguageUnit) model.RepoSummary {
	return model.RepoSummary{Languages: model.NewLanguageTotals(unit)}
}

// ISO-8601 timestamps in the same zone compare correctly as strings.
func trackPushed(summary *model.RepoSummary, pushedAt *string) {
	if pushedAt != nil && *pushedAt > summary.LastRepoPushedAt {
		summary.LastRepoPushedAt = *pushedAt
	}
}
