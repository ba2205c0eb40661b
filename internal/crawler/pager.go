package crawler

import (
	"context"

	githubapi "github.com/thep200/github-user-crawler/internal/github_api"
	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/pkg/log"
)

const accountType = "User"

// SearchPager walks the user search page by page until it has enough
// candidates or runs out of pages.
type SearchPager struct {
	Logger     log.Logger
	API        SearchAPI
	PerPage    int
	ExtraPages int
}

func NewSearchPager(logger log.Logger, api SearchAPI, extraPages int) *SearchPager {
	return &SearchPager{
		Logger:     logger,
		API:        api,
		PerPage:    githubapi.SearchPerPage,
		ExtraPages: extraPages,
	}
}

// Collect returns at most target candidates in search order. It stops at the
// target or the page bound. A page that fails after all retries, or comes
// back empty, contributes nothing and paging continues.
func (p *SearchPager) Collect(ctx context.Context, target int) []model.Candidate {
	maxPages := pageBound(target, p.PerPage, p.ExtraPages)
	candidates := make([]model.Candidate, 0, target)

	for page := 1; page <= maxPages; page++ {
		if ctx.Err() != nil {
			p.Logger.Warn(ctx, "Search stopped before page %d: %v", page, ctx.Err())
			break
		}

		items, err := p.API.SearchUsers(ctx, page, p.PerPage)
		if err != nil {
			p.Logger.Error(ctx, "Failed to fetch page %d: %v", page, err)
			continue
		}

		accepted := 0
		for _, item := range items {
			if item.Type != accountType {
				continue
			}
			candidates = append(candidates, candidateFromItem(item))
			accepted++
		}

		p.Logger.Info(ctx, "Page %d: %d users | Total: %d/%d (%.1f%%)",
			page, accepted, len(candidates), target, percent(len(candidates), target))

		if len(candidates) >= target {
			return candidates[:target]
		}
	}

	return candidates
}

func candidateFromItem(item githubapi.SearchUserItem) model.Candidate {
	return model.Candidate{
		Login:      item.Login,
		ID:         item.ID,
		NodeID:     item.NodeID,
		AvatarURL:  item.AvatarURL,
		GravatarID: item.GravatarID,
		URL:        item.URL,
		HTMLURL:    item.HTMLURL,
		Type:       item.Type,
		SiteAdmin:  item.SiteAdmin,
		Score:      item.Score,
	}
}
