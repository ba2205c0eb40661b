package crawler

import (
	githubapi "github.com/thep200/github-user-crawler/internal/github_api"
	"github.com/thep200/github-user-crawler/internal/model"
)

// pageBound is how many search pages may be requested for target users.
// The extra pages make up for results filtered out by type.
func pageBound(target, perPage, extraPages int) int {
	if target <= 0 || perPage <= 0 {
		return 0
	}
	return (target+perPage-1)/perPage + extraPages
}

func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func detailsFromResponse(detail *githubapi.UserDetailResponse) *model.Details {
	return &model.Details{
		Followers:       model.FromPtr(detail.Followers),
		Following:       model.FromPtr(detail.Following),
		Location:        detail.Location,
		Name:            detail.Name,
		PublicRepos:     model.FromPtr(detail.PublicRepos),
		PublicGists:     model.FromPtr(detail.PublicGists),
		SponsorsCount:   model.NA[int](),
		SponsoringCount: model.NA[int](),
		AvatarUpdatedAt: detail.UpdatedAt,
	}
}
