package model

// Candidate is one account returned by the user search. Fields mirror the
// search item; it is never modified after the search phase.
type Candidate struct {
	Login      string  `json:"login"`
	ID         int64   `json:"id"`
	NodeID     string  `json:"node_id"`
	AvatarURL  string  `json:"avatar_url"`
	GravatarID string  `json:"gravatar_id"`
	URL        string  `json:"url"`
	HTMLURL    string  `json:"html_url"`
	Type       string  `json:"type"`
	SiteAdmin  bool    `json:"site_admin"`
	Score      float64 `json:"score"`
}

// Details is everything the enrichment step adds. A nil *Details on a
// UserRecord means the user detail fetch failed and nothing was added.
type Details struct {
	Followers       Maybe[int] `json:"followers"`
	Following       Maybe[int] `json:"following"`
	Location        *string    `json:"location"`
	Name            *string    `json:"name"`
	PublicRepos     Maybe[int] `json:"public_repos"`
	PublicGists     Maybe[int] `json:"public_gists"`
	SponsorsCount   Maybe[int] `json:"sponsors_count"`
	SponsoringCount Maybe[int] `json:"sponsoring_count"`
	AvatarUpdatedAt string     `json:"avatar_updated_at"`

	FollowersPrevious   *int     `json:"followers_previous"`
	FollowersGrowthPct  *float64 `json:"followers_growth_pct"`
	FollowersSnapshotAt int64    `json:"followers_snapshot_at"`

	TopLanguages       []TopLanguage `json:"top_languages"`
	LanguageUnit       LanguageUnit  `json:"language_unit"`
	TotalStars         int           `json:"total_stars"`
	LastRepoPushedAt   string        `json:"last_repo_pushed_at"`
	LastPublicCommitAt string        `json:"last_public_commit_at"`
}

// UserRecord is the unit written to output: the candidate plus, when the
// detail fetch succeeded, its details.
type UserRecord struct {
	Candidate
	*Details
}

func (r *UserRecord) Enriched() bool {
	return r.Details != nil
}

// Snapshot is the slice of a previous run's record the trending calculation
// needs. Its tags match UserRecord so old output decodes straight into it.
type Snapshot struct {
	Login      string     `json:"login"`
	Followers  Maybe[int] `json:"followers"`
	GrowthPct  *float64   `json:"followers_growth_pct"`
	SnapshotAt *int64     `json:"followers_snapshot_at"`
}

func (s *Snapshot) Usable() bool {
	return s != nil && s.Followers.Valid && s.SnapshotAt != nil
}

// SnapshotIndex holds the previous run's snapshots keyed by LoginKey.
type SnapshotIndex map[string]Snapshot

func NewSnapshotIndex(snapshots []Snapshot) SnapshotIndex {
	index := make(SnapshotIndex, len(snapshots))
	for _, s := range snapshots {
		if s.Login == "" {
			continue
		}
		index[LoginKey(s.Login)] = s
	}
	return index
}

// Lookup returns nil when the login has no previous snapshot.
func (idx SnapshotIndex) Lookup(login string) *Snapshot {
	s, ok := idx[LoginKey(login)]
	if !ok {
		return nil
	}
	return &s
}
