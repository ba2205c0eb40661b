// Response shapes of the GitHub REST and GraphQL endpoints the crawler uses.
// Only the fields we read are mapped.

package githubapi

import "encoding/json"

type SearchUsersResponse struct {
	TotalCount        int              `json:"total_count"`
	IncompleteResults bool             `json:"incomplete_results"`
	Items             []SearchUserItem `json:"items"`
}

type SearchUserItem struct {
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

type UserDetailResponse struct {
	Login       string  `json:"login"`
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Followers   *int    `json:"followers"`
	Following   *int    `json:"following"`
	PublicRepos *int    `json:"public_repos"`
	PublicGists *int    `json:"public_gists"`
	UpdatedAt   string  `json:"updated_at"`
}

type RepoResponse struct {
	Name            string  `json:"name"`
	FullName        string  `json:"full_name"`
	Private         bool    `json:"private"`
	Fork            bool    `json:"fork"`
	StargazersCount int     `json:"stargazers_count"`
	Language        *string `json:"language"`
	PushedAt        *string `json:"pushed_at"`
}

type EventResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
}

// GraphQL

type graphRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphError    `json:"errors"`
}

type graphError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type PageInfo struct {
	HasNextPage bool    `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

type LanguageEdge struct {
	Size int64 `json:"size"`
	Node struct {
		Name string `json:"name"`
	} `json:"node"`
}

type RepositoryNode struct {
	StargazerCount int     `json:"stargazerCount"`
	PushedAt       *string `json:"pushedAt"`
	IsFork         bool    `json:"isFork"`
	Languages      *struct {
		Edges []LanguageEdge `json:"edges"`
	} `json:"languages"`
}

type RepositoryConnection struct {
	PageInfo PageInfo         `json:"pageInfo"`
	Nodes    []RepositoryNode `json:"nodes"`
}

type repositoriesData struct {
	User *struct {
		Repositories *RepositoryConnection `json:"repositories"`
	} `json:"user"`
}

type sponsorshipData struct {
	User *struct {
		Sponsors *struct {
			TotalCount *int `json:"totalCount"`
		} `json:"sponsors"`
		Sponsoring *struct {
			TotalCount *int `json:"totalCount"`
		} `json:"sponsoring"`
	} `json:"user"`
}

const repositoriesQuery = `
query($login: String!, $first: Int!, $after: String) {
  user(login: $login) {
    repositories(first: $first, after: $after, privacy: PUBLIC, ownerAffiliations: OWNER, orderBy: {field: UPDATED_AT, direction: DESC}) {
      pageInfo { hasNextPage endCursor }
      nodes {
        stargazerCount
        pushedAt
        isFork
        languages(first: 10, orderBy: {field: SIZE, direction: DESC}) {
          edges { size node { name } }
        }
      }
    }
  }
}`

const sponsorshipQuery = `
query($login: String!) {
  user(login: $login) {
    sponsors(first: 0) { totalCount }
    sponsoring(first: 0) { totalCount }
  }
}`
