package crawler

import (
	"context"
	"fmt"
	"sync"

	"github.com/thep200/github-user-crawler/cfg"
	crawlinfo "github.com/thep200/github-user-crawler/internal/crawl_info"
	githubapi "github.com/thep200/github-user-crawler/internal/github_api"
	"github.com/thep200/github-user-crawler/internal/model"
)

type fakeAPI struct {
	mu sync.Mutex

	token bool

	// search pages by number; a missing page returns empty
	pages      map[int][]githubapi.SearchUserItem
	pageErrors map[int]error
	searchCall []int

	details     map[string]*githubapi.UserDetailResponse
	detailCalls map[string]int

	graphPages []*githubapi.RepositoryConnection
	graphErr   error
	graphFirst []int
	graphAfter []string

	restPages [][]githubapi.RepoResponse
	restErr   error
	restCalls int

	events    map[string][]githubapi.EventResponse
	eventsErr error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		pages:       map[int][]githubapi.SearchUserItem{},
		pageErrors:  map[int]error{},
		details:     map[string]*githubapi.UserDetailResponse{},
		detailCalls: map[string]int{},
		events:      map[string][]githubapi.EventResponse{},
	}
}

func (f *fakeAPI) HasToken() bool { return f.token }

func (f *fakeAPI) SearchUsers(_ context.Context, page, _ int) ([]githubapi.SearchUserItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCall = append(f.searchCall, page)
	if err := f.pageErrors[page]; err != nil {
		return nil, err
	}
	return f.pages[page], nil
}

func (f *fakeAPI) UserDetail(_ context.Context, login string) (*githubapi.UserDetailResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls[login]++
	d, ok := f.details[login]
	if !ok {
		return nil, githubapi.ErrNotFound
	}
	return d, nil
}

func (f *fakeAPI) Sponsorship(_ context.Context, _ string) (model.Maybe[int], model.Maybe[int]) {
	if !f.token {
		return model.NA[int](), model.NA[int]()
	}
	return model.Some(3), model.Some(1)
}

func (f *fakeAPI) PublicEvents(_ context.Context, login string) ([]githubapi.EventResponse, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return f.events[login], nil
}

func (f *fakeAPI) UserRepositoriesGraph(_ context.Context, _ string, first int, after string) (*githubapi.RepositoryConnection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.graphFirst = append(f.graphFirst, first)
	f.graphAfter = append(f.graphAfter, after)
	idx := len(f.graphFirst) - 1
	if f.graphErr != nil && idx >= len(f.graphPages) {
		return nil, f.graphErr
	}
	if idx >= len(f.graphPages) {
		return &githubapi.RepositoryConnection{}, nil
	}
	return f.graphPages[idx], nil
}

func (f *fakeAPI) UserRepos(_ context.Context, _ string, page int) ([]githubapi.RepoResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restCalls++
	if page-1 < len(f.restPages) {
		return f.restPages[page-1], nil
	}
	if f.restErr != nil {
		return nil, f.restErr
	}
	return nil, nil
}

func userItems(prefix string, n int) []githubapi.SearchUserItem {
	items := make([]githubapi.SearchUserItem, n)
	for i := range items {
		items[i] = githubapi.SearchUserItem{Login: fmt.Sprintf("%s%d", prefix, i), Type: "User"}
	}
	return items
}

func graphNode(stars int, pushed string, langs map[string]int64, order ...string) githubapi.RepositoryNode {
	node := githubapi.RepositoryNode{StargazerCount: stars}
	if pushed != "" {
		node.PushedAt = strPtr(pushed)
	}
	node.Languages = &struct {
		Edges []githubapi.LanguageEdge `json:"edges"`
	}{}
	for _, name := range order {
		edge := githubapi.LanguageEdge{Size: langs[name]}
		edge.Node.Name = name
		node.Languages.Edges = append(node.Languages.Edges, edge)
	}
	return node
}

func testConfig() *cfg.Config {
	config := &cfg.Config{}
	config.App.Name = "test"
	config.Crawler.TargetUsers = 3
	config.Crawler.ExtraPages = 2
	config.Crawler.MaxRepos = 200
	config.Crawler.TopLanguages = 5
	config.Crawler.PaceMs = 150
	config.Crawler.Workers = 1
	return config
}

func strPtr(s string) *string { return &s }

func intPtr(v int) *int { return &v }

func newInfo() *crawlinfo.Info {
	return crawlinfo.New("test", 0, fixedNow)
}
