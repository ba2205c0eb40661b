// Crawler
// Searches the top users, then enriches each one with profile details,
// sponsorship, follower trend, repository summary and last public activity.
// Candidates are enriched one at a time unless Crawler.Workers is above 1;
// workers share the transport so the rate-limit budget stays global.

package crawler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/thep200/github-user-crawler/cfg"
	crawlinfo "github.com/thep200/github-user-crawler/internal/crawl_info"
	"github.com/thep200/github-user-crawler/internal/limiter"
	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/internal/trending"
	"github.com/thep200/github-user-crawler/pkg/log"
)

var ErrNoCandidates = errors.New("search returned no candidates")

type Crawler struct {
	Logger     log.Logger
	Config     *cfg.Config
	API        GithubAPI
	Pager      *SearchPager
	Summarizer *RepoSummarizer
	sleeper    limiter.Sleeper
	now        func() time.Time
}

type Option func(*Crawler)

// WithSleeper replaces the pacing delay implementation.
func WithSleeper(s limiter.Sleeper) Option {
	return func(c *Crawler) { c.sleeper = s }
}

func WithClock(now func() time.Time) Option {
	return func(c *Crawler) { c.now = now }
}

func NewCrawler(logger log.Logger, config *cfg.Config, api GithubAPI, opts ...Option) *Crawler {
	c := &Crawler{
		Logger:     logger,
		Config:     config,
		API:        api,
		Pager:      NewSearchPager(logger, api, config.Crawler.ExtraPages),
		Summarizer: NewRepoSummarizer(logger, api, config.Crawler.MaxRepos),
		sleeper:    limiter.NewTimerSleeper(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Crawl runs the whole pipeline. The only error is ErrNoCandidates; every
// other failure is contained to the user or sub-fetch it happened in.
func (c *Crawler) Crawl(ctx context.Context, previous model.SnapshotIndex) ([]model.UserRecord, *crawlinfo.Info, error) {
	target := c.Config.Crawler.TargetUsers
	info := crawlinfo.New(c.Config.App.Name, target, c.now())

	c.Logger.Info(ctx, "Searching for top %d users", target)
	candidates := c.Pager.Collect(ctx, target)
	info.Candidates = len(candidates)
	if len(candidates) == 0 {
		info.Finish(c.now())
		c.Logger.Error(ctx, "No users found, nothing to enrich")
		return nil, info, ErrNoCandidates
	}
	c.Logger.Info(ctx, "Collected %d users, enriching", len(candidates))

	records := c.Enrich(ctx, candidates, previous, info)

	info.Finish(c.now())
	c.Logger.Info(ctx, "Crawl finished: %s", info)
	return records, info, nil
}

// Enrich returns one record per candidate in input order.
func (c *Crawler) Enrich(ctx context.Context, candidates []model.Candidate, previous model.SnapshotIndex, info *crawlinfo.Info) []model.UserRecord {
	records := make([]model.UserRecord, len(candidates))
	workers := c.Config.Crawler.Workers

	if workers <= 1 {
		for i, candidate := range candidates {
			records[i] = c.enrichOne(ctx, i, len(candidates), candidate, previous, info)
		}
		return records
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, candidate := range candidates {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, candidate model.Candidate) {
			defer func() {
				<-sem
				wg.Done()
			}()
			records[i] = c.enrichOne(ctx, i, len(candidates), candidate, previous, info)
		}(i, candidate)
	}
	wg.Wait()
	return records
}

func (c *Crawler) enrichOne(ctx context.Context, idx, total int, candidate model.Candidate, previous model.SnapshotIndex, info *crawlinfo.Info) model.UserRecord {
	record := model.UserRecord{Candidate: candidate}
	if ctx.Err() != nil {
		info.AddSkipped()
		return record
	}

	detail, err := c.API.UserDetail(ctx, candidate.Login)
	if err != nil {
		c.Logger.Warn(ctx, "[%d/%d] Skipping %s: %v", idx+1, total, candidate.Login, err)
		info.AddSkipped()
		return record
	}

	details := detailsFromResponse(detail)
	details.SponsorsCount, details.SponsoringCount = c.API.Sponsorship(ctx, candidate.Login)

	trending.Compute(details.Followers, previous.Lookup(candidate.Login), c.now()).Apply(details)

	summary := c.Summarizer.Summarize(ctx, candidate.Login)
	info.AddSummary(summary.Languages.Unit == model.UnitBytes)
	details.TopLanguages = summary.Languages.Top(c.Config.Crawler.TopLanguages)
	details.LanguageUnit = summary.Languages.Unit
	details.TotalStars = summary.TotalStars
	details.LastRepoPushedAt = summary.LastRepoPushedAt

	details.LastPublicCommitAt = LastPublicActivity(ctx, c.Logger, c.API, candidate.Login)

	record.Details = details
	info.AddEnriched()
	c.Logger.Info(ctx, "[%d/%d - %.1f%%] %s: %d repos, %d stars",
		idx+1, total, percent(idx+1, total), candidate.Login, summary.ReposExamined, summary.TotalStars)

	c.pace(ctx)
	return record
}

func (c *Crawler) pace(ctx context.Context) {
	delay := time.Duration(c.Config.Crawler.PaceMs) * time.Millisecond
	if delay <= 0 {
		return
	}
	if err := c.sleeper.Sleep(ctx, delay); err != nil {
		c.Logger.Debug(ctx, "Pacing interrupted: %v", err)
	}
}
