// Package crawlinfo holds the counters of one crawl run.
package crawlinfo

import (
	"fmt"
	"sync/atomic"
	"time"
)

type Info struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Target     int   `json:"target"`
	Candidates int   `json:"candidates"`
	Enriched   int32 `json:"enriched"`
	Skipped    int32 `json:"skipped"`
	GraphRepos int32 `json:"graph_summaries"`
	RestRepos  int32 `json:"rest_summaries"`
}

func New(name string, target int, now time.Time) *Info {
	return &Info{
		ID:        fmt.Sprintf("%s-%d", name, now.Unix()),
		Name:      name,
		StartedAt: now,
		Target:    target,
	}
}

func (i *Info) AddEnriched() { atomic.AddInt32(&i.Enriched, 1) }

func (i *Info) AddSkipped() { atomic.AddInt32(&i.Skipped, 1) }

func (i *Info) AddSummary(graph bool) {
	if graph {
		atomic.AddInt32(&i.GraphRepos, 1)
		return
	}
	atomic.AddInt32(&i.RestRepos, 1)
}

func (i *Info) Finish(now time.Time) {
	i.FinishedAt = now
}

func (i *Info) Duration() time.Duration {
	if i.FinishedAt.IsZero() {
		return 0
	}
	return i.FinishedAt.Sub(i.StartedAt)
}

func (i *Info) String() string {
	return fmt.Sprintf("%s: %d/%d candidates, %d enriched, %d skipped, summaries graph=%d rest=%d, took %s",
		i.Name, i.Candidates, i.Target,
		atomic.LoadInt32(&i.Enriched), atomic.LoadInt32(&i.Skipped),
		atomic.LoadInt32(&i.GraphRepos), atomic.LoadInt32(&i.RestRepos),
		i.Duration().Round(time.Second))
}
