// Package trending derives follower growth by comparing the current follower
// count with the snapshot stored by the previous run. Growth is recomputed
// at most once per Window so the displayed trend stays stable between runs.
package trending

import (
	"math"
	"time"

	"github.com/thep200/github-user-crawler/internal/model"
)

// Window is the minimum time between two growth computations for a user.
const Window = 7 * 24 * time.Hour

// Trend is what gets written into the record's followers_* fields.
type Trend struct {
	Previous   *int
	GrowthPct  *float64
	SnapshotAt int64
}

// Compute is pure: the result depends only on its arguments.
func Compute(current model.Maybe[int], previous *model.Snapshot, now time.Time) Trend {
	nowUnix := now.Unix()

	// Nothing usable to compare with: start tracking from now
	if !previous.Usable() {
		return Trend{SnapshotAt: nowUnix}
	}

	prevFollowers := previous.Followers.Value
	prevAt := *previous.SnapshotAt

	// Inside the window the stored trend is carried over untouched
	if nowUnix-prevAt < int64(Window/time.Second) {
		return Trend{
			Previous:   intPtr(prevFollowers),
			GrowthPct:  copyFloat(previous.GrowthPct),
			SnapshotAt: prevAt,
		}
	}

	// Window elapsed but there is no ratio to compute
	if !current.Valid || prevFollowers <= 0 {
		return Trend{
			Previous:   intPtr(prevFollowers),
			SnapshotAt: nowUnix,
		}
	}

	// halves round to even, as the snapshots written so far were
	growth := float64(current.Value-prevFollowers) * 100 / float64(prevFollowers)
	growth = math.RoundToEven(growth*100) / 100
	return Trend{
		Previous:   intPtr(prevFollowers),
		GrowthPct:  &growth,
		SnapshotAt: nowUnix,
	}
}

// Apply writes the trend into d.
func (t Trend) Apply(d *model.Details) {
	d.FollowersPrevious = t.Previous
	d.FollowersGrowthPct = t.GrowthPct
	d.FollowersSnapshotAt = t.SnapshotAt
}

func intPtr(v int) *int {
	return &v
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
