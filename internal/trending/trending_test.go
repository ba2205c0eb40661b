package trending

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thep200/github-user-crawler/internal/model"
)

var now = time.Unix(1_760_000_000, 0)

func snapshot(followers int, age time.Duration, growth *float64) *model.Snapshot {
	at := now.Add(-age).Unix()
	return &model.Snapshot{
		Login:      "octocat",
		Followers:  model.Some(followers),
		GrowthPct:  growth,
		SnapshotAt: &at,
	}
}

func TestComputeWithoutPrevious(t *testing.T) {
	got := Compute(model.Some(10), nil, now)
	assert.Nil(t, got.Previous)
	assert.Nil(t, got.GrowthPct)
	assert.Equal(t, now.Unix(), got.SnapshotAt)
}

func TestComputeWithIncompletePrevious(t *testing.T) {
	noTime := &model.Snapshot{Login: "octocat", Followers: model.Some(100)}
	noFollowers := snapshot(0, 10*24*time.Hour, nil)
	noFollowers.Followers = model.NA[int]()

	for _, prev := range []*model.Snapshot{noTime, noFollowers} {
		got := Compute(model.Some(150), prev, now)
		assert.Nil(t, got.Previous)
		assert.Nil(t, got.GrowthPct)
		assert.Equal(t, now.Unix(), got.SnapshotAt)
	}
}

func TestComputeWithinWindowKeepsPrevious(t *testing.T) {
	growth := 3.25
	prev := snapshot(100, 1000*time.Second, &growth)

	got := Compute(model.Some(9999), prev, now)
	require.NotNil(t, got.Previous)
	assert.Equal(t, 100, *got.Previous)
	require.NotNil(t, got.GrowthPct)
	assert.Equal(t, 3.25, *got.GrowthPct)
	assert.Equal(t, *prev.SnapshotAt, got.SnapshotAt)

	// Same inputs, same answer
	assert.Equal(t, got, Compute(model.Some(9999), prev, now))
}

func TestComputeWithinWindowIgnoresCurrentValidity(t *testing.T) {
	prev := snapshot(0, time.Hour, nil)
	got := Compute(model.NA[int](), prev, now)
	require.NotNil(t, got.Previous)
	assert.Equal(t, 0, *got.Previous)
	assert.Nil(t, got.GrowthPct)
	assert.Equal(t, *prev.SnapshotAt, got.SnapshotAt)
}

func TestComputeAfterWindow(t *testing.T) {
	prev := snapshot(100, 800000*time.Second, nil)

	got := Compute(model.Some(150), prev, now)
	require.NotNil(t, got.Previous)
	assert.Equal(t, 100, *got.Previous)
	require.NotNil(t, got.GrowthPct)
	assert.Equal(t, 50.0, *got.GrowthPct)
	assert.Equal(t, now.Unix(), got.SnapshotAt)
}

func TestComputeRoundsToTwoPlaces(t *testing.T) {
	prev := snapshot(3, Window, nil)
	got := Compute(model.Some(4), prev, now)
	require.NotNil(t, got.GrowthPct)
	assert.Equal(t, 33.33, *got.GrowthPct)

	shrink := Compute(model.Some(1), prev, now)
	require.NotNil(t, shrink.GrowthPct)
	assert.Equal(t, -66.67, *shrink.GrowthPct)
}

func TestComputeRoundsHalvesToEven(t *testing.T) {
	prev := snapshot(800, Window, nil)

	down := Compute(model.Some(801), prev, now)
	require.NotNil(t, down.GrowthPct)
	assert.Equal(t, 0.12, *down.GrowthPct)

	up := Compute(model.Some(803), prev, now)
	require.NotNil(t, up.GrowthPct)
	assert.Equal(t, 0.38, *up.GrowthPct)
}

func TestComputeNeverDividesByNonPositiveBase(t *testing.T) {
	for _, base := range []int{0, -5} {
		got := Compute(model.Some(10), snapshot(base, 2*Window, nil), now)
		require.NotNil(t, got.Previous)
		assert.Equal(t, base, *got.Previous)
		assert.Nil(t, got.GrowthPct)
		assert.Equal(t, now.Unix(), got.SnapshotAt)
	}
}

func TestComputeInvalidCurrentAfterWindow(t *testing.T) {
	got := Compute(model.NA[int](), snapshot(100, 2*Window, nil), now)
	require.NotNil(t, got.Previous)
	assert.Nil(t, got.GrowthPct)
	assert.Equal(t, now.Unix(), got.SnapshotAt)
}

func TestSnapshotTimeNeverMovesBackwards(t *testing.T) {
	future := now.Add(time.Hour).Unix()
	prev := &model.Snapshot{Followers: model.Some(5), SnapshotAt: &future}
	got := Compute(model.Some(6), prev, now)
	assert.GreaterOrEqual(t, got.SnapshotAt, *prev.SnapshotAt)
}

func TestApply(t *testing.T) {
	d := &model.Details{}
	growth := 1.5
	prev := 7
	Trend{Previous: &prev, GrowthPct: &growth, SnapshotAt: 42}.Apply(d)
	assert.Equal(t, 7, *d.FollowersPrevious)
	assert.Equal(t, 1.5, *d.FollowersGrowthPct)
	assert.Equal(t, int64(42), d.FollowersSnapshotAt)
}
