package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnenrichedRecordHasOnlyCandidateFields(t *testing.T) {
	r := UserRecord{Candidate: Candidate{Login: "ghost", ID: 1, AvatarURL: "https://a/1", Type: "User"}}
	out, err := json.Marshal(r)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(out, &fields))
	assert.Equal(t, "ghost", fields["login"])
	for _, key := range []string{"followers", "top_languages", "followers_snapshot_at", "total_stars"} {
		assert.NotContains(t, fields, key)
	}
	assert.False(t, r.Enriched())
}

func TestEnrichedRecordMarksUnavailable(t *testing.T) {
	r := UserRecord{
		Candidate: Candidate{Login: "octocat"},
		Details: &Details{
			Followers:       Some(10),
			Following:       Some(0),
			SponsorsCount:   NA[int](),
			SponsoringCount: NA[int](),
		},
	}
	out, err := json.Marshal(r)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(out, &fields))
	assert.Equal(t, float64(10), fields["followers"])
	assert.Equal(t, float64(0), fields["following"])
	assert.Equal(t, "N/A", fields["sponsors_count"])
	assert.Contains(t, fields, "followers_previous")
	assert.Nil(t, fields["followers_previous"])
}

func TestRecordDecodesIntoSnapshot(t *testing.T) {
	raw := `{"login":"Octocat","followers":100,"followers_growth_pct":2.5,"followers_snapshot_at":1700000000}`
	var s Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	assert.True(t, s.Usable())
	assert.Equal(t, Some(100), s.Followers)
	require.NotNil(t, s.GrowthPct)
	assert.Equal(t, 2.5, *s.GrowthPct)

	var partial Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"login":"x","followers":"N/A","followers_snapshot_at":1}`), &partial))
	assert.False(t, partial.Usable())
}

func TestUserRowKeepsRecord(t *testing.T) {
	name := "The Octocat"
	growth := 12.5
	prev := 80
	r := UserRecord{
		Candidate: Candidate{Login: "octocat", ID: 583231, Type: "User"},
		Details: &Details{
			Followers:           Some(90),
			Following:           Some(9),
			Name:                &name,
			PublicRepos:         Some(8),
			PublicGists:         NA[int](),
			SponsorsCount:       NA[int](),
			SponsoringCount:     Some(1),
			FollowersPrevious:   &prev,
			FollowersGrowthPct:  &growth,
			FollowersSnapshotAt: 1700000000,
			TopLanguages:        []TopLanguage{{Name: "Ruby", Size: 4, Percent: 100, Unit: UnitRepos}},
			LanguageUnit:        UnitRepos,
			TotalStars:          15,
		},
	}

	row := UserFromRecord(3, r)
	assert.True(t, row.Enriched)
	assert.Equal(t, 3, row.Rank)
	assert.Nil(t, row.PublicGists)
	assert.Equal(t, r, row.Record())

	snap := row.Snapshot()
	assert.True(t, snap.Usable())
	assert.Equal(t, "octocat", snap.Login)
}

func TestLoginKey(t *testing.T) {
	assert.Equal(t, "octocat", LoginKey(" OctoCat "))
}

func TestSnapshotIndexIsCaseInsensitive(t *testing.T) {
	at := int64(1)
	idx := NewSnapshotIndex([]Snapshot{
		{Login: "OctoCat", Followers: Some(3), SnapshotAt: &at},
		{Login: ""},
	})
	assert.Len(t, idx, 1)
	require.NotNil(t, idx.Lookup("octocat"))
	assert.Equal(t, Some(3), idx.Lookup("OCTOCAT").Followers)
	assert.Nil(t, idx.Lookup("someone"))
}
