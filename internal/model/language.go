package model

import (
	"encoding/json"
	"math"
	"sort"
)

// LanguageUnit says what a language size counts. Sizes in different units
// must never be compared or summed.
type LanguageUnit string

const (
	// UnitBytes comes from the GraphQL path: bytes of code per language.
	UnitBytes LanguageUnit = "bytes"
	// UnitRepos comes from the REST fallback: number of repos whose primary
	// language it is.
	UnitRepos LanguageUnit = "repos"
)

// LanguageTotals accumulates sizes per language and remembers the order in
// which languages were first seen, which breaks ties when ranking.
type LanguageTotals struct {
	Unit  LanguageUnit
	order []string
	sizes map[string]int64
}

func NewLanguageTotals(unit LanguageUnit) *LanguageTotals {
	return &LanguageTotals{
		Unit:  unit,
		sizes: make(map[string]int64),
	}
}

// Add ignores empty names and negative sizes.
func (l *LanguageTotals) Add(name string, size int64) {
	if name == "" || size < 0 {
		return
	}
	if _, ok := l.sizes[name]; !ok {
		l.order = append(l.order, name)
	}
	l.sizes[name] += size
}

func (l *LanguageTotals) Size(name string) int64 {
	return l.sizes[name]
}

func (l *LanguageTotals) Names() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

func (l *LanguageTotals) Len() int {
	return len(l.order)
}

func (l *LanguageTotals) Total() int64 {
	var total int64
	for _, size := range l.sizes {
		total += size
	}
	return total
}

// Top returns at most n languages sorted by size descending, ties kept in
// first-seen order. n <= 0 returns every language.
func (l *LanguageTotals) Top(n int) []TopLanguage {
	total := l.Total()
	if total == 0 {
		total = 1
	}

	names := l.Names()
	sort.SliceStable(names, func(i, j int) bool {
		return l.sizes[names[i]] > l.sizes[names[j]]
	})
	if n > 0 && len(names) > n {
		names = names[:n]
	}

	top := make([]TopLanguage, 0, len(names))
	for _, name := range names {
		size := l.sizes[name]
		top = append(top, TopLanguage{
			Name:    name,
			Size:    size,
			Percent: roundTo(float64(size)/float64(total)*100, 1),
			Unit:    l.Unit,
		})
	}
	return top
}

// TopLanguage is serialized with a "bytes" or a "count" key depending on Unit.
type TopLanguage struct {
	Name    string
	Size    int64
	Percent float64
	Unit    LanguageUnit
}

type topLanguageBytes struct {
	Name    string  `json:"name"`
	Bytes   int64   `json:"bytes"`
	Percent float64 `json:"percent"`
}

type topLanguageCount struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

func (t TopLanguage) MarshalJSON() ([]byte, error) {
	if t.Unit == UnitRepos {
		return json.Marshal(topLanguageCount{Name: t.Name, Count: t.Size, Percent: t.Percent})
	}
	return json.Marshal(topLanguageBytes{Name: t.Name, Bytes: t.Size, Percent: t.Percent})
}

func (t *TopLanguage) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name    string  `json:"name"`
		Bytes   *int64  `json:"bytes"`
		Count   *int64  `json:"count"`
		Percent float64 `json:"percent"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = TopLanguage{Name: raw.Name, Percent: raw.Percent, Unit: UnitBytes}
	switch {
	case raw.Count != nil:
		t.Size = *raw.Count
		t.Unit = UnitRepos
	case raw.Bytes != nil:
		t.Size = *raw.Bytes
	}
	return nil
}

// RepoSummary is the per-user aggregate over owned public repositories.
type RepoSummary struct {
	Languages        *LanguageTotals
	TotalStars       int
	LastRepoPushedAt string
	// ReposExamined counts repositories that contributed to the summary.
	ReposExamined int
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(v*p) / p
}
