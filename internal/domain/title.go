package domain

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	TypeMovie  = "Movie"
	TypeTVShow = "TV Show"
)

// Title is a single catalog entry imported from the Netflix dataset.
// The multi-value fields (Director, Cast, Country, ListedIn) keep the
// dataset's comma-separated textual representation; SplitList is the one
// parse contract shared by genre search, statistics and cast counting.
type Title struct {
	ID          int
	ShowID      string
	Type        string
	Title       string
	Director    string
	Cast        string
	Country     string
	DateAdded   *time.Time
	ReleaseYear int
	Rating      string
	Duration    string
	ListedIn    string
	Description string
	CreatedAt   time.Time
	Version     int
}

// SplitList splits a comma-separated value into trimmed segments,
// discarding empty ones.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

// Genres returns the parsed genre tokens of ListedIn, in field order.
func (t *Title) Genres() []string {
	return SplitList(t.ListedIn)
}

// CastCount reports the number of names in the Cast field, 0 when absent.
func (t *Title) CastCount() int {
	if t.Cast == "" {
		return 0
	}

	return len(SplitList(t.Cast))
}

type GenreCount struct {
	Genre string
	Count int
}

// Stats summarizes the whole catalog in one pass.
type Stats struct {
	TotalTitles  int
	MoviesCount  int
	TVShowsCount int
	MinYear      int
	MaxYear      int
	TopGenres    []GenreCount
}

// YearRange formats the release-year bounds as "min - max". It is empty
// when the catalog holds no titles.
func (s Stats) YearRange() string {
	if s.TotalTitles == 0 {
		return ""
	}

	return strconv.Itoa(s.MinYear) + " - " + strconv.Itoa(s.MaxYear)
}

// CountGenres accumulates genre token frequencies over raw listed_in values.
func CountGenres(listedIn []string) map[string]int {
	freq := make(map[string]int)

	for _, raw := range listedIn {
		for _, genre := range SplitList(raw) {
			freq[genre]++
		}
	}

	return freq
}

// TopGenres returns the n most frequent genres, descending by count.
// Equal counts order lexicographically so the result is deterministic.
func TopGenres(freq map[string]int, n int) []GenreCount {
	counts := make([]GenreCount, 0, len(freq))
	for genre, count := range freq {
		counts = append(counts, GenreCount{Genre: genre, Count: count})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Genre < counts[j].Genre
	})

	if len(counts) > n {
		counts = counts[:n]
	}

	return counts
}

// TitleFilters narrows list queries. An empty Type or Genre leaves that
// dimension unfiltered; Year is a pointer so that year zero still filters
// instead of being mistaken for "no filter".
type TitleFilters struct {
	Page     int
	PageSize int
	Type     string
	Year     *int
	Genre    string
}

func (f TitleFilters) Limit() int {
	return f.PageSize
}

func (f TitleFilters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// UpsertResult reports what a bulk upsert did.
type UpsertResult struct {
	Inserted int
	Updated  int
}

type TitleRepository interface {
	GetAll(ctx context.Context, filters TitleFilters) ([]*Title, *Metadata, error)
	GetByID(ctx context.Context, id int) (*Title, error)
	Create(ctx context.Context, title *Title) error
	Update(ctx context.Context, title *Title) error
	Delete(ctx context.Context, id int) error
	GetRecent(ctx context.Context, since time.Time, limit int) ([]*Title, error)
	GetStats(ctx context.Context) (*Stats, error)
	ExistsByShowID(ctx context.Context, showID string) (bool, error)
	BulkUpsert(ctx context.Context, titles []*Title) (*UpsertResult, error)
}
