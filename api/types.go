// Package api holds the wire types of the title-catalog HTTP surface.
package api

import (
	"fmt"
	"time"
)

// Date marshals as a plain "2006-01-02" string, the format the catalog
// uses for date_added.
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}

	t, err := time.Parse("2006-01-02", s[1:len(s)-1])
	if err != nil {
		return err
	}

	d.Time = t
	return nil
}

// TitleRequest is the create/update payload. Validation rules live here so
// every write path shares them.
type TitleRequest struct {
	ShowID      string `json:"show_id" validate:"required,max=20"`
	Type        string `json:"type" validate:"required,title_type"`
	Title       string `json:"title" validate:"required,max=255"`
	Director    string `json:"director,omitempty"`
	Cast        string `json:"cast,omitempty"`
	Country     string `json:"country,omitempty"`
	DateAdded   *Date  `json:"date_added,omitempty"`
	ReleaseYear int    `json:"release_year" validate:"required,release_year"`
	Rating      string `json:"rating,omitempty" validate:"omitempty,max=20"`
	Duration    string `json:"duration,omitempty" validate:"omitempty,max=20"`
	ListedIn    string `json:"listed_in" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// TitleResponse is the detail representation, including the computed
// cast_count and genres_list fields.
type TitleResponse struct {
	ID          int       `json:"id"`
	ShowID      string    `json:"show_id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Director    string    `json:"director,omitempty"`
	Cast        string    `json:"cast,omitempty"`
	Country     string    `json:"country,omitempty"`
	DateAdded   *Date     `json:"date_added,omitempty"`
	ReleaseYear int       `json:"release_year"`
	Rating      string    `json:"rating,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	ListedIn    string    `json:"listed_in"`
	Description string    `json:"description"`
	CastCount   int       `json:"cast_count"`
	GenresList  []string  `json:"genres_list"`
	CreatedAt   time.Time `json:"created_at"`
	Version     int       `json:"version"`
}

// TitleSummary is the trimmed list representation.
type TitleSummary struct {
	ID          int    `json:"id"`
	ShowID      string `json:"show_id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	ReleaseYear int    `json:"release_year"`
	Rating      string `json:"rating,omitempty"`
	Duration    string `json:"duration,omitempty"`
	ListedIn    string `json:"listed_in"`
}

type Metadata struct {
	CurrentPage  int `json:"current_page"`
	FirstPage    int `json:"first_page"`
	LastPage     int `json:"last_page"`
	PageSize     int `json:"page_size"`
	TotalRecords int `json:"total_records"`
}

type TitleListResponse struct {
	Titles   []TitleSummary `json:"titles"`
	Metadata *Metadata      `json:"metadata,omitempty"`
}

type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// StatsResponse summarizes the catalog. TopGenres is an ordered array
// rather than an object so the descending ranking survives serialization.
type StatsResponse struct {
	TotalTitles  int          `json:"total_titles"`
	MoviesCount  int          `json:"movies_count"`
	TVShowsCount int          `json:"tv_shows_count"`
	YearRange    string       `json:"year_range"`
	TopGenres    []GenreCount `json:"top_genres"`
}

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validation_errors"`
	RequestID        string            `json:"request_id,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"system_info"`
}
