// Package ingest loads the Netflix titles CSV dataset into the catalog.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ayvazoglu/title-catalog/api"
	"github.com/ayvazoglu/title-catalog/internal/domain"
	appvalidator "github.com/ayvazoglu/title-catalog/internal/validator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// dateAddedLayout matches the dataset's "September 25, 2021" style.
const dateAddedLayout = "January 2, 2006"

const upsertChunkSize = 500

var requiredColumns = []string{"show_id", "type", "title", "release_year", "listed_in", "description"}

type Loader struct {
	repo      domain.TitleRepository
	validator *validator.Validate
	logger    *slog.Logger
	now       func() time.Time
}

func NewLoader(repo domain.TitleRepository, validator *validator.Validate, logger *slog.Logger) *Loader {
	return &Loader{
		repo:      repo,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// Report summarizes one ingest run. Warnings carry the per-row problems
// that were recovered or skipped without aborting the batch.
type Report struct {
	BatchID  string
	Rows     int
	Inserted int
	Updated  int
	Skipped  int
	Warnings []string
}

// Load reads a headered CSV stream and upserts every well-formed row,
// keyed on show_id so reruns over the same file are idempotent. A malformed
// date_added is blanked with a warning; a row failing field validation is
// skipped with a warning; only a structurally broken file aborts the run.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*Report, error) {
	report := &Report{BatchID: uuid.NewString()}
	logger := l.logger.With("batch_id", report.BatchID)

	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	titles := []*domain.Title{}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		report.Rows++

		title, warnings := l.parseRow(columns, row)
		for _, w := range warnings {
			logger.Warn(w)
		}
		report.Warnings = append(report.Warnings, warnings...)

		if title == nil {
			report.Skipped++
			continue
		}

		titles = append(titles, title)
	}

	for start := 0; start < len(titles); start += upsertChunkSize {
		end := min(start+upsertChunkSize, len(titles))

		result, err := l.repo.BulkUpsert(ctx, titles[start:end])
		if err != nil {
			return nil, fmt.Errorf("upserting rows %d-%d: %w", start, end, err)
		}

		report.Inserted += result.Inserted
		report.Updated += result.Updated
	}

	logger.Info("ingest complete",
		"rows", report.Rows,
		"inserted", report.Inserted,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"warnings", len(report.Warnings),
	)

	return report, nil
}

// parseRow builds a validated Title from a CSV row. It returns nil when the
// row must be skipped; warnings describe everything recovered or rejected.
func (l *Loader) parseRow(columns map[string]int, row []string) (*domain.Title, []string) {
	get := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	showID := get("show_id")
	warnings := []string{}

	year, err := strconv.Atoi(get("release_year"))
	if err != nil {
		warnings = append(warnings,
			fmt.Sprintf("show_id %s: release_year %q is not an integer, skipping row", showID, get("release_year")))
		return nil, warnings
	}

	input := api.TitleRequest{
		ShowID:      showID,
		Type:        get("type"),
		Title:       get("title"),
		Director:    get("director"),
		Cast:        get("cast"),
		Country:     get("country"),
		ReleaseYear: year,
		Rating:      get("rating"),
		Duration:    get("duration"),
		ListedIn:    get("listed_in"),
		Description: get("description"),
	}

	if dateStr := get("date_added"); dateStr != "" {
		parsed, err := time.Parse(dateAddedLayout, strings.TrimSpace(dateStr))
		if err != nil {
			warnings = append(warnings,
				fmt.Sprintf("show_id %s: could not parse date %q, leaving date_added empty", showID, dateStr))
		} else {
			input.DateAdded = &api.Date{Time: parsed}
		}
	}

	if err := l.validator.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				warnings = append(warnings,
					fmt.Sprintf("show_id %s: field %s %s, skipping row", showID, fe.Field(), appvalidator.ValidationMessage(fe, l.now)))
			}
		} else {
			warnings = append(warnings, fmt.Sprintf("show_id %s: %v, skipping row", showID, err))
		}

		return nil, warnings
	}

	title := &domain.Title{
		ShowID:      input.ShowID,
		Type:        input.Type,
		Title:       input.Title,
		Director:    input.Director,
		Cast:        input.Cast,
		Country:     input.Country,
		ReleaseYear: input.ReleaseYear,
		Rating:      input.Rating,
		Duration:    input.Duration,
		ListedIn:    input.ListedIn,
		Description: input.Description,
	}

	if input.DateAdded != nil {
		d := input.DateAdded.Time
		title.DateAdded = &d
	}

	return title, warnings
}
