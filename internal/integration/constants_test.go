package integration_test

import (
	"time"

	"github.com/ayvazoglu/title-catalog/internal/domain"
)

const (
	TestShowID           = "s1"
	TestTitleType        = domain.TypeMovie
	TestTitleName        = "Test Movie"
	TestTitleDirector    = "Jane Doe"
	TestTitleCast        = "Actor One, Actor Two"
	TestTitleCountry     = "United States"
	TestTitleReleaseYear = 2021
	TestTitleRating      = "PG-13"
	TestTitleDuration    = "120 min"
	TestTitleListedIn    = "Dramas, International Movies"
	TestTitleDescription = "A test title description."
)

func defaultTestTitle() domain.Title {
	added := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	return domain.Title{
		ShowID:      TestShowID,
		Type:        TestTitleType,
		Title:       TestTitleName,
		Director:    TestTitleDirector,
		Cast:        TestTitleCast,
		Country:     TestTitleCountry,
		DateAdded:   &added,
		ReleaseYear: TestTitleReleaseYear,
		Rating:      TestTitleRating,
		Duration:    TestTitleDuration,
		ListedIn:    TestTitleListedIn,
		Description: TestTitleDescription,
	}
}
