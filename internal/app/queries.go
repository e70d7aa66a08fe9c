package app

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ayvazoglu/title-catalog/api"
	"github.com/ayvazoglu/title-catalog/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (app *Application) GetMovies(w http.ResponseWriter, r *http.Request) {
	app.listTitles(w, r, domain.TitleFilters{Type: domain.TypeMovie})
}

func (app *Application) GetTVShows(w http.ResponseWriter, r *http.Request) {
	app.listTitles(w, r, domain.TitleFilters{Type: domain.TypeTVShow})
}

func (app *Application) GetTitlesByYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("year must be an integer"))
		return
	}

	app.listTitles(w, r, domain.TitleFilters{Year: &year})
}

// GetTitlesByGenre matches the genre as a case-insensitive substring of the
// raw listed_in value, so "com" finds both "Comedy" and "Romcom".
func (app *Application) GetTitlesByGenre(w http.ResponseWriter, r *http.Request) {
	genre := chi.URLParam(r, "genre")

	app.listTitles(w, r, domain.TitleFilters{Genre: genre})
}

// GetRecentTitles lists titles whose date_added falls in the trailing
// 30-day window, newest first, capped at 20. Titles without a date_added
// never appear here.
func (app *Application) GetRecentTitles(w http.ResponseWriter, r *http.Request) {
	since := app.now().AddDate(0, 0, -RecentWindowDays)

	titles, err := app.titleRepo.GetRecent(r.Context(), since, RecentLimit)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.TitleListResponse{
		Titles: toTitleSummaries(titles),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
