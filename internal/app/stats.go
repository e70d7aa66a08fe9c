package app

import (
	"net/http"

	"github.com/ayvazoglu/title-catalog/api"
)

func (app *Application) GetTitleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := app.titleRepo.GetStats(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	topGenres := make([]api.GenreCount, len(stats.TopGenres))
	for i, gc := range stats.TopGenres {
		topGenres[i] = api.GenreCount{Genre: gc.Genre, Count: gc.Count}
	}

	resp := api.StatsResponse{
		TotalTitles:  stats.TotalTitles,
		MoviesCount:  stats.MoviesCount,
		TVShowsCount: stats.TVShowsCount,
		YearRange:    stats.YearRange(),
		TopGenres:    topGenres,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
