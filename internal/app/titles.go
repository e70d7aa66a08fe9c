package app

import (
	"errors"
	"net/http"

	"github.com/ayvazoglu/title-catalog/api"
	"github.com/ayvazoglu/title-catalog/internal/domain"
	appvalidator "github.com/ayvazoglu/title-catalog/internal/validator"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

func (app *Application) ListTitles(w http.ResponseWriter, r *http.Request) {
	app.listTitles(w, r, domain.TitleFilters{})
}

// listTitles is the shared pipeline of every filtered list endpoint: read
// the page controls, merge them into the caller's filters, query, respond.
func (app *Application) listTitles(w http.ResponseWriter, r *http.Request, filters domain.TitleFilters) {
	params, err := app.readPagination(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.validator.Struct(params); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	filters.Page = params.Page
	filters.PageSize = params.PageSize

	titles, metadata, err := app.titleRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.TitleListResponse{
		Titles:   toTitleSummaries(titles),
		Metadata: toAPIMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var input api.TitleRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// collect every field problem, including a taken show_id, so the
	// caller sees the complete error set in one round trip
	validationErrors := []api.ValidationError{}

	if err := app.validator.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			app.serverErrorResponse(w, r, err)
			return
		}

		validationErrors = append(validationErrors, app.toValidationErrors(fieldErrs)...)
	}

	if input.ShowID != "" {
		exists, err := app.titleRepo.ExistsByShowID(r.Context(), input.ShowID)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		if exists {
			validationErrors = append(validationErrors, api.ValidationError{
				Field: "show_id",
				Issue: domain.ErrDuplicateShowID.Error(),
			})
		}
	}

	if len(validationErrors) > 0 {
		app.validationErrorResponse(w, r, validationErrors)
		return
	}

	title := toTitle(input)

	err = app.titleRepo.Create(r.Context(), title)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateShowID):
			// lost the race against a concurrent create with the same show_id
			app.validationErrorResponse(w, r, []api.ValidationError{
				{Field: "show_id", Issue: domain.ErrDuplicateShowID.Error()},
			})
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusCreated, toTitleResponse(title), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetTitle(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	title, err := app.titleRepo.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toTitleResponse(title), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.TitleRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	title, err := app.titleRepo.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	validationErrors := []api.ValidationError{}

	if err := app.validator.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			app.serverErrorResponse(w, r, err)
			return
		}

		validationErrors = append(validationErrors, app.toValidationErrors(fieldErrs)...)
	}

	// show_id identifies the record for its whole life; a changed value is
	// rejected rather than silently ignored
	if input.ShowID != "" && input.ShowID != title.ShowID {
		validationErrors = append(validationErrors, api.ValidationError{
			Field: "show_id",
			Issue: appvalidator.ErrImmutable,
		})
	}

	if len(validationErrors) > 0 {
		app.validationErrorResponse(w, r, validationErrors)
		return
	}

	applyTitleRequest(title, input)

	err = app.titleRepo.Update(r.Context(), title)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toTitleResponse(title), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteTitle(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.titleRepo.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toTitle(input api.TitleRequest) *domain.Title {
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

	return title
}

// applyTitleRequest is a full-record replace of every mutable field.
func applyTitleRequest(title *domain.Title, input api.TitleRequest) {
	title.Type = input.Type
	title.Title = input.Title
	title.Director = input.Director
	title.Cast = input.Cast
	title.Country = input.Country
	title.ReleaseYear = input.ReleaseYear
	title.Rating = input.Rating
	title.Duration = input.Duration
	title.ListedIn = input.ListedIn
	title.Description = input.Description

	title.DateAdded = nil
	if input.DateAdded != nil {
		d := input.DateAdded.Time
		title.DateAdded = &d
	}
}

func toTitleResponse(title *domain.Title) api.TitleResponse {
	if title == nil {
		return api.TitleResponse{}
	}

	resp := api.TitleResponse{
		ID:          title.ID,
		ShowID:      title.ShowID,
		Type:        title.Type,
		Title:       title.Title,
		Director:    title.Director,
		Cast:        title.Cast,
		Country:     title.Country,
		ReleaseYear: title.ReleaseYear,
		Rating:      title.Rating,
		Duration:    title.Duration,
		ListedIn:    title.ListedIn,
		Description: title.Description,
		CastCount:   title.CastCount(),
		GenresList:  title.Genres(),
		CreatedAt:   title.CreatedAt,
		Version:     title.Version,
	}

	if title.DateAdded != nil {
		resp.DateAdded = &api.Date{Time: *title.DateAdded}
	}

	return resp
}

func toTitleSummaries(titles []*domain.Title) []api.TitleSummary {
	summaries := make([]api.TitleSummary, len(titles))

	for i, title := range titles {
		summaries[i] = api.TitleSummary{
			ID:          title.ID,
			ShowID:      title.ShowID,
			Type:        title.Type,
			Title:       title.Title,
			ReleaseYear: title.ReleaseYear,
			Rating:      title.Rating,
			Duration:    title.Duration,
			ListedIn:    title.ListedIn,
		}
	}

	return summaries
}

func toAPIMetadata(metadata *domain.Metadata) *api.Metadata {
	if metadata == nil {
		return nil
	}

	return &api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
