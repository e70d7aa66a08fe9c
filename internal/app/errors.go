package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/ayvazoglu/title-catalog/api"
	appvalidator "github.com/ayvazoglu/title-catalog/internal/validator"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

const (
	ErrInternalServer  = "The server encountered a problem and could not process your request"
	ErrNotFound        = "The requested resource not found"
	ErrRateLimited     = "Rate limit exceeded, try again later"
	ErrEditConflictMsg = "Unable to update the record due to an edit conflict, please try again"
	ErrInvalidInput    = "Invalid input data"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) editConflictResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusConflict, ErrEditConflictMsg)
}

func (app *Application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusTooManyRequests, ErrRateLimited)
}

// validationErrorResponse sends the aggregated field-level error set with a
// 400 status, matching the public API contract.
func (app *Application) validationErrorResponse(w http.ResponseWriter, r *http.Request, validationErrors []api.ValidationError) {
	resp := api.ValidationErrorResponse{
		Message:          ErrInvalidInput,
		ValidationErrors: validationErrors,
		RequestID:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
	}

	err := app.writeJSON(w, http.StatusBadRequest, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.validationErrorResponse(w, r, app.toValidationErrors(fieldErrs))
}

func (app *Application) toValidationErrors(fieldErrs validator.ValidationErrors) []api.ValidationError {
	out := make([]api.ValidationError, len(fieldErrs))

	for i, fe := range fieldErrs {
		out[i] = api.ValidationError{
			Field: fe.Field(),
			Issue: appvalidator.ValidationMessage(fe, app.now),
		}
	}

	return out
}
