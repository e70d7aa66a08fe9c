package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ayvazoglu/title-catalog/api"
	"github.com/ayvazoglu/title-catalog/internal/mocks"
	appvalidator "github.com/ayvazoglu/title-catalog/internal/validator"
	"github.com/go-chi/chi/v5"
)

// testNow pins the clock so release_year bounds stay stable in tests.
func testNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		validator: appvalidator.NewValidator(testNow),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		titleRepo: &mocks.MockTitleRepo{},
		now:       testNow,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

// withURLParams injects chi route parameters without running the router.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantErrMessage string) {
	t.Helper()

	if wantStatus >= 200 && wantStatus < 300 {
		return
	}

	if wantErrMessage == "" {
		return
	}

	var errorResp api.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if errorResp.Message != wantErrMessage {
		t.Errorf("Error message = %v, want %v", errorResp.Message, wantErrMessage)
	}
}

// checkValidationResponse asserts that each wanted field/issue pair appears
// in the aggregated validation error set.
func checkValidationResponse(t *testing.T, w *httptest.ResponseRecorder, want []api.ValidationError) {
	t.Helper()

	var validationResp api.ValidationErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
		t.Fatalf("Failed to decode validation error response: %v", err)
	}

	errorSet := make(map[api.ValidationError]bool)
	for _, vErr := range validationResp.ValidationErrors {
		errorSet[vErr] = true
	}

	for _, vErr := range want {
		if !errorSet[vErr] {
			t.Errorf("Expected validation error %+v not found in %+v", vErr, validationResp.ValidationErrors)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
