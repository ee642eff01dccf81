package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/user-pipeline/internal/config"
	"github.com/deppfellow/user-pipeline/internal/errs"
	"github.com/deppfellow/user-pipeline/internal/middleware"
	"github.com/deppfellow/user-pipeline/internal/model"
	"github.com/deppfellow/user-pipeline/internal/server"
	"github.com/deppfellow/user-pipeline/internal/service"
	"github.com/deppfellow/user-pipeline/internal/validation"
)

const testBanner = "Backend server is running for real!"

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()

	log := zerolog.Nop()
	s, err := server.New(&config.Config{
		Primary: config.Primary{Env: "development"},
		Server: config.ServerConfig{
			Port:               "0",
			CORSAllowedOrigins: []string{"*"},
			Banner:             testBanner,
		},
		Observability: config.DefaultObservabilityConfig(),
	}, &log, nil)
	if err != nil {
		t.Fatalf("server.New error = %v", err)
	}

	services, err := service.NewServices(s)
	if err != nil {
		t.Fatalf("NewServices error = %v", err)
	}
	h := NewHandlers(s, services)

	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler
	e.GET("/", h.System.Banner)
	e.GET("/status", h.System.CheckHealth)
	e.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
	e.POST("/validateUser", h.User.ValidateUser())
	e.POST("/sanitizeUser", h.User.SanitizeUser())
	return e
}

func post(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return v
}

const (
	steve        = `{"firstName":"Steve","lastName":"Stevenson","age":"129","fbw":"36","email":"steve@metallica.com"}`
	steveUnder   = `{"firstName":"Steve","lastName":"Stevenson","age":"17","fbw":"36","email":"steve@metallica.com"}`
	steveLower   = `{"firstName":"steve","lastName":"stevenson","age":"129","fbw":"36","email":"steve@x.com"}`
	steveNoEmail = `{"firstName":"Steve","lastName":"Stevenson","age":"129","fbw":"36"}`
)

func TestValidateUser(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "valid user",
			body:        steve,
			wantStatus:  http.StatusOK,
			wantMessage: MessageUserValid,
		},
		{
			name:        "underage user",
			body:        steveUnder,
			wantStatus:  http.StatusBadRequest,
			wantCode:    errs.CodeUnderageUser,
			wantMessage: errs.MessageUnderageUser,
		},
		{
			name:        "missing email",
			body:        steveNoEmail,
			wantStatus:  http.StatusBadRequest,
			wantCode:    errs.CodeMissingRequiredFields,
			wantMessage: errs.MessageMissingRequiredFields,
		},
		{
			name:        "empty body",
			body:        ``,
			wantStatus:  http.StatusBadRequest,
			wantCode:    errs.CodeMissingRequiredFields,
			wantMessage: errs.MessageMissingRequiredFields,
		},
		{
			name:        "numeric zero age is present",
			body:        `{"firstName":"a","lastName":"b","age":0,"fbw":1,"email":"e"}`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    errs.CodeUnderageUser,
			wantMessage: errs.MessageUnderageUser,
		},
		{
			name:        "non numeric age",
			body:        `{"firstName":"a","lastName":"b","age":"old","fbw":1,"email":"e"}`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    errs.CodeInvalidNumericField,
			wantMessage: errs.MessageInvalidNumericField,
		},
		{
			name:        "non numeric fbw is not checked",
			body:        `{"firstName":"a","lastName":"b","age":30,"fbw":"lots","email":"e"}`,
			wantStatus:  http.StatusOK,
			wantMessage: MessageUserValid,
		},
		{
			name:        "malformed json",
			body:        `{"firstName":`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "BAD_REQUEST",
			wantMessage: validation.MessageInvalidBody,
		},
		{
			name:        "numeric first name",
			body:        `{"firstName":123,"lastName":"b","age":30,"fbw":1,"email":"e"}`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "BAD_REQUEST",
			wantMessage: validation.MessageInvalidBody,
		},
		{
			name:        "object email",
			body:        `{"firstName":"a","lastName":"b","age":30,"fbw":1,"email":{"addr":"e"}}`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "BAD_REQUEST",
			wantMessage: validation.MessageInvalidBody,
		},
		{
			name:        "boolean age",
			body:        `{"firstName":"a","lastName":"b","age":true,"fbw":1,"email":"e"}`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "BAD_REQUEST",
			wantMessage: validation.MessageInvalidBody,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := post(e, "/validateUser", tc.body)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}

			if tc.wantStatus == http.StatusOK {
				got := decode[MessageResponse](t, rec)
				if got.Message != tc.wantMessage {
					t.Fatalf("message = %q, want %q", got.Message, tc.wantMessage)
				}
				return
			}

			got := decode[errs.HTTPError](t, rec)
			if got.Code != tc.wantCode || got.Message != tc.wantMessage || got.Status != tc.wantStatus {
				t.Fatalf("error = %+v", got)
			}
		})
	}
}

func TestSanitizeUser(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)

	t.Run("sanitizes record", func(t *testing.T) {
		t.Parallel()

		rec := post(e, "/sanitizeUser", steveLower)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}

		got := decode[SanitizeResponse](t, rec)
		want := SanitizeResponse{
			Message: MessageSanitizationSuccess,
			SanitizedData: model.SanitizedUser{
				FirstName: "Steve",
				LastName:  "Stevenson",
				Age:       129,
				FBW:       36,
				Email:     "steve@x.com",
			},
		}
		if got != want {
			t.Fatalf("response = %+v, want %+v", got, want)
		}
	})

	t.Run("response uses wire field names", func(t *testing.T) {
		t.Parallel()

		rec := post(e, "/sanitizeUser", `{"firstName":"ADA","lastName":"lOVELACE","age":"36 years","fbw":12.9,"email":"Ada@X.com"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}

		got := decode[map[string]any](t, rec)
		data, ok := got["sanitizedData"].(map[string]any)
		if !ok {
			t.Fatalf("sanitizedData missing: %v", got)
		}
		want := map[string]any{
			"firstName": "Ada",
			"lastName":  "Lovelace",
			"age":       float64(36),
			"fbw":       float64(12),
			"email":     "Ada@X.com",
		}
		for k, v := range want {
			if data[k] != v {
				t.Fatalf("sanitizedData[%q] = %v, want %v", k, data[k], v)
			}
		}
	})

	rejections := []struct {
		name     string
		body     string
		wantCode string
	}{
		{name: "missing email", body: steveNoEmail, wantCode: errs.CodeMissingRequiredFields},
		{name: "underage", body: steveUnder, wantCode: errs.CodeUnderageUser},
		{
			name:     "non numeric fbw",
			body:     `{"firstName":"a","lastName":"b","age":30,"fbw":"lots","email":"e"}`,
			wantCode: errs.CodeInvalidNumericField,
		},
	}

	for _, tc := range rejections {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := post(e, "/sanitizeUser", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			if got := decode[errs.HTTPError](t, rec); got.Code != tc.wantCode {
				t.Fatalf("code = %q, want %q", got.Code, tc.wantCode)
			}
		})
	}
}

func TestUnsupportedMediaType(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)

	req := httptest.NewRequest(http.MethodPost, "/validateUser", strings.NewReader(steve))
	req.Header.Set(echo.HeaderContentType, echo.MIMETextPlain)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnsupportedMediaType)
	}
}

func TestSystemHandlers(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)

	t.Run("banner", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := decode[MessageResponse](t, rec); got.Message != testBanner {
			t.Fatalf("message = %q", got.Message)
		}
	})

	t.Run("health", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}

		got := decode[HealthResponse](t, rec)
		if got.Status != "healthy" || got.Environment != "development" || got.Uptime == "" {
			t.Fatalf("health = %+v", got)
		}
		if got.Checks["new_relic"].Status != "disabled" {
			t.Fatalf("new_relic check = %+v", got.Checks["new_relic"])
		}
	})

	t.Run("docs", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if rec.Header().Get("Cache-Control") != "no-cache" {
			t.Fatalf("Cache-Control = %q", rec.Header().Get("Cache-Control"))
		}
		if !strings.Contains(rec.Body.String(), "/static/openapi.json") {
			t.Fatal("docs page does not reference the OpenAPI document")
		}
	})
}
