package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/user-pipeline/internal/config"
	"github.com/deppfellow/user-pipeline/internal/errs"
	"github.com/deppfellow/user-pipeline/internal/server"
)

func testServer(t *testing.T, out *bytes.Buffer) *server.Server {
	t.Helper()

	log := zerolog.Nop()
	if out != nil {
		log = zerolog.New(out)
	}

	s, err := server.New(&config.Config{
		Primary: config.Primary{Env: "development"},
		Server: config.ServerConfig{
			Port:               "0",
			CORSAllowedOrigins: []string{"*"},
		},
		Observability: config.DefaultObservabilityConfig(),
	}, &log, nil)
	if err != nil {
		t.Fatalf("server.New error = %v", err)
	}
	return s
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	tests := []struct {
		name      string
		header    string
		wantReuse bool
	}{
		{name: "generated"},
		{name: "propagated", header: "req-123", wantReuse: true},
		{name: "control characters replaced", header: "bad\x01id"},
		{name: "spaces replaced", header: "two words"},
		{name: "too long replaced", header: strings.Repeat("a", maxRequestIDLength+1)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(RequestIDHeader, tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			if got == "" {
				t.Fatal("response has no request id")
			}
			if tc.wantReuse != (got == tc.header) {
				t.Fatalf("request id = %q, header %q, want reuse %v", got, tc.header, tc.wantReuse)
			}
			if rec.Body.String() != got {
				t.Fatalf("context id %q differs from header %q", rec.Body.String(), got)
			}
		})
	}
}

func TestEnhanceContextStoresLogger(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	s := testServer(t, &out)
	ce := NewContextEnhancer(s)

	e := echo.New()
	e.Use(RequestID(), ce.EnhanceContext())
	e.GET("/users", func(c echo.Context) error {
		GetLogger(c).Info().Msg("from echo context")
		zerolog.Ctx(c.Request().Context()).Info().Msg("from request context")
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set(RequestIDHeader, "abc")
	e.ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2: %q", len(lines), out.String())
	}
	for _, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		if entry["request_id"] != "abc" || entry["path"] != "/users" || entry["method"] != http.MethodGet {
			t.Fatalf("log entry missing request fields: %v", entry)
		}
	}
}

func TestGetLoggerWithoutEnhancer(t *testing.T) {
	t.Parallel()

	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if GetLogger(c) == nil {
		t.Fatal("GetLogger returned nil")
	}
}

func TestGlobalErrorHandler(t *testing.T) {
	t.Parallel()

	global := NewGlobalMiddlewares(testServer(t, nil))

	tests := []struct {
		name        string
		method      string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "http error",
			err:         errs.NewUnderageUserError(),
			wantStatus:  http.StatusBadRequest,
			wantCode:    errs.CodeUnderageUser,
			wantMessage: errs.MessageUnderageUser,
		},
		{
			name:        "echo not found",
			err:         echo.ErrNotFound,
			wantStatus:  http.StatusNotFound,
			wantCode:    "NOT_FOUND",
			wantMessage: "Route not found",
		},
		{
			name:        "echo method not allowed",
			err:         echo.ErrMethodNotAllowed,
			wantStatus:  http.StatusMethodNotAllowed,
			wantCode:    "METHOD_NOT_ALLOWED",
			wantMessage: "Method Not Allowed",
		},
		{
			name:        "unknown error hides cause",
			err:         errors.New("secret internals"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "INTERNAL_SERVER_ERROR",
			wantMessage: "Internal Server Error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

			global.GlobalErrorHandler(tc.err, c)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}

			var body errs.HTTPError
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tc.wantCode || body.Message != tc.wantMessage || body.Status != tc.wantStatus {
				t.Fatalf("body = %+v", body)
			}
		})
	}
}

func TestGlobalErrorHandlerSkipsCommittedResponse(t *testing.T) {
	t.Parallel()

	global := NewGlobalMiddlewares(testServer(t, nil))

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	global.GlobalErrorHandler(errs.NewInternalServerError(), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response overwritten: %d %q", rec.Code, rec.Body.String())
	}
}

func TestTracingIsNoopWithoutNewRelic(t *testing.T) {
	t.Parallel()

	s := testServer(t, nil)
	mws := NewMiddlewares(s)

	e := echo.New()
	e.Use(mws.Tracing.NewRelicMiddleware(), mws.Tracing.EnhanceTracing())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
}
