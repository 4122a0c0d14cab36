package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newOriginTestServer(handlerRan *bool) *echo.Echo {
	e := echo.New()
	e.Use(OriginAllowList([]string{"http://localhost:3000"}))
	e.POST("/v1/agreements/lookup", func(c echo.Context) error {
		*handlerRan = true
		return c.JSON(http.StatusOK, map[string]string{"status": "success"})
	})
	return e
}

func TestOriginAllowListRejectsUnknownOrigin(t *testing.T) {
	var handlerRan bool
	e := newOriginTestServer(&handlerRan)

	req := httptest.NewRequest(http.MethodPost, "/v1/agreements/lookup",
		strings.NewReader(`{"hash":"abc"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderOrigin, "http://evil.example")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if handlerRan {
		t.Error("handler must not run for a disallowed origin")
	}
}

func TestOriginAllowListAcceptsListedOrigin(t *testing.T) {
	var handlerRan bool
	e := newOriginTestServer(&handlerRan)

	req := httptest.NewRequest(http.MethodPost, "/v1/agreements/lookup",
		strings.NewReader(`{"hash":"abc"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !handlerRan {
		t.Error("handler should run for a listed origin")
	}
}

func TestOriginAllowListPassesRequestsWithoutOrigin(t *testing.T) {
	var handlerRan bool
	e := newOriginTestServer(&handlerRan)

	req := httptest.NewRequest(http.MethodPost, "/v1/agreements/lookup",
		strings.NewReader(`{"hash":"abc"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !handlerRan {
		t.Error("handler should run for same-origin requests")
	}
}
