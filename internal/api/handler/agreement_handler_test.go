package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agreementlog/agreement-log-api/internal/core/domain"
	"github.com/agreementlog/agreement-log-api/internal/core/ports"
)

const testFingerprint = "a665a45920422f9d417e4867efdc4fb8a04a1f3fff1fa07e998e86f7f7a27ae3"

// stubAgreementService returns canned values for handler tests.
type stubAgreementService struct {
	createResult *ports.CreateAgreementResult
	createErr    error
	createInput  ports.CreateAgreementInput

	lookupResult *ports.AgreementLookup
	lookupErr    error

	summaries []ports.AgreementSummary
	deleteErr error

	receipt    *domain.Receipt
	receiptErr error
}

func (s *stubAgreementService) Create(_ context.Context, input ports.CreateAgreementInput) (*ports.CreateAgreementResult, error) {
	s.createInput = input
	return s.createResult, s.createErr
}

func (s *stubAgreementService) Lookup(_ context.Context, _ string) (*ports.AgreementLookup, error) {
	return s.lookupResult, s.lookupErr
}

func (s *stubAgreementService) ListByOwner(_ context.Context, _ string) ([]ports.AgreementSummary, error) {
	return s.summaries, nil
}

func (s *stubAgreementService) Delete(_ context.Context, _, _ string) error {
	return s.deleteErr
}

func (s *stubAgreementService) Receipt(_ context.Context, _, _ string) (*domain.Receipt, error) {
	return s.receipt, s.receiptErr
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAgreementHandlerCreate(t *testing.T) {
	svc := &stubAgreementService{
		createResult: &ports.CreateAgreementResult{
			Fingerprint: testFingerprint,
			CreatedAt:   time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		},
	}
	h := NewAgreementHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/v1/agreements",
		`{"agreement_text":"Hello World","category":"Clients","needs_signature":true}`)
	c.Set("user_id", "owner-1")

	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp["hash"] != testFingerprint {
		t.Errorf("hash = %q, want %q", resp["hash"], testFingerprint)
	}
	if svc.createInput.OwnerID != "owner-1" {
		t.Errorf("owner id passed to service = %q", svc.createInput.OwnerID)
	}
}

func TestAgreementHandlerCreateInvalidCategory(t *testing.T) {
	h := NewAgreementHandler(&stubAgreementService{})

	c, rec := newTestContext(t, http.MethodPost, "/v1/agreements",
		`{"agreement_text":"Hello","category":"Legal","needs_signature":true}`)
	c.Set("user_id", "owner-1")

	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAgreementHandlerCreateUnauthenticated(t *testing.T) {
	h := NewAgreementHandler(&stubAgreementService{})

	c, _ := newTestContext(t, http.MethodPost, "/v1/agreements",
		`{"agreement_text":"Hello","category":"Clients","needs_signature":true}`)

	err := h.Create(c)
	var httpErr *echo.HTTPError
	if !asHTTPError(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAgreementHandlerLookup(t *testing.T) {
	svc := &stubAgreementService{
		lookupResult: &ports.AgreementLookup{Fingerprint: testFingerprint, Text: "Hello World"},
	}
	h := NewAgreementHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/v1/agreements/lookup",
		`{"hash":"`+testFingerprint+`"}`)

	if err := h.Lookup(c); err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp["agreementText"] != "Hello World" {
		t.Errorf("agreementText = %q", resp["agreementText"])
	}
}

func TestAgreementHandlerLookupBadHash(t *testing.T) {
	h := NewAgreementHandler(&stubAgreementService{})

	for _, body := range []string{
		`{"hash":"tooshort"}`,
		`{"hash":"` + strings.Repeat("z", 64) + `"}`,
		`{}`,
	} {
		c, rec := newTestContext(t, http.MethodPost, "/v1/agreements/lookup", body)
		if err := h.Lookup(c); err != nil {
			t.Fatalf("Lookup returned error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestAgreementHandlerReceiptDownload(t *testing.T) {
	svc := &stubAgreementService{
		receipt: &domain.Receipt{
			Fingerprint:       testFingerprint,
			Text:              "Hello World",
			CountersignerName: "Jane Doe",
			CountersignedAt:   time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
			AnchorTxID:        "0xabc",
		},
	}
	h := NewAgreementHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/v1/agreements/receipt",
		`{"hash":"`+testFingerprint+`"}`)
	c.Set("user_id", "owner-1")

	if err := h.Receipt(c); err != nil {
		t.Fatalf("Receipt returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	disposition := rec.Header().Get(echo.HeaderContentDisposition)
	if !strings.Contains(disposition, "attachment") || !strings.Contains(disposition, testFingerprint[:12]) {
		t.Errorf("content disposition = %q", disposition)
	}
	for _, want := range []string{"Jane Doe", "2024-03-15 10:30:00", "Hello World", "0xabc"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("receipt body missing %q", want)
		}
	}
}

func asHTTPError(err error, target **echo.HTTPError) bool {
	he, ok := err.(*echo.HTTPError)
	if ok {
		*target = he
	}
	return ok
}
