package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agreementlog/agreement-log-api/internal/api/metrics"
	"github.com/agreementlog/agreement-log-api/internal/core/ports"
)

const timestampLayout = "2006-01-02 15:04:05"

// AgreementHandler handles HTTP requests for agreement operations.
type AgreementHandler struct {
	service ports.AgreementService
}

func NewAgreementHandler(service ports.AgreementService) *AgreementHandler {
	return &AgreementHandler{service: service}
}

// Create records a new agreement and returns its fingerprint.
//
// @Summary      Record a new agreement
// @Tags         agreements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAgreementRequest  true  "Agreement details"
// @Success      201   {object}  createAgreementResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/agreements [post]
func (h *AgreementHandler) Create(c echo.Context) error {
	var req createAgreementRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	result, err := h.service.Create(c.Request().Context(), ports.CreateAgreementInput{
		OwnerID:        ownerID,
		Text:           req.Text,
		Category:       req.Category,
		NeedsSignature: req.NeedsSignature,
		Tag:            req.Tag,
	})
	if err != nil {
		return err
	}

	metrics.AgreementsCreatedTotal.WithLabelValues(req.Category, strconv.FormatBool(req.NeedsSignature)).Inc()

	return c.JSON(http.StatusCreated, createAgreementResponse{
		Fingerprint: result.Fingerprint,
		CreatedAt:   result.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// Lookup returns the decrypted text of an agreement awaiting countersignature.
//
// @Summary      Fetch agreement text by fingerprint
// @Tags         agreements
// @Accept       json
// @Produce      json
// @Param        body  body      lookupRequest  true  "Agreement fingerprint"
// @Success      200   {object}  lookupResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/agreements/lookup [post]
func (h *AgreementHandler) Lookup(c echo.Context) error {
	var req lookupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	lookup, err := h.service.Lookup(c.Request().Context(), req.Fingerprint)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, lookupResponse{
		Status:        "success",
		AgreementText: lookup.Text,
	})
}

// List returns the owner's dashboard rows.
//
// @Summary      List the caller's agreements
// @Tags         agreements
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listAgreementsResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/agreements [get]
func (h *AgreementHandler) List(c echo.Context) error {
	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	summaries, err := h.service.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}

	out := make([]agreementSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		item := agreementSummaryResponse{
			Fingerprint:       s.Fingerprint,
			Category:          string(s.Category),
			NeedsSignature:    s.NeedsSignature,
			Tag:               s.Tag,
			CreatedAt:         s.CreatedAt.UTC().Format(time.RFC3339),
			CounterSigned:     s.CounterSigned,
			CountersignerName: s.CountersignerName,
			AnchorStatus:      string(s.AnchorStatus),
			AnchorTxID:        s.AnchorTxID,
		}
		if !s.CountersignedAt.IsZero() {
			item.CountersignedAt = s.CountersignedAt.UTC().Format(timestampLayout)
		}
		out = append(out, item)
	}

	return c.JSON(http.StatusOK, listAgreementsResponse{Agreements: out})
}

// Delete removes a pending agreement owned by the caller.
//
// @Summary      Delete a pending agreement
// @Tags         agreements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      deleteRequest  true  "Agreement fingerprint"
// @Success      200   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/agreements/delete [post]
func (h *AgreementHandler) Delete(c echo.Context) error {
	var req deleteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), req.Fingerprint, ownerID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "agreement deleted successfully"})
}

// Receipt streams the plain-text receipt of a countersigned agreement.
//
// @Summary      Download the receipt for a countersigned agreement
// @Tags         agreements
// @Accept       json
// @Produce      plain
// @Security     BearerAuth
// @Param        body  body      receiptRequest  true  "Agreement fingerprint"
// @Success      200   {string}  string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/agreements/receipt [post]
func (h *AgreementHandler) Receipt(c echo.Context) error {
	var req receiptRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ownerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	receipt, err := h.service.Receipt(c.Request().Context(), req.Fingerprint, ownerID)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="agreement-%s.txt"`, receipt.Fingerprint[:12]))
	return c.String(http.StatusOK, receipt.Render())
}
