package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agreementlog/agreement-log-api/internal/api/metrics"
	"github.com/agreementlog/agreement-log-api/internal/core/domain"
	"github.com/agreementlog/agreement-log-api/internal/core/ports"
)

// CountersignHandler handles the second-party signature endpoint.
type CountersignHandler struct {
	service ports.CountersignService
}

func NewCountersignHandler(service ports.CountersignService) *CountersignHandler {
	return &CountersignHandler{service: service}
}

// Countersign marks the agreement countersigned and anchors it on the ledger.
//
// The response is 200 whenever the countersignature itself succeeded; the
// anchoring outcome travels separately in anchor_status so a relay failure
// is visible without implying the signature failed.
//
// @Summary      Countersign an agreement by fingerprint
// @Tags         agreements
// @Accept       json
// @Produce      json
// @Param        body  body      countersignRequest  true  "Fingerprint and signer name"
// @Success      200   {object}  countersignResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/agreements/countersign [post]
func (h *CountersignHandler) Countersign(c echo.Context) error {
	var req countersignRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.CountersignTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.service.Countersign(c.Request().Context(), req.Fingerprint, req.SignerName)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFoundOrSigned):
			metrics.CountersignTotal.WithLabelValues("not_found_or_signed").Inc()
		default:
			metrics.CountersignTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.CountersignTotal.WithLabelValues("signed").Inc()
	metrics.RelayRequestsTotal.WithLabelValues(string(result.AnchorStatus)).Inc()

	return c.JSON(http.StatusOK, countersignResponse{
		Success:      true,
		AnchorStatus: string(result.AnchorStatus),
		TxHash:       result.AnchorTxID,
		AnchorDetail: result.AnchorDetail,
		DownloadData: downloadData{
			Fingerprint:     result.Receipt.Fingerprint,
			AgreementText:   result.Receipt.Text,
			CountersignedAt: result.Receipt.CountersignedAt.UTC().Format(timestampLayout),
		},
	})
}
