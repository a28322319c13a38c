// Package httpapi exposes the summarizer over HTTP.
package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/reblol/Pulsepanion/internal/llm"
	"github.com/reblol/Pulsepanion/internal/records"
	"github.com/reblol/Pulsepanion/internal/summary"
)

// SummaryRequest is the body of POST /v1/summaries and /v1/previews.
type SummaryRequest struct {
	Records   json.RawMessage `json:"records"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	DateField string          `json:"date_field,omitempty"`
}

// Handler serves summary requests.
type Handler struct {
	summarizer *summary.Summarizer
	logger     *zap.Logger
}

func NewHandler(s *summary.Summarizer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{summarizer: s, logger: logger}
}

// RegisterRoutes mounts the health check and the /v1 endpoints on e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.handleHealth)

	v1 := e.Group("/v1")
	v1.POST("/summaries", h.handleSummarize)
	v1.POST("/previews", h.handlePreview)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleSummarize(c echo.Context) error {
	req, params, err := h.bind(c)
	if err != nil {
		return errorJSON(c, err)
	}
	set, err := records.ParseJSON(bytes.NewReader(req.Records))
	if err != nil {
		return errorJSON(c, err)
	}

	out, err := h.summarizer.Summarize(c.Request().Context(), set, params)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) handlePreview(c echo.Context) error {
	req, params, err := h.bind(c)
	if err != nil {
		return errorJSON(c, err)
	}
	set, err := records.ParseJSON(bytes.NewReader(req.Records))
	if err != nil {
		return errorJSON(c, err)
	}

	out, err := h.summarizer.Preview(c.Request().Context(), set, params)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) bind(c echo.Context) (*SummaryRequest, summary.Params, error) {
	var req SummaryRequest
	if err := c.Bind(&req); err != nil {
		return nil, summary.Params{}, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(bytes.TrimSpace(req.Records)) == 0 {
		return nil, summary.Params{}, echo.NewHTTPError(http.StatusBadRequest, "records is required")
	}
	return &req, summary.Params{
		Start:     req.StartDate,
		End:       req.EndDate,
		DateField: req.DateField,
		Source:    "http",
	}, nil
}

// StatusFor maps an error to the HTTP status reported to the client.
func StatusFor(err error) int {
	var httpErr *echo.HTTPError
	var dataErr *records.DataFormatError
	var upErr *llm.UpstreamError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.As(err, &dataErr):
		return http.StatusBadRequest
	case errors.As(err, &upErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorJSON(c echo.Context, err error) error {
	msg := err.Error()
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if s, ok := httpErr.Message.(string); ok {
			msg = s
		}
	}
	return c.JSON(StatusFor(err), map[string]string{"error": msg})
}
