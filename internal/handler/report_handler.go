package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/commission-allocation-engine/internal/dto"
	"github.com/anyulbade/commission-allocation-engine/internal/middleware"
	"github.com/anyulbade/commission-allocation-engine/internal/service"
)

const dateLayout = "2006-01-02"

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) GetAccountingReport(c *gin.Context) {
	doc, err := h.svc.AccountingReport(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	if wantsHTML(c) {
		h.html(c, func() ([]byte, error) { return h.svc.RenderAccounting(doc) })
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GetReceipt serves the buyer-facing receipt. Failures never reveal why the
// breakdown could not be produced.
func (h *ReportHandler) GetReceipt(c *gin.Context) {
	sessionID := c.Param("session_id")

	doc, err := h.svc.CustomerReceipt(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "receipt not found"})
			return
		}
		status, _ := middleware.MapError(err)
		log.Warn().Err(err).Str("session_id", sessionID).Msg("receipt not generated")
		c.JSON(status, middleware.ErrorResponse{Error: "could not generate receipt"})
		return
	}

	if wantsHTML(c) {
		h.html(c, func() ([]byte, error) { return h.svc.RenderReceipt(doc) })
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *ReportHandler) GetAccountingPeriod(c *gin.Context) {
	var q dto.PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "date_from and date_to are required"})
		return
	}

	from, err := time.Parse(dateLayout, q.DateFrom)
	if err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "invalid date_from format"})
		return
	}
	to, err := time.Parse(dateLayout, q.DateTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "invalid date_to format"})
		return
	}
	if !from.Before(to) {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "date_from must be before date_to"})
		return
	}

	doc, err := h.svc.AccountingPeriod(c.Request.Context(), from, to, dto.ParsePagination(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	if wantsHTML(c) {
		h.html(c, func() ([]byte, error) { return h.svc.RenderPeriod(doc) })
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *ReportHandler) html(c *gin.Context, render func() ([]byte, error)) {
	page, err := render()
	if err != nil {
		log.Error().Err(err).Msg("failed to render HTML")
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to render HTML"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func wantsHTML(c *gin.Context) bool {
	return c.Query("format") == "html" || strings.Contains(c.GetHeader("Accept"), "text/html")
}
