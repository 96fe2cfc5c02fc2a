package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"duckfarm/internal/apperr"
	"duckfarm/internal/report"
	"duckfarm/pkg/logger"
	"duckfarm/prometheus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// queryDateLayout is the accepted format of start/end query parameters.
const queryDateLayout = "2006-01-02"

// ReportHandler serves spreadsheet report downloads.
type ReportHandler struct {
	generator *report.Generator
}

// NewReportHandler creates a new report handler.
func NewReportHandler(generator *report.Generator) *ReportHandler {
	return &ReportHandler{generator: generator}
}

// periodFromQuery parses start/end query parameters. The end date is
// expanded to the last instant of its day so a period of
// start=2026-08-01&end=2026-08-31 covers the whole of August.
func periodFromQuery(c echo.Context) (time.Time, time.Time, error) {
	rawStart := c.QueryParam("start")
	rawEnd := c.QueryParam("end")
	if rawStart == "" || rawEnd == "" {
		return time.Time{}, time.Time{}, apperr.Invalid("start and end query parameters are required")
	}

	start, err := time.Parse(queryDateLayout, rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Invalid("invalid start date: %s", rawStart)
	}
	end, err := time.Parse(queryDateLayout, rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Invalid("invalid end date: %s", rawEnd)
	}

	end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end, nil
}

// currentMonth returns the window from the first instant of the
// current month until now.
func currentMonth() (time.Time, time.Time) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, now
}

func (h *ReportHandler) sendDocument(c echo.Context, doc *report.Document, baseName string) error {
	log := logger.FromEcho(c)

	data, err := report.RenderXLSX(doc)
	if err != nil {
		return writeError(c, apperr.Internal(err, "failed to render report"))
	}

	filename := fmt.Sprintf("%s-%s.xlsx", baseName, time.Now().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))

	log.Info("Report generated",
		zap.String("report", baseName),
		zap.Int("rows", len(doc.Rows)),
		zap.Int("bytes", len(data)))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

// SalesReport handles downloading the sales ledger for the current month
func (h *ReportHandler) SalesReport(c echo.Context) error {
	start, end := currentMonth()

	doc, err := h.generator.SalesLedger(c.Request().Context(), start, end)
	if err != nil {
		return writeError(c, err)
	}

	prometheus.ReportOperationsCounter.WithLabelValues("sales").Inc()
	return h.sendDocument(c, doc, "sales-report")
}

// SalesReportByPeriod handles downloading the sales ledger for an
// explicit period
func (h *ReportHandler) SalesReportByPeriod(c echo.Context) error {
	start, end, err := periodFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}

	doc, err := h.generator.SalesLedger(c.Request().Context(), start, end)
	if err != nil {
		return writeError(c, err)
	}

	prometheus.ReportOperationsCounter.WithLabelValues("sales_period").Inc()
	return h.sendDocument(c, doc, "sales-report")
}

// SellerRankingReport handles downloading the seller ranking for the
// current month
func (h *ReportHandler) SellerRankingReport(c echo.Context) error {
	start, end := currentMonth()

	doc, err := h.generator.SellerRanking(c.Request().Context(), start, end)
	if err != nil {
		return writeError(c, err)
	}

	prometheus.ReportOperationsCounter.WithLabelValues("seller_ranking").Inc()
	return h.sendDocument(c, doc, "seller-ranking")
}

// SellerRankingReportByPeriod handles downloading the seller ranking
// for an explicit period
func (h *ReportHandler) SellerRankingReportByPeriod(c echo.Context) error {
	start, end, err := periodFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}

	doc, err := h.generator.SellerRanking(c.Request().Context(), start, end)
	if err != nil {
		return writeError(c, err)
	}

	prometheus.ReportOperationsCounter.WithLabelValues("seller_ranking_period").Inc()
	return h.sendDocument(c, doc, "seller-ranking")
}
