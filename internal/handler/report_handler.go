package handler

import (
	"time"

	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetSalesReport returns daily sales and profit/loss.
// Query params: start, end (YYYY-MM-DD, end inclusive); defaults to the last 7 days.
// GET /api/v1/reports/sales
func (h *ReportHandler) GetSalesReport(c *fiber.Ctx) error {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -7)
	end := now

	if v := c.Query("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return badRequest(c, "Invalid start date, use YYYY-MM-DD")
		}
		start = t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return badRequest(c, "Invalid end date, use YYYY-MM-DD")
		}
		end = t.Add(24*time.Hour - time.Nanosecond)
	}

	report, err := h.service.SalesReport(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GET /api/v1/reports/stats
func (h *ReportHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
