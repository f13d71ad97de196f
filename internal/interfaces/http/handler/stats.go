package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/wwi/backend/internal/application/report"
	"github.com/wwi/backend/internal/infrastructure/persistence"
)

// StatsHandler serves the purchasing and sales statistics routes
type StatsHandler struct {
	BaseHandler
	svc *report.StatsService
}

// NewStatsHandler creates a statistics handler
func NewStatsHandler(svc *report.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// Purchases returns purchase statistics rolled up by supplier and category
func (h *StatsHandler) Purchases(c *gin.Context) {
	rows, err := h.svc.Purchases(c.Request.Context(), sucursal(c), c.Query("supplier"), c.Query("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, rows)
}

// Sales returns sales statistics rolled up by customer and category
func (h *StatsHandler) Sales(c *gin.Context) {
	rows, err := h.svc.Sales(c.Request.Context(), sucursal(c), c.Query("customer"), c.Query("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, rows)
}

// TopProducts returns the most profitable products, optionally for one year
func (h *StatsHandler) TopProducts(c *gin.Context) {
	year, ok := intQuery(c, "year")
	if !ok {
		return
	}
	rows, err := h.svc.TopProducts(c.Request.Context(), sucursal(c), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, rows)
}

// TopCustomers returns the customers with the highest profit over the
// optional year range
func (h *StatsHandler) TopCustomers(c *gin.Context) {
	h.yearRange(c, h.svc.TopCustomers)
}

// TopSuppliers returns the suppliers with the most purchase orders over the
// optional year range
func (h *StatsHandler) TopSuppliers(c *gin.Context) {
	h.yearRange(c, h.svc.TopSuppliers)
}

func (h *StatsHandler) yearRange(c *gin.Context, fetch func(context.Context, string, *int, *int) (persistence.ResultSet, error)) {
	fromYear, ok := intQuery(c, "fromyear")
	if !ok {
		return
	}
	toYear, ok := intQuery(c, "toyear")
	if !ok {
		return
	}
	rows, err := fetch(c.Request.Context(), sucursal(c), fromYear, toYear)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, rows)
}
