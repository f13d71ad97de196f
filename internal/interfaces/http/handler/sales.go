package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wwi/backend/internal/application/trade"
	"github.com/wwi/backend/internal/domain/report"
)

const (
	defaultPage  = 1
	defaultLimit = 50
)

// SalesHandler serves the invoice listing and detail routes
type SalesHandler struct {
	BaseHandler
	svc *trade.SalesService
}

// NewSalesHandler creates a sales handler
func NewSalesHandler(svc *trade.SalesService) *SalesHandler {
	return &SalesHandler{svc: svc}
}

// List returns one page of the filtered invoice listing as `{rows, total}`.
// The procedure always runs unpaginated; the page is sliced from the full
// result so rows and total derive from the same execution.
func (h *SalesHandler) List(c *gin.Context) {
	min, ok := floatQuery(c, "min")
	if !ok {
		return
	}
	if min == nil {
		if min, ok = floatQuery(c, "minamt"); !ok {
			return
		}
	}
	max, ok := floatQuery(c, "max")
	if !ok {
		return
	}
	if max == nil {
		if max, ok = floatQuery(c, "maxamt"); !ok {
			return
		}
	}

	all, err := h.svc.List(c.Request.Context(), sucursal(c), trade.SalesFilter{
		Client:    c.Query("client"),
		From:      c.Query("from"),
		To:        c.Query("to"),
		MinAmount: min,
		MaxAmount: max,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := intQueryDefault(c, "page", defaultPage)
	limit := intQueryDefault(c, "limit", defaultLimit)
	rows, total := report.Paginate(all, page, limit)
	h.OK(c, gin.H{"rows": rows, "total": total})
}

// Detail returns the invoice header plus its lines
func (h *SalesHandler) Detail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvoiceID inválido"})
		return
	}
	detail, err := h.svc.Detail(c.Request.Context(), sucursal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, detail)
}

// intQueryDefault parses an integer query parameter, falling back to the
// default on absence or garbage the way the pagination parameters always have
func intQueryDefault(c *gin.Context, name string, def int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return n
}
