package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wwi/backend/internal/application/partner"
)

// SupplierHandler serves the supplier listing and detail routes
type SupplierHandler struct {
	BaseHandler
	svc *partner.SupplierService
}

// NewSupplierHandler creates a supplier handler
func NewSupplierHandler(svc *partner.SupplierService) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

// List returns the suppliers of the branch as a raw array
func (h *SupplierHandler) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context(), sucursal(c), c.Query("search"), c.Query("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, rows)
}

// Detail returns the supplier master row
func (h *SupplierHandler) Detail(c *gin.Context) {
	id, ok := h.parseID(c, "id inválido")
	if !ok {
		return
	}
	detail, err := h.svc.Detail(c.Request.Context(), sucursal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, detail)
}
