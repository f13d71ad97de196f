package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wwi/backend/internal/application/partner"
)

// CustomerHandler serves the customer listing and detail routes
type CustomerHandler struct {
	BaseHandler
	svc *partner.CustomerService
}

// NewCustomerHandler creates a customer handler
func NewCustomerHandler(svc *partner.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// List returns the customers of the branch as a raw array
func (h *CustomerHandler) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context(), sucursal(c), c.Query("search"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, rows)
}

// Detail returns the customer master row plus contacts and delivery methods
func (h *CustomerHandler) Detail(c *gin.Context) {
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
