package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wwi/backend/internal/application/inventory"
	"github.com/wwi/backend/internal/infrastructure/persistence"
)

// InventoryHandler serves the stock item routes: listing, detail, the
// reference catalogues product forms need, and the write operations
type InventoryHandler struct {
	BaseHandler
	svc *inventory.Service
}

// NewInventoryHandler creates an inventory handler
func NewInventoryHandler(svc *inventory.Service) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// List returns the stock items of the branch as a raw array
func (h *InventoryHandler) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context(), sucursal(c), c.Query("search"), c.Query("group"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, rows)
}

// Detail returns the stock item master, holdings and supplier rows
func (h *InventoryHandler) Detail(c *gin.Context) {
	id, ok := h.parseID(c, "ID inválido")
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

// ReferenceSuppliers returns the supplier catalogue for product forms
func (h *InventoryHandler) ReferenceSuppliers(c *gin.Context) {
	h.reference(c, h.svc.Suppliers)
}

// ReferenceColors returns the color catalogue for product forms
func (h *InventoryHandler) ReferenceColors(c *gin.Context) {
	h.reference(c, h.svc.Colors)
}

// ReferencePackages returns the package type catalogue for product forms
func (h *InventoryHandler) ReferencePackages(c *gin.Context) {
	h.reference(c, h.svc.Packages)
}

// ReferenceStockGroups returns the stock group catalogue for product forms
func (h *InventoryHandler) ReferenceStockGroups(c *gin.Context) {
	h.reference(c, h.svc.StockGroups)
}

func (h *InventoryHandler) reference(c *gin.Context, fetch func(context.Context, string) (persistence.ResultSet, error)) {
	rows, err := fetch(c.Request.Context(), sucursal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, rows)
}

// ProductStockGroups returns the stock groups a product belongs to
func (h *InventoryHandler) ProductStockGroups(c *gin.Context) {
	id, ok := h.parseID(c, "ID inválido")
	if !ok {
		return
	}
	rows, err := h.svc.ProductStockGroups(c.Request.Context(), sucursal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, rows)
}

// Check reports whether the product exists and whether it can be deleted
func (h *InventoryHandler) Check(c *gin.Context) {
	id, ok := h.parseID(c, "ID inválido")
	if !ok {
		return
	}
	res, err := h.svc.Check(c.Request.Context(), sucursal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, res)
}

// Insert creates a stock item
func (h *InventoryHandler) Insert(c *gin.Context) {
	var in inventory.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	id, err := h.svc.Insert(c.Request.Context(), sucursal(c), in)
	if err != nil {
		h.HandleWriteError(c, err)
		return
	}
	h.OK(c, gin.H{"ok": true, "id": id})
}

// Update modifies a stock item
func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "ID inválido")
	if !ok {
		return
	}
	var in inventory.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), sucursal(c), id, in)
	if err != nil {
		h.HandleWriteError(c, err)
		return
	}
	h.OK(c, gin.H{"ok": true, "id": updated})
}

// Delete removes a stock item. Products carrying invoices or purchase orders
// are rejected with the dependent record counts.
func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "ID inválido")
	if !ok {
		return
	}
	deleted, err := h.svc.Delete(c.Request.Context(), sucursal(c), id)
	if err != nil {
		var cerr *inventory.CriticalTransactionsError
		if errors.As(err, &cerr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"ok":      false,
				"error":   cerr.Error(),
				"details": cerr,
			})
			return
		}
		h.HandleWriteError(c, err)
		return
	}
	h.OK(c, gin.H{"ok": true, "id": deleted})
}
