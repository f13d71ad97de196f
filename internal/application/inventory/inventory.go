package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wwi/backend/internal/domain/shared"
	"github.com/wwi/backend/internal/infrastructure/persistence"
)

// ProcRunner executes a stored procedure against the pool of the given branch
type ProcRunner interface {
	QueryProc(ctx context.Context, sucursal, proc string, args ...sql.NamedArg) (persistence.ResultSets, error)
}

// Service exposes stock item queries, reference catalogues and the product
// write operations
type Service struct {
	db ProcRunner
}

// NewService creates an inventory service
func NewService(db ProcRunner) *Service {
	return &Service{db: db}
}

// List returns the stock items of the branch filtered by search term and
// stock group; empty filters select everything
func (s *Service) List(ctx context.Context, sucursal, search, group string) (persistence.ResultSet, error) {
	sets, err := s.db.QueryProc(ctx, sucursal, "sp_obtenerInventario",
		sql.Named("search", persistence.NullString(search)),
		sql.Named("group", persistence.NullString(group)),
	)
	if err != nil {
		return nil, err
	}
	return sets.Set(0), nil
}

// StockItemDetail aggregates the recordsets of the stock item detail
// procedure. Holdings and Proveedor may be nil when the branch has no
// holdings row or the item has no supplier.
type StockItemDetail struct {
	General   persistence.Row `json:"general"`
	Holdings  persistence.Row `json:"holdings"`
	Proveedor persistence.Row `json:"proveedor"`
}

// Detail returns the stock item master row plus its holdings and supplier
// rows. An item whose master recordset comes back empty does not exist.
func (s *Service) Detail(ctx context.Context, sucursal string, stockItemID int) (*StockItemDetail, error) {
	sets, err := s.db.QueryProc(ctx, sucursal, "sp_obtenerDetalleInventario",
		sql.Named("stockitemid", stockItemID),
	)
	if err != nil {
		return nil, err
	}
	general := sets.Set(0).First()
	if general == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Producto no encontrado")
	}
	return &StockItemDetail{
		General:   general,
		Holdings:  sets.Set(1).First(),
		Proveedor: sets.Set(2).First(),
	}, nil
}

// Suppliers returns the supplier reference catalogue for product forms
func (s *Service) Suppliers(ctx context.Context, sucursal string) (persistence.ResultSet, error) {
	return s.reference(ctx, sucursal, "SP_GetSuppliersForProducts")
}

// Colors returns the color reference catalogue for product forms
func (s *Service) Colors(ctx context.Context, sucursal string) (persistence.ResultSet, error) {
	return s.reference(ctx, sucursal, "SP_GetColorsForProducts")
}

// Packages returns the package type reference catalogue for product forms
func (s *Service) Packages(ctx context.Context, sucursal string) (persistence.ResultSet, error) {
	return s.reference(ctx, sucursal, "SP_GetPackageTypesForProducts")
}

// StockGroups returns the stock group reference catalogue for product forms
func (s *Service) StockGroups(ctx context.Context, sucursal string) (persistence.ResultSet, error) {
	return s.reference(ctx, sucursal, "SP_GetStockGroupsForProducts")
}

func (s *Service) reference(ctx context.Context, sucursal, proc string) (persistence.ResultSet, error) {
	sets, err := s.db.QueryProc(ctx, sucursal, proc)
	if err != nil {
		return nil, err
	}
	return sets.Set(0), nil
}

// ProductStockGroups returns the stock groups a product belongs to
func (s *Service) ProductStockGroups(ctx context.Context, sucursal string, stockItemID int) (persistence.ResultSet, error) {
	sets, err := s.db.QueryProc(ctx, sucursal, "SP_GetProductStockGroups",
		sql.Named("StockItemID", stockItemID),
	)
	if err != nil {
		return nil, err
	}
	return sets.Set(0), nil
}

// CheckResult reports whether a product exists and whether it can be deleted
type CheckResult struct {
	Exists             bool   `json:"exists"`
	CanDelete          bool   `json:"canDelete"`
	InvoiceCount       int    `json:"invoiceCount"`
	PurchaseOrderCount int    `json:"purchaseOrderCount"`
	Reason             string `json:"reason"`
}

// Check reports whether the product exists and whether deleting it would
// orphan invoices or purchase orders
func (s *Service) Check(ctx context.Context, sucursal string, stockItemID int) (*CheckResult, error) {
	exists, err := s.productExists(ctx, sucursal, stockItemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &CheckResult{Reason: "El producto no existe"}, nil
	}
	critical, err := s.criticalTransactions(ctx, sucursal, stockItemID)
	if err != nil {
		return nil, err
	}
	res := &CheckResult{
		Exists:    true,
		CanDelete: critical == nil,
		Reason:    "El producto puede ser eliminado",
	}
	if critical != nil {
		res.InvoiceCount = critical.InvoiceCount
		res.PurchaseOrderCount = critical.PurchaseOrderCount
		res.Reason = "El producto tiene transacciones asociadas y no puede ser eliminado"
	}
	return res, nil
}

// Insert creates a stock item and returns the new identifier when the
// procedure reports one
func (s *Service) Insert(ctx context.Context, sucursal string, in ProductInput) (any, error) {
	sets, err := s.db.QueryProc(ctx, sucursal, "SP_InsertProduct", in.namedArgs(true)...)
	if err != nil {
		return nil, err
	}
	if row := sets.Set(0).First(); row != nil {
		if id, ok := row["NewStockItemID"]; ok {
			return id, nil
		}
	}
	return nil, nil
}

// Update modifies a stock item and returns its identifier
func (s *Service) Update(ctx context.Context, sucursal string, stockItemID int, in ProductInput) (any, error) {
	args := append([]sql.NamedArg{sql.Named("StockItemID", stockItemID)}, in.namedArgs(false)...)
	sets, err := s.db.QueryProc(ctx, sucursal, "SP_UpdateProduct", args...)
	if err != nil {
		return nil, err
	}
	if row := sets.Set(0).First(); row != nil {
		if id, ok := row["UpdatedStockItemID"]; ok && id != nil {
			return id, nil
		}
	}
	return stockItemID, nil
}

// CriticalTransactionsError reports the dependent records that block a delete
type CriticalTransactionsError struct {
	InvoiceCount       int `json:"invoiceCount"`
	PurchaseOrderCount int `json:"purchaseOrderCount"`
}

func (e *CriticalTransactionsError) Error() string {
	return fmt.Sprintf("No se puede eliminar el producto porque tiene transacciones asociadas:\n"+
		"- Facturas de venta: %d\n"+
		"- Órdenes de compra: %d\n\n"+
		"Estas transacciones dependen del producto y su eliminación podría afectar registros históricos.",
		e.InvoiceCount, e.PurchaseOrderCount)
}

// Delete removes a stock item. The item must exist and must not carry
// invoices or purchase orders; those checks short-circuit before the delete
// procedure runs.
func (s *Service) Delete(ctx context.Context, sucursal string, stockItemID int) (any, error) {
	exists, err := s.productExists(ctx, sucursal, stockItemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError(shared.CodeNotFound, "El producto no existe")
	}
	critical, err := s.criticalTransactions(ctx, sucursal, stockItemID)
	if err != nil {
		return nil, err
	}
	if critical != nil {
		return nil, critical
	}
	sets, err := s.db.QueryProc(ctx, sucursal, "SP_DeleteProduct",
		sql.Named("StockItemID", stockItemID),
	)
	if err != nil {
		return nil, err
	}
	if row := sets.Set(0).First(); row != nil {
		if id, ok := row["DeletedStockItemID"]; ok && id != nil {
			return id, nil
		}
	}
	return stockItemID, nil
}

func (s *Service) productExists(ctx context.Context, sucursal string, stockItemID int) (bool, error) {
	sets, err := s.db.QueryProc(ctx, sucursal, "SP_CheckProductExists",
		sql.Named("StockItemID", stockItemID),
	)
	if err != nil {
		return false, err
	}
	row := sets.Set(0).First()
	return row != nil && toBool(row["ProductExists"]), nil
}

// criticalTransactions returns nil when the product carries no invoices or
// purchase orders
func (s *Service) criticalTransactions(ctx context.Context, sucursal string, stockItemID int) (*CriticalTransactionsError, error) {
	sets, err := s.db.QueryProc(ctx, sucursal, "SP_CheckProductCriticalTransactions",
		sql.Named("StockItemID", stockItemID),
	)
	if err != nil {
		return nil, err
	}
	row := sets.Set(0).First()
	if row == nil || !toBool(row["HasCriticalTransactions"]) {
		return nil, nil
	}
	return &CriticalTransactionsError{
		InvoiceCount:       toInt(row["InvoiceCount"]),
		PurchaseOrderCount: toInt(row["PurchaseOrderCount"]),
	}, nil
}

// toInt coerces the scan types the driver produces for count columns
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// toBool coerces the scan types the driver produces for bit columns
func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int:
		return b != 0
	case int32:
		return b != 0
	case int64:
		return b != 0
	}
	return false
}
