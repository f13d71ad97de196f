package partner

import (
	"context"
	"database/sql"

	"github.com/wwi/backend/internal/domain/shared"
	"github.com/wwi/backend/internal/infrastructure/persistence"
)

// SupplierService exposes supplier listing and detail lookups
type SupplierService struct {
	db ProcRunner
}

// NewSupplierService creates a supplier service
func NewSupplierService(db ProcRunner) *SupplierService {
	return &SupplierService{db: db}
}

// List returns the suppliers of the branch filtered by search term and
// category; empty filters select everything
func (s *SupplierService) List(ctx context.Context, sucursal, search, category string) (persistence.ResultSet, error) {
	sets, err := s.db.QueryProc(ctx, sucursal, "sp_obtenerProveedores",
		sql.Named("search", persistence.NullString(search)),
		sql.Named("category", persistence.NullString(category)),
	)
	if err != nil {
		return nil, err
	}
	return sets.Set(0), nil
}

// SupplierDetail wraps the supplier master row
type SupplierDetail struct {
	General persistence.Row `json:"general"`
}

// Detail returns the supplier master row. A supplier whose recordset comes
// back empty does not exist.
func (s *SupplierService) Detail(ctx context.Context, sucursal string, supplierID int) (*SupplierDetail, error) {
	sets, err := s.db.QueryProc(ctx, sucursal, "sp_obtenerDetalleProveedor",
		sql.Named("supplierid", supplierID),
	)
	if err != nil {
		return nil, err
	}
	general := sets.Set(0).First()
	if general == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Proveedor no encontrado")
	}
	return &SupplierDetail{General: general}, nil
}
