package trade

import (
	"context"
	"database/sql"

	"github.com/wwi/backend/internal/domain/shared"
	"github.com/wwi/backend/internal/infrastructure/persistence"
)

// ProcRunner executes a stored procedure against the pool of the given branch
type ProcRunner interface {
	QueryProc(ctx context.Context, sucursal, proc string, args ...sql.NamedArg) (persistence.ResultSets, error)
}

// SalesService exposes invoice listing and detail lookups
type SalesService struct {
	db ProcRunner
}

// NewSalesService creates a sales service
func NewSalesService(db ProcRunner) *SalesService {
	return &SalesService{db: db}
}

// SalesFilter narrows the invoice listing. Zero values select everything.
type SalesFilter struct {
	Client    string
	From      string
	To        string
	MinAmount *float64
	MaxAmount *float64
}

// List returns every invoice of the branch matching the filter. Pagination
// happens at the handler over the full result.
func (s *SalesService) List(ctx context.Context, sucursal string, f SalesFilter) (persistence.ResultSet, error) {
	sets, err := s.db.QueryProc(ctx, sucursal, "sp_obtenerVentas",
		sql.Named("client", persistence.NullString(f.Client)),
		sql.Named("from", persistence.NullString(f.From)),
		sql.Named("to", persistence.NullString(f.To)),
		sql.Named("minamt", persistence.NullFloat(f.MinAmount)),
		sql.Named("maxamt", persistence.NullFloat(f.MaxAmount)),
	)
	if err != nil {
		return nil, err
	}
	return sets.Set(0), nil
}

// InvoiceDetail aggregates the header and line recordsets of an invoice
type InvoiceDetail struct {
	Header persistence.Row       `json:"header"`
	Lines  persistence.ResultSet `json:"lines"`
}

// Detail returns the invoice header plus its lines. An invoice whose header
// recordset comes back empty does not exist.
func (s *SalesService) Detail(ctx context.Context, sucursal string, invoiceID int) (*InvoiceDetail, error) {
	sets, err := s.db.QueryProc(ctx, sucursal, "sp_obtenerDetalleVentas",
		sql.Named("invoiceid", invoiceID),
	)
	if err != nil {
		return nil, err
	}
	header := sets.Set(0).First()
	if header == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Factura no encontrada")
	}
	return &InvoiceDetail{
		Header: header,
		Lines:  sets.Set(1),
	}, nil
}
