package report

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/wwi/backend/internal/domain/report"
	"github.com/wwi/backend/internal/infrastructure/persistence"
)

// ProcRunner executes a stored procedure against the pool of the given branch
type ProcRunner interface {
	QueryProc(ctx context.Context, sucursal, proc string, args ...sql.NamedArg) (persistence.ResultSets, error)
}

// Grouping columns of the rollup procedures. The procedures mark subtotal
// and grand-total rows by nulling these out, and the rows ship to the client
// unchanged; the kinds are tallied only for debug logging.
var (
	purchaseGroupCols = []string{"SupplierName", "Category"}
	salesGroupCols    = []string{"CustomerName", "Category"}
)

// StatsService exposes the purchasing and sales statistics queries
type StatsService struct {
	db  ProcRunner
	log *zap.Logger
}

// NewStatsService creates a statistics service
func NewStatsService(db ProcRunner, log *zap.Logger) *StatsService {
	return &StatsService{db: db, log: log}
}

// Purchases returns purchase statistics rolled up by supplier and category
func (s *StatsService) Purchases(ctx context.Context, sucursal, supplier, category string) (persistence.ResultSet, error) {
	sets, err := s.db.QueryProc(ctx, sucursal, "sp_estadisticasCompras",
		sql.Named("supplier", persistence.NullString(supplier)),
		sql.Named("category", persistence.NullString(category)),
	)
	if err != nil {
		return nil, err
	}
	rows := sets.Set(0)
	s.logKinds("sp_estadisticasCompras", sucursal, rows, purchaseGroupCols)
	return rows, nil
}

// Sales returns sales statistics rolled up by customer and category
func (s *StatsService) Sales(ctx context.Context, sucursal, customer, category string) (persistence.ResultSet, error) {
	sets, err := s.db.QueryProc(ctx, sucursal, "sp_estadisticasVentas",
		sql.Named("customer", persistence.NullString(customer)),
		sql.Named("category", persistence.NullString(category)),
	)
	if err != nil {
		return nil, err
	}
	rows := sets.Set(0)
	s.logKinds("sp_estadisticasVentas", sucursal, rows, salesGroupCols)
	return rows, nil
}

// TopProducts returns the most profitable products, optionally for one year
func (s *StatsService) TopProducts(ctx context.Context, sucursal string, year *int) (persistence.ResultSet, error) {
	sets, err := s.db.QueryProc(ctx, sucursal, "sp_estadisticasGananciasProductosAnio",
		sql.Named("year", persistence.NullInt(year)),
	)
	if err != nil {
		return nil, err
	}
	return sets.Set(0), nil
}

// TopCustomers returns the customers with the highest profit over the
// optional year range
func (s *StatsService) TopCustomers(ctx context.Context, sucursal string, fromYear, toYear *int) (persistence.ResultSet, error) {
	return s.yearRange(ctx, sucursal, "sp_estadisticasClientesMayorGananciaAnio", fromYear, toYear)
}

// TopSuppliers returns the suppliers with the most purchase orders over the
// optional year range
func (s *StatsService) TopSuppliers(ctx context.Context, sucursal string, fromYear, toYear *int) (persistence.ResultSet, error) {
	return s.yearRange(ctx, sucursal, "sp_estadisticasProveedoresConMayoresOrdenes", fromYear, toYear)
}

func (s *StatsService) yearRange(ctx context.Context, sucursal, proc string, fromYear, toYear *int) (persistence.ResultSet, error) {
	sets, err := s.db.QueryProc(ctx, sucursal, proc,
		sql.Named("fromyear", persistence.NullInt(fromYear)),
		sql.Named("toyear", persistence.NullInt(toYear)),
	)
	if err != nil {
		return nil, err
	}
	return sets.Set(0), nil
}

func (s *StatsService) logKinds(proc, sucursal string, rows persistence.ResultSet, groupCols []string) {
	if s.log == nil {
		return
	}
	counts := report.CountKinds(rows, groupCols...)
	s.log.Debug("grouped statistics result",
		zap.String("proc", proc),
		zap.String("sucursal", sucursal),
		zap.Int("detail", counts[report.DetailRow]),
		zap.Int("subtotal", counts[report.SubtotalRow]),
		zap.Int("grandtotal", counts[report.GrandTotalRow]),
	)
}
