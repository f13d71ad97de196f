package partner

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

// CustomerService exposes customer listing and detail lookups
type CustomerService struct {
	db ProcRunner
}

// NewCustomerService creates a customer service
func NewCustomerService(db ProcRunner) *CustomerService {
	return &CustomerService{db: db}
}

// List returns the customers of the branch, optionally filtered by a search
// term matched server-side by the stored procedure
func (s *CustomerService) List(ctx context.Context, sucursal, search string) (persistence.ResultSet, error) {
	sets, err := s.db.QueryProc(ctx, sucursal, "sp_obtenerClientes",
		sql.Named("search", persistence.NullString(search)),
	)
	if err != nil {
		return nil, err
	}
	return sets.Set(0), nil
}

// CustomerDetail aggregates the recordsets of the customer detail procedure
type CustomerDetail struct {
	General   persistence.Row       `json:"general"`
	Contactos persistence.ResultSet `json:"contactos"`
	Metodos   persistence.ResultSet `json:"metodos"`
}

// Detail returns the customer master row plus its contacts and delivery
// methods. A customer whose master recordset comes back empty does not exist.
func (s *CustomerService) Detail(ctx context.Context, sucursal string, customerID int) (*CustomerDetail, error) {
	sets, err := s.db.QueryProc(ctx, sucursal, "sp_obtenerDetalleCliente",
		sql.Named("customerid", customerID),
	)
	if err != nil {
		return nil, err
	}
	general := sets.Set(0).First()
	if general == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Cliente no encontrado")
	}
	return &CustomerDetail{
		General:   general,
		Contactos: sets.Set(1),
		Metodos:   sets.Set(2),
	}, nil
}
