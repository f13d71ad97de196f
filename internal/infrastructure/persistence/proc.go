package persistence

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/wwi/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Row is a single record returned by a stored procedure, keyed by column name
type Row = map[string]any

// ResultSet is one recordset of a stored procedure result
type ResultSet []Row

// First returns the first row of the set, or nil when the set is empty
func (s ResultSet) First() Row {
	if len(s) == 0 {
		return nil
	}
	return s[0]
}

// ResultSets is the ordered sequence of recordsets a stored procedure
// returned. Position is the only way to tell the recordsets apart; each
// endpoint fixes the order it expects.
type ResultSets []ResultSet

// Set returns the recordset at position i, or an empty set when the
// procedure returned fewer recordsets
func (rs ResultSets) Set(i int) ResultSet {
	if i < 0 || i >= len(rs) {
		return ResultSet{}
	}
	return rs[i]
}

// NullString returns the string as a stored-procedure argument value,
// mapping the empty string to SQL NULL
func NullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NullInt returns the int as a stored-procedure argument value, mapping nil
// to SQL NULL
func NullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

// NullFloat returns the float as a stored-procedure argument value, mapping
// nil to SQL NULL
func NullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// QueryProc acquires the branch pool and executes a named stored procedure,
// draining every recordset in order. Execution is bounded by the branch's
// request timeout. Failures that look like a lost connection flag the pool
// for replacement on the next acquisition.
func (m *PoolManager) QueryProc(ctx context.Context, sucursal, proc string, args ...sql.NamedArg) (ResultSets, error) {
	pool, err := m.Acquire(ctx, sucursal)
	if err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, pool.desc.RequestTimeout)
	defer cancel()

	queryArgs := make([]any, len(args))
	for i, a := range args {
		queryArgs[i] = a
	}

	rows, err := pool.db.QueryContext(queryCtx, proc, queryArgs...)
	if err != nil {
		if isConnectionFailure(err) {
			pool.MarkUnhealthy()
		}
		m.log.Error("stored procedure failed",
			zap.String("sucursal", pool.desc.Key),
			zap.String("proc", proc),
			zap.Error(err),
		)
		return nil, shared.WrapDomainError(shared.CodeQueryError,
			"Error ejecutando "+proc, err)
	}
	defer rows.Close()

	sets, err := drainResultSets(rows)
	if err != nil {
		if isConnectionFailure(err) {
			pool.MarkUnhealthy()
		}
		m.log.Error("reading stored procedure result failed",
			zap.String("sucursal", pool.desc.Key),
			zap.String("proc", proc),
			zap.Error(err),
		)
		return nil, shared.WrapDomainError(shared.CodeQueryError,
			"Error ejecutando "+proc, err)
	}
	return sets, nil
}

// drainResultSets reads every recordset of rows into memory, in order
func drainResultSets(rows *sql.Rows) (ResultSets, error) {
	var sets ResultSets
	for {
		cols, err := rows.Columns()
		if err != nil {
			return nil, err
		}

		set := ResultSet{}
		for rows.Next() {
			values := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range values {
				ptrs[i] = &values[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return nil, err
			}
			row := make(Row, len(cols))
			for i, col := range cols {
				row[col] = normalizeValue(values[i])
			}
			set = append(set, row)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		sets = append(sets, set)

		if !rows.NextResultSet() {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sets, nil
}

// normalizeValue makes driver values JSON-friendly
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// isConnectionFailure reports whether the error indicates the pool lost its
// connection, as opposed to a domain error raised inside the procedure
func isConnectionFailure(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
