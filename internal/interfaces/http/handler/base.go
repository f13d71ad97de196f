// Package handler contains the HTTP resource handlers. Responses follow the
// wire contract the frontend consumes: list endpoints return raw arrays,
// detail endpoints named recordset objects, and errors a JSON body with a
// stable `error` field plus a debug `details` field on server failures.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wwi/backend/internal/domain/shared"
	"github.com/wwi/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides the response helpers shared by the resource handlers
type BaseHandler struct{}

// OK sends the payload as-is with a 200
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// statusForCode maps domain error codes onto HTTP statuses for read
// operations
func statusForCode(code string) int {
	switch code {
	case shared.CodeMissingTenant, shared.CodeInvalidTenant, shared.CodeUnknownTenant, shared.CodeValidationError:
		return http.StatusBadRequest
	case shared.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case shared.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// HandleError turns a service error into the read-operation error contract.
// Query and connection failures surface as 500 with the underlying driver
// message in `details`.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var derr *shared.DomainError
	if errors.As(err, &derr) {
		status := statusForCode(derr.Code)
		body := gin.H{"error": derr.Message}
		if status >= http.StatusInternalServerError {
			if d := derr.Details(); d != "" {
				body["details"] = d
			}
		}
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Error interno del servidor",
		"details": err.Error(),
	})
}

// HandleWriteError turns a service error into the write-operation contract:
// `{ok:false, error}`, with execution failures treated as client-correctable
// 400s the way the product procedures report rule violations
func (h *BaseHandler) HandleWriteError(c *gin.Context, err error) {
	var derr *shared.DomainError
	if errors.As(err, &derr) {
		status := statusForCode(derr.Code)
		if derr.Code == shared.CodeQueryError {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"ok": false, "error": derr.Message})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
}

// parseID parses the numeric :id path parameter, responding 400 with the
// given message when it is not an integer
func (h *BaseHandler) parseID(c *gin.Context, message string) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return 0, false
	}
	return id, true
}

// sucursal returns the branch the middleware resolved for this request
func sucursal(c *gin.Context) string {
	return middleware.GetBranch(c)
}

// intQuery parses an optional integer query parameter. Malformed values
// report the parameter name in the error.
func intQuery(c *gin.Context, name string) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " inválido"})
		return nil, false
	}
	return &n, true
}

// floatQuery parses an optional decimal query parameter
func floatQuery(c *gin.Context, name string) (*float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " inválido"})
		return nil, false
	}
	return &f, true
}
