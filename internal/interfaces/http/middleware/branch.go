package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wwi/backend/internal/infrastructure/persistence"
)

const (
	// SucursalKey is the gin context key carrying the resolved branch
	SucursalKey = "sucursal"
	// BranchHeaderKey is the request header carrying the branch identifier
	BranchHeaderKey = "X-Sucursal"
	// BranchQueryKey is the query parameter fallback
	BranchQueryKey = "sucursal"
)

// BranchResolver extracts the branch identifier from the request and attaches
// its normalized form to the context. The header takes precedence over the
// query parameter. Resolution never rejects; membership validation belongs to
// RequireBranch so that unprotected routes (login, health, tenant discovery)
// run without a branch.
func BranchResolver() gin.HandlerFunc {
	return func(c *gin.Context) {
		sucursal := c.GetHeader(BranchHeaderKey)
		if sucursal == "" {
			sucursal = c.Query(BranchQueryKey)
		}
		if sucursal != "" {
			c.Set(SucursalKey, persistence.Normalize(sucursal))
		}
		c.Next()
	}
}

// RequireBranch gates protected routes: the request must carry a branch
// identifier and it must be a known registry key. Both failures are client
// errors; the invalid case lists the valid options the way the login
// endpoint does.
func RequireBranch(registry *persistence.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		sucursal := GetBranch(c)
		if sucursal == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Sucursal requerida. Envíe el encabezado %s o el parámetro %s", BranchHeaderKey, BranchQueryKey),
			})
			return
		}
		if !registry.Has(sucursal) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Sucursal inválida: %s. Opciones válidas: %s", sucursal, strings.Join(registry.Keys(), ", ")),
			})
			return
		}
		c.Next()
	}
}

// GetBranch retrieves the normalized branch key from the context, or empty
// when the request carried none
func GetBranch(c *gin.Context) string {
	return c.GetString(SucursalKey)
}
