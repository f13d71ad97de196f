package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wwi/backend/internal/infrastructure/config"
	"github.com/wwi/backend/internal/infrastructure/persistence"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRegistry() *persistence.Registry {
	branch := func(port int, database string) config.BranchConfig {
		return config.BranchConfig{
			Host:           "localhost",
			Port:           port,
			User:           "sa",
			Password:       "secret",
			Database:       database,
			ConnectTimeout: 5 * time.Second,
			RequestTimeout: 5 * time.Second,
		}
	}
	return persistence.NewRegistry(map[string]config.BranchConfig{
		"sanjose":     branch(1437, "WWI_SanJose"),
		"limon":       branch(1435, "WWI_Limon"),
		"corporativo": branch(1436, "WWI_Corporativo"),
	})
}

func branchEcho() (*gin.Engine, *string) {
	var seen string
	router := gin.New()
	router.Use(BranchResolver())
	router.GET("/echo", func(c *gin.Context) {
		seen = GetBranch(c)
		c.String(http.StatusOK, "ok")
	})
	return router, &seen
}

func TestBranchResolver_HeaderTakesPrecedence(t *testing.T) {
	router, seen := branchEcho()

	req := httptest.NewRequest("GET", "/echo?sucursal=limon", nil)
	req.Header.Set(BranchHeaderKey, "San Jose")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sanjose", *seen)
}

func TestBranchResolver_QueryFallback(t *testing.T) {
	router, seen := branchEcho()

	req := httptest.NewRequest("GET", "/echo?sucursal=LIMON", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "limon", *seen)
}

func TestBranchResolver_AbsentLeavesContextEmpty(t *testing.T) {
	router, seen := branchEcho()

	req := httptest.NewRequest("GET", "/echo", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Resolution never rejects on its own.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, *seen)
}

func gatedRouter() *gin.Engine {
	router := gin.New()
	router.Use(BranchResolver())
	protected := router.Group("/api/clientes")
	protected.Use(RequireBranch(testRegistry()))
	protected.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, GetBranch(c))
	})
	return router
}

func TestRequireBranch_Missing(t *testing.T) {
	router := gatedRouter()

	req := httptest.NewRequest("GET", "/api/clientes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "Sucursal requerida")
}

func TestRequireBranch_UnknownListsOptions(t *testing.T) {
	router := gatedRouter()

	req := httptest.NewRequest("GET", "/api/clientes", nil)
	req.Header.Set(BranchHeaderKey, "cartago")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "Sucursal inválida: cartago")
	assert.Contains(t, body["error"], "corporativo, limon, sanjose")
}

func TestRequireBranch_ValidSpellings(t *testing.T) {
	router := gatedRouter()

	for _, spelling := range []string{"sanjose", "San Jose", "SANJOSE ", "san jose"} {
		req := httptest.NewRequest("GET", "/api/clientes", nil)
		req.Header.Set(BranchHeaderKey, spelling)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "spelling %q", spelling)
		assert.Equal(t, "sanjose", w.Body.String(), "spelling %q", spelling)
	}
}
