package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func echo(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

func TestRouter_MountsGroupsUnderAPIPrefix(t *testing.T) {
	engine := gin.New()

	group := NewDomainGroup("inventario", "/inventario").
		GET("", echo("list")).
		GET("/:id", echo("detail")).
		POST("", echo("insert")).
		PUT("/:id", echo("update")).
		DELETE("/:id", echo("delete"))

	NewRouter(engine).Register(group).Setup()

	cases := []struct {
		method, path, want string
	}{
		{"GET", "/api/inventario", "list"},
		{"GET", "/api/inventario/5", "detail"},
		{"POST", "/api/inventario", "insert"},
		{"PUT", "/api/inventario/5", "update"},
		{"DELETE", "/api/inventario/5", "delete"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, tc.want, w.Body.String(), "%s %s", tc.method, tc.path)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/inventario", nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "routes live under the /api prefix only")
}

func TestDomainGroup_MiddlewareRunsBeforeHandlers(t *testing.T) {
	engine := gin.New()

	var order []string
	group := NewDomainGroup("ventas", "/ventas").
		Use(func(c *gin.Context) {
			order = append(order, "gate")
			c.Next()
		}).
		GET("", func(c *gin.Context) {
			order = append(order, "handler")
			c.Status(http.StatusOK)
		})

	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/ventas", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"gate", "handler"}, order)
	assert.Equal(t, "ventas", group.Name())
}
