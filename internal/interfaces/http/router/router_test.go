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

func perform(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
	assert.Empty(t, r.middleware)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterRegister(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.Register(NewDomainGroup("webhooks", "/webhooks"))

	assert.Len(t, r.registrars, 1)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Register(group)
	r.Setup()

	w := perform(engine, http.MethodGet, "/api/v1/test/ping")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	r := NewRouter(engine).Use(func(c *gin.Context) {
		c.Header("X-Api-Middleware", "applied")
		c.Next()
	})
	r.Register(NewDomainGroup("test", "/test").GET("/items", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	}))
	r.Setup()

	api := perform(engine, http.MethodGet, "/api/v1/test/items")
	assert.Equal(t, "applied", api.Header().Get("X-Api-Middleware"))

	health := perform(engine, http.MethodGet, "/health")
	assert.Empty(t, health.Header().Get("X-Api-Middleware"), "versioned API middleware must not leak to root routes")
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("orders", "/orders")
		assert.Equal(t, "orders", g.Name())
		assert.Equal(t, "/orders", g.Prefix())
	})

	t.Run("registers GET route", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.GET("/items", func(c *gin.Context) {
			c.String(http.StatusOK, "items")
		})

		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/api/v1/test/items").Code)
	})

	t.Run("registers POST route", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.POST("/items", func(c *gin.Context) {
			c.String(http.StatusCreated, "created")
		})

		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, http.StatusCreated, perform(engine, http.MethodPost, "/api/v1/test/items").Code)
	})

	t.Run("registers route on the group root", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("orders", "/orders")
		g.POST("", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, http.StatusNoContent, perform(engine, http.MethodPost, "/api/v1/orders").Code)
	})

	t.Run("static and parameter routes coexist", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("orders", "/orders")
		g.POST("/import", func(c *gin.Context) {
			c.String(http.StatusOK, "all")
		}).POST("/:ref/import", func(c *gin.Context) {
			c.String(http.StatusOK, c.Param("ref"))
		})

		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "all", perform(engine, http.MethodPost, "/api/v1/orders/import").Body.String())
		assert.Equal(t, "BB-1", perform(engine, http.MethodPost, "/api/v1/orders/BB-1/import").Body.String())
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")

		g.Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})

		g.GET("/items", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		g.RegisterRoutes(engine.Group("/api/v1"))

		w := perform(engine, http.MethodGet, "/api/v1/test/items")
		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})
}

func TestMultipleDomainGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	products := NewDomainGroup("products", "/products")
	products.GET("/inventories", func(c *gin.Context) {
		c.String(http.StatusOK, "inventories")
	})

	sync := NewDomainGroup("sync", "/sync")
	sync.GET("/jobs", func(c *gin.Context) {
		c.String(http.StatusOK, "jobs")
	})

	r.Register(products).Register(sync)
	r.Setup()

	w1 := perform(engine, http.MethodGet, "/api/v1/products/inventories")
	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, "inventories", w1.Body.String())

	w2 := perform(engine, http.MethodGet, "/api/v1/sync/jobs")
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "jobs", w2.Body.String())
}

func TestChainedMethodCalls(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	g := NewDomainGroup("test", "/test")
	g.GET("/a", func(c *gin.Context) { c.String(http.StatusOK, "a") }).
		POST("/b", func(c *gin.Context) { c.String(http.StatusOK, "b") }).
		GET("/c", func(c *gin.Context) { c.String(http.StatusOK, "c") })

	r.Register(g).Setup()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/test/a"},
		{http.MethodPost, "/api/v1/test/b"},
		{http.MethodGet, "/api/v1/test/c"},
	}

	for _, tt := range tests {
		w := perform(engine, tt.method, tt.path)
		assert.Equal(t, http.StatusOK, w.Code, "Route %s %s should work", tt.method, tt.path)
	}
}
