package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"nutriconnect-server/config"
	"nutriconnect-server/utils"
)

func TestMain(m *testing.M) {
	config.Load()
	os.Exit(m.Run())
}

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware())
	router.GET("/private", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	authTestRouter().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareBadFormat(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Token abc")
	authTestRouter().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	authTestRouter().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRejectsForeignSignature(t *testing.T) {
	token, err := utils.GenerateToken(1, "client")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	// A token minted against another instance's secret must not verify
	original := config.AppConfig.JWT.Secret
	config.AppConfig.JWT.Secret = "rotated-secret"
	defer func() { config.AppConfig.JWT.Secret = original }()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authTestRouter().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestOptionalAuthMiddlewarePassesAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(OptionalAuthMiddleware())
	router.GET("/open", func(c *gin.Context) {
		if c.GetUint("user_id") != 0 {
			t.Error("anonymous request carried a user id")
		}
		c.Status(http.StatusOK)
	})

	for _, header := range []string{"", "Token abc", "Bearer not.a.token"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("header %q: status = %d, want %d", header, w.Code, http.StatusOK)
		}
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set("role", "client") })
	router.Use(RequireRole("dietitian", "admin"))
	router.GET("/gated", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}
