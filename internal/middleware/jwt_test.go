package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flagdeck/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var testSigningKey = []byte("unit-test-key")

func signTestToken(t *testing.T, key []byte, expiresIn time.Duration) string {
	t.Helper()
	claims := service.UserClaims{
		UserID:   "42",
		Username: "tester",
		Role:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func jwtTestRouter(devMode bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTMiddleware(testSigningKey, devMode))
	r.GET("/whoami", func(c *gin.Context) {
		op := service.GetOperatorInfo(c.Request.Context())
		if op == nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, op.Name)
	})
	return r
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	r := jwtTestRouter(false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, testSigningKey, time.Minute))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "tester" {
		t.Errorf("expected operator 'tester', got %q", w.Body.String())
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	r := jwtTestRouter(false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestJWTMiddleware_WrongKey(t *testing.T) {
	r := jwtTestRouter(false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, []byte("other-key"), time.Minute))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	r := jwtTestRouter(false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, testSigningKey, -time.Minute))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestJWTMiddleware_DevPass(t *testing.T) {
	r := jwtTestRouter(true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-Dev-Pass", "true")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "dev-admin" {
		t.Errorf("expected operator 'dev-admin', got %q", w.Body.String())
	}

	// the bypass must be inert outside dev mode
	r = jwtTestRouter(false)
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-Dev-Pass", "true")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
