package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-void-timer/internal/observability/logging"
)

func newRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Gin(GinConfig{
		SkipPaths:  []string{"/health"},
		Module:     logging.Module("void-timer"),
		Worker:     true,
		TracerName: "test",
		JobNameResolver: func(c *gin.Context) string {
			return c.Request.URL.Path
		},
	}))
	r.Use(PanicRecoveryGin())
	r.GET("/api/v1/timer", handler)
	r.GET("/health", handler)
	return r
}

func TestGinRequestID(t *testing.T) {
	valid := uuid.NewString()

	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{name: "valid id is kept", header: valid, wantSame: true},
		{name: "invalid id is replaced", header: "not-a-uuid"},
		{name: "missing id is generated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			var module logging.Module
			r := newRouter(func(c *gin.Context) {
				seen = logging.RequestIDFromContext(c.Request.Context())
				module = logging.ModuleFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/timer", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			if got != seen {
				t.Errorf("response id %q != context id %q", got, seen)
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("request id %q is not a uuid", got)
			}
			if (got == tt.header) != tt.wantSame {
				t.Errorf("request id = %q, header = %q", got, tt.header)
			}
			if module != "void-timer" {
				t.Errorf("module = %q", module)
			}
		})
	}
}

func TestGinSkipPaths(t *testing.T) {
	var seen string
	r := newRouter(func(c *gin.Context) {
		seen = logging.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if seen != "" || w.Header().Get(RequestIDHeader) != "" {
		t.Errorf("skipped path got request id %q", seen)
	}
}

func TestPanicRecoveryGin(t *testing.T) {
	r := newRouter(func(*gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/timer", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
