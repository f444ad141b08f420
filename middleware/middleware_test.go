package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGetClientIPPrefersForwardedFor(t *testing.T) {
	cases := []struct {
		headers map[string]string
		remote  string
		want    string
	}{
		{map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "1.2.3.4:5555", "10.0.0.1"},
		{map[string]string{"X-Real-IP": " 10.0.0.9 "}, "1.2.3.4:5555", "10.0.0.9"},
		{nil, "1.2.3.4:5555", "1.2.3.4"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.RemoteAddr = tc.remote
		for k, v := range tc.headers {
			c.Request.Header.Set(k, v)
		}
		if got := getClientIP(c); got != tc.want {
			t.Errorf("getClientIP = %q, want %q", got, tc.want)
		}
	}
}

func TestRateLimitMiddlewareRejectsBurstOverflow(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()), RateLimitMiddleware(2))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "9.9.9.9:1000"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}

	// Another client has its own bucket.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "8.8.8.8:1000"
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("other client code = %d", w.Code)
	}
}
