package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limitedRouter(rl *RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/api/reviews/Teacher/1", func(c *gin.Context) {
		c.JSON(200, gin.H{"code": 0})
	})
	return router
}

func limitedGet(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/reviews/Teacher/1", nil)
	req.RemoteAddr = ip + ":12345"
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit_AllowsWithinBudget(t *testing.T) {
	router := limitedRouter(NewRateLimiter(10, 10))

	w := limitedGet(router, "192.168.1.1")
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestRateLimit_BlocksExcessiveRequests(t *testing.T) {
	router := limitedRouter(NewRateLimiter(1, 2))

	// Burst of 2 allowed; the requests after it must be rejected.
	var lastCode int
	for i := 0; i < 5; i++ {
		lastCode = limitedGet(router, "10.0.0.1").Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Errorf("expected status %d after burst exceeded, got %d", http.StatusTooManyRequests, lastCode)
	}
}

func TestRateLimit_RejectsWithResponseEnvelope(t *testing.T) {
	router := limitedRouter(NewRateLimiter(1, 1))

	limitedGet(router, "10.0.0.9")
	w := limitedGet(router, "10.0.0.9")

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status %d, got %d", http.StatusTooManyRequests, w.Code)
	}

	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body.Code != 429 {
		t.Errorf("envelope code = %d, expected 429", body.Code)
	}
	if body.Message == "" {
		t.Error("envelope message should not be empty")
	}
}

func TestRateLimit_IndependentPerIP(t *testing.T) {
	router := limitedRouter(NewRateLimiter(1, 1))

	// First IP uses up its burst.
	if w := limitedGet(router, "10.0.0.1"); w.Code != http.StatusOK {
		t.Errorf("IP1 first request: expected %d, got %d", http.StatusOK, w.Code)
	}
	if w := limitedGet(router, "10.0.0.1"); w.Code != http.StatusTooManyRequests {
		t.Errorf("IP1 second request: expected %d, got %d", http.StatusTooManyRequests, w.Code)
	}

	// Second IP still has its own budget.
	if w := limitedGet(router, "10.0.0.2"); w.Code != http.StatusOK {
		t.Errorf("IP2 first request: expected %d, got %d", http.StatusOK, w.Code)
	}
}
