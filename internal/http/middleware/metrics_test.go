package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordsRoutePath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/widgets/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/widgets/:id", "200"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/widgets/42", nil))

	after := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/widgets/:id", "200"))
	if after != before+1 {
		t.Errorf("counter went %v -> %v, want one increment on the route label", before, after)
	}
}

func TestMetricsInflightReturnsToZeroDelta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpInflight)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	after := testutil.ToFloat64(httpInflight)

	if before != after {
		t.Errorf("inflight gauge drifted %v -> %v", before, after)
	}
}
