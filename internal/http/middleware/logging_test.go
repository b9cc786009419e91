package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// syncWriter serializes concurrent zerolog writes into one buffer.
type syncWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func captureLogs(t *testing.T) *syncWriter {
	t.Helper()
	w := &syncWriter{}
	prev := log.Logger
	log.Logger = zerolog.New(w)
	t.Cleanup(func() { log.Logger = prev })
	return w
}

func TestRequestIDGenerated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Error("no X-Request-ID generated")
	}
}

func TestRequestIDPropagated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if rid := w.Header().Get("X-Request-ID"); rid != "client-supplied-id" {
		t.Errorf("X-Request-ID = %q, want the client's id echoed", rid)
	}
}

func TestLoggerEmitsAccessLine(t *testing.T) {
	out := captureLogs(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger())
	r.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/things/42?x=1", nil)
	req.Header.Set("X-Request-ID", "rid-access")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(out.String())), &line); err != nil {
		t.Fatalf("log output not JSON: %q", out.String())
	}
	if line["request_id"] != "rid-access" {
		t.Errorf("request_id = %v", line["request_id"])
	}
	if line["path"] != "/things/:id" {
		t.Errorf("path = %v, want the registered route", line["path"])
	}
	if line["status"] != float64(http.StatusOK) {
		t.Errorf("status = %v", line["status"])
	}
}

// Two requests handled at the same time must each log with their own request
// id; a globally-scoped logger would make the lines share whichever id was
// set last.
func TestLoggerConcurrentRequestsKeepTheirIDs(t *testing.T) {
	out := captureLogs(t)

	gin.SetMode(gin.TestMode)

	var entered sync.WaitGroup
	release := make(chan struct{})

	r := gin.New()
	r.Use(RequestID(), Logger())
	r.GET("/probe", func(c *gin.Context) {
		entered.Done()
		<-release // both requests are in flight before either logs
		LoggerFrom(c).Info().Msg("probe")
		c.Status(http.StatusNoContent)
	})

	ids := []string{"rid-alpha", "rid-beta"}
	entered.Add(len(ids))

	var done sync.WaitGroup
	for _, id := range ids {
		done.Add(1)
		go func(rid string) {
			defer done.Done()
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			req.Header.Set("X-Request-ID", rid)
			r.ServeHTTP(httptest.NewRecorder(), req)
		}(id)
	}

	entered.Wait()
	close(release)
	done.Wait()

	seen := map[string]int{}
	sc := bufio.NewScanner(strings.NewReader(out.String()))
	for sc.Scan() {
		var line map[string]any
		if err := json.Unmarshal(sc.Bytes(), &line); err != nil {
			t.Fatalf("log output not JSON: %q", sc.Text())
		}
		if line["message"] != "probe" {
			continue
		}
		rid, _ := line["request_id"].(string)
		seen[rid]++
	}

	for _, id := range ids {
		if seen[id] != 1 {
			t.Errorf("request %s logged %d probe lines, want exactly 1 (seen: %v)", id, seen[id], seen)
		}
	}
}

func TestLoggerFromFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if LoggerFrom(c) == nil {
		t.Fatal("LoggerFrom returned nil without Logger() installed")
	}
}

func TestRecovery(t *testing.T) {
	captureLogs(t) // keep the stack trace out of test output

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-ID", "rid-panic")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "INTERNAL_ERROR") {
		t.Errorf("body = %s, want INTERNAL_ERROR code", body)
	}
	if !strings.Contains(body, "rid-panic") {
		t.Errorf("body = %s, want the request id echoed", body)
	}
	if strings.Contains(body, "kaboom") {
		t.Errorf("body = %s, panic detail leaked to the client", body)
	}
}
