package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWithRequest_SetsValues(t *testing.T) {
	ctx := WithRequest(context.Background(), "req-1", "10.1.2.3")
	id, ok := GetRequestID(ctx)
	if !ok || id != "req-1" {
		t.Errorf("GetRequestID = %q, %v", id, ok)
	}
	if ip := GetClientIP(ctx); ip != "10.1.2.3" {
		t.Errorf("GetClientIP = %q", ip)
	}
}

func TestGetters_Unset(t *testing.T) {
	ctx := context.Background()
	if _, ok := GetRequestID(ctx); ok {
		t.Error("GetRequestID should return false on empty context")
	}
	if ip := GetClientIP(ctx); ip != "unknown" {
		t.Errorf("GetClientIP = %q, want unknown", ip)
	}
}

func TestRequestContext(t *testing.T) {
	r := gin.New()
	r.Use(RequestContext())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen, _ = GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	t.Run("propagates header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		r.ServeHTTP(w, req)
		if seen != "abc-123" || w.Header().Get(RequestIDHeader) != "abc-123" {
			t.Errorf("seen=%q header=%q", seen, w.Header().Get(RequestIDHeader))
		}
	})
	t.Run("generates when missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if seen == "" || seen == "abc-123" || w.Header().Get(RequestIDHeader) != seen {
			t.Errorf("seen=%q header=%q", seen, w.Header().Get(RequestIDHeader))
		}
	})
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("12345678")))
	if w.Code != http.StatusOK {
		t.Errorf("at limit: status = %d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("123456789")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("over limit: status = %d", w.Code)
	}
}

type recordedEvent struct {
	action, resource, meta string
	affected               int64
}

type fakeRecorder struct {
	events []recordedEvent
}

func (f *fakeRecorder) LogEvent(ctx context.Context, action, resource string, affected int64, metadata string) {
	f.events = append(f.events, recordedEvent{action, resource, metadata, affected})
}

func TestAudit(t *testing.T) {
	rec := &fakeRecorder{}
	r := gin.New()
	r.Use(RequestContext())
	r.DELETE("/ok", Audit(rec, "clear_history", "churn_predictions"), func(c *gin.Context) {
		c.Set(AffectedRowsKey, int64(4))
		c.Status(http.StatusOK)
	})
	r.DELETE("/fail", Audit(rec, "clear_history", "churn_predictions"), func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodDelete, "/ok", nil)
	req.Header.Set(RequestIDHeader, "rid")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/fail", nil))

	if len(rec.events) != 1 {
		t.Fatalf("events = %d, want 1", len(rec.events))
	}
	got := rec.events[0]
	if got.action != "clear_history" || got.resource != "churn_predictions" || got.affected != 4 || got.meta != "request_id=rid" {
		t.Errorf("event = %+v", got)
	}
}

func TestAudit_NilRecorder(t *testing.T) {
	r := gin.New()
	r.DELETE("/", Audit(nil, "a", "r"), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}
