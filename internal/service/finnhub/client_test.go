package finnhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"MarketLens/internal/service/ratelimit"
	"MarketLens/pkg/cache"
	xhttp "MarketLens/pkg/http"
	xlogger "MarketLens/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })

	c := New("test-key", srv.URL, ratelimit.NewInterval(time.Millisecond), mem, xlogger.Nop())
	return c, srv
}

func TestQuoteSuccess(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("token"); got != "test-key" {
			t.Errorf("token = %q, want test-key", got)
		}
		if got := r.URL.Query().Get("symbol"); got != "AAPL" {
			t.Errorf("symbol = %q, want AAPL", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"c":189.5,"d":1.2,"dp":0.64,"pc":188.3}`))
	})

	q, err := c.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Current != 189.5 || q.ChangePercent != 0.64 {
		t.Fatalf("unexpected quote: %+v", q)
	}
}

func TestQuoteRateLimitedStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	_, err := c.Quote(context.Background(), "AAPL")
	if err == nil {
		t.Fatalf("expected error on 429")
	}
	if !xhttp.IsRateLimited(err) {
		t.Fatalf("expected rate-limited error, got %v", err)
	}
}

func TestQuoteServerError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	if _, err := c.Quote(context.Background(), "AAPL"); err == nil {
		t.Fatalf("expected error on 502")
	}
}

func TestQuoteUndecodableBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	if _, err := c.Quote(context.Background(), "AAPL"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestProfileCachedAcrossCalls(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"name":"Apple Inc","marketCapitalization":2900000}`))
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		p, err := c.CompanyProfile(ctx, "AAPL")
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if p.Name != "Apple Inc" {
			t.Fatalf("call %d: unexpected profile %+v", i, p)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected 1 upstream hit, got %d", n)
	}
}

func TestQuoteNeverCached(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"c":100}`))
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := c.Quote(ctx, "AAPL"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 3 {
		t.Fatalf("expected 3 upstream hits, got %d", n)
	}
}

func TestErrorResponsesNotCached(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			http.Error(w, "oops", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"name":"Apple Inc"}`))
	})

	ctx := context.Background()
	if _, err := c.CompanyProfile(ctx, "AAPL"); err == nil {
		t.Fatalf("expected error on first call")
	}
	p, err := c.CompanyProfile(ctx, "AAPL")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if p.Name != "Apple Inc" {
		t.Fatalf("unexpected profile %+v", p)
	}
}

func TestHasCredentials(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()

	with := New("key", "http://localhost", ratelimit.NewInterval(time.Millisecond), mem, xlogger.Nop())
	if !with.HasCredentials() {
		t.Fatalf("expected credentials")
	}
	without := New("", "http://localhost", ratelimit.NewInterval(time.Millisecond), mem, xlogger.Nop())
	if without.HasCredentials() {
		t.Fatalf("expected no credentials")
	}
}

func TestSearchPassesQuery(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "apple" {
			t.Errorf("q = %q, want apple", got)
		}
		_, _ = w.Write([]byte(`{"count":1,"result":[{"symbol":"AAPL","description":"APPLE INC"}]}`))
	})

	res, err := c.Search(context.Background(), "apple")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count != 1 || len(res.Result) != 1 || res.Result[0].Symbol != "AAPL" {
		t.Fatalf("unexpected result: %+v", res)
	}
}
