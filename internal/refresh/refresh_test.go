package refresh

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shantanuraj/roulette/internal/config"
	"github.com/shantanuraj/roulette/internal/imagemap"
	"github.com/shantanuraj/roulette/internal/metrics"
	"github.com/shantanuraj/roulette/internal/source"
	"github.com/shantanuraj/roulette/internal/store"
)

const (
	rawV1 = `{"2023-01-01_UTC.jpg":"def.jpg"}`
	rawV2 = `{"2023-01-01_UTC.jpg":"def.jpg","2024-01-01_UTC.jpg":"abc.jpg"}`
)

// scriptFetcher returns its responses in order, repeating the last one.
type scriptFetcher struct {
	mu    sync.Mutex
	steps []fetchStep
	calls int
}

type fetchStep struct {
	raw string
	err error
}

func (f *scriptFetcher) Fetch(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	if i >= len(f.steps) {
		i = len(f.steps) - 1
	}
	f.calls++
	return f.steps[i].raw, f.steps[i].err
}

func newStore(t *testing.T, raw string) *store.Store {
	t.Helper()
	m, err := imagemap.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return store.New(m)
}

func TestTick_Outcomes(t *testing.T) {
	st := newStore(t, rawV1)
	f := &scriptFetcher{steps: []fetchStep{
		{raw: rawV1},
		{raw: rawV2},
		{err: errors.New("connection refused")},
		{raw: `{"broken":`},
		{raw: rawV2},
	}}
	p := New(f, st, time.Hour, metrics.New())

	want := []Outcome{Unchanged, Replaced, FetchFailed, ParseRejected, Unchanged}
	for i, w := range want {
		if got := p.Tick(context.Background()); got != w {
			t.Errorf("tick %d: got %v, want %v", i, got, w)
		}
	}
	if st.Len() != 2 {
		t.Errorf("Len: got %d, want 2 (v2 kept after bad payloads)", st.Len())
	}
	if st.Fingerprint() != imagemap.Fingerprint(rawV2) {
		t.Error("Fingerprint: store does not hold v2")
	}
}

func TestTick_FetchFailureLeavesStore(t *testing.T) {
	st := newStore(t, rawV1)
	before := st.Current()
	p := New(&scriptFetcher{steps: []fetchStep{{err: errors.New("timeout")}}}, st, time.Hour, nil)

	for i := 0; i < 3; i++ {
		if got := p.Tick(context.Background()); got != FetchFailed {
			t.Fatalf("tick %d: got %v, want FetchFailed", i, got)
		}
	}
	if st.Current() != before {
		t.Error("store changed after fetch failures")
	}
}

func TestApply_Watch(t *testing.T) {
	st := newStore(t, rawV1)
	if got := Apply(st, nil, "watch", rawV2); got != Replaced {
		t.Errorf("Apply(v2): got %v, want Replaced", got)
	}
	if got := Apply(st, nil, "watch", "nope"); got != ParseRejected {
		t.Errorf("Apply(bad): got %v, want ParseRejected", got)
	}
	if got := Apply(st, nil, "watch", rawV2); got != Unchanged {
		t.Errorf("Apply(v2 again): got %v, want Unchanged", got)
	}
}

func TestOutcome_String(t *testing.T) {
	tests := map[Outcome]string{
		Unchanged:     "unchanged",
		Replaced:      "replaced",
		FetchFailed:   "fetch_failed",
		ParseRejected: "parse_rejected",
		Outcome(99):   "unknown",
	}
	for o, want := range tests {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String(): got %q, want %q", int(o), got, want)
		}
	}
}

func TestRun_TicksUntilCancelled(t *testing.T) {
	st := newStore(t, rawV1)
	f := &scriptFetcher{steps: []fetchStep{{raw: rawV1}, {err: errors.New("flaky")}, {raw: rawV2}}}
	p := New(f, st, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for st.Len() != 2 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for poller to install v2")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_HTTPSource(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(rawV2))
	}))
	defer srv.Close()

	st := newStore(t, rawV1)
	f := source.NewHTTPFetcher(config.SyncConfig{URL: srv.URL, Timeout: time.Second})
	p := New(f, st, time.Hour, nil)

	if got := p.Tick(context.Background()); got != FetchFailed {
		t.Fatalf("first tick: got %v, want FetchFailed", got)
	}
	if got := p.Tick(context.Background()); got != Replaced {
		t.Fatalf("second tick: got %v, want Replaced", got)
	}
	if got := p.Tick(context.Background()); got != Unchanged {
		t.Fatalf("third tick: got %v, want Unchanged", got)
	}
}
