package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
)

type countingFetcher struct {
	next        Fetcher
	mu          sync.Mutex
	inFlight    int
	maxInFlight int
}

func (c *countingFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.maxInFlight {
		c.maxInFlight = c.inFlight
	}
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.inFlight--
		c.mu.Unlock()
	}()
	return c.next.Fetch(ctx, locator)
}

func TestHTTPFetcher(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/ok.json":
			w.Write([]byte(`["a.json"]`))
		case "/big.json":
			w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPConfig{MaxBytes: 16})

	body, err := f.Fetch(context.Background(), srv.URL+"/ok.json")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(body) != `["a.json"]` {
		t.Errorf("body = %q", body)
	}
	if gotUA != "mocktest/1.0" {
		t.Errorf("User-Agent = %q, want 'mocktest/1.0'", gotUA)
	}

	big, err := f.Fetch(context.Background(), srv.URL+"/big.json")
	if err != nil {
		t.Fatalf("Fetch big: %v", err)
	}
	if len(big) != 16 {
		t.Errorf("expected body capped at 16 bytes, got %d", len(big))
	}

	if _, err := f.Fetch(context.Background(), srv.URL+"/missing.json"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestFSFetcher(t *testing.T) {
	f := FSFetcher{FS: fstest.MapFS{"json/a.json": {Data: []byte("{}")}}}
	for _, loc := range []string{"json/a.json", "./json/a.json", "/json/a.json", "json/../json/a.json"} {
		if _, err := f.Fetch(context.Background(), loc); err != nil {
			t.Errorf("Fetch(%q): %v", loc, err)
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Fetch(ctx, "json/a.json"); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestMuxFetcher(t *testing.T) {
	m := MuxFetcher{Files: FSFetcher{FS: fstest.MapFS{"a.json": {Data: []byte("{}")}}}}
	if _, err := m.Fetch(context.Background(), "a.json"); err != nil {
		t.Errorf("Fetch file: %v", err)
	}
	if _, err := m.Fetch(context.Background(), "https://example.com/a.json"); err == nil {
		t.Error("expected error without http fetcher")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"problem_sources.json", "json/a.json", "json/a.json"},
		{"data/problem_sources.json", "json/a.json", "data/json/a.json"},
		{"data/index.json", "/abs/a.json", "/abs/a.json"},
		{"https://quiz.example.com/problem_sources.json", "json/a.json", "https://quiz.example.com/json/a.json"},
		{"https://quiz.example.com/sets/index.json", "../json/a.json", "https://quiz.example.com/json/a.json"},
		{"data/index.json", "https://cdn.example.com/a.json", "https://cdn.example.com/a.json"},
	}
	for _, tt := range tests {
		if got := Resolve(tt.base, tt.ref); got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
		}
	}
}

func TestIsYAML(t *testing.T) {
	tests := map[string]bool{
		"index.yaml":                         true,
		"index.YML":                          true,
		"index.json":                         false,
		"https://x.example.com/a.yaml?v=2":   true,
		"https://x.example.com/a.json?f=.yml": false,
	}
	for loc, want := range tests {
		if got := isYAML(loc); got != want {
			t.Errorf("isYAML(%q) = %v, want %v", loc, got, want)
		}
	}
}
