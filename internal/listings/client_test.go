package listings

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("example.com:1234/api?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Path != "/api/" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestParseBaseURL_MissingHostErrors(t *testing.T) {
	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL returned nil error, want error")
	}
}

func TestClient_FetchPropertiesEncodesFilter(t *testing.T) {
	t.Parallel()

	var (
		mu        sync.Mutex
		gotPaths  []string
		gotFilter []string
		gotUA     string
		gotReqID  string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotPaths = append(gotPaths, r.URL.Path)
		gotFilter = append(gotFilter, r.URL.Query().Get("filter"))
		gotUA = r.Header.Get("User-Agent")
		gotReqID = r.Header.Get("X-Request-ID")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"1","img_src":"http://x/a.jpg","price":200000,"type":"buy"}]`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL + "/mars")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	for _, f := range Filters() {
		props, err := c.FetchProperties(ctx, f)
		if err != nil {
			t.Fatalf("FetchProperties(%s) returned error: %v", f, err)
		}
		if len(props) != 1 || props[0].ID != "1" || props[0].Type != TypeBuy {
			t.Fatalf("FetchProperties(%s) = %#v, want one buy listing", f, props)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(gotFilter) != 3 || gotFilter[0] != "all" || gotFilter[1] != "rent" || gotFilter[2] != "buy" {
		t.Fatalf("filter params = %v, want [all rent buy]", gotFilter)
	}
	for _, p := range gotPaths {
		if p != "/mars/realestate" {
			t.Fatalf("path = %q, want /mars/realestate", p)
		}
	}
	if !strings.HasPrefix(gotUA, "marsview/") {
		t.Fatalf("User-Agent = %q, want marsview/*", gotUA)
	}
	if len(gotReqID) != 36 {
		t.Fatalf("X-Request-ID = %q, want a UUID", gotReqID)
	}
}

func TestClient_EmptyArrayIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	props, err := c.FetchProperties(context.Background(), FilterAll)
	if err != nil {
		t.Fatalf("FetchProperties returned error: %v", err)
	}
	if props == nil || len(props) != 0 {
		t.Fatalf("FetchProperties = %#v, want empty non-nil slice", props)
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("filter") {
		case "rent":
			_, _ = w.Write([]byte(`[{"id":"1","img_src":"x","price":"abc","type":"rent"}]`))
		case "buy":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte("{not-json"))
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchProperties(context.Background(), FilterRent)
	var decErr *DecodeError
	if !errors.As(err, &decErr) || decErr.Field != "price" {
		t.Fatalf("FetchProperties(rent) error = %v, want price DecodeError", err)
	}

	_, err = c.FetchProperties(context.Background(), FilterBuy)
	var netErr *NetworkError
	if !errors.As(err, &netErr) || netErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("FetchProperties(buy) error = %v, want status 500 NetworkError", err)
	}
	if !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("error = %q, want it to mention status 500", err.Error())
	}

	_, err = c.FetchProperties(context.Background(), FilterAll)
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchProperties(all) error = %v, want decode response error", err)
	}
}

func TestClient_TimeoutIsNetworkError(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	c, err := NewClient(server.URL, WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.FetchProperties(context.Background(), FilterAll)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want NetworkError", err)
	}
	if netErr.StatusCode != 0 {
		t.Fatalf("StatusCode = %d, want 0 for timeout", netErr.StatusCode)
	}
}

func TestClient_ConnectionRefusedIsNetworkError(t *testing.T) {
	c, err := NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.FetchProperties(context.Background(), FilterAll)
	if Kind(err) != "network" {
		t.Fatalf("Kind(%v) = %q, want network", err, Kind(err))
	}
}
