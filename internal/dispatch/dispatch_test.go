package dispatch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lambdagate/internal/cache"
	"lambdagate/internal/routes"
	"lambdagate/internal/supervisor"
	"lambdagate/internal/wire"
)

type fakeClient struct {
	resp wire.Response
	err  error
	n    int
}

func (f *fakeClient) Do(ctx context.Context, address string, req wire.Request) (wire.Response, error) {
	f.n++
	if f.err != nil {
		return wire.Response{}, f.err
	}
	return f.resp, nil
}

func buildPipeline(t *testing.T, workerMode supervisor.Mode, workerState supervisor.State, client *fakeClient) *Pipeline {
	t.Helper()
	rec := supervisor.WorkerRecord{ID: "w1", RoutePattern: "/api/*", EndpointName: "w1", Mode: workerMode}

	table, err := routes.Build([]supervisor.WorkerRecord{rec})
	if err != nil {
		t.Fatal(err)
	}

	sup := supervisor.New()
	sup.Put(supervisor.NewHandle(rec, "irrelevant-address", workerState))

	c := cache.New(16)
	return New(c, table, sup, client, client)
}

func TestDispatchCacheMissThenHit(t *testing.T) {
	client := &fakeClient{resp: wire.Response{Status: 200, Body: wire.EncodeBody([]byte("hi"))}}
	p := buildPipeline(t, supervisor.ModeIPC, supervisor.StateReady, client)

	req := httptest.NewRequest(http.MethodGet, "/api/widgets", nil)
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	if rec.Code != 200 || rec.Body.String() != "hi" {
		t.Fatalf("unexpected first response: %d %q", rec.Code, rec.Body.String())
	}
	if client.n != 1 {
		t.Fatalf("expected one transport call, got %d", client.n)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/widgets", nil)
	rec2 := httptest.NewRecorder()
	p.ServeHTTP(rec2, req2)

	if rec2.Body.String() != "hi" {
		t.Fatalf("unexpected cached response: %q", rec2.Body.String())
	}
	if client.n != 1 {
		t.Fatalf("expected cache hit to skip transport call, got %d calls", client.n)
	}
}

func TestDispatchNoRoute(t *testing.T) {
	client := &fakeClient{}
	p := buildPipeline(t, supervisor.ModeIPC, supervisor.StateReady, client)

	req := httptest.NewRequest(http.MethodGet, "/unmatched", nil)
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if client.n != 0 {
		t.Fatal("transport should not be called on a route miss")
	}
}

func TestDispatchWorkerNotReady(t *testing.T) {
	client := &fakeClient{}
	p := buildPipeline(t, supervisor.ModeIPC, supervisor.StateStarting, client)

	req := httptest.NewRequest(http.MethodGet, "/api/widgets", nil)
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestDispatchTransportError(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	p := buildPipeline(t, supervisor.ModeIPC, supervisor.StateReady, client)

	req := httptest.NewRequest(http.MethodGet, "/api/widgets", nil)
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestDispatchMalformedBodyNotCached(t *testing.T) {
	client := &fakeClient{resp: wire.Response{Status: 200, Body: "not-valid-base64!!"}}
	p := buildPipeline(t, supervisor.ModeIPC, supervisor.StateReady, client)

	req := httptest.NewRequest(http.MethodGet, "/api/widgets", nil)
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for malformed body, got %d", rec.Code)
	}
	if _, ok := p.cache.Get(cache.Key(http.MethodGet, "/api/widgets")); ok {
		t.Fatal("a malformed response should never be cached")
	}
}

func TestDispatchOutOfRangeStatusNotCached(t *testing.T) {
	client := &fakeClient{resp: wire.Response{Status: 700, Body: wire.EncodeBody([]byte("hi"))}}
	p := buildPipeline(t, supervisor.ModeIPC, supervisor.StateReady, client)

	req := httptest.NewRequest(http.MethodGet, "/api/widgets", nil)
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for out-of-range status, got %d", rec.Code)
	}
	if _, ok := p.cache.Get(cache.Key(http.MethodGet, "/api/widgets")); ok {
		t.Fatal("an out-of-range status response should never be cached")
	}
}

func TestDispatchDoesNotCacheOnError(t *testing.T) {
	client := &fakeClient{err: errors.New("boom")}
	p := buildPipeline(t, supervisor.ModeIPC, supervisor.StateReady, client)

	req := httptest.NewRequest(http.MethodGet, "/api/widgets", nil)
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	if _, ok := p.cache.Get(cache.Key(http.MethodGet, "/api/widgets")); ok {
		t.Fatal("an error response should never be cached")
	}
}
