// Package dispatch implements the cache -> route -> transport pipeline
// that turns an inbound HTTP request into a call to a worker.
package dispatch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"lambdagate/internal/cache"
	"lambdagate/internal/id"
	"lambdagate/internal/logger"
	"lambdagate/internal/metrics"
	"lambdagate/internal/routes"
	"lambdagate/internal/supervisor"
	"lambdagate/internal/telemetry"
	"lambdagate/internal/transport"
	"lambdagate/internal/wire"

	"go.opentelemetry.io/otel/attribute"
)

const (
	minValidStatus = 100
	maxValidStatus = 599
)

// Pipeline owns every component a dispatch needs: the cache, the compiled
// route table, the worker handle table, and the two transport clients.
type Pipeline struct {
	cache      *cache.Cache
	table      *routes.Table
	supervisor *supervisor.Supervisor
	ipc        transport.Client
	http       transport.Client
}

func New(c *cache.Cache, table *routes.Table, sup *supervisor.Supervisor, ipc, http transport.Client) *Pipeline {
	return &Pipeline{cache: c, table: table, supervisor: sup, ipc: ipc, http: http}
}

// ServeHTTP is the ingress entry point: it builds the internal request,
// runs the pipeline, and writes whatever status/body/headers result.
func (p *Pipeline) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, span := telemetry.Tracer("lambdagate").Start(r.Context(), "dispatch")
	defer span.End()

	log := logger.WithRequestID(id.GenerateRequestID())
	path := r.URL.Path
	key := cache.Key(r.Method, path)
	span.SetAttributes(attribute.String("http.method", r.Method), attribute.String("http.path", path))

	if resp, ok := p.cache.Get(key); ok {
		metrics.CacheHits.Inc()
		writeResponse(w, resp)
		log.Debug("dispatched", "path", path, "outcome", "hit")
		metrics.RecordDispatch("", "hit", time.Since(start))
		return
	}
	metrics.CacheMisses.Inc()

	workerID, ok := p.table.Match(path)
	if !ok {
		http.Error(w, "no route for "+path, http.StatusNotFound)
		log.Debug("dispatched", "path", path, "outcome", "miss")
		metrics.RecordDispatch("", "miss", time.Since(start))
		return
	}

	span.SetAttributes(attribute.String("lambdagate.worker_id", workerID))

	handle, ok := p.supervisor.Lookup(workerID)
	if !ok || handle.State() != supervisor.StateReady {
		http.Error(w, "worker unavailable", http.StatusBadGateway)
		log.Error("worker unavailable", "worker_id", workerID, "path", path)
		metrics.RecordDispatch(workerID, "gateway_error", time.Since(start))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "reading request body", http.StatusBadGateway)
		log.Error("reading request body", "worker_id", workerID, "error", err)
		metrics.RecordDispatch(workerID, "gateway_error", time.Since(start))
		return
	}

	req := wire.Request{
		Method:  r.Method,
		URI:     r.URL.RequestURI(),
		Headers: headersFromHTTP(r.Header),
		Body:    wire.EncodeBody(body),
	}

	callCtx, cancel := context.WithTimeout(ctx, transport.CallTimeout)
	defer cancel()

	client := p.http
	if handle.Record.Mode != supervisor.ModeHTTP {
		client = p.ipc
	}

	resp, err := client.Do(callCtx, handle.Address, req)
	if err != nil {
		outcome, status := classifyError(callCtx, err)
		span.RecordError(err)
		log.Error("dispatch failed", "worker_id", workerID, "path", path, "error", err)
		if outcome != "cancelled" {
			http.Error(w, "dispatch failed", status)
		}
		metrics.RecordDispatch(workerID, outcome, time.Since(start))
		return
	}

	if !writeResponse(w, resp) {
		log.Error("malformed worker response", "worker_id", workerID, "path", path, "status", resp.Status)
		metrics.RecordDispatch(workerID, "gateway_error", time.Since(start))
		return
	}

	p.cache.Put(key, resp)
	log.Debug("dispatched", "worker_id", workerID, "path", path, "outcome", "ok")
	metrics.RecordDispatch(workerID, "ok", time.Since(start))
}

func classifyError(ctx context.Context, err error) (outcome string, status int) {
	if ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "timeout", http.StatusGatewayTimeout
		}
		return "cancelled", 0
	}
	return "gateway_error", http.StatusBadGateway
}

func headersFromHTTP(h http.Header) []wire.Header {
	out := make([]wire.Header, 0, len(h))
	for name, values := range h {
		for _, v := range values {
			out = append(out, wire.Header{Name: name, Value: v})
		}
	}
	return out
}

// writeResponse decodes and writes resp to w. It returns false, having
// already written a 502, if resp is malformed — bad base64 body or a
// status outside [100,599] — so the caller can skip caching it and
// classify the outcome as a gateway error instead of a success.
func writeResponse(w http.ResponseWriter, resp wire.Response) bool {
	body, err := wire.DecodeBody(resp.Body)
	if err != nil {
		http.Error(w, "malformed worker response", http.StatusBadGateway)
		return false
	}

	status := resp.Status
	if status < minValidStatus || status > maxValidStatus {
		http.Error(w, "malformed worker response", http.StatusBadGateway)
		return false
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
	return true
}
