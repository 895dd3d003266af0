// Package transport implements the two ways a request can be delivered to
// a worker: a byte-stream IPC connection, or a loopback HTTP call. Both
// implementations speak the same JSON wire.Request/wire.Response contract.
package transport

import (
	"context"
	"time"

	"lambdagate/internal/wire"
)

// Client delivers one request to a worker and returns its response.
type Client interface {
	Do(ctx context.Context, address string, req wire.Request) (wire.Response, error)
}

// CallTimeout bounds every individual dispatch call, regardless of
// transport.
const CallTimeout = 30 * time.Second
