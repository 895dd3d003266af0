package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"

	"lambdagate/internal/wire"
)

// halfCloseWriter is implemented by connections that support shutting down
// their write half while leaving the read half open, which is how this
// protocol signals "request fully sent" without closing the connection
// before the response has been read.
type halfCloseWriter interface {
	CloseWrite() error
}

// callOverConn writes req as JSON, signals end-of-request, reads the
// response to EOF, and parses it. Used by both the POSIX and Windows IPC
// clients once they've produced a net.Conn for address.
func callOverConn(ctx context.Context, conn net.Conn, req wire.Request) (wire.Response, error) {
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	// SetDeadline only bounds the call by its own timeout. If the caller's
	// context is canceled sooner than that (the inbound HTTP client hung
	// up, for instance), the blocking ReadAll below needs to notice
	// promptly instead of running out the full deadline, so watch ctx.Done
	// directly and close the connection out from under it.
	stopWatch := make(chan struct{})
	defer close(stopWatch)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stopWatch:
		}
	}()

	payload, err := json.Marshal(req)
	if err != nil {
		return wire.Response{}, fmt.Errorf("encoding request: %w", err)
	}

	if _, err := conn.Write(payload); err != nil {
		return wire.Response{}, ctxOrWrapped(ctx, "writing request", err)
	}

	if hc, ok := conn.(halfCloseWriter); ok {
		if err := hc.CloseWrite(); err != nil {
			return wire.Response{}, ctxOrWrapped(ctx, "closing write side", err)
		}
	}

	raw, err := io.ReadAll(conn)
	if err != nil {
		return wire.Response{}, ctxOrWrapped(ctx, "reading response", err)
	}

	var resp wire.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return wire.Response{}, fmt.Errorf("decoding response: %w", err)
	}
	return resp, nil
}

// ctxOrWrapped reports ctx's own error when the connection was closed out
// from under an in-flight operation because the caller's context ended,
// rather than surfacing the resulting "use of closed network connection".
func ctxOrWrapped(ctx context.Context, action string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", action, ctxErr)
	}
	return fmt.Errorf("%s: %w", action, err)
}
