//go:build windows

package transport

import (
	"context"
	"fmt"

	"github.com/Microsoft/go-winio"

	"lambdagate/internal/wire"
)

// IPCClient dials a named pipe per call. One connection serves exactly one
// request/response pair.
type IPCClient struct{}

func NewIPCClient() *IPCClient { return &IPCClient{} }

func (c *IPCClient) Do(ctx context.Context, address string, req wire.Request) (wire.Response, error) {
	conn, err := winio.DialPipeContext(ctx, address)
	if err != nil {
		return wire.Response{}, fmt.Errorf("dialing %s: %w", address, err)
	}
	return callOverConn(ctx, conn, req)
}
