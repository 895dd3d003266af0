//go:build !windows

package transport

import (
	"context"
	"fmt"
	"net"

	"lambdagate/internal/wire"
)

// IPCClient dials a UNIX domain socket per call. One connection serves
// exactly one request/response pair.
type IPCClient struct{}

func NewIPCClient() *IPCClient { return &IPCClient{} }

func (c *IPCClient) Do(ctx context.Context, address string, req wire.Request) (wire.Response, error) {
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "unix", address)
	if err != nil {
		return wire.Response{}, fmt.Errorf("dialing %s: %w", address, err)
	}
	return callOverConn(ctx, conn, req)
}
