package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"lambdagate/internal/wire"
)

// HTTPClient delivers a request to a worker listening on a loopback HTTP
// address. The worker's JSON response carries the real status in its body;
// the HTTP status of the POST itself is not interpreted.
type HTTPClient struct {
	client *http.Client
}

func NewHTTPClient() *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: CallTimeout}}
}

func (c *HTTPClient) Do(ctx context.Context, address string, req wire.Request) (wire.Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return wire.Response{}, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://"+address+"/", bytes.NewReader(payload))
	if err != nil {
		return wire.Response{}, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return wire.Response{}, fmt.Errorf("calling %s: %w", address, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return wire.Response{}, fmt.Errorf("reading response: %w", err)
	}

	var resp wire.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return wire.Response{}, fmt.Errorf("decoding response: %w", err)
	}
	return resp, nil
}
