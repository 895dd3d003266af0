// Package wire defines the JSON request/response envelopes exchanged with
// worker processes, over either the IPC or the HTTP transport.
package wire

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Header is a single (name, value) pair. Request headers are carried as a
// list rather than a map so that repeated header names survive encoding.
// On the wire a Header is a 2-element JSON array (`["name","value"]`), not
// an object, to match what workers on the other side of the protocol
// expect.
type Header struct {
	Name  string
	Value string
}

func (h Header) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{h.Name, h.Value})
}

func (h *Header) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("header must be a 2-element array: %w", err)
	}
	h.Name, h.Value = pair[0], pair[1]
	return nil
}

// Request is sent to a worker for every dispatched HTTP request.
type Request struct {
	Method  string   `json:"method"`
	URI     string   `json:"uri"`
	Headers []Header `json:"headers"`
	Body    string   `json:"body"` // base64-encoded
}

// Response is read back from a worker.
type Response struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"` // base64-encoded
}

// EncodeBody base64-encodes a request or response body for wire transfer.
func EncodeBody(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeBody reverses EncodeBody.
func DecodeBody(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
