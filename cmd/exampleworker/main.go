// exampleworker is a minimal worker that speaks the wire protocol over
// either transport. It echoes the request body back with a 200 status,
// and exists to exercise the gateway's supervisor and transport clients
// in tests and local manifests.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"

	"lambdagate/internal/wire"
)

func main() {
	if pipeAddr := os.Getenv("PIPE_ADDRESS"); pipeAddr != "" {
		if err := serveIPC(pipeAddr); err != nil {
			fmt.Fprintln(os.Stderr, "exampleworker:", err)
			os.Exit(1)
		}
		return
	}

	if httpAddr := os.Getenv("HTTP_ADDRESS"); httpAddr != "" {
		if err := serveHTTP(httpAddr); err != nil {
			fmt.Fprintln(os.Stderr, "exampleworker:", err)
			os.Exit(1)
		}
		return
	}

	fmt.Fprintln(os.Stderr, "exampleworker: neither PIPE_ADDRESS nor HTTP_ADDRESS set")
	os.Exit(1)
}

func serveIPC(addr string) error {
	_ = os.Remove(addr)
	ln, err := net.Listen("unix", addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go handleIPCConn(conn)
	}
}

func handleIPCConn(conn net.Conn) {
	defer conn.Close()

	raw, err := io.ReadAll(conn)
	if err != nil {
		return
	}

	var req wire.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}

	resp := echo(req)
	out, err := json.Marshal(resp)
	if err != nil {
		return
	}
	_, _ = conn.Write(out)
}

func serveHTTP(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var req wire.Request
		if err := json.Unmarshal(raw, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := echo(req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	return http.ListenAndServe(addr, mux)
}

func echo(req wire.Request) wire.Response {
	return wire.Response{
		Status:  http.StatusOK,
		Headers: map[string]string{"X-Echo-Method": req.Method, "X-Echo-Uri": req.URI},
		Body:    req.Body,
	}
}
