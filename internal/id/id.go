package id

import "github.com/rs/xid"

func GenerateRequestID() string {
	return "req-" + xid.New().String()
}

func GenerateWorkerHandleID() string {
	return "wh-" + xid.New().String()
}
