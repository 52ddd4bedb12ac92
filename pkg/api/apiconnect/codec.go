// Package apiconnect wires the api messages to Connect RPC handlers and
// clients.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// JSONCodec encodes api messages with encoding/json. It is registered under
// the name "json", so requests with Content-Type application/json use it.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
