// Package api defines the request and response messages of the Dangi Dongi
// RPC services. Messages are plain Go structs encoded as JSON on the wire;
// see package apiconnect for the Connect handlers and clients.
package api
