// Package commands implements the dongi command line: settling a list of
// expenses locally or against a running server.
package commands
