// Package handshake negotiates the wire encoding and compression of a
// connection.
//
// The client opens with a [Request] listing, for each direction, the
// encodings and compressions it supports. The server walks its own
// preference-ordered lists and picks, independently for each of the four
// slots, the first entry the client also supports. The result is fixed for
// the lifetime of the connection. Handshake messages themselves are always
// uncompressed JSON.
package handshake

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// Version is the handshake protocol version spoken by this package.
const Version = 1

var (
	// ErrUnsupported is returned when the client and server share no
	// option for some slot.
	ErrUnsupported = errors.New("handshake: no mutually supported option")

	// ErrVersionMismatch is returned when the client speaks another
	// handshake version.
	ErrVersionMismatch = errors.New("handshake: version mismatch")
)

// Direction is the direction of traffic a negotiated option applies to.
type Direction string

const (
	ToClient Direction = "to-client"
	ToServer Direction = "to-server"
)

// Concern is the kind of option being negotiated.
type Concern string

const (
	Encoding    Concern = "encoding"
	Compression Concern = "compression"
)

// UnsupportedError reports a slot for which negotiation failed.
type UnsupportedError struct {
	Direction Direction
	Concern   Concern
	Server    []string // server preferences
	Client    []string // client capabilities
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("handshake: server supports none of the %s %ss %q (server offers %q)",
		e.Direction, e.Concern, e.Client, e.Server)
}

// Is reports whether target is ErrUnsupported.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// Select returns the first entry of serverPreferred that appears in
// clientSupported. It reports false when there is none.
func Select(serverPreferred, clientSupported []string) (string, bool) {
	for _, s := range serverPreferred {
		if slices.Contains(clientSupported, s) {
			return s, true
		}
	}
	return "", false
}

// Display describes one client screen.
type Display struct {
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	ScaleFactor float64 `json:"scaleFactor"`
}

// Request is the client's opening message.
type Request struct {
	Version              int       `json:"version"`
	ToClientProtocols    []string  `json:"toClientProtocols"`
	ToServerProtocols    []string  `json:"toServerProtocols"`
	ToClientCompressions []string  `json:"toClientCompressions"`
	ToServerCompressions []string  `json:"toServerCompressions"`
	Displays             []Display `json:"displays,omitempty"`
}

// Response is the server's answer. On failure only Reason is set.
type Response struct {
	Success             bool   `json:"success"`
	ToClientProtocol    string `json:"toClientProtocol,omitempty"`
	ToServerProtocol    string `json:"toServerProtocol,omitempty"`
	ToClientCompression string `json:"toClientCompression,omitempty"`
	ToServerCompression string `json:"toServerCompression,omitempty"`
	Reason              string `json:"reason,omitempty"`
}

// Result is a successful negotiation.
type Result struct {
	ToClientProtocol    string
	ToServerProtocol    string
	ToClientCompression string
	ToServerCompression string
}

// Response returns the success message for r.
func (r Result) Response() Response {
	return Response{
		Success:             true,
		ToClientProtocol:    r.ToClientProtocol,
		ToServerProtocol:    r.ToServerProtocol,
		ToClientCompression: r.ToClientCompression,
		ToServerCompression: r.ToServerCompression,
	}
}

// Failure returns the failure message for err.
func Failure(err error) Response {
	return Response{Success: false, Reason: err.Error()}
}

// Negotiator holds the server's preference-ordered options.
type Negotiator struct {
	ToClientProtocols    []string
	ToServerProtocols    []string
	ToClientCompressions []string
	ToServerCompressions []string
}

// Negotiate selects one option per slot for req. It fails with
// ErrVersionMismatch before looking at any capability, and with an
// *UnsupportedError for the first slot that has no common option.
func (n Negotiator) Negotiate(req Request) (Result, error) {
	if req.Version != Version {
		return Result{}, fmt.Errorf("%w: server %d, client %d", ErrVersionMismatch, Version, req.Version)
	}

	var res Result
	slots := []struct {
		dir     Direction
		concern Concern
		server  []string
		client  []string
		out     *string
	}{
		{ToClient, Compression, n.ToClientCompressions, req.ToClientCompressions, &res.ToClientCompression},
		{ToClient, Encoding, n.ToClientProtocols, req.ToClientProtocols, &res.ToClientProtocol},
		{ToServer, Compression, n.ToServerCompressions, req.ToServerCompressions, &res.ToServerCompression},
		{ToServer, Encoding, n.ToServerProtocols, req.ToServerProtocols, &res.ToServerProtocol},
	}

	for _, s := range slots {
		v, ok := Select(s.server, s.client)
		if !ok {
			return Result{}, &UnsupportedError{
				Direction: s.dir,
				Concern:   s.concern,
				Server:    s.server,
				Client:    s.client,
			}
		}
		*s.out = v
	}
	return res, nil
}

// DecodeRequest parses a JSON handshake request.
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, fmt.Errorf("handshake: decode request: %w", err)
	}
	return req, nil
}

// Encode returns the JSON form of r.
func (r Response) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// Encode returns the JSON form of r.
func (r Request) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// DecodeResponse parses a JSON handshake response. A failure response is
// returned together with an error carrying its reason.
func DecodeResponse(data []byte) (Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return Response{}, fmt.Errorf("handshake: decode response: %w", err)
	}
	if !resp.Success {
		return resp, fmt.Errorf("handshake: rejected: %s", resp.Reason)
	}
	return resp, nil
}
