package wire

import (
	"errors"

	"github.com/gogpu/ggstream/command"
)

// ErrUnknownMessage is returned when a decoded envelope names a message or
// command type this package does not know.
var ErrUnknownMessage = errors.New("wire: unknown message type")

// AssetKind distinguishes cached images from cached fonts.
type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetFont  AssetKind = "font"
)

// ToClient is a message sent from the server to the client.
type ToClient interface {
	toClientType() string
}

// DrawCommands carries the shrunk commands of one target.
type DrawCommands struct {
	Target   command.Target
	Commands []command.Command
}

// Asset delivers a cached payload. It is sent once per id per connection,
// before any DrawCommands that reference the id.
type Asset struct {
	Kind    AssetKind `json:"kind" msgpack:"kind"`
	ID      uint16    `json:"id" msgpack:"id"`
	Payload []byte    `json:"payload" msgpack:"payload"`
}

// Pong answers a Ping.
type Pong struct {
	Nonce int64 `json:"nonce" msgpack:"nonce"`
}

func (DrawCommands) toClientType() string { return "DrawCommands" }
func (Asset) toClientType() string        { return "Asset" }
func (Pong) toClientType() string         { return "Pong" }

// ToServer is an event sent from the client to the server.
type ToServer interface {
	toServerType() string
}

// Interest reports whether the client currently displays a target.
type Interest struct {
	Target     command.Target `json:"target" msgpack:"target"`
	Interested bool           `json:"interested" msgpack:"interested"`
}

// Resize reports new bounds the client wants for a window.
type Resize struct {
	Target command.Target `json:"target" msgpack:"target"`
	Bounds command.Rect   `json:"bounds" msgpack:"bounds"`
}

// RequestAsset asks for a payload the client lost.
type RequestAsset struct {
	Kind AssetKind `json:"kind" msgpack:"kind"`
	ID   uint16    `json:"id" msgpack:"id"`
}

// Ping checks that the connection is alive.
type Ping struct {
	Nonce int64 `json:"nonce" msgpack:"nonce"`
}

func (Interest) toServerType() string     { return "Interest" }
func (Resize) toServerType() string       { return "Resize" }
func (RequestAsset) toServerType() string { return "RequestAsset" }
func (Ping) toServerType() string         { return "Ping" }

// Encoding serializes message lists. One frame holds every message of one
// flush, in order.
type Encoding interface {
	Name() string
	EncodeToClient(msgs []ToClient) ([]byte, error)
	DecodeToClient(data []byte) ([]ToClient, error)
	EncodeToServer(events []ToServer) ([]byte, error)
	DecodeToServer(data []byte) ([]ToServer, error)
}
