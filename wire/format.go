package wire

import (
	"fmt"

	"github.com/gogpu/ggstream/command"
)

// Every message and command travels as an envelope naming its type. The
// data of an incoming envelope is kept raw until the type is known.

type outEnvelope struct {
	Type string `json:"type" msgpack:"type"`
	Data any    `json:"data" msgpack:"data"`
}

type inEnvelope[R ~[]byte] struct {
	Type string `json:"type" msgpack:"type"`
	Data R      `json:"data" msgpack:"data"`
}

type drawCommandsOut struct {
	Target   command.Target `json:"target" msgpack:"target"`
	Commands []outEnvelope  `json:"commands" msgpack:"commands"`
}

type drawCommandsIn[R ~[]byte] struct {
	Target   command.Target  `json:"target" msgpack:"target"`
	Commands []inEnvelope[R] `json:"commands" msgpack:"commands"`
}

// format implements Encoding on top of a marshal/unmarshal pair whose raw
// message type is R.
type format[R ~[]byte] struct {
	name      string
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

func (f *format[R]) Name() string {
	return f.name
}

func (f *format[R]) EncodeToClient(msgs []ToClient) ([]byte, error) {
	frame := make([]outEnvelope, 0, len(msgs))
	for _, m := range msgs {
		var data any = m
		if dc, ok := m.(DrawCommands); ok {
			data = wrapCommands(dc)
		}
		frame = append(frame, outEnvelope{Type: m.toClientType(), Data: data})
	}
	data, err := f.marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("wire: %s encode: %w", f.name, err)
	}
	return data, nil
}

func wrapCommands(dc DrawCommands) drawCommandsOut {
	out := drawCommandsOut{
		Target:   dc.Target,
		Commands: make([]outEnvelope, len(dc.Commands)),
	}
	for i, c := range dc.Commands {
		out.Commands[i] = outEnvelope{Type: c.Type().String(), Data: c}
	}
	return out
}

func (f *format[R]) DecodeToClient(data []byte) ([]ToClient, error) {
	var frame []inEnvelope[R]
	if err := f.unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("wire: %s decode: %w", f.name, err)
	}
	msgs := make([]ToClient, 0, len(frame))
	for _, env := range frame {
		var (
			msg ToClient
			err error
		)
		switch env.Type {
		case "DrawCommands":
			msg, err = f.unwrapCommands(env.Data)
		case "Asset":
			msg, err = decodeAs[Asset](f, env.Data)
		case "Pong":
			msg, err = decodeAs[Pong](f, env.Data)
		default:
			err = fmt.Errorf("%w %q", ErrUnknownMessage, env.Type)
		}
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (f *format[R]) unwrapCommands(raw R) (DrawCommands, error) {
	var in drawCommandsIn[R]
	if err := f.unmarshal(raw, &in); err != nil {
		return DrawCommands{}, fmt.Errorf("wire: %s decode DrawCommands: %w", f.name, err)
	}
	dc := DrawCommands{
		Target:   in.Target,
		Commands: make([]command.Command, len(in.Commands)),
	}
	for i, env := range in.Commands {
		ct, ok := command.ParseCommandType(env.Type)
		if !ok {
			return DrawCommands{}, fmt.Errorf("%w %q", ErrUnknownMessage, env.Type)
		}
		c := command.New(ct)
		if err := f.unmarshal(env.Data, c); err != nil {
			return DrawCommands{}, fmt.Errorf("wire: %s decode %s: %w", f.name, env.Type, err)
		}
		dc.Commands[i] = command.Deref(c)
	}
	return dc, nil
}

func (f *format[R]) EncodeToServer(events []ToServer) ([]byte, error) {
	frame := make([]outEnvelope, len(events))
	for i, ev := range events {
		frame[i] = outEnvelope{Type: ev.toServerType(), Data: ev}
	}
	data, err := f.marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("wire: %s encode: %w", f.name, err)
	}
	return data, nil
}

func (f *format[R]) DecodeToServer(data []byte) ([]ToServer, error) {
	var frame []inEnvelope[R]
	if err := f.unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("wire: %s decode: %w", f.name, err)
	}
	events := make([]ToServer, 0, len(frame))
	for _, env := range frame {
		var (
			ev  ToServer
			err error
		)
		switch env.Type {
		case "Interest":
			ev, err = decodeAs[Interest](f, env.Data)
		case "Resize":
			ev, err = decodeAs[Resize](f, env.Data)
		case "RequestAsset":
			ev, err = decodeAs[RequestAsset](f, env.Data)
		case "Ping":
			ev, err = decodeAs[Ping](f, env.Data)
		default:
			err = fmt.Errorf("%w %q", ErrUnknownMessage, env.Type)
		}
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func decodeAs[T any, R ~[]byte](f *format[R], raw R) (T, error) {
	var v T
	if err := f.unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("wire: %s decode %T: %w", f.name, v, err)
	}
	return v, nil
}
