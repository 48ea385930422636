package wire

import (
	"reflect"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gogpu/ggstream/command"
)

func init() {
	// Matrices travel in their flat six-element form, as in JSON.
	msgpack.Register(command.Matrix{},
		func(e *msgpack.Encoder, v reflect.Value) error {
			return e.Encode(v.Interface().(command.Matrix).Elements())
		},
		func(d *msgpack.Decoder, v reflect.Value) error {
			var el [6]float64
			if err := d.Decode(&el); err != nil {
				return err
			}
			v.Set(reflect.ValueOf(command.MatrixFromElements(el)))
			return nil
		},
	)

	RegisterEncoding("msgpack", func() Encoding {
		return &format[msgpack.RawMessage]{
			name:      "msgpack",
			marshal:   msgpack.Marshal,
			unmarshal: msgpack.Unmarshal,
		}
	})
}
