package wire

import "encoding/json"

func init() {
	RegisterEncoding("json", func() Encoding {
		return &format[json.RawMessage]{
			name:      "json",
			marshal:   json.Marshal,
			unmarshal: json.Unmarshal,
		}
	})
}
