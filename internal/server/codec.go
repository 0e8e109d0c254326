package server

import (
	"github.com/bytedance/sonic"
	"google.golang.org/grpc/encoding"
)

// codecName is the content subtype the integration service is served with:
// requests travel as application/grpc+json.
const codecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec encodes messages with sonic using encoding/json compatible
// settings, so numbers decoded into interface values become float64.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return sonic.ConfigStd.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return sonic.ConfigStd.Unmarshal(data, v)
}

func (jsonCodec) Name() string { return codecName }
