package playerv1

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// CodecName is registered in place of Connect's protobuf-JSON codec.
const CodecName = "json"

// Codec marshals the plain Go messages of this package as JSON.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string { return CodecName }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %T", msg)
	}
	return data, nil
}

// Unmarshal implements connect.Codec.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return errors.Wrapf(err, "unmarshal %T", msg)
	}
	return nil
}
