// Package extras decodes per-node metadata baked into imported scenes and
// turns it into entity mutations.
//
// The authoring pipeline attaches a small JSON document to each node:
//
//	{"bbu_object_data": {"id": "shooting_square", "speed": 0.75}}
//
// The value under the key is decoded into a caller-chosen type. A missing or
// null value means the node has no domain data and is not an error.
package extras

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// DefaultKey is the envelope key written by the Blender exporter.
const DefaultKey = "bbu_object_data"

// ErrMalformed wraps every decode failure.
var ErrMalformed = errors.New("extras: malformed metadata")

// Envelope is the document shape written by the authoring pipeline.
type Envelope[Data any] struct {
	Payload *Data `json:"bbu_object_data"`
}

// Decode decodes the payload under DefaultKey. It returns nil, nil when the
// blob carries no payload.
func Decode[Data any](blob string) (*Data, error) {
	return DecodeKey[Data](blob, DefaultKey)
}

// DecodeKey is Decode with a custom envelope key. A document that repeats
// the key is malformed.
func DecodeKey[Data any](blob, key string) (*Data, error) {
	if !gjson.Valid(blob) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	doc := gjson.Parse(blob)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: document is %s, not an object", ErrMalformed, doc.Type)
	}

	var v gjson.Result
	seen := 0
	doc.ForEach(func(k, value gjson.Result) bool {
		if k.String() == key {
			seen++
			v = value
		}
		return seen < 2
	})
	if seen > 1 {
		return nil, fmt.Errorf("%w: duplicate key %q", ErrMalformed, key)
	}
	if !v.Exists() || v.Type == gjson.Null {
		return nil, nil
	}

	var data Data
	if err := json.Unmarshal([]byte(v.Raw), &data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, key, err)
	}
	return &data, nil
}

// Encode builds a metadata blob around data, mostly for tools and tests.
func Encode[Data any](data *Data) (string, error) {
	b, err := json.Marshal(Envelope[Data]{Payload: data})
	if err != nil {
		return "", fmt.Errorf("extras: encode: %w", err)
	}
	return string(b), nil
}
