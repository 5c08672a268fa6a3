// Package codec provides the JSON strategies used to encode update payloads
// and decode Solr responses.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// Codec encodes and decodes JSON documents.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Standard decodes numbers into float64. Integers beyond 2^53 lose precision.
var Standard Codec = standard{}

// Precise keeps number literals as json.Number so large integers such as
// _version_ round-trip exactly. It is slower than Standard.
var Precise Codec = precise{}

// For returns the codec matching the bigint flag.
func For(bigint bool) Codec {
	if bigint {
		return Precise
	}
	return Standard
}

type standard struct{}

func (standard) Name() string { return "standard" }

func (standard) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}

func (standard) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}
	return nil
}

type precise struct{}

func (precise) Name() string { return "precise" }

func (precise) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}

func (precise) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}
	var rest json.RawMessage
	if err := dec.Decode(&rest); !errors.Is(err, io.EOF) {
		return errors.New("unmarshal json: unexpected data after top-level value")
	}
	return nil
}
