// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// Encoder writes a CBOR sequence, one item per Encode call.
type Encoder = cbor.Encoder

// Decoder reads a CBOR sequence written by an Encoder.
type Decoder = cbor.Decoder

var (
	encMode = newEncMode()
	decMode = newDecMode()
)

// newEncMode uses Core Deterministic Encoding (RFC 8949 §4.2) and
// writes encoding.TextMarshaler values, such as BLAKE3 digests, as
// text strings so they match their JSON form.
func newEncMode() cbor.EncMode {
	options := cbor.CoreDetEncOptions()
	options.TextMarshaler = cbor.TextMarshalerTextString
	mode, err := options.EncMode()
	if err != nil {
		panic("codec: CBOR encoder options: " + err.Error())
	}
	return mode
}

// newDecMode decodes untyped maps as map[string]any, the shape
// encoding/json produces, and ignores unknown fields.
func newDecMode() cbor.DecMode {
	mode, err := cbor.DecOptions{
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder options: " + err.Error())
	}
	return mode
}

// Marshal encodes a single value.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// NewEncoder returns an encoder writing an RFC 8742 CBOR sequence to w.
func NewEncoder(w io.Writer) *Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a decoder reading a CBOR sequence from r.
func NewDecoder(r io.Reader) *Decoder {
	return decMode.NewDecoder(r)
}
