// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides aef's CBOR encoding configuration.
//
// aef emits machine-readable output as JSON for people and scripts,
// and as CBOR (--format cbor on list and version) for compact, typed
// pipelines. Output types carry `json` struct tags only; fxamacker/cbor
// reads them when `cbor` tags are absent, so one tag controls field
// naming and omitempty for both formats.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Listing the same archive twice produces identical bytes.
//
// aef list streams one item per archive member:
//
//	encoder := codec.NewEncoder(os.Stdout)
//	err = encoder.Encode(row)
//
// aef version writes a single item with [Marshal].
package codec
