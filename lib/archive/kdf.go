// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"math"
	"strconv"
)

// Default scrypt cost for new archives: N = 2^20, r = 8, p = 1
// (about 1 GiB of memory).
const (
	DefaultLogN uint8  = 20
	DefaultR    uint32 = 8
	DefaultP    uint32 = 1
)

// KDFParams are the scrypt cost parameters recorded in the header.
type KDFParams struct {
	// LogN is the base-2 logarithm of the CPU/memory cost N.
	LogN uint8
	// R is the block size.
	R uint32
	// P is the parallelization factor.
	P uint32
}

// DefaultKDFParams returns the parameters used when none are given.
func DefaultKDFParams() KDFParams {
	return KDFParams{LogN: DefaultLogN, R: DefaultR, P: DefaultP}
}

// N returns the scrypt cost 2^LogN. Only meaningful after Validate.
func (params KDFParams) N() int {
	return 1 << params.LogN
}

func (params KDFParams) String() string {
	return fmt.Sprintf("log_n=%d r=%d p=%d", params.LogN, params.R, params.P)
}

// Validate reports whether scrypt accepts the parameters jointly
// (RFC 7914 constraints plus the overflow limits of
// golang.org/x/crypto/scrypt). Errors wrap ErrKDFParams.
func (params KDFParams) Validate() error {
	if params.LogN == 0 {
		return fmt.Errorf("%w: log_n must be at least 1", ErrKDFParams)
	}
	if int(params.LogN) >= strconv.IntSize-1 {
		return fmt.Errorf("%w: log_n %d is too large", ErrKDFParams, params.LogN)
	}
	if params.R == 0 || params.P == 0 {
		return fmt.Errorf("%w: r and p must be positive (r=%d p=%d)", ErrKDFParams, params.R, params.P)
	}

	r := uint64(params.R)
	p := uint64(params.P)
	if uint64(params.LogN) >= 16*r {
		return fmt.Errorf("%w: log_n %d must be less than 16*r (%d)", ErrKDFParams, params.LogN, 16*r)
	}
	if r*p >= 1<<30 {
		return fmt.Errorf("%w: r*p must be less than 2^30", ErrKDFParams)
	}

	maxInt := uint64(math.MaxInt)
	if r > maxInt/128/p || r > maxInt/256 || uint64(1)<<params.LogN > maxInt/128/r {
		return fmt.Errorf("%w: %s exceeds addressable memory", ErrKDFParams, params)
	}
	return nil
}
