// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration reports channel counts, block alignment or
	// sample rates the chosen dialect cannot work with.
	ErrInvalidConfiguration = errors.New("adpcm: invalid configuration")

	// ErrInvalidData reports a malformed or truncated packet. The caller
	// may drop the packet and carry on with the next one.
	ErrInvalidData = errors.New("adpcm: invalid data")

	// ErrUnsupportedConfiguration reports a feature the dialect does not
	// implement, such as trellis search on a dialect that forbids it.
	ErrUnsupportedConfiguration = errors.New("adpcm: unsupported configuration")

	// ErrOutOfMemory reports that trellis scratch space could not be sized.
	ErrOutOfMemory = errors.New("adpcm: out of memory")

	// ErrNotInitialized reports a Decode or Encode call before Begin.
	ErrNotInitialized = errors.New("adpcm: codec not initialized")

	ErrUnknownCodec = fmt.Errorf("%w: unknown codec", ErrUnsupportedConfiguration)
)
