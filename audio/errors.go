// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrUnknownFormat is returned by Registry.Open for keys nothing was
	// registered under.
	ErrUnknownFormat = errors.New("unknown audio format")

	// ErrUnsupportedChannels is returned by Conform when the requested
	// channel layout cannot be derived from the source.
	ErrUnsupportedChannels = errors.New("unsupported channel conversion")

	ErrInvalidRate = errors.New("sample rate must be positive")
)
