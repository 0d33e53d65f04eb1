// SPDX-License-Identifier: EPL-2.0

// Package bitstream holds the byte and bit cursors the codec package walks
// packets with.
//
// Readers never fail on short input. A read past the end yields zeros and
// still advances the cursor, so a caller can compare Tell against the
// packet length afterwards and decide whether the packet was overread.
package bitstream
