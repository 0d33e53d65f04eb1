// SPDX-License-Identifier: EPL-2.0

package codec

func clip(a, lo, hi int) int {
	if a < lo {
		return lo
	}
	if a > hi {
		return hi
	}
	return a
}

func clip16(a int) int { return clip(a, -32768, 32767) }

// clipIntP2 clamps a to [-(1<<p), (1<<p)-1].
func clipIntP2(a, p int) int { return clip(a, -(1 << p), 1<<p-1) }

// clipUintP2 clamps a to [0, (1<<p)-1].
func clipUintP2(a, p int) int { return clip(a, 0, 1<<p-1) }

func signExtend(v, bits int) int {
	shift := 32 - bits
	return int(int32(uint32(v)<<uint(shift)) >> uint(shift))
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// isPowerOfTwo reports whether n is a positive power of two.
func isPowerOfTwo(n int) bool { return n > 0 && n&(n-1) == 0 }
