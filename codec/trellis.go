// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"
	"unsafe"
)

// freezeInterval is how many samples pass between path merges.
const freezeInterval = 128

// maxArenaBytes bounds the scratch space one encoder may claim for the
// trellis search.
var maxArenaBytes = 1 << 30

type trellisFamily int

const (
	familyIMA trellisFamily = iota
	familyMS
	familyYamaha
)

// trellisNode is one candidate decoder state. step is a step index for
// the IMA family, an idelta for MS and a raw step for Yamaha.
type trellisNode struct {
	ssd     uint64
	path    int
	sample1 int
	sample2 int
	step    int
}

type trellisPath struct {
	nibble uint8
	prev   int
}

// trellis searches for the code sequence with the lowest squared error
// under the decoder's own reconstruction rule. Nodes and paths live in
// arenas addressed by index; a node slot of -1 is empty.
type trellis struct {
	family   trellisFamily
	frontier int
	greedy   func(*ChannelStatus, int) int

	paths   []trellisPath
	nodeBuf []trellisNode
	nodep   []int
	hash    []uint8

	// Per generation.
	next       []int
	heapPos    int
	pathn      int
	alloc      int
	generation uint8
}

func trellisFamilyOf(id ID) trellisFamily {
	switch id {
	case MS:
		return familyMS
	case Yamaha:
		return familyYamaha
	}
	return familyIMA
}

func arenaBytes(bits int) int {
	frontier := 1 << bits
	return frontier*freezeInterval*int(unsafe.Sizeof(trellisPath{})) +
		2*frontier*int(unsafe.Sizeof(trellisNode{})) +
		2*frontier*int(unsafe.Sizeof(int(0))) +
		1<<16
}

func newTrellis(id ID, bits int) (*trellis, error) {
	if n := arenaBytes(bits); n > maxArenaBytes {
		return nil, fmt.Errorf("%w: trellis %d needs %d bytes", ErrOutOfMemory, bits, n)
	}

	greedy := (*ChannelStatus).compressIMA
	switch id {
	case IMAQT:
		greedy = (*ChannelStatus).compressQT
	case MS:
		greedy = (*ChannelStatus).compressMS
	case Yamaha:
		greedy = (*ChannelStatus).compressYamaha
	}

	frontier := 1 << bits
	return &trellis{
		family:   trellisFamilyOf(id),
		frontier: frontier,
		greedy:   greedy,
		paths:    make([]trellisPath, frontier*freezeInterval),
		nodeBuf:  make([]trellisNode, 2*frontier),
		nodep:    make([]int, 2*frontier),
		hash:     make([]uint8, 1<<16),
	}, nil
}

// compress codes n samples read with the given stride into dst, one code
// per byte, and leaves c in the state of the chosen path.
func (t *trellis) compress(samples []int16, stride int, dst []byte, c *ChannelStatus, n int) {
	frontier := t.frontier
	nodes, next := t.nodep[:frontier], t.nodep[frontier:]
	start := *c

	for i := range t.nodep {
		t.nodep[i] = -1
	}
	for i := range t.hash {
		t.hash[i] = 0xFF
	}
	t.generation = 0
	t.pathn = 0
	froze := -1

	root := &t.nodeBuf[frontier]
	*root = trellisNode{step: c.StepIndex, sample1: c.Sample1, sample2: c.Sample2}
	switch t.family {
	case familyIMA:
		root.sample1 = c.PrevSample
	case familyMS:
		root.step = c.IDelta
	case familyYamaha:
		if c.Step == 0 {
			root.step = 127
			root.sample1 = 0
		} else {
			root.step = c.Step
			root.sample1 = c.Predictor
		}
	}
	nodes[0] = frontier

	for i := range n {
		t.alloc = frontier * (i & 1)
		t.next = next
		t.heapPos = 0
		sample := int(samples[i*stride])

		for k := range next {
			next[k] = -1
		}

		for j := 0; j < frontier && nodes[j] >= 0; j++ {
			radius := 0
			if j < frontier/2 {
				radius = 1
			}
			t.expand(&t.nodeBuf[nodes[j]], c, sample, radius)
		}

		nodes, next = next, nodes
		if nodes[0] < 0 {
			*c = start
			t.compressGreedy(samples, stride, dst, c, n)
			return
		}

		t.generation++
		if t.generation == 255 {
			for k := range t.hash {
				t.hash[k] = 0xFF
			}
			t.generation = 0
		}

		if best := t.nodeBuf[nodes[0]].ssd; best > 1<<28 {
			for j := 1; j < frontier && nodes[j] >= 0; j++ {
				t.nodeBuf[nodes[j]].ssd -= best
			}
			t.nodeBuf[nodes[0]].ssd = 0
		}

		if i == froze+freezeInterval {
			t.walk(dst, t.nodeBuf[nodes[0]].path, i, froze)
			froze = i
			t.pathn = 0
			for k := 1; k < frontier; k++ {
				nodes[k] = -1
			}
		}
	}

	best := t.nodeBuf[nodes[0]]
	t.walk(dst, best.path, n-1, froze)

	switch t.family {
	case familyIMA:
		c.Predictor = best.sample1
		c.PrevSample = best.sample1
		c.StepIndex = best.step
	case familyMS:
		c.IDelta = best.step
	case familyYamaha:
		c.Predictor = best.sample1
		c.Step = best.step
	}
	c.Sample1 = best.sample1
	c.Sample2 = best.sample2
}

// compressGreedy codes the samples one at a time with the variant's
// direct compressor.
func (t *trellis) compressGreedy(samples []int16, stride int, dst []byte, c *ChannelStatus, n int) {
	for i := range n {
		dst[i] = byte(t.greedy(c, int(samples[i*stride])))
	}
	if t.family == familyIMA {
		c.Predictor = c.PrevSample
		c.Sample1 = c.PrevSample
	}
}

// walk writes the codes of path p for samples from down to stop+1.
func (t *trellis) walk(dst []byte, p, from, stop int) {
	for k := from; k > stop; k-- {
		dst[k] = t.paths[p].nibble
		p = t.paths[p].prev
	}
}

// expand tries the codes around the direct estimate from one node.
func (t *trellis) expand(u *trellisNode, c *ChannelStatus, sample, radius int) {
	step := u.step

	if t.family == familyMS {
		pred := (u.sample1*c.Coeff1 + u.sample2*c.Coeff2) / 64
		div := (sample - pred) / step
		nmin := clip(div-radius, -8, 6)
		nmax := clip(div+radius, -7, 7)
		for nidx := nmin; nidx <= nmax; nidx++ {
			nibble := nidx & 0x0F
			t.store(u, sample, pred+nidx*step, nibble,
				max(16, (msAdaptationTable[nibble]*step)>>8))
		}
		return
	}

	size := step
	if t.family == familyIMA {
		size = imaStepTable[step]
	}

	pred := u.sample1
	div := (sample - pred) * 4 / size
	nmin := clip(div-radius, -7, 6)
	nmax := clip(div+radius, -6, 7)
	// Distinguish -0 from +0.
	if nmin <= 0 {
		nmin--
	}
	if nmax < 0 {
		nmax--
	}

	for nidx := nmin; nidx <= nmax; nidx++ {
		nibble := nidx
		if nidx < 0 {
			nibble = 7 - nidx
		}

		var next int
		if t.family == familyIMA {
			next = clip(step+imaIndexTable[nibble], 0, 88)
		} else {
			next = clip((step*yamahaIndexScale[nibble])>>8, 127, 24576)
		}
		t.store(u, sample, pred+size*yamahaDiffLookup[nibble]/8, nibble, next)
	}
}

// store offers one candidate to the next generation's heap.
func (t *trellis) store(u *trellisNode, sample, dec, nibble, step int) {
	dec = clip16(dec)
	d := sample - dec

	ssd := u.ssd + uint64(d*d)

	// Collapse states with the same reconstructed sample.
	h := &t.hash[uint16(dec)]
	if *h == t.generation {
		return
	}

	var pos int
	if t.heapPos < t.frontier {
		pos = t.heapPos
		t.heapPos++
	} else {
		// Replace a leaf, a different one each time.
		half := t.frontier >> 1
		pos = half + (t.heapPos & (half - 1))
		if ssd > t.nodeBuf[t.next[pos]].ssd {
			return
		}
		t.heapPos++
	}
	*h = t.generation

	idx := t.next[pos]
	if idx < 0 {
		idx = t.alloc
		t.alloc++
		t.next[pos] = idx
		t.nodeBuf[idx].path = t.pathn
		t.pathn++
	}

	v := &t.nodeBuf[idx]
	v.ssd = ssd
	v.step = step
	v.sample2 = u.sample1
	v.sample1 = dec
	t.paths[v.path] = trellisPath{nibble: uint8(nibble), prev: u.path}

	// Sift up.
	for pos > 0 {
		parent := (pos - 1) >> 1
		if t.nodeBuf[t.next[parent]].ssd <= ssd {
			break
		}
		t.next[parent], t.next[pos] = t.next[pos], t.next[parent]
		pos = parent
	}
}
