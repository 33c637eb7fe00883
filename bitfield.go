package bmpn

import (
	"fmt"
	"math/bits"
)

// bitField describes one channel of a bit-fields pixel layout: a contiguous
// run of set bits at some offset within the packed pixel word.
type bitField struct {
	mask  uint32
	shift uint // offset of the lowest set bit
	width uint // number of contiguous set bits
}

// newBitField derives the shift and width of mask. Only a single contiguous
// run of set bits describes a channel; any other pattern is rejected rather
// than silently decoded. A zero mask is a valid degenerate field.
func newBitField(mask uint32) (bitField, error) {
	if mask == 0 {
		return bitField{}, nil
	}

	shift := uint(bits.TrailingZeros32(mask))
	width := uint(bits.OnesCount32(mask))

	if mask>>shift != 1<<width-1 {
		return bitField{}, fmt.Errorf("%w: 0x%08x is not contiguous", ErrInvalidColorMask, mask)
	}

	return bitField{mask: mask, shift: shift, width: width}, nil
}

// extract pulls this channel out of a packed pixel word and rescales it
// linearly from its native width to the 8-bit range, rounding to nearest.
// A zero-width field yields 0.
func (f bitField) extract(pixel uint32) uint32 {
	if f.width == 0 {
		return 0
	}

	// 64-bit arithmetic keeps wide fields from overflowing the product.
	v := uint64((pixel & f.mask) >> f.shift)
	maxVal := uint64(1)<<f.width - 1

	return uint32((v*255 + maxVal/2) / maxVal)
}

// channelMasks holds the three per-channel bit fields of a 16 or 32 bit
// pixel layout.
type channelMasks struct {
	r, g, b bitField
}

// newChannelMasks validates the three masks and derives their fields.
func newChannelMasks(r, g, b uint32) (channelMasks, error) {
	var m channelMasks
	var err error

	if m.r, err = newBitField(r); err != nil {
		return channelMasks{}, err
	}

	if m.g, err = newBitField(g); err != nil {
		return channelMasks{}, err
	}

	if m.b, err = newBitField(b); err != nil {
		return channelMasks{}, err
	}

	return m, nil
}

// argb decodes one packed pixel word into an opaque ARGB value.
func (m channelMasks) argb(pixel uint32) uint32 {
	return 0xFF000000 | m.r.extract(pixel)<<16 | m.g.extract(pixel)<<8 | m.b.extract(pixel)
}

// masks555 is the fixed 5-5-5 layout used by 16-bit images without a
// bit-fields block. The top bit of the word is unused.
var masks555 = channelMasks{
	r: bitField{mask: 0x7C00, shift: 10, width: 5},
	g: bitField{mask: 0x03E0, shift: 5, width: 5},
	b: bitField{mask: 0x001F, shift: 0, width: 5},
}
