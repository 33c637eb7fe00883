package bmpn

import (
	"fmt"
)

// palette is the ordered color table of an indexed image. Each entry is
// stored pre-packed as an opaque ARGB word; the stored pixel index is the
// position in the slice, and index 0 is a real slot.
type palette []uint32

// parsePalette reads 4-byte blue, green, red, reserved entries until the
// region is exhausted. The region is everything between the info header
// (plus the mask block, when present) and the pixel-data offset, so an
// empty region yields an empty table.
func parsePalette(data []byte) (palette, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: region of %d bytes is not whole entries", ErrMalformedPalette, len(data))
	}

	pal := make(palette, 0, len(data)/4)
	for i := 0; i < len(data); i += 4 {
		b, g, r, res := data[i], data[i+1], data[i+2], data[i+3]
		if res != 0 {
			return nil, fmt.Errorf("%w: entry %d has reserved byte 0x%02x", ErrMalformedPalette, i/4, res)
		}

		pal = append(pal, 0xFF000000|uint32(r)<<16|uint32(g)<<8|uint32(b))
	}

	return pal, nil
}

// argb returns the packed opaque ARGB color at index i.
func (p palette) argb(i int) (uint32, error) {
	if i >= len(p) {
		return 0, fmt.Errorf("%w: index %d in a table of %d", ErrIndexOutOfRange, i, len(p))
	}

	return p[i], nil
}
