package bmpn

import (
	"encoding/binary"
	"fmt"
)

// pixelReader walks the raw pixel region of a BMP file and yields one packed
// opaque ARGB word per stored pixel slot, in file storage order. It is a
// forward-only iterator: a byte cursor into the source region plus the
// decoded-but-unread remainder of a partially consumed byte for the sub-byte
// depths. There is no random access and no replay; a fresh reader is needed
// for every pass.
type pixelReader struct {
	data  []byte
	pal   palette
	masks *channelMasks // nil selects the direct low-24-bit path for 32 bpp

	bitCount int
	rowBytes int
	padded   int // pixel slots per stored row, padding slots included
	rowCount int

	pos     int  // byte cursor within data
	row     int  // current row in storage order
	col     int  // pixel slot within the current row
	cur     byte // partially consumed byte, high bits first (1 and 4 bpp)
	curBits int  // bits remaining in cur
}

// newPixelReader validates the decode preconditions and positions a reader at
// the start of the pixel region. Compressed payloads are rejected here, before
// a single pixel byte is read. For 16 bpp without a bit-fields block the fixed
// 5-5-5 masks are substituted; a 32 bpp reader with nil masks takes the packed
// low-24-bit path instead.
func newPixelReader(data []byte, ih *infoHeader, pal palette, masks *channelMasks) (*pixelReader, error) {
	switch ih.compression {
	case biRGB, biBitFields:
	default:
		return nil, fmt.Errorf("%w: compression mode %d", ErrUnsupportedCompression, ih.compression)
	}

	switch ih.bitCount {
	case 0, 1, 4, 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedBitDepth, ih.bitCount)
	}

	r := &pixelReader{
		data:     data,
		pal:      pal,
		masks:    masks,
		bitCount: int(ih.bitCount),
		rowBytes: ih.rowBytes(),
		padded:   ih.paddedWidth(),
		rowCount: ih.rows(),
	}

	if r.bitCount == 16 && r.masks == nil {
		r.masks = &masks555
	}

	// A row without pixel slots can never advance; treat it as no rows.
	if r.padded == 0 {
		r.rowCount = 0
	}

	if need := r.rowBytes * r.rowCount; len(data) < need {
		return nil, fmt.Errorf("%w: pixel data truncated, need %d bytes, have %d", ErrMalformedHeader, need, len(data))
	}

	return r, nil
}

// more reports whether the reader has pixel slots left to produce. The total
// produced over a full pass is exactly padded width times row count.
func (r *pixelReader) more() bool {
	return r.row < r.rowCount
}

// next decodes and returns the next pixel slot as an opaque ARGB word.
func (r *pixelReader) next() (uint32, error) {
	var px uint32

	switch r.bitCount {
	case 1:
		if r.curBits == 0 {
			r.cur = r.data[r.pos]
			r.pos++
			r.curBits = 8
		}

		// Most significant bit first.
		idx := int(r.cur >> 7)
		r.cur <<= 1
		r.curBits--

		var err error
		if px, err = r.pal.argb(idx); err != nil {
			return 0, err
		}
	case 4:
		if r.curBits == 0 {
			r.cur = r.data[r.pos]
			r.pos++
			r.curBits = 8
		}

		// High nibble first.
		idx := int(r.cur >> 4)
		r.cur <<= 4
		r.curBits -= 4

		var err error
		if px, err = r.pal.argb(idx); err != nil {
			return 0, err
		}
	case 8:
		idx := int(r.data[r.pos])
		r.pos++

		var err error
		if px, err = r.pal.argb(idx); err != nil {
			return 0, err
		}
	case 16:
		w := uint32(binary.LittleEndian.Uint16(r.data[r.pos:]))
		r.pos += 2
		px = r.masks.argb(w)
	case 24:
		// Stored blue, green, red.
		b := uint32(r.data[r.pos])
		g := uint32(r.data[r.pos+1])
		rd := uint32(r.data[r.pos+2])
		r.pos += 3
		px = 0xFF000000 | rd<<16 | g<<8 | b
	case 32:
		w := binary.LittleEndian.Uint32(r.data[r.pos:])
		r.pos += 4
		if r.masks != nil {
			px = r.masks.argb(w)
		} else {
			px = 0xFF000000 | w&0x00FFFFFF
		}
	}

	r.col++
	if r.col == r.padded {
		// Jump to the next row boundary. This also skips leftover padding
		// bytes too small to form a whole pixel slot.
		r.row++
		r.col = 0
		r.pos = r.row * r.rowBytes
		r.curBits = 0
	}

	return px, nil
}
