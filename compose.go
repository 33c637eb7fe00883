package bmpn

import (
	"fmt"
)

// composeScanlines drains the pixel reader and assembles the caller-visible
// buffer: rows of padded width are cut down to the image width, each kept
// pixel's channel bytes are permuted into the requested order, and rows are
// emitted in the requested vertical order. The result is exactly
// width×height×4 bytes; padding slots never reach it.
func composeScanlines(pr *pixelReader, ih *infoHeader, order ChannelOrder, bottomUp bool) ([]byte, error) {
	switch order {
	case OrderRGBA, OrderBGRA, OrderARGB, OrderABGR:
	default:
		return nil, fmt.Errorf("%w: order %d", ErrInvalidChannelOrder, order)
	}

	width := int(ih.width)
	if pr.rowCount == 0 {
		return []byte{}, nil
	}

	out := make([]byte, width*pr.rowCount*4)

	// Files store rows bottom-up unless the height is negative. Emitting in
	// the requested visual order means reversing exactly when the two
	// disagree: requested order is top-down unless bottomUp is set, so a
	// reversal is needed when storage order equals bottomUp.
	flip := ih.topDown() == bottomUp

	for sr := 0; sr < pr.rowCount; sr++ {
		dr := sr
		if flip {
			dr = pr.rowCount - 1 - sr
		}

		base := dr * width * 4
		for c := 0; c < pr.padded; c++ {
			px, err := pr.next()
			if err != nil {
				return nil, err
			}

			// Padding slots past the image width carry no image data.
			if c >= width {
				continue
			}

			a := byte(px >> 24)
			r := byte(px >> 16)
			g := byte(px >> 8)
			b := byte(px)

			o := base + c*4
			switch order {
			case OrderRGBA:
				out[o], out[o+1], out[o+2], out[o+3] = r, g, b, a
			case OrderBGRA:
				out[o], out[o+1], out[o+2], out[o+3] = b, g, r, a
			case OrderARGB:
				out[o], out[o+1], out[o+2], out[o+3] = a, r, g, b
			case OrderABGR:
				out[o], out[o+1], out[o+2], out[o+3] = a, b, g, r
			}
		}
	}

	return out, nil
}
