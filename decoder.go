package bmpn

import (
	"encoding/binary"
	"fmt"
	"image"
)

// decoder holds the parsed pieces of one BMP file: the two headers, the
// optional channel-mask block and the palette. Parsing happens once per
// decode call and the pieces are immutable afterwards; the raw pixel region
// is only ever read, so independent decodes of the same buffer need no
// coordination.
type decoder struct {
	data  []byte
	fh    fileHeader
	ih    infoHeader
	masks *channelMasks // set only for bit-fields images
	pal   palette
}

// parse validates the headers, the mask block and the palette, in file order.
// Every structural failure is detected here, before any pixel byte is
// touched; only compressed-payload rejection and per-pixel palette lookups
// are left for decode time.
func (d *decoder) parse(data []byte) error {
	d.data = data

	fh, err := parseFileHeader(data)
	if err != nil {
		return err
	}
	d.fh = fh

	ih, err := parseInfoHeader(data[fileHeaderSize:])
	if err != nil {
		return err
	}
	d.ih = ih

	palStart := fileHeaderSize + infoHeaderSize
	if d.ih.hasMaskBlock() {
		if len(data) < palStart+maskBlockSize {
			return fmt.Errorf("%w: mask block truncated", ErrMalformedHeader)
		}

		block := data[palStart : palStart+maskBlockSize]
		m, err := newChannelMasks(
			binary.LittleEndian.Uint32(block[0:4]),
			binary.LittleEndian.Uint32(block[4:8]),
			binary.LittleEndian.Uint32(block[8:12]),
		)
		if err != nil {
			return err
		}

		d.masks = &m
		palStart += maskBlockSize
	}

	off := int(d.fh.dataOffset)
	if off < palStart || off > len(data) {
		return fmt.Errorf("%w: pixel data offset %d outside file of %d bytes", ErrMalformedHeader, off, len(data))
	}

	pal, err := parsePalette(data[palStart:off])
	if err != nil {
		return err
	}
	d.pal = pal

	return nil
}

// compose decodes the pixel region and assembles an output buffer in the
// requested channel order and vertical order.
func (d *decoder) compose(order ChannelOrder, bottomUp bool) ([]byte, error) {
	pr, err := newPixelReader(d.data[d.fh.dataOffset:], &d.ih, d.pal, d.masks)
	if err != nil {
		return nil, err
	}

	return composeScanlines(pr, &d.ih, order, bottomUp)
}

// image materializes the decoded pixels as an *image.NRGBA. None of the
// supported decode paths carries alpha, so every pixel comes out opaque.
func (d *decoder) image() (image.Image, error) {
	pix, err := d.compose(OrderRGBA, false)
	if err != nil {
		return nil, err
	}

	w := int(d.ih.width)
	h := d.ih.rows()
	if len(pix) == 0 {
		// Degenerate files (0 bpp or a zero dimension) have no pixel array.
		w, h = 0, 0
	}

	return &image.NRGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}, nil
}
