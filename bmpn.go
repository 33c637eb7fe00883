package bmpn

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// Standard error types for BMP decoding.
var (
	// ErrMalformedHeader indicates a bad file signature, nonzero reserved
	// fields, or a header that does not fit in the input buffer.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrUnsupportedFormat indicates a header variant other than the 40-byte
	// BITMAPINFOHEADER, or header fields that violate the format's invariants.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrUnsupportedBitDepth indicates a bit depth outside {0, 1, 4, 8, 16, 24, 32}.
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
	// ErrUnsupportedCompression indicates an RLE4, RLE8, JPEG or PNG payload.
	ErrUnsupportedCompression = errors.New("unsupported compression")
	// ErrMalformedPalette indicates a palette entry with a nonzero reserved byte
	// or a palette region that is not a whole number of entries.
	ErrMalformedPalette = errors.New("malformed palette")
	// ErrIndexOutOfRange indicates a pixel whose palette index exceeds the table.
	ErrIndexOutOfRange = errors.New("palette index out of range")
	// ErrInvalidColorMask indicates a bit-fields channel mask whose set bits are
	// not a single contiguous run.
	ErrInvalidColorMask = errors.New("invalid color mask")
	// ErrInvalidChannelOrder indicates an unrecognized output channel layout.
	ErrInvalidChannelOrder = errors.New("invalid channel order")
)

// ChannelOrder selects the byte layout of decoded pixels.
type ChannelOrder int

const (
	// OrderRGBA stores red, green, blue, alpha, in that byte order.
	OrderRGBA ChannelOrder = iota
	// OrderBGRA stores blue, green, red, alpha.
	OrderBGRA
	// OrderARGB stores alpha, red, green, blue.
	OrderARGB
	// OrderABGR stores alpha, blue, green, red.
	OrderABGR
)

// Options specifies decoding parameters.
type Options struct {
	// Order selects the channel layout of the output buffer.
	// The zero value is OrderRGBA.
	Order ChannelOrder
	// BottomUp emits the bottom visual row of the image first.
	// If false, rows are emitted top-down regardless of how the
	// file stores them.
	BottomUp bool
}

// Interface to check if a reader knows its remaining length.
type readerWithLen interface {
	Len() int
}

// readAllData reads data from r, pre-allocating if the size is known.
func readAllData(r io.Reader) ([]byte, error) {
	// Pre-allocate the buffer if the reader knows its remaining length.
	// This reduces allocations compared to io.ReadAll for large images.
	if rl, ok := r.(readerWithLen); ok {
		size := rl.Len()
		if size > 0 {
			data := make([]byte, size)
			_, err := io.ReadFull(r, data)
			if err != nil {
				return nil, fmt.Errorf("failed to read image data: %w", err)
			}

			return data, nil
		}
	}

	// Fallback for readers that don't implement Len() (e.g., network streams, os.File) or were empty.
	return io.ReadAll(r)
}

// DecodePixels decodes an in-memory BMP file into an interleaved pixel buffer,
// 4 bytes per pixel in the requested channel order. The buffer holds exactly
// width×height pixels: row padding present in the file never appears in the
// output, and rows follow the requested vertical order independent of how the
// file stores them.
func DecodePixels(data []byte, opts ...*Options) ([]byte, error) {
	o := &Options{}
	if len(opts) > 0 && opts[0] != nil {
		o = opts[0]
	}

	var d decoder
	if err := d.parse(data); err != nil {
		return nil, err
	}

	return d.compose(o.Order, o.BottomUp)
}

// DecodePacked decodes an in-memory BMP file into one packed 32-bit word per
// pixel. Each word holds the requested channel order most-significant byte
// first, so OrderARGB yields 0xAARRGGBB words.
func DecodePacked(data []byte, opts ...*Options) ([]uint32, error) {
	buf, err := DecodePixels(data, opts...)
	if err != nil {
		return nil, err
	}

	words := make([]uint32, len(buf)/4)
	for i := range words {
		o := i * 4
		words[i] = uint32(buf[o])<<24 | uint32(buf[o+1])<<16 | uint32(buf[o+2])<<8 | uint32(buf[o+3])
	}

	return words, nil
}

// Decode reads a BMP image from r and returns it as an [image.Image].
// Only uncompressed and bit-fields images with the 40-byte info header
// are supported; anything else fails with one of the package errors.
func Decode(r io.Reader) (image.Image, error) {
	data, err := readAllData(r)
	if err != nil {
		return nil, err
	}

	var d decoder
	if err := d.parse(data); err != nil {
		return nil, err
	}

	return d.image()
}

// DecodeConfig returns the color model and dimensions of a BMP image without
// decoding any pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var buf [fileHeaderSize + infoHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return image.Config{}, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}

	if _, err := parseFileHeader(buf[:]); err != nil {
		return image.Config{}, err
	}

	ih, err := parseInfoHeader(buf[fileHeaderSize:])
	if err != nil {
		return image.Config{}, err
	}

	// Indexed images resolve to full-color pixels on decode, so every
	// supported depth reports the same model.
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(ih.width),
		Height:     ih.rows(),
	}, nil
}

// init registers the BMP format with the standard library's image package.
// This allows image.Decode to automatically recognize and decode BMP files using this package.
func init() {
	image.RegisterFormat("bmp", "BM", Decode, DecodeConfig)
}
