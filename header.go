package bmpn

import (
	"encoding/binary"
	"fmt"
)

// On-disk layout sizes. All multi-byte fields are little-endian.
const (
	fileHeaderSize = 14
	infoHeaderSize = 40 // BITMAPINFOHEADER, the only supported variant
	maskBlockSize  = 12 // three 4-byte channel masks, red then green then blue
)

// Compression modes from the info header.
const (
	biRGB = iota
	biRLE8
	biRLE4
	biBitFields
	biJPEG
	biPNG
)

// fileHeader mirrors BITMAPFILEHEADER: the outer container record that
// carries the file signature and the offset of the pixel array.
type fileHeader struct {
	fileSize   uint32 // declared size of the whole file, in bytes
	dataOffset uint32 // offset of the pixel array from the start of the file
}

// parseFileHeader validates and extracts the 14-byte file header at the
// start of data. The signature must be "BM" and both reserved words must
// be zero; anything else is a hard failure.
func parseFileHeader(data []byte) (fileHeader, error) {
	if len(data) < fileHeaderSize {
		return fileHeader{}, fmt.Errorf("%w: file header truncated at %d bytes", ErrMalformedHeader, len(data))
	}

	if data[0] != 'B' || data[1] != 'M' {
		return fileHeader{}, fmt.Errorf("%w: bad signature %q", ErrMalformedHeader, data[0:2])
	}

	if binary.LittleEndian.Uint16(data[6:8]) != 0 || binary.LittleEndian.Uint16(data[8:10]) != 0 {
		return fileHeader{}, fmt.Errorf("%w: nonzero reserved fields", ErrMalformedHeader)
	}

	return fileHeader{
		fileSize:   binary.LittleEndian.Uint32(data[2:6]),
		dataOffset: binary.LittleEndian.Uint32(data[10:14]),
	}, nil
}

// infoHeader mirrors BITMAPINFOHEADER: dimensions, bit depth, compression
// mode and palette bookkeeping. It is immutable once parsed.
type infoHeader struct {
	size         uint32 // header size in bytes; must be 40
	width        int32  // image width in pixels
	height       int32  // image height in pixels; negative means top-down row storage
	planes       uint16 // color plane count; must be 1
	bitCount     uint16 // bits per pixel
	compression  uint32 // one of the bi* modes
	sizeImage    uint32 // size of the pixel array, may be 0 for biRGB
	xPelsPerM    int32  // horizontal resolution, pixels per meter
	yPelsPerM    int32  // vertical resolution, pixels per meter
	clrUsed      uint32 // palette entries actually used
	clrImportant uint32 // palette entries required to display the image
}

// parseInfoHeader validates and extracts the 40-byte info header from data,
// which is the byte window starting right after the file header.
func parseInfoHeader(data []byte) (infoHeader, error) {
	if len(data) < infoHeaderSize {
		return infoHeader{}, fmt.Errorf("%w: info header truncated at %d bytes", ErrMalformedHeader, len(data))
	}

	ih := infoHeader{
		size:         binary.LittleEndian.Uint32(data[0:4]),
		width:        int32(binary.LittleEndian.Uint32(data[4:8])),
		height:       int32(binary.LittleEndian.Uint32(data[8:12])),
		planes:       binary.LittleEndian.Uint16(data[12:14]),
		bitCount:     binary.LittleEndian.Uint16(data[14:16]),
		compression:  binary.LittleEndian.Uint32(data[16:20]),
		sizeImage:    binary.LittleEndian.Uint32(data[20:24]),
		xPelsPerM:    int32(binary.LittleEndian.Uint32(data[24:28])),
		yPelsPerM:    int32(binary.LittleEndian.Uint32(data[28:32])),
		clrUsed:      binary.LittleEndian.Uint32(data[32:36]),
		clrImportant: binary.LittleEndian.Uint32(data[36:40]),
	}

	if ih.size != infoHeaderSize {
		return infoHeader{}, fmt.Errorf("%w: info header size %d", ErrUnsupportedFormat, ih.size)
	}

	if ih.planes != 1 {
		return infoHeader{}, fmt.Errorf("%w: %d color planes", ErrUnsupportedFormat, ih.planes)
	}

	if ih.width < 0 {
		return infoHeader{}, fmt.Errorf("%w: negative width %d", ErrUnsupportedFormat, ih.width)
	}

	switch ih.bitCount {
	case 0, 1, 4, 8, 16, 24, 32:
	default:
		return infoHeader{}, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedFormat, ih.bitCount)
	}

	if ih.compression > biPNG {
		return infoHeader{}, fmt.Errorf("%w: unknown compression %d", ErrUnsupportedFormat, ih.compression)
	}

	// Top-down storage is only defined for uncompressed and bit-fields images.
	if ih.height < 0 && ih.compression != biRGB && ih.compression != biBitFields {
		return infoHeader{}, fmt.Errorf("%w: top-down rows with compression %d", ErrUnsupportedFormat, ih.compression)
	}

	// A bit-fields mask block is only defined for 16 and 32 bits per pixel.
	if ih.compression == biBitFields && ih.bitCount != 16 && ih.bitCount != 32 {
		return infoHeader{}, fmt.Errorf("%w: bit fields with %d bits per pixel", ErrUnsupportedFormat, ih.bitCount)
	}

	return ih, nil
}

// topDown reports whether rows are stored top visual row first.
func (ih *infoHeader) topDown() bool {
	return ih.height < 0
}

// rows returns the unsigned row count. Negation happens in 64 bits:
// the magnitude of the smallest header height does not fit in an int32.
func (ih *infoHeader) rows() int {
	if ih.height < 0 {
		return int(-int64(ih.height))
	}

	return int(ih.height)
}

// rowBytes returns the byte stride of one stored row, padded to a 4-byte
// boundary.
func (ih *infoHeader) rowBytes() int {
	return (int(ih.width)*int(ih.bitCount) + 31) / 32 * 4
}

// paddedWidth returns the number of whole pixel slots in one stored row,
// including slots that exist only because of row padding. Leftover padding
// bytes too small to hold a whole pixel (possible at 24 bits per pixel) are
// not slots; the pixel reader skips them at the row boundary.
func (ih *infoHeader) paddedWidth() int {
	if ih.bitCount == 0 {
		return 0
	}

	return ih.rowBytes() * 8 / int(ih.bitCount)
}

// hasMaskBlock reports whether a 12-byte channel-mask block follows the
// info header.
func (ih *infoHeader) hasMaskBlock() bool {
	return ih.compression == biBitFields
}
