package bmpn

import (
	"errors"
	"testing"
)

func TestParsePalette(t *testing.T) {
	pal, err := parsePalette([]byte{
		0x00, 0x00, 0x00, 0x00, // black
		0xFF, 0xFF, 0xFF, 0x00, // white
		0x33, 0x22, 0x11, 0x00, // stored blue, green, red
	})
	if err != nil {
		t.Fatalf("parsePalette failed: %v", err)
	}

	want := []uint32{0xFF000000, 0xFFFFFFFF, 0xFF112233}
	if len(pal) != len(want) {
		t.Fatalf("Got %d entries, want %d", len(pal), len(want))
	}

	for i, w := range want {
		got, err := pal.argb(i)
		if err != nil {
			t.Fatalf("Entry %d - argb failed: %v", i, err)
		}

		if got != w {
			t.Errorf("Entry %d - got 0x%08X, want 0x%08X", i, got, w)
		}
	}
}

func TestParsePaletteEmpty(t *testing.T) {
	pal, err := parsePalette(nil)
	if err != nil {
		t.Fatalf("parsePalette failed: %v", err)
	}

	if len(pal) != 0 {
		t.Fatalf("Got %d entries, want 0", len(pal))
	}
}

func TestParsePaletteMalformed(t *testing.T) {
	// A nonzero reserved byte.
	_, err := parsePalette([]byte{0, 0, 0, 1})
	if !errors.Is(err, ErrMalformedPalette) {
		t.Fatalf("Reserved byte - got %v, want ErrMalformedPalette", err)
	}

	// A region that is not a whole number of entries.
	_, err = parsePalette([]byte{0, 0, 0, 0, 0xFF})
	if !errors.Is(err, ErrMalformedPalette) {
		t.Fatalf("Partial entry - got %v, want ErrMalformedPalette", err)
	}
}

func TestPaletteIndexOutOfRange(t *testing.T) {
	pal, err := parsePalette([]byte{0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0})
	if err != nil {
		t.Fatalf("parsePalette failed: %v", err)
	}

	if _, err := pal.argb(2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("Got %v, want ErrIndexOutOfRange", err)
	}

	// Index 0 is a real slot, not a sentinel.
	if c, err := pal.argb(0); err != nil || c != 0xFF000000 {
		t.Fatalf("Entry 0 - got 0x%08X, %v", c, err)
	}
}
