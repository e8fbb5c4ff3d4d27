package emulator

import (
	"errors"
	"testing"

	"github.com/google/brotli/go/cbrotli"
	"github.com/thelolagemann/chip8view/internal/types"
)

func testGrid() types.PixelGrid {
	g := types.BlankGrid(types.ScreenHeight, types.ScreenWidth)
	for i := 0; i < types.ScreenHeight; i++ {
		g[i][i*2] = 1
	}
	return g
}

func TestFrame(t *testing.T) {
	for _, compress := range []bool{false, true} {
		g := testGrid()
		b, err := EncodeFrame(g, compress)
		if err != nil {
			t.Fatal(err)
		}
		out, err := DecodeFrame(b)
		if err != nil {
			t.Fatal(err)
		}
		if out.Height() != g.Height() || out.Width() != g.Width() {
			t.Fatalf("expected %dx%d, got %dx%d", g.Width(), g.Height(), out.Width(), out.Height())
		}
		for y := range g {
			for x := range g[y] {
				if out[y][x] != g[y][x] {
					t.Errorf("compress=%t: pixel %d,%d: expected %d, got %d", compress, x, y, g[y][x], out[y][x])
				}
			}
		}
	}
}

func TestDecodeFrame_Truncated(t *testing.T) {
	b := []byte{TypeFrame, 2, 3, 0, 1, 0, 1, 1}
	g, err := DecodeFrame(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(g[0]) != 3 || len(g[1]) != 1 {
		t.Errorf("expected rows of 3 and 1 pixels, got %d and %d", len(g[0]), len(g[1]))
	}
	if g.Valid(1) {
		t.Error("expected truncated row to be invalid")
	}
}

func TestDecodeFrame_Oversized(t *testing.T) {
	// a payload that inflates far beyond the declared dimensions
	pixels, err := cbrotli.Encode(make([]byte, 1<<20), cbrotli.WriterOptions{Quality: 5})
	if err != nil {
		t.Fatal(err)
	}
	b := append([]byte{TypeFrame, types.ScreenHeight, types.ScreenWidth, FlagCompressed}, pixels...)
	if _, err := DecodeFrame(b); !errors.Is(err, ErrMalformedPacket) {
		t.Errorf("expected ErrMalformedPacket, got %v", err)
	}

	pixels, err = cbrotli.Encode(make([]byte, 4*4+1), cbrotli.WriterOptions{Quality: 5})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeFrame(append([]byte{TypeFrame, 4, 4, FlagCompressed}, pixels...)); !errors.Is(err, ErrMalformedPacket) {
		t.Errorf("expected a single extra byte to be rejected, got %v", err)
	}
}

func TestState(t *testing.T) {
	s := types.Snapshot{{Name: "opcode", Value: "00E0"}, {Name: "pc", Value: 512}}
	b, err := EncodeState(s)
	if err != nil {
		t.Fatal(err)
	}
	out, err := DecodeState(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[1].Name != "pc" || out[1].String() != "512" {
		t.Errorf("unexpected snapshot %v", out)
	}

	if _, err := DecodeState([]byte{TypeState, '{'}); !errors.Is(err, ErrMalformedPacket) {
		t.Errorf("expected ErrMalformedPacket, got %v", err)
	}
}

func TestRunStatus(t *testing.T) {
	s, err := DecodeRunStatus(EncodeRunStatus(Running))
	if err != nil || s != Running {
		t.Errorf("expected Running, got %s (%v)", s, err)
	}
	if _, err := DecodeRunStatus([]byte{TypeRunStatus, 9}); !errors.Is(err, ErrMalformedPacket) {
		t.Errorf("expected ErrMalformedPacket, got %v", err)
	}
}
