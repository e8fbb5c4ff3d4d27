package emulator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/brotli/go/cbrotli"
	"github.com/thelolagemann/chip8view/internal/types"
)

// FlagCompressed marks a frame whose pixel payload is brotli
// compressed.
const FlagCompressed = 1 << 0

// EncodeFrame encodes a grid as [TypeFrame][height][width][flags][pixels],
// with one byte per pixel in row-major order. When compress is set
// the pixels are brotli compressed.
func EncodeFrame(g types.PixelGrid, compress bool) ([]byte, error) {
	height, width := g.Height(), g.Width()
	if height > 255 || width > 255 {
		return nil, fmt.Errorf("frame of %dx%d is too large", width, height)
	}

	pixels := make([]byte, 0, height*width)
	for _, row := range g {
		pixels = append(pixels, row...)
	}

	var flags uint8
	if compress {
		var err error
		pixels, err = cbrotli.Encode(pixels, cbrotli.WriterOptions{
			Quality: 7,
		})
		if err != nil {
			return nil, err
		}
		flags |= FlagCompressed
	}

	return append([]byte{TypeFrame, uint8(height), uint8(width), flags}, pixels...), nil
}

// DecodeFrame decodes a message produced by EncodeFrame. A pixel
// payload shorter than height*width yields a short final row rather
// than an error, so that a truncated frame can still be displayed.
func DecodeFrame(b []byte) (types.PixelGrid, error) {
	if len(b) < 4 || b[0] != TypeFrame {
		return nil, fmt.Errorf("%w: frame", ErrMalformedPacket)
	}

	height, width, flags := int(b[1]), int(b[2]), b[3]
	pixels := b[4:]
	if flags&FlagCompressed != 0 {
		var err error
		if pixels, err = decompress(pixels, height*width); err != nil {
			return nil, fmt.Errorf("%w: frame: %v", ErrMalformedPacket, err)
		}
	}

	g := make(types.PixelGrid, height)
	for y := range g {
		start := y * width
		end := start + width
		if start > len(pixels) {
			start = len(pixels)
		}
		if end > len(pixels) {
			end = len(pixels)
		}
		g[y] = append([]uint8(nil), pixels[start:end]...)
	}

	return g, nil
}

// decompress inflates a brotli payload of at most limit bytes.
func decompress(b []byte, limit int) ([]byte, error) {
	r := cbrotli.NewReader(bytes.NewReader(b))
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, err
	}
	if len(out) > limit {
		return nil, fmt.Errorf("pixels exceed %d bytes", limit)
	}
	return out, nil
}

// EncodeState encodes a snapshot as [TypeState][json].
func EncodeState(s types.Snapshot) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return append([]byte{TypeState}, b...), nil
}

// DecodeState decodes a message produced by EncodeState.
func DecodeState(b []byte) (types.Snapshot, error) {
	if len(b) < 1 || b[0] != TypeState {
		return nil, fmt.Errorf("%w: state", ErrMalformedPacket)
	}

	var s types.Snapshot
	if err := json.Unmarshal(b[1:], &s); err != nil {
		return nil, fmt.Errorf("%w: state: %v", ErrMalformedPacket, err)
	}
	return s, nil
}

// EncodeRunStatus encodes a run state as [TypeRunStatus][0|1].
func EncodeRunStatus(s RunState) []byte {
	return []byte{TypeRunStatus, uint8(s)}
}

// DecodeRunStatus decodes a message produced by EncodeRunStatus.
func DecodeRunStatus(b []byte) (RunState, error) {
	if len(b) != 2 || b[0] != TypeRunStatus || b[1] > uint8(Running) {
		return Paused, fmt.Errorf("%w: run status", ErrMalformedPacket)
	}
	return RunState(b[1]), nil
}
