package emulator

import (
	"errors"
	"testing"
)

func TestCommandPacket(t *testing.T) {
	p := SpeedPacket(742)
	p.ID = 0x1234

	out, err := DecodeCommand(p.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if out.ID != 0x1234 || out.Command != CommandSetSpeed {
		t.Errorf("expected id 0x1234 %s, got %#x %s", CommandSetSpeed, out.ID, out.Command)
	}
	speed, err := out.Speed()
	if err != nil {
		t.Fatal(err)
	}
	if speed != 742 {
		t.Errorf("expected speed 742, got %d", speed)
	}

	if _, err := (CommandPacket{Command: CommandBegin}).Speed(); !errors.Is(err, ErrMalformedPacket) {
		t.Errorf("expected ErrMalformedPacket, got %v", err)
	}
}

func TestResponsePacket(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		r, err := DecodeResponse(ResponsePacket{ID: 7, Command: CommandBegin}.Encode())
		if err != nil {
			t.Fatal(err)
		}
		if r.ID != 7 || r.Error != nil {
			t.Errorf("expected id 7 without error, got %d %v", r.ID, r.Error)
		}
	})
	t.Run("error", func(t *testing.T) {
		r, err := DecodeResponse(ResponsePacket{ID: 8, Command: CommandLoadProgram, Error: errors.New("no file")}.Encode())
		if err != nil {
			t.Fatal(err)
		}
		var engineErr *EngineError
		if !errors.As(r.Error, &engineErr) {
			t.Fatalf("expected *EngineError, got %T", r.Error)
		}
		if engineErr.Message != "no file" || engineErr.Command != CommandLoadProgram {
			t.Errorf("unexpected engine error %v", engineErr)
		}
	})
	t.Run("malformed", func(t *testing.T) {
		if _, err := DecodeResponse([]byte{TypeResponse, 1}); !errors.Is(err, ErrMalformedPacket) {
			t.Errorf("expected ErrMalformedPacket, got %v", err)
		}
	})
}

func TestClampSpeed(t *testing.T) {
	for in, want := range map[int]int{-5: MinSpeed, 0: MinSpeed, 1: 1, 500: 500, MaxSpeed: MaxSpeed, 99999: MaxSpeed} {
		if got := ClampSpeed(in); got != want {
			t.Errorf("ClampSpeed(%d): expected %d, got %d", in, want, got)
		}
	}
}

func TestRunState(t *testing.T) {
	if Paused.Toggled() != Running || Running.Toggled() != Paused {
		t.Error("expected toggling to alternate between Paused and Running")
	}
	if RunState(0) != Paused {
		t.Error("expected the zero value to be Paused")
	}
}
