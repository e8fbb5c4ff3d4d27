package emulator

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrMalformedPacket is returned when a message from the
// bridge cannot be decoded.
var ErrMalformedPacket = errors.New("malformed packet")

// Type is the first byte of every message sent across the
// bridge, and determines how the rest of the message is
// interpreted.
type Type = uint8

const (
	// TypeCommand is a CommandPacket sent to the engine.
	TypeCommand Type = iota
	// TypeResponse is a ResponsePacket sent back by the engine.
	TypeResponse
	// TypeFrame carries a PixelGrid.
	TypeFrame
	// TypeState carries a Snapshot.
	TypeState
	// TypeRunStatus carries the engine's authoritative RunState.
	TypeRunStatus
)

// Command is a command that is sent to the engine to
// control it.
type Command uint8

const (
	// CommandBegin starts the engine stepping.
	CommandBegin Command = iota
	// CommandSuspend stops the engine stepping.
	CommandSuspend
	// CommandSetSpeed sets the speed of the engine in cycles
	// per tick.
	CommandSetSpeed
	// CommandLoadProgram asks the engine to prompt for and
	// load a program.
	CommandLoadProgram
	// CommandReset stops and resets the engine.
	CommandReset
)

func (c Command) String() string {
	switch c {
	case CommandBegin:
		return "begin"
	case CommandSuspend:
		return "suspend"
	case CommandSetSpeed:
		return "set speed"
	case CommandLoadProgram:
		return "load program"
	case CommandReset:
		return "reset"
	default:
		return fmt.Sprintf("command(%d)", uint8(c))
	}
}

// CommandPacket is a command packet that is sent to the
// engine to control it.
type CommandPacket struct {
	ID      uint16
	Command Command
	Data    []byte
}

// SpeedPacket builds the packet for a CommandSetSpeed call.
func SpeedPacket(cyclesPerTick int) CommandPacket {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, uint32(cyclesPerTick))
	return CommandPacket{Command: CommandSetSpeed, Data: data}
}

// Speed returns the argument of a CommandSetSpeed packet.
func (p CommandPacket) Speed() (int, error) {
	if p.Command != CommandSetSpeed || len(p.Data) != 4 {
		return 0, fmt.Errorf("%w: not a speed command", ErrMalformedPacket)
	}
	return int(binary.LittleEndian.Uint32(p.Data)), nil
}

// Encode encodes the packet as [TypeCommand][id u16le][cmd][data].
func (p CommandPacket) Encode() []byte {
	b := make([]byte, 4, 4+len(p.Data))
	b[0] = TypeCommand
	binary.LittleEndian.PutUint16(b[1:], p.ID)
	b[3] = uint8(p.Command)
	return append(b, p.Data...)
}

// DecodeCommand decodes a message produced by CommandPacket.Encode.
func DecodeCommand(b []byte) (CommandPacket, error) {
	if len(b) < 4 || b[0] != TypeCommand {
		return CommandPacket{}, fmt.Errorf("%w: command", ErrMalformedPacket)
	}
	return CommandPacket{
		ID:      binary.LittleEndian.Uint16(b[1:]),
		Command: Command(b[3]),
		Data:    b[4:],
	}, nil
}

// EngineError is an error reported by the engine in reply to
// a command.
type EngineError struct {
	Command Command
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine rejected %s: %s", e.Command, e.Message)
}

// ResponsePacket is a response packet that is sent
// from the engine to the client.
type ResponsePacket struct {
	ID      uint16
	Command Command
	Error   error
}

// Encode encodes the packet as [TypeResponse][id u16le][cmd][ok][error text].
func (r ResponsePacket) Encode() []byte {
	b := make([]byte, 5)
	b[0] = TypeResponse
	binary.LittleEndian.PutUint16(b[1:], r.ID)
	b[3] = uint8(r.Command)
	if r.Error == nil {
		b[4] = 1
		return b
	}
	return append(b, r.Error.Error()...)
}

// DecodeResponse decodes a message produced by ResponsePacket.Encode.
// A failed response carries an *EngineError.
func DecodeResponse(b []byte) (ResponsePacket, error) {
	if len(b) < 5 || b[0] != TypeResponse {
		return ResponsePacket{}, fmt.Errorf("%w: response", ErrMalformedPacket)
	}
	r := ResponsePacket{
		ID:      binary.LittleEndian.Uint16(b[1:]),
		Command: Command(b[3]),
	}
	if b[4] == 0 {
		r.Error = &EngineError{Command: r.Command, Message: string(b[5:])}
	}
	return r, nil
}
