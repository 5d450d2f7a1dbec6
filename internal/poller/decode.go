// internal/poller/decode.go
package poller

import (
	"errors"

	"github.com/goburrow/modbus"
	"github.com/rs/zerolog"
)

// Decoder reads typed values from holding registers.
// Registers are big-endian, most significant register first.
// A failed read yields "absent" (ok=false); there are no retries here.
type Decoder struct {
	client Client
	log    zerolog.Logger
}

func NewDecoder(client Client, log zerolog.Logger) *Decoder {
	return &Decoder{client: client, log: log}
}

func (d *Decoder) U16(addr uint16) (uint16, bool) {
	regs, ok := d.read(addr, 1)
	if !ok {
		return 0, false
	}
	return regs[0], true
}

func (d *Decoder) U32(addr uint16) (uint32, bool) {
	regs, ok := d.read(addr, 2)
	if !ok {
		return 0, false
	}
	return ComposeU32(regs[0], regs[1]), true
}

func (d *Decoder) I32(addr uint16) (int32, bool) {
	regs, ok := d.read(addr, 2)
	if !ok {
		return 0, false
	}
	return ComposeI32(regs[0], regs[1]), true
}

func (d *Decoder) U64(addr uint16) (uint64, bool) {
	regs, ok := d.read(addr, 4)
	if !ok {
		return 0, false
	}
	return ComposeU64(regs[0], regs[1], regs[2], regs[3]), true
}

func (d *Decoder) read(addr, qty uint16) ([]uint16, bool) {
	regs, err := d.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		var mbErr *modbus.ModbusError
		if errors.As(err, &mbErr) {
			// device answered with an exception code
			d.log.Debug().
				Uint16("address", addr).
				Uint16("quantity", qty).
				Uint8("exception", mbErr.ExceptionCode).
				Msg("register read rejected")
		} else {
			d.log.Warn().
				Err(err).
				Uint16("address", addr).
				Uint16("quantity", qty).
				Msg("register read failed")
		}
		return nil, false
	}
	if len(regs) < int(qty) {
		d.log.Warn().
			Uint16("address", addr).
			Int("got", len(regs)).
			Uint16("want", qty).
			Msg("short register read")
		return nil, false
	}
	return regs, true
}

// ---- pure composition ----

func ComposeU32(hi, lo uint16) uint32 {
	return uint32(hi)<<16 | uint32(lo)
}

// ComposeI32 reinterprets the unsigned pattern as two's complement.
func ComposeI32(hi, lo uint16) int32 {
	return int32(ComposeU32(hi, lo))
}

func ComposeU64(r0, r1, r2, r3 uint16) uint64 {
	return uint64(r0)<<48 | uint64(r1)<<32 | uint64(r2)<<16 | uint64(r3)
}
