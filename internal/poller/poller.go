// internal/poller/poller.go
package poller

import (
	"github.com/rs/zerolog"
)

// Client abstracts the Modbus operation needed by the reader.
// FC 3 only; geometry in, raw registers out.
type Client interface {
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error)
}

// Reader reads one charging point per call.
type Reader struct {
	dec *Decoder
	log zerolog.Logger
}

func NewReader(client Client, log zerolog.Logger) *Reader {
	return &Reader{dec: NewDecoder(client, log), log: log}
}

// Read performs the fixed read sequence for one point.
// Failed registers are omitted, never zero-filled.
// Cosphi is derived last and only from values read in this call.
func (r *Reader) Read(p Point) ReadResult {
	res := ReadResult{Point: p}

	ok := 0
	for _, f := range readSequence {
		addr := p.Base + f.offset

		v, good := r.readField(addr, f)
		if !good {
			continue
		}
		ok++
		res.Metrics.Set(f.label, v)
	}

	switch {
	case ok == 0:
		res.Outcome = NoData
		return res
	case ok == len(readSequence):
		res.Outcome = Complete
	default:
		res.Outcome = Partial
	}

	if pf, good := powerFactor(res.Metrics); good {
		res.Metrics.Set(LabelCosphi, Float(pf))
	}

	return res
}

func (r *Reader) readField(addr uint16, f field) (Value, bool) {
	switch f.width {
	case widthU32:
		raw, ok := r.dec.U32(addr)
		if !ok {
			return Value{}, false
		}
		return scaled(float64(raw), f.scale), true

	case widthI32:
		raw, ok := r.dec.I32(addr)
		if !ok {
			return Value{}, false
		}
		return scaled(float64(raw), f.scale), true

	case widthU64:
		raw, ok := r.dec.U64(addr)
		if !ok {
			return Value{}, false
		}
		if f.scale == 0 {
			return Uint(raw), true
		}
		return scaled(float64(raw), f.scale), true
	}

	return Value{}, false
}

func scaled(raw, div float64) Value {
	if div == 0 {
		return Float(raw)
	}
	return Float(raw / div)
}

// powerFactor = Power / ApparentPower, only when both were read and
// apparent power is strictly positive.
func powerFactor(m MetricSet) (float64, bool) {
	p, ok := m.Get(LabelPower)
	if !ok {
		return 0, false
	}
	s, ok := m.Get(LabelApparentPower)
	if !ok {
		return 0, false
	}
	if s.Float64() <= 0 {
		return 0, false
	}
	return p.Float64() / s.Float64(), true
}
