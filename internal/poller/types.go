// internal/poller/types.go
package poller

import (
	"math"
	"strconv"
	"strings"
)

// Point is one charging point. Immutable after startup.
type Point struct {
	ID   string
	Name string // topic level, e.g. "links"
	Base uint16 // base holding register address
}

// ---- VALUES ----

// Value is one decoded metric value.
// Counters stay integral; engineering values are floats.
type Value struct {
	f        float64
	u        uint64
	integral bool
}

func Float(v float64) Value { return Value{f: v} }
func Uint(v uint64) Value { return Value{u: v, f: float64(v), integral: true} }

func (v Value) Float64() float64 { return v.f }
func (v Value) IsIntegral() bool { return v.integral }

// String is the wire payload.
// Integers print in base 10. Floats print the shortest round-trip form,
// positional with a mandatory decimal point (7 -> "7.0") while the decimal
// exponent is in [-4, 16), scientific outside it (1e+16, 2.5e-07).
func (v Value) String() string {
	if v.integral {
		return strconv.FormatUint(v.u, 10)
	}
	switch {
	case math.IsNaN(v.f):
		return "nan"
	case math.IsInf(v.f, 1):
		return "inf"
	case math.IsInf(v.f, -1):
		return "-inf"
	}

	e := strconv.FormatFloat(v.f, 'e', -1, 64)
	exp, _ := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return e
	}

	s := strconv.FormatFloat(v.f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ---- METRIC SET ----

// Metric is one labelled value, e.g. "Voltage/L1" = 230.48.
type Metric struct {
	Label string
	Value Value
}

// MetricSet keeps insertion order. Labels are unique.
type MetricSet struct {
	items []Metric
}

// Set adds or replaces a metric.
func (m *MetricSet) Set(label string, v Value) {
	for i := range m.items {
		if m.items[i].Label == label {
			m.items[i].Value = v
			return
		}
	}
	m.items = append(m.items, Metric{Label: label, Value: v})
}

func (m MetricSet) Get(label string) (Value, bool) {
	for _, it := range m.items {
		if it.Label == label {
			return it.Value, true
		}
	}
	return Value{}, false
}

func (m MetricSet) Len() int { return len(m.items) }

// Metrics returns a copy in insertion order.
func (m MetricSet) Metrics() []Metric {
	out := make([]Metric, len(m.items))
	copy(out, m.items)
	return out
}

// ---- READ RESULT ----

// Outcome classifies one charging point read.
type Outcome int

const (
	// NoData means every register read failed.
	NoData Outcome = iota
	// Partial means at least one read failed and one succeeded.
	Partial
	// Complete means every register read succeeded.
	Complete
)

func (o Outcome) String() string {
	switch o {
	case NoData:
		return "no-data"
	case Partial:
		return "partial"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// ReadResult is produced fresh on every poll of a point and discarded
// after publish.
type ReadResult struct {
	Point   Point
	Metrics MetricSet
	Outcome Outcome
}

// HasData reports whether anything was read.
func (r ReadResult) HasData() bool { return r.Outcome != NoData }

// ---- CYCLE REPORT ----

// CycleReport summarizes one orchestrator cycle.
type CycleReport struct {
	LinkFailed      bool
	Err             error // guardian error when LinkFailed
	PointsWithData  int
	PointsRead      int
	Failures        int // consecutive all-failed cycles after this one
	ForcedReconnect bool
}
