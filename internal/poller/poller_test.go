// internal/poller/poller_test.go
package poller

import (
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
)

var links = Point{ID: "cp1", Name: "links", Base: 1000}

// fillPoint writes plausible values for every field of p.
func fillPoint(f *fakeClient, p Point) {
	f.putU32(p.Base+RegVoltageL1, 230480)
	f.putU32(p.Base+RegVoltageL2, 230000)
	f.putU32(p.Base+RegVoltageL3, 229500)
	f.putU32(p.Base+RegCurrentL1, 16000)
	f.putU32(p.Base+RegCurrentL2, 15500)
	f.putU32(p.Base+RegCurrentL3, 0)
	f.putU32(p.Base+RegPower, 7000)
	f.putU32(p.Base+RegReactivePower, uint32(0xFFFFF448)) // -3000 mW
	f.putU32(p.Base+RegApparentPower, 10000)
	f.putU64(p.Base+RegEnergyTotal, 123456)
}

func TestRead_Complete(t *testing.T) {
	f := newFakeClient()
	fillPoint(f, links)

	res := NewReader(f, zerolog.Nop()).Read(links)

	if res.Outcome != Complete {
		t.Fatalf("expected complete, got %s", res.Outcome)
	}
	if res.Metrics.Len() != 11 {
		t.Fatalf("expected 11 metrics, got %d", res.Metrics.Len())
	}

	checks := map[string]string{
		LabelVoltageL1:     "230.48",
		LabelVoltageL2:     "230.0",
		LabelCurrentL1:     "16.0",
		LabelCurrentL3:     "0.0",
		LabelPower:         "7.0",
		LabelReactivePower: "-3.0",
		LabelApparentPower: "10.0",
		LabelImport:        "123456",
		LabelCosphi:        "0.7",
	}
	for label, want := range checks {
		v, ok := res.Metrics.Get(label)
		if !ok {
			t.Fatalf("missing %s", label)
		}
		if v.String() != want {
			t.Fatalf("%s=%s want %s", label, v.String(), want)
		}
	}
}

func TestRead_FixedOrder(t *testing.T) {
	f := newFakeClient()
	fillPoint(f, links)

	res := NewReader(f, zerolog.Nop()).Read(links)

	wantLabels := []string{
		LabelVoltageL1, LabelVoltageL2, LabelVoltageL3,
		LabelCurrentL1, LabelCurrentL2, LabelCurrentL3,
		LabelPower, LabelReactivePower, LabelApparentPower,
		LabelImport, LabelCosphi,
	}
	got := res.Metrics.Metrics()
	for i, l := range wantLabels {
		if got[i].Label != l {
			t.Fatalf("metric[%d]=%s want %s", i, got[i].Label, l)
		}
	}

	wantAddrs := []readCall{
		{1232, 2}, {1234, 2}, {1236, 2},
		{1238, 2}, {1240, 2}, {1242, 2},
		{1244, 2}, {1246, 2}, {1248, 2},
		{1250, 4},
	}
	for i, c := range wantAddrs {
		if f.calls[i] != c {
			t.Fatalf("read[%d]=%v want %v", i, f.calls[i], c)
		}
	}
}

func TestRead_ScalingAndUnscaledEnergy(t *testing.T) {
	f := newFakeClient()
	f.putU32(links.Base+RegCurrentL2, 230000)
	f.putU64(links.Base+RegEnergyTotal, 123456)
	for _, off := range []uint16{RegVoltageL1, RegVoltageL2, RegVoltageL3, RegCurrentL1, RegCurrentL3, RegPower, RegReactivePower, RegApparentPower} {
		f.fail[links.Base+off] = errors.New("timeout")
	}

	res := NewReader(f, zerolog.Nop()).Read(links)

	if res.Outcome != Partial {
		t.Fatalf("expected partial, got %s", res.Outcome)
	}
	v, _ := res.Metrics.Get(LabelCurrentL2)
	if v.Float64() != 230.0 {
		t.Fatalf("current scaled to %v", v.Float64())
	}
	imp, _ := res.Metrics.Get(LabelImport)
	if !imp.IsIntegral() || imp.String() != "123456" {
		t.Fatalf("import=%s integral=%v", imp.String(), imp.IsIntegral())
	}
}

func TestRead_CosphiAbsentWhenApparentZero(t *testing.T) {
	f := newFakeClient()
	fillPoint(f, links)
	f.putU32(links.Base+RegApparentPower, 0)

	res := NewReader(f, zerolog.Nop()).Read(links)

	if _, ok := res.Metrics.Get(LabelCosphi); ok {
		t.Fatalf("Cosphi must be absent when apparent power is 0")
	}
	if _, ok := res.Metrics.Get(LabelApparentPower); !ok {
		t.Fatalf("ApparentPower=0 must still be published")
	}
}

func TestRead_CosphiAbsentWhenInputMissing(t *testing.T) {
	for _, off := range []uint16{RegPower, RegApparentPower} {
		f := newFakeClient()
		fillPoint(f, links)
		f.fail[links.Base+off] = errors.New("timeout")

		res := NewReader(f, zerolog.Nop()).Read(links)

		if _, ok := res.Metrics.Get(LabelCosphi); ok {
			t.Fatalf("Cosphi present with offset %d missing", off)
		}
		if res.Outcome != Partial {
			t.Fatalf("expected partial, got %s", res.Outcome)
		}
	}
}

func TestRead_AllFailedIsNoData(t *testing.T) {
	f := newFakeClient()
	f.down = true

	res := NewReader(f, zerolog.Nop()).Read(links)

	if res.Outcome != NoData || res.HasData() {
		t.Fatalf("expected no data, got %s", res.Outcome)
	}
	if res.Metrics.Len() != 0 {
		t.Fatalf("no-data result carries %d metrics", res.Metrics.Len())
	}
}

func TestRead_EndToEndVoltage(t *testing.T) {
	f := newFakeClient()
	f.regs[1232] = 0x0003
	f.regs[1233] = 0x8450

	res := NewReader(f, zerolog.Nop()).Read(links)

	v, ok := res.Metrics.Get(LabelVoltageL1)
	if !ok || v.String() != "230.48" {
		t.Fatalf("Voltage/L1=%v ok=%v", v, ok)
	}
}

func TestValue_String(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Float(230.48), "230.48"},
		{Float(7), "7.0"},
		{Float(-3), "-3.0"},
		{Float(0.7), "0.7"},
		{Uint(123456), "123456"},
		{Uint(0), "0"},
		{Float(0), "0.0"},
		{Float(0.0001), "0.0001"},
		{Float(0.00001), "1e-05"},
		{Float(1 / 4294967.295), "2.3283064370807974e-07"},
		{Float(1e15), "1000000000000000.0"},
		{Float(1e16), "1e+16"},
		{Float(-1.5e20), "-1.5e+20"},
		{Float(math.NaN()), "nan"},
		{Float(math.Inf(-1)), "-inf"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Fatalf("got %q want %q", got, c.want)
		}
	}
}

func TestMetricSet_SetReplaces(t *testing.T) {
	var m MetricSet
	m.Set("a", Float(1))
	m.Set("b", Float(2))
	m.Set("a", Float(3))

	if m.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", m.Len())
	}
	if v, _ := m.Get("a"); v.Float64() != 3 {
		t.Fatalf("a=%v", v.Float64())
	}
	if m.Metrics()[0].Label != "a" {
		t.Fatalf("order not kept")
	}
}
