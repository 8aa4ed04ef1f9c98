package noise

import (
	"math"
	"testing"
)

func TestSameSeedIsBitIdentical(t *testing.T) {
	a := NewSource(1234).Field(ChannelHeight)
	b := NewSource(1234).Field(ChannelHeight)

	for x := -20.0; x < 20; x += 0.7 {
		for y := -20.0; y < 20; y += 0.9 {
			va := a.OctaveSample(x, y, 4, 0.5, 0.08)
			vb := b.OctaveSample(x, y, 4, 0.5, 0.08)
			if va != vb {
				t.Fatalf("same seed diverged at (%f,%f): %v vs %v", x, y, va, vb)
			}
		}
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a := NewSource(1).Field(ChannelHeight)
	b := NewSource(2).Field(ChannelHeight)

	same := 0
	n := 0
	for x := 0.0; x < 10; x += 0.5 {
		for y := 0.0; y < 10; y += 0.5 {
			if a.Sample(x, y) == b.Sample(x, y) {
				same++
			}
			n++
		}
	}
	if same == n {
		t.Fatal("different seeds produced identical fields")
	}
}

func TestChannelsDecorrelated(t *testing.T) {
	src := NewSource(42)
	h := src.Field(ChannelHeight)
	c := src.Field(ChannelClimate)

	same := 0
	n := 0
	for x := 0.0; x < 10; x += 0.5 {
		for y := 0.0; y < 10; y += 0.5 {
			if h.Sample(x, y) == c.Sample(x, y) {
				same++
			}
			n++
		}
	}
	if same == n {
		t.Fatal("channels from the same source are not decorrelated")
	}
}

func TestSampleRange(t *testing.T) {
	f := NewSource(7).Field(ChannelMoisture)
	for x := -15.0; x < 15; x += 0.3 {
		for y := -15.0; y < 15; y += 0.3 {
			if v := f.Sample(x, y); v < -1 || v > 1 {
				t.Fatalf("Sample(%f,%f) = %f out of [-1,1]", x, y, v)
			}
			if v := f.SampleNormalized(x, y); v < 0 || v > 1 {
				t.Fatalf("SampleNormalized(%f,%f) = %f out of [0,1]", x, y, v)
			}
			if v := f.OctaveSample(x, y, 5, 0.5, 0.1); v < 0 || v > 1 {
				t.Fatalf("OctaveSample(%f,%f) = %f out of [0,1]", x, y, v)
			}
		}
	}
}

func TestOctaveSampleSmoothness(t *testing.T) {
	// Neighboring samples of coherent noise must be close: no salt-and-pepper.
	f := NewSource(99).Field(ChannelHeight)
	const step = 0.01
	for x := 0.0; x < 5; x += 0.5 {
		for y := 0.0; y < 5; y += 0.5 {
			a := f.OctaveSample(x, y, 4, 0.5, 0.08)
			b := f.OctaveSample(x+step, y, 4, 0.5, 0.08)
			if math.Abs(a-b) > 0.1 {
				t.Fatalf("noise jumps by %f over step %f at (%f,%f)", math.Abs(a-b), step, x, y)
			}
		}
	}
}

func TestOctaveCountChangesDetail(t *testing.T) {
	f := NewSource(5).Field(ChannelHeight)
	differ := false
	for x := 0.0; x < 8 && !differ; x += 0.7 {
		for y := 0.0; y < 8; y += 0.7 {
			if f.OctaveSample(x, y, 1, 0.5, 0.1) != f.OctaveSample(x, y, 5, 0.5, 0.1) {
				differ = true
				break
			}
		}
	}
	if !differ {
		t.Fatal("octave count had no effect on output")
	}
}
