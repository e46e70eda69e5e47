package segment

import (
	"testing"

	"github.com/pable/go-shuttle-metrics/internal/config"
	"github.com/pable/go-shuttle-metrics/internal/model"
)

func samp(t int64, x, y float64) model.TrajectorySample {
	return model.TrajectorySample{TimestampMS: t, X: x, Y: y}
}

// A single sharp direction change (>45°) with no net crossing yields exactly
// one boundary, at the turning sample.
func TestBoundaries_DirectionChange(t *testing.T) {
	cfg := config.Default()
	samples := []model.TrajectorySample{
		samp(0, 0.10, 0.30),
		samp(100, 0.20, 0.30),
		samp(200, 0.30, 0.30),
		samp(300, 0.20, 0.30), // reversal
		samp(400, 0.10, 0.30),
	}
	bs := DetectBoundaries(cfg, samples)
	if len(bs) != 1 {
		t.Fatalf("want 1 boundary, got %d: %+v", len(bs), bs)
	}
	if bs[0].Index != 2 {
		t.Errorf("boundary index: want 2, got %d", bs[0].Index)
	}
	if bs[0].Trigger != TriggerDirectionChange {
		t.Errorf("trigger: want direction_change, got %v", bs[0].Trigger)
	}
}

// A speed peak 1.5× the following sample, with no direction change, yields a
// boundary at the peak.
func TestBoundaries_SpeedPeak(t *testing.T) {
	cfg := config.Default()
	samples := []model.TrajectorySample{
		samp(0, 0.00, 0.30),
		samp(100, 0.05, 0.30), // 0.5/s
		samp(200, 0.15, 0.30), // 1.0/s
		samp(300, 0.30, 0.30), // 1.5/s — peak, 1.5× the next
		samp(400, 0.40, 0.30), // 1.0/s
		samp(500, 0.50, 0.30), // 1.0/s
	}
	bs := DetectBoundaries(cfg, samples)
	if len(bs) != 1 {
		t.Fatalf("want 1 boundary, got %d: %+v", len(bs), bs)
	}
	if bs[0].Index != 3 {
		t.Errorf("boundary index: want 3, got %d", bs[0].Index)
	}
	if bs[0].Trigger != TriggerSpeedPeak {
		t.Errorf("trigger: want speed_peak, got %v", bs[0].Trigger)
	}
}

// A net crossing with constant velocity yields a boundary on the first sample
// past the net.
func TestBoundaries_NetCross(t *testing.T) {
	cfg := config.Default()
	samples := []model.TrajectorySample{
		samp(0, 0.5, 0.32),
		samp(100, 0.5, 0.44),
		samp(200, 0.5, 0.56),
		samp(300, 0.5, 0.68),
	}
	bs := DetectBoundaries(cfg, samples)
	if len(bs) != 1 {
		t.Fatalf("want 1 boundary, got %d: %+v", len(bs), bs)
	}
	if bs[0].Index != 2 || bs[0].Trigger != TriggerNetCross {
		t.Errorf("want net_cross at index 2, got %v at %d", bs[0].Trigger, bs[0].Index)
	}
}

// Candidates within the merge gap collapse into the highest-priority trigger.
func TestBoundaries_MergeKeepsSpeedPeak(t *testing.T) {
	cfg := config.Default()
	samples := []model.TrajectorySample{
		samp(0, 0.10, 0.30),
		samp(100, 0.20, 0.30),
		samp(200, 0.30, 0.30), // 90° turn here
		samp(300, 0.30, 0.45), // fast burst — speed peak
		samp(400, 0.30, 0.48),
		samp(500, 0.30, 0.49),
	}
	bs := DetectBoundaries(cfg, samples)
	if len(bs) != 1 {
		t.Fatalf("want 1 merged boundary, got %d: %+v", len(bs), bs)
	}
	if bs[0].Trigger != TriggerSpeedPeak {
		t.Errorf("merge should keep the speed peak, got %v", bs[0].Trigger)
	}
	if bs[0].Index != 3 {
		t.Errorf("boundary index: want 3, got %d", bs[0].Index)
	}
}

func TestSegment_ShortTrajectory(t *testing.T) {
	cfg := config.Default()
	if shots := Segment(cfg, nil); len(shots) != 0 {
		t.Errorf("nil trajectory: want 0 shots, got %d", len(shots))
	}
	one := []model.TrajectorySample{samp(0, 0.5, 0.3)}
	if shots := Segment(cfg, one); len(shots) != 0 {
		t.Errorf("single sample: want 0 shots, got %d", len(shots))
	}
}

// Without boundaries the whole trajectory is one shot; with a boundary the
// trailing partial shot closes on the final sample.
func TestSegment_TrailingShot(t *testing.T) {
	cfg := config.Default()
	samples := []model.TrajectorySample{
		samp(0, 0.10, 0.30),
		samp(100, 0.20, 0.30),
		samp(200, 0.30, 0.30),
		samp(300, 0.20, 0.30),
		samp(400, 0.10, 0.30),
	}
	shots := Segment(cfg, samples)
	if len(shots) != 2 {
		t.Fatalf("want 2 shots, got %d", len(shots))
	}
	if shots[1].EndMS != 400 {
		t.Errorf("trailing shot should end at the final sample, got %d", shots[1].EndMS)
	}
}

// Shot events are strictly time-ordered and non-overlapping: each shot ends
// where the next begins.
func TestSegment_OrderedNonOverlapping(t *testing.T) {
	cfg := config.Default()
	samples := []model.TrajectorySample{
		samp(0, 0.5, 0.32),
		samp(100, 0.5, 0.44),
		samp(200, 0.5, 0.56),
		samp(300, 0.5, 0.68),
	}
	shots := Segment(cfg, samples)
	if len(shots) != 2 {
		t.Fatalf("want 2 shots, got %d", len(shots))
	}
	for i, s := range shots {
		if s.EndMS <= s.StartMS {
			t.Errorf("shot %d: non-positive duration", i)
		}
		if i > 0 && s.StartMS != shots[i-1].EndMS {
			t.Errorf("shot %d starts at %d, previous ended at %d", i, s.StartMS, shots[i-1].EndMS)
		}
		if s.Index != i {
			t.Errorf("shot %d: index %d", i, s.Index)
		}
	}
	if shots[0].Owner != model.SideNear || shots[1].Owner != model.SideFar {
		t.Errorf("owners: want near/far, got %v/%v", shots[0].Owner, shots[1].Owner)
	}
}

func TestSegment_Deterministic(t *testing.T) {
	cfg := config.Default()
	samples := []model.TrajectorySample{
		samp(0, 0.10, 0.30),
		samp(100, 0.20, 0.30),
		samp(200, 0.30, 0.30),
		samp(300, 0.30, 0.45),
		samp(400, 0.30, 0.48),
		samp(500, 0.30, 0.49),
	}
	a := Segment(cfg, samples)
	b := Segment(cfg, samples)
	if len(a) != len(b) {
		t.Fatalf("runs differ in shot count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("shot %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestClassify(t *testing.T) {
	cfg := config.Default()
	cases := []struct {
		name    string
		samples []model.TrajectorySample
		want    model.ShotType
	}{
		{
			"smash: fast, crossing, short flight",
			[]model.TrajectorySample{
				samp(0, 0.5, 0.30), samp(100, 0.5, 0.55), samp(200, 0.5, 0.80),
			},
			model.ShotSmash,
		},
		{
			"net: net area to net area, short travel",
			[]model.TrajectorySample{
				samp(0, 0.45, 0.40), samp(200, 0.48, 0.48), samp(400, 0.50, 0.55),
			},
			model.ShotNet,
		},
		{
			"lift: net area to deep court",
			[]model.TrajectorySample{
				samp(0, 0.5, 0.40), samp(400, 0.5, 0.70), samp(800, 0.5, 0.95),
			},
			model.ShotLift,
		},
		{
			"drop: deep court to net area, slow",
			[]model.TrajectorySample{
				samp(0, 0.5, 0.85), samp(300, 0.5, 0.60), samp(600, 0.5, 0.42),
			},
			model.ShotDrop,
		},
		{
			"clear: long slow flight to deep court",
			[]model.TrajectorySample{
				samp(0, 0.5, 0.30), samp(500, 0.5, 0.60), samp(1000, 0.5, 0.90),
			},
			model.ShotClear,
		},
		{
			"drive: fast, flat, mid-depth landing",
			[]model.TrajectorySample{
				samp(0, 0.5, 0.35), samp(200, 0.5, 0.70),
			},
			model.ShotDrive,
		},
		{
			"unknown: no rule matches",
			[]model.TrajectorySample{
				samp(0, 0.2, 0.20), samp(300, 0.4, 0.30),
			},
			model.ShotUnknown,
		},
	}
	for _, c := range cases {
		got := Classify(cfg, c.samples, 0, len(c.samples)-1)
		if got != c.want {
			t.Errorf("%s: want %v, got %v", c.name, c.want, got)
		}
	}
}
