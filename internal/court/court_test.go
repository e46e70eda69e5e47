package court

import (
	"testing"

	"github.com/pable/go-shuttle-metrics/internal/model"
)

func TestPositionToZone(t *testing.T) {
	cases := []struct {
		x, y float64
		want int
	}{
		{0.0, 0.0, 0},
		{0.99, 0.0, 2},
		{0.5, 0.5, 4},
		{0.0, 0.99, 6},
		{0.99, 0.99, 8},
		{0.34, 0.34, 4},
		{0.33, 0.33, 0}, // 0.33*3 = 0.99, still first cell
	}
	for _, c := range cases {
		if got := PositionToZone(c.x, c.y); got != c.want {
			t.Errorf("PositionToZone(%v, %v): want %d, got %d", c.x, c.y, c.want, got)
		}
	}
}

// Out-of-range input clamps rather than erroring.
func TestPositionToZone_Clamps(t *testing.T) {
	cases := []struct {
		x, y float64
		want int
	}{
		{-1.0, -1.0, 0},
		{2.0, -0.5, 2},
		{-0.5, 2.0, 6},
		{1.0, 1.0, 8}, // exactly 1.0 must not overflow the grid
		{5.0, 5.0, 8},
	}
	for _, c := range cases {
		if got := PositionToZone(c.x, c.y); got != c.want {
			t.Errorf("PositionToZone(%v, %v): want %d, got %d", c.x, c.y, c.want, got)
		}
	}
}

func TestZoneCenterRoundTrip(t *testing.T) {
	for zone := 0; zone < ZoneCount; zone++ {
		x, y := ZoneCenter(zone)
		if got := PositionToZone(x, y); got != zone {
			t.Errorf("zone %d: center (%v, %v) maps back to %d", zone, x, y, got)
		}
	}
}

func TestZoneCenter_ClampsID(t *testing.T) {
	x, y := ZoneCenter(-3)
	if PositionToZone(x, y) != 0 {
		t.Errorf("negative zone id should clamp to zone 0")
	}
	x, y = ZoneCenter(42)
	if PositionToZone(x, y) != 8 {
		t.Errorf("oversized zone id should clamp to zone 8")
	}
}

func TestNeighbors(t *testing.T) {
	cases := []struct {
		zone int
		want []int
	}{
		{0, []int{1, 3}},
		{4, []int{1, 3, 5, 7}},
		{8, []int{5, 7}},
		{1, []int{0, 2, 4}},
	}
	for _, c := range cases {
		got := Neighbors(c.zone)
		if len(got) != len(c.want) {
			t.Fatalf("Neighbors(%d): want %v, got %v", c.zone, c.want, got)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("Neighbors(%d): want %v, got %v", c.zone, c.want, got)
				break
			}
		}
	}
}

func TestHalfZone(t *testing.T) {
	// A point just behind the net on the near side sits in the net row.
	p := model.Point{X: 0.5, Y: 0.45}
	if row := ZoneRow(HalfZone(p, model.SideNear)); row != 0 {
		t.Errorf("near-net point: want row 0, got %d", row)
	}
	// The near baseline maps to the back row.
	p = model.Point{X: 0.5, Y: 0.02}
	if row := ZoneRow(HalfZone(p, model.SideNear)); row != 2 {
		t.Errorf("near baseline: want row 2, got %d", row)
	}
	// Same for the far side, mirrored.
	p = model.Point{X: 0.5, Y: 0.97}
	if row := ZoneRow(HalfZone(p, model.SideFar)); row != 2 {
		t.Errorf("far baseline: want row 2, got %d", row)
	}
}

func TestHalfZoneCenterRoundTrip(t *testing.T) {
	for _, side := range []model.Side{model.SideNear, model.SideFar} {
		for zone := 0; zone < ZoneCount; zone++ {
			p := HalfZoneCenter(zone, side)
			if got := HalfZone(p, side); got != zone {
				t.Errorf("side %v zone %d: center %v maps back to %d", side, zone, p, got)
			}
		}
	}
}

func TestSideOf(t *testing.T) {
	if SideOf(0.2) != model.SideNear {
		t.Error("y=0.2 should be near side")
	}
	if SideOf(0.8) != model.SideFar {
		t.Error("y=0.8 should be far side")
	}
}
