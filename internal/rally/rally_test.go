package rally

import (
	"testing"

	"github.com/pable/go-shuttle-metrics/internal/config"
	"github.com/pable/go-shuttle-metrics/internal/model"
)

func shot(idx int, start, end int64, typ model.ShotType, owner model.Side, contact, landing model.Point) model.ShotEvent {
	return model.ShotEvent{
		Index: idx, StartMS: start, EndMS: end,
		Type: typ, Owner: owner, Contact: contact, Landing: landing,
	}
}

// A rally ending in two consecutive smashes by the near side: each smash is
// attack for its owner, and pressure on the far-side replies trends upward.
func smashRally() []model.ShotEvent {
	near, far := model.SideNear, model.SideFar
	return []model.ShotEvent{
		shot(0, 0, 800, model.ShotClear, near, model.Point{X: 0.5, Y: 0.30}, model.Point{X: 0.5, Y: 0.90}),
		shot(1, 800, 1600, model.ShotClear, far, model.Point{X: 0.5, Y: 0.90}, model.Point{X: 0.5, Y: 0.20}),
		shot(2, 1600, 1900, model.ShotSmash, near, model.Point{X: 0.5, Y: 0.25}, model.Point{X: 0.5, Y: 0.80}),
		shot(3, 1900, 2500, model.ShotDrive, far, model.Point{X: 0.5, Y: 0.80}, model.Point{X: 0.5, Y: 0.20}),
		shot(4, 2500, 2700, model.ShotSmash, near, model.Point{X: 0.5, Y: 0.20}, model.Point{X: 0.5, Y: 0.85}),
		shot(5, 2700, 3000, model.ShotDrive, far, model.Point{X: 0.5, Y: 0.85}, model.Point{X: 0.5, Y: 0.30}),
	}
}

func TestPhase_SmashIsAttackForOwner(t *testing.T) {
	states := Compute(config.Default(), smashRally())

	if states[4].Phase != model.PhaseAttack {
		t.Errorf("smasher's phase: want attack, got %v", states[4].Phase)
	}
	if states[4].Initiative != model.InitiativeUs {
		t.Errorf("smasher's initiative: want us, got %v", states[4].Initiative)
	}
	// The reply right after a smash is played in defense.
	if states[3].Phase != model.PhaseDefense {
		t.Errorf("receiver's phase: want defense, got %v", states[3].Phase)
	}
	if states[3].Initiative != model.InitiativeThem {
		t.Errorf("receiver's initiative: want them, got %v", states[3].Initiative)
	}
}

func TestPressure_TrendsUpwardUnderSmashes(t *testing.T) {
	states := Compute(config.Default(), smashRally())

	if states[5].Pressure <= states[3].Pressure {
		t.Errorf("pressure should trend upward: shot3=%v shot5=%v",
			states[3].Pressure, states[5].Pressure)
	}
	for i, s := range states {
		if s.Pressure < 0 || s.Pressure > 1 {
			t.Errorf("shot %d: pressure %v out of [0,1]", i, s.Pressure)
		}
	}
}

// A clear is defensive for its owner and an attack opportunity for the
// receiver.
func TestPhase_ClearIsDefensive(t *testing.T) {
	near, far := model.SideNear, model.SideFar
	shots := []model.ShotEvent{
		shot(0, 0, 900, model.ShotClear, near, model.Point{X: 0.5, Y: 0.30}, model.Point{X: 0.5, Y: 0.90}),
		shot(1, 900, 1500, model.ShotDrive, far, model.Point{X: 0.5, Y: 0.90}, model.Point{X: 0.5, Y: 0.30}),
	}
	states := Compute(config.Default(), shots)
	if states[0].Phase != model.PhaseDefense {
		t.Errorf("clear owner: want defense, got %v", states[0].Phase)
	}
	if states[1].Phase != model.PhaseAttack {
		t.Errorf("clear receiver: want attack, got %v", states[1].Phase)
	}
}

func TestPhase_NeutralWithoutSignal(t *testing.T) {
	near, far := model.SideNear, model.SideFar
	shots := []model.ShotEvent{
		shot(0, 0, 500, model.ShotDrive, near, model.Point{X: 0.5, Y: 0.35}, model.Point{X: 0.5, Y: 0.70}),
		shot(1, 500, 1000, model.ShotDrive, far, model.Point{X: 0.5, Y: 0.70}, model.Point{X: 0.5, Y: 0.35}),
	}
	states := Compute(config.Default(), shots)
	for i, s := range states {
		if s.Phase != model.PhaseNeutral || s.Initiative != model.InitiativeUnknown {
			t.Errorf("shot %d: want neutral/unknown, got %v/%v", i, s.Phase, s.Initiative)
		}
	}
}

// The phase window is bounded: a smash further back than the lookback window
// no longer decides the phase.
func TestPhase_WindowBounded(t *testing.T) {
	near, far := model.SideNear, model.SideFar
	shots := []model.ShotEvent{
		shot(0, 0, 300, model.ShotSmash, near, model.Point{X: 0.5, Y: 0.25}, model.Point{X: 0.5, Y: 0.80}),
		shot(1, 300, 900, model.ShotDrive, far, model.Point{X: 0.5, Y: 0.80}, model.Point{X: 0.5, Y: 0.30}),
		shot(2, 900, 1500, model.ShotDrive, near, model.Point{X: 0.5, Y: 0.30}, model.Point{X: 0.5, Y: 0.70}),
		shot(3, 1500, 2100, model.ShotDrive, far, model.Point{X: 0.5, Y: 0.70}, model.Point{X: 0.5, Y: 0.30}),
	}
	states := Compute(config.Default(), shots)
	// Window is 3: at shot 3 the window is shots 1..3, all drives.
	if states[3].Phase != model.PhaseNeutral {
		t.Errorf("shot 3: smash aged out of the window, want neutral, got %v", states[3].Phase)
	}
	// At shot 2 the smash is still in the window and belongs to the same side.
	if states[2].Phase != model.PhaseAttack {
		t.Errorf("shot 2: smash still in window, want attack, got %v", states[2].Phase)
	}
}

func TestOpenZones_ExcludesReceiverNeighborhood(t *testing.T) {
	states := Compute(config.Default(), smashRally())

	// Shot 2: receiver is the far side, whose last contact was at
	// (0.5, 0.90) — half-frame zone 7. Zone 7 and its 4-neighbors
	// {4, 6, 8} are closed.
	want := []int{0, 1, 2, 3, 5}
	got := states[2].OpenZones
	if len(got) != len(want) {
		t.Fatalf("open zones: want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("open zones: want %v, got %v", want, got)
		}
	}
}

// With no opponent position signal, every zone counts as open.
func TestOpenZones_NoSignal(t *testing.T) {
	near := model.SideNear
	shots := []model.ShotEvent{
		shot(0, 0, 500, model.ShotDrive, near, model.Point{X: 0.5, Y: 0.35}, model.Point{X: 0.5, Y: 0.70}),
	}
	states := Compute(config.Default(), shots)
	if len(states[0].OpenZones) != 9 {
		t.Errorf("want all 9 zones open, got %v", states[0].OpenZones)
	}
}

func TestCompute_Empty(t *testing.T) {
	if states := Compute(config.Default(), nil); len(states) != 0 {
		t.Errorf("want no states for no shots, got %d", len(states))
	}
}
