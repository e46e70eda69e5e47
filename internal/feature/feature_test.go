package feature

import (
	"math"
	"testing"

	"github.com/pable/go-shuttle-metrics/internal/config"
	"github.com/pable/go-shuttle-metrics/internal/model"
)

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s: got %v, want %v", name, got, want)
	}
}

func TestExtract_ZonesAndProxies(t *testing.T) {
	// Straight push from the near mid-court deep into the far half. The
	// second interval is the fastest: 0.35 court units in 200ms.
	samples := []model.TrajectorySample{
		{TimestampMS: 0, X: 0.5, Y: 0.25},
		{TimestampMS: 200, X: 0.5, Y: 0.55},
		{TimestampMS: 400, X: 0.5, Y: 0.90},
	}
	shots := []model.ShotEvent{{
		Index: 0, StartMS: 0, EndMS: 400,
		Type: model.ShotClear, Owner: model.SideNear,
		Contact: model.Point{X: 0.5, Y: 0.25},
		Landing: model.Point{X: 0.5, Y: 0.90},
		EndIdx:  2,
	}}

	feats := Extract(config.Default(), samples, shots, nil)
	if len(feats) != 1 {
		t.Fatalf("want 1 feature vector, got %d", len(feats))
	}
	f := feats[0]

	if f.ContactZone != 4 {
		t.Errorf("contact zone: got %d, want 4", f.ContactZone)
	}
	if f.LandingZone != 7 {
		t.Errorf("landing zone: got %d, want 7", f.LandingZone)
	}
	approx(t, "speed proxy", f.SpeedProxy, 1.75/2.5)
	approx(t, "height proxy", f.HeightProxy, 400.0/1200.0)
	// Contact at the near home position.
	approx(t, "recovery quality", f.RecoveryQuality, 1.0)
	// First shot of the rally: no opponent history.
	approx(t, "opponent movement", f.OpponentMovement, 0)
	approx(t, "opponent dir change", f.OpponentDirChange, 0)
}

func TestExtract_OpponentMovement(t *testing.T) {
	shots := []model.ShotEvent{
		{
			Index: 0, StartMS: 0, EndMS: 600, Owner: model.SideFar,
			Contact: model.Point{X: 0.5, Y: 0.90},
			Landing: model.Point{X: 0.5, Y: 0.25},
		},
		{
			Index: 1, StartMS: 600, EndMS: 1200, Owner: model.SideNear,
			Contact: model.Point{X: 0.5, Y: 0.25},
			Landing: model.Point{X: 0.2, Y: 0.90},
		},
	}
	feats := Extract(config.Default(), nil, shots, nil)
	// Shot 1 lands 0.3 court units from the far player's last contact.
	approx(t, "opponent movement", feats[1].OpponentMovement, 0.3)
}

func TestExtract_OpponentDirChange(t *testing.T) {
	shots := []model.ShotEvent{
		{Index: 0, Owner: model.SideFar, Contact: model.Point{X: 0.2, Y: 0.80}, Landing: model.Point{X: 0.5, Y: 0.30}},
		{Index: 1, Owner: model.SideNear, Contact: model.Point{X: 0.5, Y: 0.30}, Landing: model.Point{X: 0.5, Y: 0.80}},
		{Index: 2, Owner: model.SideFar, Contact: model.Point{X: 0.5, Y: 0.80}, Landing: model.Point{X: 0.5, Y: 0.30}},
		// Lands behind the far player's movement: a full reversal.
		{Index: 3, Owner: model.SideNear, Contact: model.Point{X: 0.5, Y: 0.30}, Landing: model.Point{X: 0.2, Y: 0.80}},
	}
	feats := Extract(config.Default(), nil, shots, nil)
	approx(t, "opponent dir change", feats[3].OpponentDirChange, 1.0)
	// Shot 1 has only one prior far-side contact.
	approx(t, "insufficient history", feats[1].OpponentDirChange, 0)
}

func TestExtract_CarriesState(t *testing.T) {
	shots := []model.ShotEvent{
		{Index: 0, Owner: model.SideNear, Contact: model.Point{X: 0.5, Y: 0.25}, Landing: model.Point{X: 0.5, Y: 0.9}},
	}
	states := []model.RallyState{{
		Phase: model.PhaseAttack, Initiative: model.InitiativeUs,
		Pressure: 0.4, OpenZones: []int{0, 1, 2},
	}}
	feats := Extract(config.Default(), nil, shots, states)
	if feats[0].State.Phase != model.PhaseAttack || feats[0].State.Pressure != 0.4 {
		t.Errorf("state not carried: %+v", feats[0].State)
	}
}
