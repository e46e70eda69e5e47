// Package rally computes per-shot tactical state: phase, initiative,
// pressure on the receiver, and the open zones on the receiver's half.
// It is a linear scan with bounded lookback — no state survives a rally.
package rally

import (
	"github.com/pable/go-shuttle-metrics/internal/config"
	"github.com/pable/go-shuttle-metrics/internal/court"
	"github.com/pable/go-shuttle-metrics/internal/model"
)

// Compute returns one RallyState per shot, in shot order. Each state depends
// only on the shot itself and the trailing window of prior shots, so the
// result is deterministic and recomputable.
func Compute(cfg *config.Config, shots []model.ShotEvent) []model.RallyState {
	states := make([]model.RallyState, len(shots))
	for i := range shots {
		states[i] = stateAt(cfg, shots, i)
	}
	return states
}

func stateAt(cfg *config.Config, shots []model.ShotEvent, i int) model.RallyState {
	owner := shots[i].Owner
	receiver := owner.Opponent()

	phase := phaseAt(cfg, shots, i, owner)

	var initiative model.Initiative
	switch phase {
	case model.PhaseAttack:
		initiative = model.InitiativeUs
	case model.PhaseDefense:
		initiative = model.InitiativeThem
	default:
		initiative = model.InitiativeUnknown
	}

	receiverPos, havePos := lastContact(shots, i, receiver)

	return model.RallyState{
		Phase:      phase,
		Initiative: initiative,
		Pressure:   pressureAt(cfg, shots, i, receiver, receiverPos, havePos),
		OpenZones:  openZones(receiver, receiverPos, havePos),
	}
}

// phaseAt applies the transition policy over the trailing window: the most
// recent smash/drop decides first; failing that, the most recent lift/clear;
// otherwise neutral.
func phaseAt(cfg *config.Config, shots []model.ShotEvent, i int, owner model.Side) model.Phase {
	lo := i - cfg.StateWindow + 1
	if lo < 0 {
		lo = 0
	}
	attackIdx, defenseIdx := -1, -1
	for j := i; j >= lo; j-- {
		switch shots[j].Type {
		case model.ShotSmash, model.ShotDrop:
			if attackIdx < 0 {
				attackIdx = j
			}
		case model.ShotLift, model.ShotClear:
			if defenseIdx < 0 {
				defenseIdx = j
			}
		}
	}
	switch {
	case attackIdx >= 0:
		if shots[attackIdx].Owner == owner {
			return model.PhaseAttack
		}
		return model.PhaseDefense
	case defenseIdx >= 0:
		// A lift or clear is a defensive shot for its owner and an attack
		// opportunity for the receiver.
		if shots[defenseIdx].Owner == owner {
			return model.PhaseDefense
		}
		return model.PhaseAttack
	default:
		return model.PhaseNeutral
	}
}

// pressureAt is the clamped weighted sum of time pressure, position pressure,
// and the smash bonus.
func pressureAt(cfg *config.Config, shots []model.ShotEvent, i int, receiver model.Side, receiverPos model.Point, havePos bool) float64 {
	var timeP float64
	if i > 0 {
		dt := shots[i].StartMS - shots[i-1].StartMS
		timeP = clamp01(1 - float64(dt)/float64(cfg.TimePressureCapMS))
	}

	var posP float64
	if havePos {
		// Half a court length of displacement from home saturates the term.
		posP = clamp01(court.Distance(receiverPos, court.Home(receiver)) / 0.5)
	}

	var bonus float64
	if i > 0 && shots[i-1].Type == model.ShotSmash {
		bonus = cfg.SmashPressureBonus
	}

	return clamp01(cfg.PressureTimeWeight*timeP + cfg.PressurePositionWeight*posP + bonus)
}

// openZones returns the receiver-half zones not covered by the receiver:
// everything except the receiver's zone and its 4-connected neighbors.
// With no position signal every zone counts as open.
func openZones(receiver model.Side, receiverPos model.Point, havePos bool) []int {
	open := make([]int, 0, court.ZoneCount)
	if !havePos {
		for z := 0; z < court.ZoneCount; z++ {
			open = append(open, z)
		}
		return open
	}
	covered := make(map[int]bool, 5)
	zone := court.HalfZone(receiverPos, receiver)
	covered[zone] = true
	for _, n := range court.Neighbors(zone) {
		covered[n] = true
	}
	for z := 0; z < court.ZoneCount; z++ {
		if !covered[z] {
			open = append(open, z)
		}
	}
	return open
}

// lastContact finds where the given side last hit the shuttle before shot i.
func lastContact(shots []model.ShotEvent, i int, side model.Side) (model.Point, bool) {
	for j := i - 1; j >= 0; j-- {
		if shots[j].Owner == side {
			return shots[j].Contact, true
		}
	}
	return model.Point{}, false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
