// Package scoring rates candidate shots. The score is a bounded linear blend
// of four tactical terms around a neutral baseline of 50, so candidates stay
// comparable across rallies and configurations.
package scoring

import (
	"github.com/pable/go-shuttle-metrics/internal/config"
	"github.com/pable/go-shuttle-metrics/internal/court"
	"github.com/pable/go-shuttle-metrics/internal/model"
)

// Input describes one candidate shot at a decision point.
type Input struct {
	Type       model.ShotType
	TargetZone int         // receiver-half zone id
	Target     model.Point // absolute court coordinates of the target
	Contact    model.Point // where the candidate would be struck

	OpponentPos  model.Point
	HaveOpponent bool
	OpenZones    []int // receiver-half zones not covered by the opponent

	Pressure float64 // pressure on the opponent at this moment, [0,1]
	Recovery float64 // hitter's recovery quality, [0,1]
}

// Breakdown is a scored candidate with each term preserved for rationale
// generation. All terms are in [0,1]; Score is in [0,100].
type Breakdown struct {
	MovementPressure float64
	OpenCourt        float64
	Risk             float64
	AngleExposure    float64
	Score            float64
}

// Evaluate scores a candidate. Terms with no signal (unknown opponent
// position, no coverage info) fall back to 0.5 so missing data never
// dominates the ranking.
func Evaluate(cfg *config.Config, in Input) Breakdown {
	var b Breakdown

	if in.HaveOpponent {
		// 0.7 is roughly the longest forced run on one half, corner to
		// opposite corner.
		b.MovementPressure = clamp01(court.Distance(in.OpponentPos, in.Target) / 0.7)
	} else {
		b.MovementPressure = 0.5
	}

	switch {
	case len(in.OpenZones) == 0:
		b.OpenCourt = 0.5
	case containsZone(in.OpenZones, in.TargetZone):
		b.OpenCourt = 1
	default:
		b.OpenCourt = 0
	}

	b.Risk = baseRisk(in.Type) * clamp01(in.Pressure)
	b.AngleExposure = clamp01((1 - clamp01(in.Recovery)) * sidelineBias(in.Target.X))

	raw := 50 +
		b.MovementPressure*cfg.MovementWeight +
		b.OpenCourt*cfg.OpenCourtWeight -
		b.Risk*cfg.RiskWeight -
		b.AngleExposure*cfg.AngleWeight
	if raw < 0 {
		raw = 0
	} else if raw > 100 {
		raw = 100
	}
	b.Score = raw
	return b
}

// baseRisk is the intrinsic error rate of each shot type before pressure
// scaling. Flat, fast shots and tight net play fail more often than resets.
func baseRisk(t model.ShotType) float64 {
	switch t {
	case model.ShotSmash:
		return 0.8
	case model.ShotNet:
		return 0.7
	case model.ShotDrop:
		return 0.6
	case model.ShotDrive:
		return 0.4
	case model.ShotLift:
		return 0.3
	case model.ShotClear:
		return 0.2
	default:
		return 0.5
	}
}

// sidelineBias grows from 0 at center court to 1 at either sideline. Wide
// targets leave the hitter's own court exposed on the counter.
func sidelineBias(x float64) float64 {
	d := x - 0.5
	if d < 0 {
		d = -d
	}
	return clamp01(d * 2)
}

func containsZone(zones []int, z int) bool {
	for _, v := range zones {
		if v == z {
			return true
		}
	}
	return false
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
