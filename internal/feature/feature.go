// Package feature derives per-shot feature vectors from segmented shots and
// their rally states. Every feature is normalized to [0, 1] or expressed in
// court units so downstream scoring never sees raw kinematics.
package feature

import (
	"math"

	"github.com/pable/go-shuttle-metrics/internal/config"
	"github.com/pable/go-shuttle-metrics/internal/court"
	"github.com/pable/go-shuttle-metrics/internal/model"
	"github.com/pable/go-shuttle-metrics/internal/segment"
)

// Extract computes one ShotFeatures per shot. samples is the full rally
// trajectory the shots were segmented from; states must be the rally states
// for the same shots, index-aligned.
func Extract(cfg *config.Config, samples []model.TrajectorySample, shots []model.ShotEvent, states []model.RallyState) []model.ShotFeatures {
	feats := make([]model.ShotFeatures, len(shots))
	for i, s := range shots {
		receiver := s.Owner.Opponent()

		f := model.ShotFeatures{
			ContactZone: court.HalfZone(s.Contact, s.Owner),
			LandingZone: court.HalfZone(s.Landing, receiver),
			SpeedProxy:  clamp01(segment.PeakSpeed(samples, s.StartIdx, s.EndIdx) / cfg.SpeedNorm),
			HeightProxy: clamp01(float64(s.DurationMS()) / float64(cfg.HeightNormMS)),
		}

		if pos, ok := lastContact(shots, i, receiver); ok {
			f.OpponentMovement = court.Distance(pos, s.Landing)
		}
		f.OpponentDirChange = opponentDirChange(shots, i, receiver, s.Landing)
		f.RecoveryQuality = 1 - clamp01(court.Distance(s.Contact, court.Home(s.Owner))/0.5)

		if i < len(states) {
			f.State = states[i]
		}
		feats[i] = f
	}
	return feats
}

// opponentDirChange measures how sharply the landing forces the receiver to
// reverse relative to their recent movement, normalized to [0, 1]. It needs
// two prior receiver contacts to establish a movement vector; with fewer it
// reports zero.
func opponentDirChange(shots []model.ShotEvent, i int, receiver model.Side, landing model.Point) float64 {
	var contacts []model.Point
	for j := i - 1; j >= 0 && len(contacts) < 2; j-- {
		if shots[j].Owner == receiver {
			contacts = append(contacts, shots[j].Contact)
		}
	}
	if len(contacts) < 2 {
		return 0
	}
	// contacts[0] is the most recent.
	prev, last := contacts[1], contacts[0]
	heading := model.Point{X: last.X - prev.X, Y: last.Y - prev.Y}
	forced := model.Point{X: landing.X - last.X, Y: landing.Y - last.Y}
	return angleDeg(heading, forced) / 180
}

func angleDeg(a, b model.Point) float64 {
	ma := math.Hypot(a.X, a.Y)
	mb := math.Hypot(b.X, b.Y)
	if ma == 0 || mb == 0 {
		return 0
	}
	dot := (a.X*b.X + a.Y*b.Y) / (ma * mb)
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return math.Acos(dot) * 180 / math.Pi
}

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
