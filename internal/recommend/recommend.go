// Package recommend turns scored shot candidates into ranked, explained
// recommendations. For every shot in a rally it asks what the hitter could
// have played from that contact point, scores each option, and keeps the
// top-ranked ones with signed rationale entries.
package recommend

import (
	"fmt"
	"sort"

	"github.com/pable/go-shuttle-metrics/internal/config"
	"github.com/pable/go-shuttle-metrics/internal/court"
	"github.com/pable/go-shuttle-metrics/internal/model"
	"github.com/pable/go-shuttle-metrics/internal/scoring"
)

// candidateOrder fixes the tie-break order: when two candidates score the
// same, the more committal shot ranks first.
var candidateOrder = []model.ShotType{
	model.ShotSmash,
	model.ShotDrop,
	model.ShotClear,
	model.ShotDrive,
	model.ShotNet,
	model.ShotLift,
}

// Generate produces ranked recommendations for every shot of a rally. feats
// must be index-aligned with shots.
func Generate(cfg *config.Config, hash string, shots []model.ShotEvent, feats []model.ShotFeatures) []model.Recommendation {
	var recs []model.Recommendation
	for i, s := range shots {
		if i >= len(feats) {
			break
		}
		recs = append(recs, forShot(cfg, hash, shots, i, s, feats[i])...)
	}
	return recs
}

type candidate struct {
	typ    model.ShotType
	zone   int
	target model.Point
	brk    scoring.Breakdown
}

func forShot(cfg *config.Config, hash string, shots []model.ShotEvent, i int, s model.ShotEvent, f model.ShotFeatures) []model.Recommendation {
	receiver := s.Owner.Opponent()
	oppPos, haveOpp := lastContact(shots, i, receiver)
	contactRow := court.ZoneRow(f.ContactZone)

	var cands []candidate
	for _, typ := range candidateOrder {
		if !feasible(typ, contactRow) {
			continue
		}
		zone := pickTarget(targetRow(typ), f.State.OpenZones, receiver, oppPos, haveOpp)
		target := court.HalfZoneCenter(zone, receiver)
		brk := scoring.Evaluate(cfg, scoring.Input{
			Type:         typ,
			TargetZone:   zone,
			Target:       target,
			Contact:      s.Contact,
			OpponentPos:  oppPos,
			HaveOpponent: haveOpp,
			OpenZones:    f.State.OpenZones,
			Pressure:     f.State.Pressure,
			Recovery:     f.RecoveryQuality,
		})
		cands = append(cands, candidate{typ: typ, zone: zone, target: target, brk: brk})
	}
	if len(cands) == 0 {
		return nil
	}

	sort.SliceStable(cands, func(a, b int) bool {
		return cands[a].brk.Score > cands[b].brk.Score
	})

	k := cfg.TopK
	if k > len(cands) {
		k = len(cands)
	}
	recs := make([]model.Recommendation, 0, k)
	for rank := 0; rank < k; rank++ {
		c := cands[rank]
		recs = append(recs, model.Recommendation{
			RallyHash:  hash,
			ShotIndex:  s.Index,
			Rank:       rank + 1,
			Type:       c.typ,
			TargetZone: c.zone,
			Path:       path(s.Contact, c.target),
			Score:      c.brk.Score,
			Confidence: confidence(cands, rank),
			Rationale:  rationale(cfg, c.brk),
		})
	}
	return recs
}

// feasible filters shot types by where the hitter makes contact: net play
// needs a front-court contact, downward shots need the shuttle behind the
// mid-court line. Clears and drives work from anywhere.
func feasible(t model.ShotType, contactRow int) bool {
	switch t {
	case model.ShotNet, model.ShotLift:
		return contactRow == 0
	case model.ShotSmash, model.ShotDrop:
		return contactRow >= 1
	default:
		return true
	}
}

// targetRow is each shot type's natural landing depth on the receiver's
// half: front row for net shots and drops, mid court for the flat shots,
// back row for clears and lifts.
func targetRow(t model.ShotType) int {
	switch t {
	case model.ShotNet, model.ShotDrop:
		return 0
	case model.ShotSmash, model.ShotDrive:
		return 1
	default:
		return 2
	}
}

// pickTarget chooses the target zone for a candidate: an open zone as close
// to the preferred row as possible, breaking ties by distance from the
// opponent (farther wins) and then by zone id. With no open zones it falls
// back to the preferred row's center zone.
func pickTarget(prefRow int, openZones []int, receiver model.Side, oppPos model.Point, haveOpp bool) int {
	if len(openZones) == 0 {
		return prefRow*court.GridSize + 1
	}
	best, bestRowDist, bestOppDist := -1, 0, 0.0
	for _, z := range openZones {
		rowDist := court.ZoneRow(z) - prefRow
		if rowDist < 0 {
			rowDist = -rowDist
		}
		oppDist := 0.0
		if haveOpp {
			oppDist = court.Distance(oppPos, court.HalfZoneCenter(z, receiver))
		}
		if best < 0 || rowDist < bestRowDist ||
			(rowDist == bestRowDist && oppDist > bestOppDist) {
			best, bestRowDist, bestOppDist = z, rowDist, oppDist
		}
	}
	return best
}

// path traces contact to target through the net plane.
func path(contact, target model.Point) []model.Point {
	netX := (contact.X + target.X) / 2
	if dy := target.Y - contact.Y; dy != 0 {
		netX = contact.X + (target.X-contact.X)*(court.NetY-contact.Y)/dy
	}
	return []model.Point{contact, {X: netX, Y: court.NetY}, target}
}

// confidence reflects the score margin over the next-best candidate. A
// candidate with no competition gets a fixed high confidence; the lowest
// ranked candidate has no margin and sits at the neutral midpoint.
func confidence(cands []candidate, rank int) float64 {
	if len(cands) == 1 {
		return 0.9
	}
	if rank == len(cands)-1 {
		return 0.5
	}
	margin := cands[rank].brk.Score - cands[rank+1].brk.Score
	return clamp01(0.5 + margin/50)
}

// rationale converts scoring terms into signed impact entries, dropping
// anything below the configured noise floor.
func rationale(cfg *config.Config, b scoring.Breakdown) []model.RecommendationRationale {
	entries := []model.RecommendationRationale{
		{
			Category:    model.RationaleMovementPressure,
			Impact:      b.MovementPressure * 0.8,
			Description: fmt.Sprintf("forces the opponent to cover %.0f%% of a full-court run", b.MovementPressure*100),
		},
		{
			Category:    model.RationaleOpenCourt,
			Impact:      b.OpenCourt * 1.0,
			Description: "lands in space the opponent does not cover",
		},
		{
			Category:    model.RationaleRiskReduction,
			Impact:      -b.Risk * 0.6,
			Description: "error-prone shot choice at this pressure level",
		},
		{
			Category:    model.RationaleAngleDenial,
			Impact:      -b.AngleExposure * 0.4,
			Description: "wide target leaves the hitter's court exposed",
		},
	}
	kept := entries[:0]
	for _, e := range entries {
		impact := e.Impact
		if impact < 0 {
			impact = -impact
		}
		if impact >= cfg.RationaleImpactMin {
			kept = append(kept, e)
		}
	}
	return kept
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
