// Package segment turns one rally's shuttle trajectory into discrete shot
// events. Detection is deterministic: the same trajectory always yields the
// same boundaries and the same shot list.
package segment

import (
	"math"

	"github.com/pable/go-shuttle-metrics/internal/config"
	"github.com/pable/go-shuttle-metrics/internal/court"
	"github.com/pable/go-shuttle-metrics/internal/model"
)

// Trigger identifies which detection rule produced a boundary candidate.
// Ordering is merge priority: speed peak beats direction change beats net
// crossing when candidates collapse within the merge gap.
type Trigger int

const (
	TriggerNetCross Trigger = iota
	TriggerDirectionChange
	TriggerSpeedPeak
)

func (t Trigger) String() string {
	switch t {
	case TriggerSpeedPeak:
		return "speed_peak"
	case TriggerDirectionChange:
		return "direction_change"
	default:
		return "net_cross"
	}
}

// Boundary is one finalized shot boundary at a trajectory sample.
type Boundary struct {
	Index       int
	TimestampMS int64
	Trigger     Trigger
	Confidence  float64 // trigger magnitude: peak ratio numerator, angle, or 1
}

// velocities returns per-sample velocity vectors and speeds. Supplied
// velocities are used when present; otherwise finite differences over the
// preceding interval. Index 0 borrows index 1's derived velocity so angle
// checks never see an artificial zero vector.
func velocities(samples []model.TrajectorySample) ([]model.Point, []float64) {
	n := len(samples)
	vels := make([]model.Point, n)
	for i := 1; i < n; i++ {
		if samples[i].HasVelocity {
			vels[i] = model.Point{X: samples[i].VX, Y: samples[i].VY}
			continue
		}
		dt := float64(samples[i].TimestampMS-samples[i-1].TimestampMS) / 1000
		if dt <= 0 {
			continue
		}
		vels[i] = model.Point{
			X: (samples[i].X - samples[i-1].X) / dt,
			Y: (samples[i].Y - samples[i-1].Y) / dt,
		}
	}
	if n > 1 {
		if samples[0].HasVelocity {
			vels[0] = model.Point{X: samples[0].VX, Y: samples[0].VY}
		} else {
			vels[0] = vels[1]
		}
	}
	speeds := make([]float64, n)
	for i, v := range vels {
		speeds[i] = math.Hypot(v.X, v.Y)
	}
	return vels, speeds
}

// angleBetweenDeg returns the angle between two velocity vectors in degrees.
func angleBetweenDeg(a, b model.Point) float64 {
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

// DetectBoundaries evaluates the three boundary triggers over every
// consecutive sample window and merges candidates closer than the configured
// gap, keeping the highest-priority (then highest-magnitude) trigger.
func DetectBoundaries(cfg *config.Config, samples []model.TrajectorySample) []Boundary {
	n := len(samples)
	if n < 2 {
		return nil
	}
	vels, speeds := velocities(samples)

	var cands []Boundary
	add := func(b Boundary) { cands = append(cands, b) }

	for i := 1; i < n-1; i++ {
		// Speed peak: local maximum exceeding the next sample by the ratio.
		if speeds[i] >= speeds[i-1] && speeds[i] > 0 &&
			speeds[i] > cfg.SpeedPeakRatio*speeds[i+1] {
			add(Boundary{
				Index:       i,
				TimestampMS: samples[i].TimestampMS,
				Trigger:     TriggerSpeedPeak,
				Confidence:  speeds[i],
			})
		}
		// Direction change between the incoming and outgoing velocity.
		if speeds[i] >= cfg.MinBoundarySpeed && speeds[i+1] >= cfg.MinBoundarySpeed {
			if ang := angleBetweenDeg(vels[i], vels[i+1]); ang > cfg.DirectionChangeDeg {
				add(Boundary{
					Index:       i,
					TimestampMS: samples[i].TimestampMS,
					Trigger:     TriggerDirectionChange,
					Confidence:  ang,
				})
			}
		}
	}
	// Net crossing: the y coordinate crosses the net line between i and i+1.
	// The boundary lands on the first sample past the net.
	for i := 0; i < n-1; i++ {
		if (samples[i].Y-court.NetY)*(samples[i+1].Y-court.NetY) < 0 {
			add(Boundary{
				Index:       i + 1,
				TimestampMS: samples[i+1].TimestampMS,
				Trigger:     TriggerNetCross,
				Confidence:  1,
			})
		}
	}

	return mergeCandidates(cfg, cands)
}

// mergeCandidates collapses candidates within the merge gap into the single
// strongest one. Candidates arrive grouped by trigger; merging works on the
// time-sorted order.
func mergeCandidates(cfg *config.Config, cands []Boundary) []Boundary {
	if len(cands) == 0 {
		return nil
	}
	sortBoundaries(cands)

	out := []Boundary{cands[0]}
	for _, c := range cands[1:] {
		last := &out[len(out)-1]
		if c.TimestampMS-last.TimestampMS < cfg.BoundaryMergeGapMS {
			if stronger(c, *last) {
				*last = c
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

// stronger reports whether a wins a merge against b: trigger priority first,
// magnitude as the tie-break, earlier sample on exact ties.
func stronger(a, b Boundary) bool {
	if a.Trigger != b.Trigger {
		return a.Trigger > b.Trigger
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return false
}

// sortBoundaries orders by timestamp, then index. Insertion sort: candidate
// lists are tiny and mostly ordered already.
func sortBoundaries(bs []Boundary) {
	for i := 1; i < len(bs); i++ {
		for j := i; j > 0; j-- {
			if bs[j].TimestampMS < bs[j-1].TimestampMS ||
				(bs[j].TimestampMS == bs[j-1].TimestampMS && bs[j].Index < bs[j-1].Index) {
				bs[j], bs[j-1] = bs[j-1], bs[j]
			} else {
				break
			}
		}
	}
}

// Segment detects boundaries and emits the ordered shot list. A shot spans
// from its boundary (or the trajectory start) to the next boundary; the
// trailing partial shot closes on the final sample. Trajectories shorter
// than two samples yield zero shots.
func Segment(cfg *config.Config, samples []model.TrajectorySample) []model.ShotEvent {
	n := len(samples)
	if n < 2 {
		return nil
	}

	starts := []int{0}
	for _, b := range DetectBoundaries(cfg, samples) {
		if b.Index <= starts[len(starts)-1] || b.Index >= n-1 {
			continue
		}
		starts = append(starts, b.Index)
	}

	shots := make([]model.ShotEvent, 0, len(starts))
	for k, start := range starts {
		end := n - 1
		if k+1 < len(starts) {
			end = starts[k+1]
		}
		if end <= start {
			continue
		}
		contact := model.Point{X: samples[start].X, Y: samples[start].Y}
		landing := model.Point{X: samples[end].X, Y: samples[end].Y}
		shots = append(shots, model.ShotEvent{
			Index:    len(shots),
			StartMS:  samples[start].TimestampMS,
			EndMS:    samples[end].TimestampMS,
			Type:     Classify(cfg, samples, start, end),
			Owner:    court.SideOf(contact.Y),
			Contact:  contact,
			Landing:  landing,
			StartIdx: start,
			EndIdx:   end,
		})
	}
	return shots
}
