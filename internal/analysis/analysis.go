// Package analysis runs the full rally pipeline: validate the trajectory,
// segment it into shots, derive rally states and features, and generate
// recommendations. The pipeline is pure except for the analysis date, so the
// same rally always produces the same records.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/pable/go-shuttle-metrics/internal/config"
	"github.com/pable/go-shuttle-metrics/internal/feature"
	"github.com/pable/go-shuttle-metrics/internal/model"
	"github.com/pable/go-shuttle-metrics/internal/rally"
	"github.com/pable/go-shuttle-metrics/internal/recommend"
	"github.com/pable/go-shuttle-metrics/internal/segment"
)

// ErrInvalidTrajectory marks rejected input: non-finite coordinates or
// timestamps that do not strictly increase. Callers should not retry.
var ErrInvalidTrajectory = errors.New("invalid trajectory")

// Result is everything the pipeline derives from one rally.
type Result struct {
	Summary model.RallySummary
	Shots   []model.ShotRecord
	Recs    []model.Recommendation
}

// Run analyzes one rally. An empty trajectory yields an empty result, not an
// error; a malformed one fails with ErrInvalidTrajectory before any
// derivation happens.
func Run(cfg *config.Config, raw *model.RawRally) (*Result, error) {
	if err := validate(raw.Samples); err != nil {
		return nil, err
	}

	summary := model.RallySummary{
		Hash:        raw.Hash,
		Source:      raw.Source,
		Label:       raw.Label,
		AnalyzedAt:  time.Now().Format("2006-01-02"),
		SampleCount: len(raw.Samples),
	}
	if n := len(raw.Samples); n > 1 {
		summary.DurationMS = raw.Samples[n-1].TimestampMS - raw.Samples[0].TimestampMS
	}

	shots := segment.Segment(cfg, raw.Samples)
	states := rally.Compute(cfg, shots)
	feats := feature.Extract(cfg, raw.Samples, shots, states)

	summary.ShotCount = len(shots)
	if len(states) > 0 {
		var sum float64
		for _, s := range states {
			sum += s.Pressure
		}
		summary.AvgPressure = sum / float64(len(states))
	}

	records := make([]model.ShotRecord, len(shots))
	for i := range shots {
		records[i] = model.ShotRecord{
			RallyHash: raw.Hash,
			Event:     shots[i],
			Features:  feats[i],
		}
	}

	return &Result{
		Summary: summary,
		Shots:   records,
		Recs:    recommend.Generate(cfg, raw.Hash, shots, feats),
	}, nil
}

func validate(samples []model.TrajectorySample) error {
	for i, s := range samples {
		for _, v := range []float64{s.X, s.Y, s.VX, s.VY} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: non-finite value at sample %d", ErrInvalidTrajectory, i)
			}
		}
		if i > 0 && s.TimestampMS <= samples[i-1].TimestampMS {
			return fmt.Errorf("%w: timestamp not increasing at sample %d (%d after %d)",
				ErrInvalidTrajectory, i, s.TimestampMS, samples[i-1].TimestampMS)
		}
	}
	return nil
}
