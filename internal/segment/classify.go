package segment

import (
	"math"

	"github.com/pable/go-shuttle-metrics/internal/config"
	"github.com/pable/go-shuttle-metrics/internal/court"
	"github.com/pable/go-shuttle-metrics/internal/model"
)

// smashMaxDurationMS caps a smash's flight time: anything slower is a drive
// or clear no matter how fast the peak was.
const smashMaxDurationMS = 600

// PeakSpeed returns the highest instantaneous speed over (start, end].
func PeakSpeed(samples []model.TrajectorySample, start, end int) float64 {
	if start < 0 || end >= len(samples) || end <= start {
		return 0
	}
	_, speeds := velocities(samples)
	peak := 0.0
	for i := start + 1; i <= end; i++ {
		if speeds[i] > peak {
			peak = speeds[i]
		}
	}
	return peak
}

// Classify assigns a shot type to the trajectory segment [start, end].
// The rules are ordered heuristic predicates evaluated top to bottom; the
// first match wins and anything unmatched is ShotUnknown.
func Classify(cfg *config.Config, samples []model.TrajectorySample, start, end int) model.ShotType {
	if start < 0 || end >= len(samples) || end <= start {
		return model.ShotUnknown
	}

	contact := model.Point{X: samples[start].X, Y: samples[start].Y}
	landing := model.Point{X: samples[end].X, Y: samples[end].Y}

	peak := PeakSpeed(samples, start, end)
	durMS := samples[end].TimestampMS - samples[start].TimestampMS
	crossed := court.SideOf(contact.Y) != court.SideOf(landing.Y)
	contactNet := math.Abs(contact.Y - court.NetY)
	landingNet := math.Abs(landing.Y - court.NetY)
	travel := court.Distance(contact, landing)

	switch {
	case crossed && peak >= cfg.SmashSpeedMin && durMS <= smashMaxDurationMS:
		return model.ShotSmash
	case contactNet <= cfg.NetProximity && landingNet <= cfg.NetProximity && travel <= 0.3:
		return model.ShotNet
	case crossed && contactNet <= cfg.NetProximity && landingNet >= cfg.DeepCourtDepth:
		return model.ShotLift
	case crossed && landingNet <= cfg.NetProximity && peak < cfg.SmashSpeedMin:
		return model.ShotDrop
	case crossed && landingNet >= cfg.DeepCourtDepth && durMS >= cfg.ClearMinDurationMS:
		return model.ShotClear
	case crossed && peak >= cfg.DriveSpeedMin && landingNet < cfg.DeepCourtDepth:
		return model.ShotDrive
	default:
		return model.ShotUnknown
	}
}
