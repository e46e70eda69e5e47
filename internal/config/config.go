// Package config holds the tunable analysis constants. The detection and
// scoring thresholds are heuristics, not correctness guarantees, so they are
// all exposed here with documented defaults and can be overridden via a YAML
// file or environment variables.
package config

// Config contains every tunable used by the analysis pipeline.
type Config struct {
	// ---- Shot segmentation ----

	// DirectionChangeDeg is the minimum angle between consecutive velocity
	// vectors that marks a shot boundary.
	DirectionChangeDeg float64 `koanf:"direction_change_deg"`

	// SpeedPeakRatio is the minimum ratio of a local speed maximum to the
	// next sample's speed for a speed-peak boundary.
	SpeedPeakRatio float64 `koanf:"speed_peak_ratio"`

	// BoundaryMergeGapMS merges boundary candidates closer than this,
	// keeping the highest-confidence trigger.
	BoundaryMergeGapMS int64 `koanf:"boundary_merge_gap_ms"`

	// MinBoundarySpeed filters out direction-change noise at near-zero speed
	// (court lengths per second).
	MinBoundarySpeed float64 `koanf:"min_boundary_speed"`

	// ---- Shot classification ----

	// SmashSpeedMin is the peak speed at or above which a crossing shot is a
	// smash (court lengths per second).
	SmashSpeedMin float64 `koanf:"smash_speed_min"`

	// DriveSpeedMin is the peak speed for a flat drive.
	DriveSpeedMin float64 `koanf:"drive_speed_min"`

	// NetProximity is the maximum |y − net| for "near the net".
	NetProximity float64 `koanf:"net_proximity"`

	// DeepCourtDepth is the minimum |y − net| for a deep landing.
	DeepCourtDepth float64 `koanf:"deep_court_depth"`

	// ClearMinDurationMS is the minimum flight time for a clear.
	ClearMinDurationMS int64 `koanf:"clear_min_duration_ms"`

	// ---- Rally state ----

	// StateWindow is the number of trailing shots (including the current one)
	// the phase policy looks at.
	StateWindow int `koanf:"state_window"`

	// TimePressureCapMS is the inter-shot interval at or above which time
	// pressure reaches zero.
	TimePressureCapMS int64 `koanf:"time_pressure_cap_ms"`

	// PressureTimeWeight, PressurePositionWeight and SmashPressureBonus are
	// the weighted-sum terms of the clamped [0,1] pressure value.
	PressureTimeWeight     float64 `koanf:"pressure_time_weight"`
	PressurePositionWeight float64 `koanf:"pressure_position_weight"`
	SmashPressureBonus     float64 `koanf:"smash_pressure_bonus"`

	// ---- Scoring ----

	// The four scoring weights. Score = base + mp*MovementWeight +
	// oc*OpenCourtWeight − risk*RiskWeight − angle*AngleWeight, clamped
	// [0,100].
	MovementWeight  float64 `koanf:"movement_weight"`
	OpenCourtWeight float64 `koanf:"open_court_weight"`
	RiskWeight      float64 `koanf:"risk_weight"`
	AngleWeight     float64 `koanf:"angle_weight"`

	// ---- Recommendations ----

	// TopK is the number of recommendations kept per shot.
	TopK int `koanf:"top_k"`

	// RationaleImpactMin drops rationale entries with |impact| below it.
	RationaleImpactMin float64 `koanf:"rationale_impact_min"`

	// ---- Feature proxies ----

	// SpeedNorm maps peak shot speed onto [0,1] (speeds at or above SpeedNorm
	// saturate the speed proxy).
	SpeedNorm float64 `koanf:"speed_norm"`

	// HeightNormMS maps flight time onto the [0,1] height proxy. Shuttle
	// height is unobservable in 2D court coordinates; airtime is the proxy.
	HeightNormMS int64 `koanf:"height_norm_ms"`
}

// Default returns the built-in tuning.
func Default() *Config {
	return &Config{
		DirectionChangeDeg: 45,
		SpeedPeakRatio:     1.3,
		BoundaryMergeGapMS: 250,
		MinBoundarySpeed:   0.05,

		SmashSpeedMin:      2.0,
		DriveSpeedMin:      1.2,
		NetProximity:       0.18,
		DeepCourtDepth:     0.35,
		ClearMinDurationMS: 800,

		StateWindow:            3,
		TimePressureCapMS:      1200,
		PressureTimeWeight:     0.45,
		PressurePositionWeight: 0.35,
		SmashPressureBonus:     0.25,

		MovementWeight:  20,
		OpenCourtWeight: 25,
		RiskWeight:      15,
		AngleWeight:     10,

		TopK:               3,
		RationaleImpactMin: 0.15,

		SpeedNorm:    2.5,
		HeightNormMS: 1200,
	}
}
