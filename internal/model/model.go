package model

// Side represents which end of the court a player occupies.
// The near side covers normalized y < 0.5, the far side y >= 0.5.
type Side int

const (
	SideUnknown Side = 0
	SideNear    Side = 1
	SideFar     Side = 2
)

func (s Side) String() string {
	switch s {
	case SideNear:
		return "near"
	case SideFar:
		return "far"
	default:
		return "?"
	}
}

// Opponent returns the other side, or SideUnknown for SideUnknown.
func (s Side) Opponent() Side {
	switch s {
	case SideNear:
		return SideFar
	case SideFar:
		return SideNear
	default:
		return SideUnknown
	}
}

// ParseSide is the inverse of Side.String.
func ParseSide(s string) Side {
	switch s {
	case "near":
		return SideNear
	case "far":
		return SideFar
	default:
		return SideUnknown
	}
}

// ShotType classifies a single shuttle contact.
type ShotType int

const (
	ShotUnknown ShotType = iota
	ShotClear
	ShotDrop
	ShotSmash
	ShotDrive
	ShotNet
	ShotLift
)

func (t ShotType) String() string {
	switch t {
	case ShotClear:
		return "clear"
	case ShotDrop:
		return "drop"
	case ShotSmash:
		return "smash"
	case ShotDrive:
		return "drive"
	case ShotNet:
		return "net"
	case ShotLift:
		return "lift"
	default:
		return "unknown"
	}
}

// ParseShotType is the inverse of ShotType.String. Unrecognized input maps
// to ShotUnknown.
func ParseShotType(s string) ShotType {
	switch s {
	case "clear":
		return ShotClear
	case "drop":
		return ShotDrop
	case "smash":
		return ShotSmash
	case "drive":
		return ShotDrive
	case "net":
		return ShotNet
	case "lift":
		return ShotLift
	default:
		return ShotUnknown
	}
}

// Phase is a side's tactical position at a given shot.
type Phase int

const (
	PhaseNeutral Phase = iota
	PhaseAttack
	PhaseDefense
)

func (p Phase) String() string {
	switch p {
	case PhaseAttack:
		return "attack"
	case PhaseDefense:
		return "defense"
	default:
		return "neutral"
	}
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) Phase {
	switch s {
	case "attack":
		return PhaseAttack
	case "defense":
		return PhaseDefense
	default:
		return PhaseNeutral
	}
}

// Initiative records which side is dictating the rally at a given shot,
// from the perspective of the side hitting that shot.
type Initiative int

const (
	InitiativeUnknown Initiative = iota
	InitiativeUs
	InitiativeThem
)

func (i Initiative) String() string {
	switch i {
	case InitiativeUs:
		return "us"
	case InitiativeThem:
		return "them"
	default:
		return "unknown"
	}
}

// ParseInitiative is the inverse of Initiative.String.
func ParseInitiative(s string) Initiative {
	switch s {
	case "us":
		return InitiativeUs
	case "them":
		return InitiativeThem
	default:
		return InitiativeUnknown
	}
}

// RationaleCategory tags a recommendation rationale entry.
type RationaleCategory int

const (
	RationaleMovementPressure RationaleCategory = iota
	RationaleOpenCourt
	RationaleRiskReduction
	RationaleAngleDenial
)

func (c RationaleCategory) String() string {
	switch c {
	case RationaleMovementPressure:
		return "movement_pressure"
	case RationaleOpenCourt:
		return "open_court"
	case RationaleRiskReduction:
		return "risk_reduction"
	default:
		return "angle_denial"
	}
}

// ParseRationaleCategory is the inverse of RationaleCategory.String.
// Unrecognized input maps to RationaleAngleDenial, matching String's default.
func ParseRationaleCategory(s string) RationaleCategory {
	switch s {
	case "movement_pressure":
		return RationaleMovementPressure
	case "open_court":
		return RationaleOpenCourt
	case "risk_reduction":
		return RationaleRiskReduction
	default:
		return RationaleAngleDenial
	}
}

// ---- Raw input from the upstream tracker ----

// TrajectorySample is one tracked shuttle position in normalized court
// coordinates (x across the court, y along it; the net sits at y = 0.5).
// Timestamps are milliseconds. Velocity is optional; when absent it is
// derived by finite differences downstream.
type TrajectorySample struct {
	TimestampMS int64
	X, Y        float64
	VX, VY      float64
	HasVelocity bool
}

// Point is a 2D position on the normalized court surface.
type Point struct{ X, Y float64 }

// RawRally is the loader's output: one rally's trajectory plus the
// idempotency key and provenance.
type RawRally struct {
	Hash    string
	Source  string
	Label   string
	Samples []TrajectorySample
}

// ---- Pipeline records ----

// ShotEvent is one detected contact, bounded by segmentation boundaries.
// Immutable after creation; all downstream stages read it.
type ShotEvent struct {
	Index   int
	StartMS int64
	EndMS   int64
	Type    ShotType
	Owner   Side
	Contact Point
	Landing Point

	// Sample range [StartIdx, EndIdx] within the source trajectory,
	// kept for downstream slicing. Not persisted.
	StartIdx, EndIdx int
}

// DurationMS returns the shot's flight time in milliseconds.
func (e ShotEvent) DurationMS() int64 { return e.EndMS - e.StartMS }

// RallyState is the tactical read at one shot, computed once by the rally
// state machine and read-only afterward. Phase and initiative are expressed
// from the perspective of the side hitting the shot; pressure measures how
// constrained the receiving player is.
type RallyState struct {
	Phase      Phase
	Initiative Initiative
	Pressure   float64 // [0,1]
	OpenZones  []int   // zone ids 0..8 on the receiver's half, ascending
}

// ShotFeatures are the per-shot numeric features fed to scoring.
// Derived once, never mutated. Missing optional signals degrade to zero.
type ShotFeatures struct {
	ContactZone       int
	LandingZone       int
	SpeedProxy        float64 // [0,1]
	HeightProxy       float64 // [0,1], flight-time based
	OpponentMovement  float64 // court-normalized distance
	OpponentDirChange float64 // [0,1], 1 = full reversal
	RecoveryQuality   float64 // [0,1], 1 = hitter at home position
	State             RallyState
}

// ShotRecord bundles everything known about one shot for storage and display.
type ShotRecord struct {
	RallyHash string
	Event     ShotEvent
	Features  ShotFeatures
}

// RecommendationRationale is one signed, categorized explanation attached to
// a recommendation.
type RecommendationRationale struct {
	Category    RationaleCategory
	Impact      float64 // [-1,1]
	Description string
}

// Recommendation is one ranked shot option at a decision point.
type Recommendation struct {
	RallyHash  string
	ShotIndex  int
	Rank       int // 1-based, by score descending
	Type       ShotType
	TargetZone int
	Path       []Point // contact → net crossing → target center
	Score      float64 // [0,100]
	Confidence float64 // [0,1]
	Rationale  []RecommendationRationale
}

// RallySummary is a lightweight record for list/show commands.
type RallySummary struct {
	Hash        string
	Source      string
	AnalyzedAt  string // YYYY-MM-DD
	Label       string // free-form session tag, e.g. "training"
	SampleCount int
	ShotCount   int
	DurationMS  int64
	AvgPressure float64
}

// ShotsPerSecond returns the rally tempo, or 0 for degenerate rallies.
func (s *RallySummary) ShotsPerSecond() float64 {
	if s.DurationMS <= 0 {
		return 0
	}
	return float64(s.ShotCount) / (float64(s.DurationMS) / 1000)
}
