// Package court models the normalized court surface as a 3×3 zone grid.
// All functions are pure and total: out-of-range positions clamp instead of
// erroring so downstream stages never have to handle a zone failure.
package court

import (
	"math"

	"github.com/pable/go-shuttle-metrics/internal/model"
)

const (
	// GridSize is the zone grid edge length.
	GridSize = 3
	// ZoneCount is the number of zones on the surface.
	ZoneCount = GridSize * GridSize
	// NetY is the net line in full-court normalized coordinates.
	NetY = 0.5
)

// PositionToZone maps a normalized position (x, y ∈ [0,1]) to a zone id in
// [0,8]. Column = floor(x*3), row = floor(y*3), both clamped; id = row*3+col.
func PositionToZone(x, y float64) int {
	col := clampIdx(int(math.Floor(x * GridSize)))
	row := clampIdx(int(math.Floor(y * GridSize)))
	return row*GridSize + col
}

// ZoneCenter returns the center of the given zone. Out-of-range ids clamp
// to the nearest valid zone.
func ZoneCenter(zone int) (x, y float64) {
	if zone < 0 {
		zone = 0
	}
	if zone >= ZoneCount {
		zone = ZoneCount - 1
	}
	col := zone % GridSize
	row := zone / GridSize
	return (float64(col) + 0.5) / GridSize, (float64(row) + 0.5) / GridSize
}

// ZoneRow returns the grid row of a zone id (0 = net row in half-court frame).
func ZoneRow(zone int) int { return clampIdx(zone/GridSize) }

// ZoneCol returns the grid column of a zone id.
func ZoneCol(zone int) int { return clampIdx(zone % GridSize) }

// Neighbors returns the 4-connected neighbors of a zone, ascending.
// 4-connectivity is the documented adjacency model for open-court exclusion:
// a zone has at most 4 excluded neighbors.
func Neighbors(zone int) []int {
	col, row := ZoneCol(zone), ZoneRow(zone)
	var out []int
	if row > 0 {
		out = append(out, (row-1)*GridSize+col)
	}
	if col > 0 {
		out = append(out, row*GridSize+col-1)
	}
	if col < GridSize-1 {
		out = append(out, row*GridSize+col+1)
	}
	if row < GridSize-1 {
		out = append(out, (row+1)*GridSize+col)
	}
	return out
}

// SideOf returns which side of the net a full-court position lies on.
func SideOf(y float64) model.Side {
	if y < NetY {
		return model.SideNear
	}
	return model.SideFar
}

// HalfFrame maps a full-court position into the local [0,1]² frame of the
// given side's half, with y'=0 at the net and y'=1 at that side's baseline.
// The x axis is mirrored for the far side so that "left" stays left from the
// player's point of view. Positions on the wrong half clamp to the net line.
func HalfFrame(p model.Point, side model.Side) model.Point {
	switch side {
	case model.SideNear:
		return model.Point{X: clamp01(p.X), Y: clamp01((NetY - p.Y) * 2)}
	case model.SideFar:
		return model.Point{X: clamp01(1 - p.X), Y: clamp01((p.Y - NetY) * 2)}
	default:
		return model.Point{X: clamp01(p.X), Y: 0}
	}
}

// HalfZone returns the zone id of a full-court position within the given
// side's half-court frame. Row 0 is the net row, row 2 the back court.
func HalfZone(p model.Point, side model.Side) int {
	q := HalfFrame(p, side)
	return PositionToZone(q.X, q.Y)
}

// HalfZoneCenter maps a half-court zone id back to full-court coordinates on
// the given side.
func HalfZoneCenter(zone int, side model.Side) model.Point {
	x, y := ZoneCenter(zone)
	switch side {
	case model.SideFar:
		return model.Point{X: 1 - x, Y: NetY + y/2}
	default:
		return model.Point{X: x, Y: NetY - y/2}
	}
}

// Home returns a side's recovery base: the center of its half.
func Home(side model.Side) model.Point {
	if side == model.SideFar {
		return model.Point{X: 0.5, Y: 0.75}
	}
	return model.Point{X: 0.5, Y: 0.25}
}

// Distance is the Euclidean distance between two court points.
func Distance(a, b model.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func clampIdx(i int) int {
	if i < 0 {
		return 0
	}
	if i >= GridSize {
		return GridSize - 1
	}
	return i
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
