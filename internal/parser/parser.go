// Package parser loads tracked rally trajectories from JSON files. Two
// layouts are accepted: a bare sample array, or an envelope object with a
// "samples" array plus optional session metadata. Every file is identified
// by the sha256 of its raw bytes so re-parsing the same capture is a no-op
// upstream.
package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pable/go-shuttle-metrics/internal/model"
)

type wireSample struct {
	T  int64    `json:"t"`
	X  float64  `json:"x"`
	Y  float64  `json:"y"`
	VX *float64 `json:"vx,omitempty"`
	VY *float64 `json:"vy,omitempty"`
}

type wireEnvelope struct {
	Label   string       `json:"label,omitempty"`
	Samples []wireSample `json:"samples"`
}

// ParseFile reads and parses one trajectory file.
func ParseFile(path string) (*model.RawRally, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trajectory: %w", err)
	}
	return Parse(data, filepath.Base(path))
}

// Parse decodes a trajectory from raw bytes. source is recorded verbatim,
// usually the capture's file name.
func Parse(data []byte, source string) (*model.RawRally, error) {
	sum := sha256.Sum256(data)
	rally := &model.RawRally{
		Hash:   hex.EncodeToString(sum[:]),
		Source: source,
	}

	trimmed := bytes.TrimSpace(data)
	var wire []wireSample
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &wire); err != nil {
			return nil, fmt.Errorf("parse %s: %w", source, err)
		}
	} else {
		var env wireEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("parse %s: %w", source, err)
		}
		rally.Label = env.Label
		wire = env.Samples
	}

	rally.Samples = make([]model.TrajectorySample, len(wire))
	for i, w := range wire {
		s := model.TrajectorySample{TimestampMS: w.T, X: w.X, Y: w.Y}
		if w.VX != nil && w.VY != nil {
			s.VX, s.VY = *w.VX, *w.VY
			s.HasVelocity = true
		}
		rally.Samples[i] = s
	}
	return rally, nil
}
