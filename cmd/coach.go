package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-shuttle-metrics/internal/model"
	"github.com/pable/go-shuttle-metrics/internal/report"
	"github.com/pable/go-shuttle-metrics/internal/storage"
)

const coachSystemPrompt = `You are a badminton rally analyst. You are given structured data from a
trajectory-analysis tool and a question from the player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable — focus on what the player can actually improve.
- Avoid generic badminton advice unless it directly explains a pattern in the data.

Metrics glossary:
- Zones: each half-court is a 3x3 grid labelled F/M/B (front/mid/back, front
  nearest the net) crossed with L/C/R lanes, e.g. "FL" is front-left.
- Pressure: how constrained the receiving player is, 0 (comfortable) to 1
  (scrambling). Driven by reaction time and distance from home position.
- Phase: attack / defense / neutral, from the hitting side's perspective.
- Initiative: which side is dictating the rally at that shot.
- Speed / height proxies: normalized 0–1; speed from peak shuttle speed,
  height from flight time (higher = loftier shot).
- Recovery quality: 0–1, 1 = hitter struck from their home position.
- Recommendation score: 0–100 with a 50 baseline; rewards opponent movement
  and open court, penalizes risk and angle exposure.
- Confidence: 0–1, how clearly the top option beat the alternatives.`

var (
	coachModel  string
	coachAPIKey string
)

var coachCmd = &cobra.Command{
	Use:   "coach <hash-prefix> <question>",
	Short: "AI-powered rally coaching (requires ANTHROPIC_API_KEY)",
	Long: `Sends a stored rally's analysis to an Anthropic model together with your
question and streams back a grounded answer.

Examples:
  shuttlemetrics coach a3f9 "where do I lose the initiative in this rally?"
  shuttlemetrics coach a3f9 "should I have smashed earlier?"`,
	Args: cobra.ExactArgs(2),
	RunE: runCoach,
}

func init() {
	coachCmd.Flags().StringVar(&coachModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	coachCmd.Flags().StringVar(&coachAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
}

func runCoach(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rally, err := db.GetRallyByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("find rally: %w", err)
	}
	if rally == nil {
		return fmt.Errorf("no rally found with hash prefix %q", args[0])
	}
	question := args[1]

	shots, err := db.GetShots(rally.Hash)
	if err != nil {
		return fmt.Errorf("query shots: %w", err)
	}
	recs, err := db.GetRecommendations(rally.Hash)
	if err != nil {
		return fmt.Errorf("query recommendations: %w", err)
	}

	contextJSON, err := buildRallyContext(rally, shots, recs)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	return callAnthropic(cmd.Context(), coachAPIKey, coachModel, contextJSON, question)
}

// buildRallyContext serialises a rally's analysis into compact JSON.
func buildRallyContext(rally *model.RallySummary, shots []model.ShotRecord, recs []model.Recommendation) (string, error) {
	type shotEntry struct {
		Index      int     `json:"index"`
		Type       string  `json:"type"`
		Side       string  `json:"side"`
		StartMS    int64   `json:"start_ms"`
		DurationMS int64   `json:"duration_ms"`
		From       string  `json:"from"`
		To         string  `json:"to"`
		Speed      float64 `json:"speed"`
		Height     float64 `json:"height"`
		Phase      string  `json:"phase"`
		Initiative string  `json:"initiative"`
		Pressure   float64 `json:"pressure"`
		Recovery   float64 `json:"recovery"`
	}
	type recEntry struct {
		ShotIndex  int      `json:"shot_index"`
		Rank       int      `json:"rank"`
		Type       string   `json:"type"`
		Target     string   `json:"target"`
		Score      float64  `json:"score"`
		Confidence float64  `json:"confidence"`
		Rationale  []string `json:"rationale"`
	}

	shotEntries := make([]shotEntry, 0, len(shots))
	for _, s := range shots {
		shotEntries = append(shotEntries, shotEntry{
			Index:      s.Event.Index,
			Type:       s.Event.Type.String(),
			Side:       s.Event.Owner.String(),
			StartMS:    s.Event.StartMS,
			DurationMS: s.Event.DurationMS(),
			From:       report.ZoneLabel(s.Features.ContactZone),
			To:         report.ZoneLabel(s.Features.LandingZone),
			Speed:      round2(s.Features.SpeedProxy),
			Height:     round2(s.Features.HeightProxy),
			Phase:      s.Features.State.Phase.String(),
			Initiative: s.Features.State.Initiative.String(),
			Pressure:   round2(s.Features.State.Pressure),
			Recovery:   round2(s.Features.RecoveryQuality),
		})
	}

	recEntries := make([]recEntry, 0, len(recs))
	for _, r := range recs {
		rationale := make([]string, 0, len(r.Rationale))
		for _, e := range r.Rationale {
			rationale = append(rationale, fmt.Sprintf("%+.2f %s: %s", e.Impact, e.Category.String(), e.Description))
		}
		recEntries = append(recEntries, recEntry{
			ShotIndex:  r.ShotIndex,
			Rank:       r.Rank,
			Type:       r.Type.String(),
			Target:     report.ZoneLabel(r.TargetZone),
			Score:      round2(r.Score),
			Confidence: round2(r.Confidence),
			Rationale:  rationale,
		})
	}

	doc := map[string]interface{}{
		"subject": "rally",
		"summary": map[string]interface{}{
			"source":       rally.Source,
			"date":         rally.AnalyzedAt,
			"label":        rally.Label,
			"shots":        rally.ShotCount,
			"duration_ms":  rally.DurationMS,
			"tempo_sps":    round2(rally.ShotsPerSecond()),
			"avg_pressure": round2(rally.AvgPressure),
		},
		"shots":           shotEntries,
		"recommendations": recEntries,
	}

	b, err := json.Marshal(doc)
	return string(b), err
}

// round2 rounds a float64 to 2 decimal places.
func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: coachSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed — check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
