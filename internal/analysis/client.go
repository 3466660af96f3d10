// Package analysis turns merged module results into a narrative risk
// assessment through an LLM correlation provider. Every field of the result
// degrades independently: provider trouble yields placeholders, never a
// failed scan.
package analysis

import (
	"context"
	"time"

	"reconai/internal/intel"
)

type AttackSurface struct {
	ExposurePoints   []string `json:"exposure_points"`
	EntryVectors     []string `json:"entry_vectors"`
	HighValueTargets []string `json:"high_value_targets"`
}

type Vulnerability struct {
	Title       string `json:"title"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

type Correlation struct {
	Finding      string `json:"finding"`
	Significance string `json:"significance"`
}

// Result is the correlation provider's assessment of one scan.
type Result struct {
	Target          string          `json:"target"`
	Timestamp       time.Time       `json:"timestamp"`
	Summary         string          `json:"summary"`
	RiskScore       int             `json:"risk_score"`
	AttackSurface   AttackSurface   `json:"attack_surface"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	Recommendations []string        `json:"recommendations"`
	Correlations    []Correlation   `json:"correlations"`
	Error           string          `json:"error,omitempty"`
}

// Client correlates merged module results. Analyze never returns an error:
// provider failures surface as degraded fields inside the result.
type Client interface {
	Analyze(ctx context.Context, target string, report *intel.Report) *Result
}

// NewClient returns the OpenAI-backed client, or a disabled one when no API
// key is configured.
func NewClient(apiKey, model string) Client {
	if apiKey == "" {
		return &disabledClient{}
	}
	return newOpenAIClient(apiKey, model)
}

// disabledClient stands in when no provider is configured; it returns the
// fully degraded result so downstream consumers see a stable shape.
type disabledClient struct{}

func (c *disabledClient) Analyze(ctx context.Context, target string, report *intel.Report) *Result {
	result := degradedResult(target)
	result.Error = "analysis disabled: no API key configured"
	return result
}

const defaultRiskScore = 50

func degradedResult(target string) *Result {
	return &Result{
		Target:    target,
		Timestamp: time.Now().UTC(),
		Summary:   "Analysis unavailable",
		RiskScore: defaultRiskScore,
		AttackSurface: AttackSurface{
			ExposurePoints:   []string{"Unable to analyze"},
			EntryVectors:     []string{"Unable to analyze"},
			HighValueTargets: []string{"Unable to analyze"},
		},
		Vulnerabilities: []Vulnerability{{
			Title:       "Analysis Error",
			Severity:    "Unknown",
			Description: "Unable to identify vulnerabilities",
		}},
		Recommendations: []string{"Unable to generate recommendations"},
		Correlations: []Correlation{{
			Finding:      "Analysis incomplete",
			Significance: "Unable to correlate data",
		}},
	}
}
