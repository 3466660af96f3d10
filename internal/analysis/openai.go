package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"reconai/internal/intel"
	"reconai/pkg/logger"
)

const DefaultModel = "gpt-4.1-mini"

// openAIClient issues six independent prompts per scan: summary, risk score,
// attack surface, vulnerabilities, recommendations, and correlations. Each
// call degrades to its placeholder on failure without touching the others.
type openAIClient struct {
	client *openai.Client
	model  string
	logger *logger.Logger
}

func newOpenAIClient(apiKey, model string) *openAIClient {
	if model == "" {
		model = DefaultModel
	}
	return &openAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger.NewLogger(logrus.InfoLevel),
	}
}

func (c *openAIClient) Analyze(ctx context.Context, target string, report *intel.Report) *Result {
	result := degradedResult(target)
	result.Timestamp = time.Now().UTC()

	digest := BuildDigest(target, report)

	if summary, err := c.summarize(ctx, target, digest); err == nil {
		result.Summary = summary
	} else {
		c.logger.WithError(err).Warn("Summary generation failed")
		result.Summary = fmt.Sprintf("Summary generation failed: %v", err)
	}

	if score, err := c.riskScore(ctx, digest); err == nil {
		result.RiskScore = score
	} else {
		c.logger.WithError(err).Warn("Risk scoring failed")
	}

	if surface, err := c.attackSurface(ctx, digest); err == nil {
		result.AttackSurface = *surface
	} else {
		c.logger.WithError(err).Warn("Attack surface analysis failed")
	}

	if vulns, err := c.vulnerabilities(ctx, digest); err == nil {
		result.Vulnerabilities = vulns
	} else {
		c.logger.WithError(err).Warn("Vulnerability identification failed")
	}

	if recs, err := c.recommendations(ctx, target, digest); err == nil {
		result.Recommendations = recs
	} else {
		c.logger.WithError(err).Warn("Recommendation generation failed")
	}

	if correlations, err := c.correlations(ctx, digest); err == nil {
		result.Correlations = correlations
	} else {
		c.logger.WithError(err).Warn("Correlation analysis failed")
	}

	return result
}

func (c *openAIClient) complete(ctx context.Context, system, prompt string, temperature float32, maxTokens int) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("provider returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *openAIClient) summarize(ctx context.Context, target, digest string) (string, error) {
	prompt := fmt.Sprintf(`As a cybersecurity analyst, provide a concise executive summary of the following OSINT reconnaissance results for target: %s

Intelligence Data:
%s

Provide a 2-3 paragraph executive summary highlighting the most important findings and overall security posture.`, target, digest)

	return c.complete(ctx,
		"You are an expert cybersecurity analyst specializing in OSINT and threat intelligence.",
		prompt, 0.7, 500)
}

func (c *openAIClient) riskScore(ctx context.Context, digest string) (int, error) {
	prompt := fmt.Sprintf(`Based on the following OSINT intelligence data, calculate a risk score from 0-100:

%s

Consider factors like:
- Open ports and exposed services
- Missing security headers
- SSL/TLS configuration
- Data breach history
- Attack surface size

Respond with ONLY a number between 0-100.`, digest)

	text, err := c.complete(ctx,
		"You are a cybersecurity risk assessment expert. Respond with only a number.",
		prompt, 0.3, 10)
	if err != nil {
		return 0, err
	}

	score, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("provider returned non-numeric risk score %q", text)
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, nil
}

func (c *openAIClient) attackSurface(ctx context.Context, digest string) (*AttackSurface, error) {
	prompt := fmt.Sprintf(`Analyze the attack surface based on this OSINT data:

%s

Identify:
1. External exposure points
2. Potential entry vectors
3. High-value targets

Respond in JSON format with keys: exposure_points, entry_vectors, high_value_targets`, digest)

	text, err := c.complete(ctx,
		"You are a penetration testing expert. Respond with valid JSON only.",
		prompt, 0.5, 400)
	if err != nil {
		return nil, err
	}

	var surface AttackSurface
	if err := json.Unmarshal([]byte(stripFences(text)), &surface); err != nil {
		return nil, fmt.Errorf("malformed attack surface response: %w", err)
	}
	return &surface, nil
}

func (c *openAIClient) vulnerabilities(ctx context.Context, digest string) ([]Vulnerability, error) {
	prompt := fmt.Sprintf(`Based on this OSINT intelligence, identify potential security vulnerabilities:

%s

List specific vulnerabilities or security concerns. Format as JSON array with objects containing: title, severity, description`, digest)

	text, err := c.complete(ctx,
		"You are a vulnerability assessment expert. Respond with valid JSON only.",
		prompt, 0.5, 600)
	if err != nil {
		return nil, err
	}

	var vulns []Vulnerability
	if err := json.Unmarshal([]byte(stripFences(text)), &vulns); err != nil {
		return nil, fmt.Errorf("malformed vulnerabilities response: %w", err)
	}
	return vulns, nil
}

func (c *openAIClient) recommendations(ctx context.Context, target, digest string) ([]string, error) {
	prompt := fmt.Sprintf(`Based on the OSINT findings for %s, provide actionable security recommendations:

%s

Provide 5-7 specific, actionable recommendations. Format as JSON array of strings.`, target, digest)

	text, err := c.complete(ctx,
		"You are a security consultant. Provide practical recommendations. Respond with valid JSON only.",
		prompt, 0.6, 500)
	if err != nil {
		return nil, err
	}

	var recs []string
	if err := json.Unmarshal([]byte(stripFences(text)), &recs); err != nil {
		return nil, fmt.Errorf("malformed recommendations response: %w", err)
	}
	return recs, nil
}

func (c *openAIClient) correlations(ctx context.Context, digest string) ([]Correlation, error) {
	prompt := fmt.Sprintf(`Analyze this OSINT data and identify interesting correlations between different findings:

%s

Identify 3-5 notable correlations or patterns. Format as JSON array with objects containing: finding, significance`, digest)

	text, err := c.complete(ctx,
		"You are an intelligence analyst expert at finding patterns. Respond with valid JSON only.",
		prompt, 0.6, 400)
	if err != nil {
		return nil, err
	}

	var correlations []Correlation
	if err := json.Unmarshal([]byte(stripFences(text)), &correlations); err != nil {
		return nil, fmt.Errorf("malformed correlations response: %w", err)
	}
	return correlations, nil
}

// stripFences removes a markdown code fence around a JSON answer. Providers
// wrap JSON in ```json blocks despite instructions not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && !strings.ContainsAny(s[:idx], "{[") {
		// first line is the language tag
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}

	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
