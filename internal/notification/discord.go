package notification

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"reconai/pkg/errors"
)

// Client posts scan-completion embeds to a Discord channel. Construct it
// once and inject it; a nil *Client is safe to call and does nothing.
type Client struct {
	session   *discordgo.Session
	channelID string
}

// NewClient opens a Discord session. Both token and channel must be
// configured; otherwise notifications stay disabled.
func NewClient(token, channelID string) (*Client, error) {
	if token == "" || channelID == "" {
		return nil, errors.ErrDiscordNotConfigured
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	if err := session.Open(); err != nil {
		return nil, err
	}

	return &Client{session: session, channelID: channelID}, nil
}

// ScanSummary is what a completed scan looks like in a notification.
type ScanSummary struct {
	ScanID      string
	Target      string
	Status      string
	ModuleCount int
	FailedCount int
	OpenPorts   int
	RiskScore   int
	Duration    time.Duration
	CompletedAt time.Time
}

// ScanCompleted sends the completion embed. Callers treat errors as
// log-and-continue; a lost notification never affects the scan.
func (c *Client) ScanCompleted(summary ScanSummary) error {
	if c == nil || c.session == nil {
		return errors.ErrDiscordNotConfigured
	}

	completedAt := summary.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Scan completed: %s", summary.Target),
		Description: fmt.Sprintf("Scan `%s` finished with status **%s**", summary.ScanID, summary.Status),
		Color:       severityColor(riskSeverity(summary.RiskScore)),
		Timestamp:   completedAt.Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Modules", Value: fmt.Sprintf("%d run, %d failed", summary.ModuleCount, summary.FailedCount), Inline: true},
			{Name: "Open ports", Value: fmt.Sprintf("%d", summary.OpenPorts), Inline: true},
			{Name: "Risk score", Value: fmt.Sprintf("%d/100", summary.RiskScore), Inline: true},
			{Name: "Duration", Value: summary.Duration.Round(time.Millisecond).String(), Inline: true},
		},
	}

	_, err := c.session.ChannelMessageSendEmbed(c.channelID, embed)
	return err
}

func (c *Client) Close() error {
	if c == nil || c.session == nil {
		return nil
	}
	return c.session.Close()
}

// riskSeverity buckets a 0-100 risk score into the severity scale used for
// embed colors.
func riskSeverity(score int) string {
	switch {
	case score >= 90:
		return "critical"
	case score >= 70:
		return "high"
	case score >= 40:
		return "medium"
	case score >= 20:
		return "low"
	default:
		return "info"
	}
}

func severityColor(severity string) int {
	switch severity {
	case "critical":
		return 0x8B0000
	case "high":
		return 0xFF0000
	case "medium":
		return 0xFF8C00
	case "low":
		return 0xFFD700
	case "info":
		return 0x00BFFF
	default:
		return 0x808080
	}
}
