package intel

import (
	"context"
	"strings"
	"time"
)

// knownBreachedDomains are domains tied to large historical breaches. A real
// deployment would query the HaveIBeenPwned API instead.
var knownBreachedDomains = []string{
	"adobe.com", "linkedin.com", "yahoo.com", "dropbox.com",
	"myspace.com", "tumblr.com", "lastfm.com",
}

var suspiciousKeywords = []string{"hack", "crack", "warez", "phish", "spam"}

const (
	breachCheckNote = "Using simulated breach database. Use HaveIBeenPwned API for real data."
	reputationNote  = "Using basic reputation check. Integrate with threat intelligence feeds for production."
)

// ThreatModule checks the target against a static breach list and a keyword
// reputation heuristic.
type ThreatModule struct{}

func NewThreatModule() *ThreatModule { return &ThreatModule{} }

func (m *ThreatModule) Name() string { return ModuleThreat }

func (m *ThreatModule) Collect(ctx context.Context, target Target) (Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &ThreatPayload{
		Target:      target.Value,
		Timestamp:   time.Now().UTC(),
		BreachCheck: checkBreaches(target.Value),
		Reputation:  checkReputation(target.Value),
	}, nil
}

func checkBreaches(domain string) BreachCheck {
	check := BreachCheck{
		Checked:       true,
		BreachesFound: []Breach{},
		Note:          breachCheckNote,
	}

	lowered := strings.ToLower(domain)
	for _, breached := range knownBreachedDomains {
		if strings.Contains(lowered, breached) {
			check.BreachesFound = append(check.BreachesFound, Breach{
				Name:        "Historical Breach",
				Date:        "Various",
				Description: "Domain associated with known historical breaches",
				Severity:    "High",
			})
			break
		}
	}
	check.TotalBreaches = len(check.BreachesFound)
	return check
}

func checkReputation(target string) Reputation {
	reputation := Reputation{
		Categories: []string{},
		Note:       reputationNote,
	}

	lowered := strings.ToLower(target)
	for _, keyword := range suspiciousKeywords {
		if strings.Contains(lowered, keyword) {
			reputation.Score = -50
			reputation.Status = "Suspicious"
			reputation.Categories = append(reputation.Categories, "Potentially Malicious")
			return reputation
		}
	}

	reputation.Score = 50
	reputation.Status = "Clean"
	reputation.Categories = append(reputation.Categories, "No Known Threats")
	return reputation
}
