package analysis

import (
	"fmt"
	"strings"

	"reconai/internal/intel"
)

// BuildDigest condenses the typed module payloads into the plain-text
// intelligence summary the prompts are built around. Only findings worth the
// provider's attention make it in; raw blobs stay out of the context window.
func BuildDigest(target string, report *intel.Report) string {
	var parts []string

	if domain, ok := payloadAs[*intel.DomainPayload](report, intel.ModuleDomain); ok {
		parts = append(parts, "Domain Intelligence:")
		parts = append(parts, fmt.Sprintf("- IP Addresses: %s", strings.Join(domain.IPAddresses, ", ")))
		parts = append(parts, fmt.Sprintf("- Nameservers: %s", strings.Join(domain.Nameservers, ", ")))
		parts = append(parts, fmt.Sprintf("- Subdomains found: %d", len(domain.Subdomains)))
		if domain.Whois.Registrar != "" {
			parts = append(parts, fmt.Sprintf("- Registrar: %s", domain.Whois.Registrar))
			parts = append(parts, fmt.Sprintf("- Creation date: %s", domain.Whois.CreationDate))
		}
	}

	if web, ok := payloadAs[*intel.WebPayload](report, intel.ModuleWeb); ok {
		parts = append(parts, "\nWeb Intelligence:")
		parts = append(parts, fmt.Sprintf("- Technologies: %s", strings.Join(web.Technologies, ", ")))
		if web.SecurityHeaders.Score != "" {
			parts = append(parts, fmt.Sprintf("- Security headers score: %s (Grade: %s)",
				web.SecurityHeaders.Score, web.SecurityHeaders.Grade))
		}
		if !web.TLS.NotAfter.IsZero() {
			parts = append(parts, fmt.Sprintf("- SSL certificate expires: %s", web.TLS.NotAfter))
		}
	}

	if network, ok := payloadAs[*intel.NetworkPayload](report, intel.ModuleNetwork); ok {
		parts = append(parts, "\nNetwork Intelligence:")

		openPorts := make([]string, len(network.OpenPorts))
		for i, port := range network.OpenPorts {
			openPorts[i] = fmt.Sprintf("%d", port)
		}
		parts = append(parts, fmt.Sprintf("- Open ports: %s", strings.Join(openPorts, ", ")))

		if len(network.Services) > 0 {
			services := make([]string, 0, len(network.Services))
			for _, port := range network.OpenPorts {
				if svc, ok := network.Services[port]; ok {
					services = append(services, svc)
				}
			}
			parts = append(parts, fmt.Sprintf("- Services detected: %s", strings.Join(services, ", ")))
		}
	}

	if social, ok := payloadAs[*intel.SocialPayload](report, intel.ModuleSocial); ok {
		parts = append(parts, "\nSocial Intelligence:")
		if org := social.GitHub.Organization; org != nil {
			parts = append(parts, fmt.Sprintf("- GitHub organization: %s (%d public repos)",
				org.Name, org.PublicRepos))
		}

		var activeProfiles []string
		for platform, url := range social.SocialProfiles {
			if url != "" {
				activeProfiles = append(activeProfiles, platform)
			}
		}
		if len(activeProfiles) > 0 {
			parts = append(parts, fmt.Sprintf("- Social profiles: %s", strings.Join(activeProfiles, ", ")))
		}
	}

	if threat, ok := payloadAs[*intel.ThreatPayload](report, intel.ModuleThreat); ok {
		parts = append(parts, "\nThreat Intelligence:")
		if threat.BreachCheck.TotalBreaches > 0 {
			parts = append(parts, fmt.Sprintf("- Data breaches found: %d", threat.BreachCheck.TotalBreaches))
		}
		if threat.Reputation.Status != "" {
			parts = append(parts, fmt.Sprintf("- Reputation status: %s", threat.Reputation.Status))
		}
	}

	if person, ok := payloadAs[*intel.PersonPayload](report, intel.ModulePerson); ok {
		parts = append(parts, "\nPerson Intelligence:")
		parts = append(parts, fmt.Sprintf("- Criminal record sources checked: %d", len(person.CriminalRecords)))
		parts = append(parts, fmt.Sprintf("- Court record sources checked: %d", len(person.CourtCases)))
		if person.State != "" {
			parts = append(parts, fmt.Sprintf("- State: %s", person.State))
		}
	}

	// Failed modules still inform the analysis: a module that could not run
	// is itself a visibility gap.
	for _, module := range report.Modules() {
		if outcome, ok := report.Outcome(module); ok && !outcome.OK() {
			parts = append(parts, fmt.Sprintf("\n%s module failed: %s", module, outcome.Err))
		}
	}

	if len(parts) == 0 {
		return fmt.Sprintf("No intelligence gathered for %s", target)
	}
	return strings.Join(parts, "\n")
}

// payloadAs fetches a module payload and narrows it to its concrete type. A
// payload of an unexpected type is skipped rather than panicking the digest.
func payloadAs[T intel.Payload](report *intel.Report, module string) (T, bool) {
	var zero T
	p, ok := report.Payload(module)
	if !ok {
		return zero, false
	}
	typed, ok := p.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
