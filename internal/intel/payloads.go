package intel

import (
	"time"

	"reconai/pkg/portscan"
)

// WhoisInfo is the registration data extracted from a WHOIS response.
type WhoisInfo struct {
	Registrar      string   `json:"registrar"`
	CreationDate   string   `json:"creation_date"`
	ExpirationDate string   `json:"expiration_date"`
	NameServers    []string `json:"name_servers"`
	Status         []string `json:"status"`
	Emails         []string `json:"emails"`
	Org            string   `json:"org"`
	Country        string   `json:"country"`
	Error          string   `json:"error,omitempty"`
}

type Subdomain struct {
	Subdomain   string   `json:"subdomain"`
	IPAddresses []string `json:"ip_addresses"`
}

type ReverseDNSEntry struct {
	IP       string `json:"ip"`
	Hostname string `json:"hostname"`
}

// DomainPayload carries WHOIS, DNS, and subdomain intelligence.
type DomainPayload struct {
	Target      string              `json:"target"`
	Timestamp   time.Time           `json:"timestamp"`
	Whois       WhoisInfo           `json:"whois"`
	DNSRecords  map[string][]string `json:"dns_records"`
	Subdomains  []Subdomain         `json:"subdomains"`
	IPAddresses []string            `json:"ip_addresses"`
	Nameservers []string            `json:"nameservers"`
	MailServers []string            `json:"mail_servers"`
	ReverseDNS  []ReverseDNSEntry   `json:"reverse_dns"`
}

func (*DomainPayload) ModuleName() string { return ModuleDomain }

// SecurityHeaders grades the response against the audited header set.
type SecurityHeaders struct {
	Headers map[string]string `json:"headers"`
	Score   string            `json:"score"`
	Grade   string            `json:"grade"`
}

// TLSInfo describes the certificate served on port 443.
type TLSInfo struct {
	SubjectCN    string    `json:"subject_cn,omitempty"`
	Issuer       string    `json:"issuer,omitempty"`
	NotBefore    time.Time `json:"not_before,omitempty"`
	NotAfter     time.Time `json:"not_after,omitempty"`
	SerialNumber string    `json:"serial_number,omitempty"`
	Protocol     string    `json:"protocol,omitempty"`
	SAN          []string  `json:"san,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// WebPayload carries HTTP service intelligence for both schemes.
type WebPayload struct {
	Target          string            `json:"target"`
	Timestamp       time.Time         `json:"timestamp"`
	StatusCodes     map[string]int    `json:"status_codes"`
	HTTPHeaders     map[string]string `json:"http_headers"`
	HTTPSHeaders    map[string]string `json:"https_headers"`
	SecurityHeaders SecurityHeaders   `json:"security_headers"`
	Technologies    []string          `json:"technologies"`
	TLS             TLSInfo           `json:"ssl_info"`
	RobotsTxt       string            `json:"robots_txt,omitempty"`
	Sitemap         string            `json:"sitemap,omitempty"`
}

func (*WebPayload) ModuleName() string { return ModuleWeb }

// NetworkPayload is the port reconnaissance result: the ordered per-port
// list plus the derived open/closed, service, and banner views.
type NetworkPayload struct {
	Target      string                `json:"target"`
	IPAddress   string                `json:"ip_address"`
	Timestamp   time.Time             `json:"timestamp"`
	Ports       []portscan.PortResult `json:"ports"`
	OpenPorts   []int                 `json:"open_ports"`
	ClosedPorts []int                 `json:"closed_ports"`
	Services    map[int]string        `json:"services"`
	Banners     map[int]string        `json:"banners"`
}

func (*NetworkPayload) ModuleName() string { return ModuleNetwork }

type GitHubOrg struct {
	Name        string `json:"name"`
	Login       string `json:"login"`
	Description string `json:"description"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	CreatedAt   string `json:"created_at"`
	URL         string `json:"url"`
}

type GitHubRepo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	URL         string `json:"url"`
}

type GitHubUser struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	URL         string `json:"url"`
}

type GitHubInfo struct {
	Organization *GitHubOrg   `json:"organization"`
	Repositories []GitHubRepo `json:"repositories"`
	Users        []GitHubUser `json:"users"`
}

// SocialPayload carries code-hosting and social platform presence.
type SocialPayload struct {
	Target         string            `json:"target"`
	Timestamp      time.Time         `json:"timestamp"`
	GitHub         GitHubInfo        `json:"github"`
	SocialProfiles map[string]string `json:"social_profiles"`
}

func (*SocialPayload) ModuleName() string { return ModuleSocial }

type Breach struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

type BreachCheck struct {
	Checked       bool     `json:"checked"`
	BreachesFound []Breach `json:"breaches_found"`
	TotalBreaches int      `json:"total_breaches"`
	Note          string   `json:"note"`
}

type Reputation struct {
	Score      int      `json:"score"`
	Status     string   `json:"status"`
	Categories []string `json:"categories"`
	Note       string   `json:"note"`
}

// ThreatPayload carries breach history and reputation signal.
type ThreatPayload struct {
	Target      string      `json:"target"`
	Timestamp   time.Time   `json:"timestamp"`
	BreachCheck BreachCheck `json:"breach_check"`
	Reputation  Reputation  `json:"reputation"`
}

func (*ThreatPayload) ModuleName() string { return ModuleThreat }
