package intel

import (
	"context"
	"testing"
)

func TestParseName(t *testing.T) {
	testCases := []struct {
		input  string
		parsed ParsedName
	}{
		{"Smith", ParsedName{FullName: "Smith", LastName: "Smith"}},
		{"John Smith", ParsedName{FullName: "John Smith", FirstName: "John", LastName: "Smith"}},
		{"John Michael Smith", ParsedName{FullName: "John Michael Smith", FirstName: "John", MiddleName: "Michael", LastName: "Smith"}},
		{"John Michael Smith Jr", ParsedName{FullName: "John Michael Smith Jr", FirstName: "John", MiddleName: "Michael", LastName: "Smith", Suffix: "Jr"}},
	}

	for _, tc := range testCases {
		if got := parseName(tc.input); got != tc.parsed {
			t.Errorf("parseName(%q) = %+v, expected %+v", tc.input, got, tc.parsed)
		}
	}
}

func TestPersonModule_WithState(t *testing.T) {
	payload, err := NewPersonModule().Collect(context.Background(), Target{
		Value: "Jane Doe",
		Kind:  "person",
		State: "CA",
	})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	person := payload.(*PersonPayload)
	if person.State != "CA" {
		t.Errorf("Expected state CA, got %q", person.State)
	}

	// NSOPW + federal + state system.
	if len(person.CriminalRecords) != 3 {
		t.Fatalf("Expected 3 criminal record sources, got %d", len(person.CriminalRecords))
	}
	if person.CriminalRecords[2].Source != "California Department of Justice" {
		t.Errorf("Unexpected state system: %q", person.CriminalRecords[2].Source)
	}

	// PACER + state courts + county courts.
	if len(person.CourtCases) != 3 {
		t.Fatalf("Expected 3 court sources, got %d", len(person.CourtCases))
	}
	if person.CourtCases[1].URL != "https://www.courts.ca.gov/" {
		t.Errorf("Unexpected state court URL: %q", person.CourtCases[1].URL)
	}

	if person.VoterRegistration.Contact != "CA Secretary of State - Elections Division" {
		t.Errorf("Unexpected voter contact: %q", person.VoterRegistration.Contact)
	}
}

func TestPersonModule_UnknownStateFallsBack(t *testing.T) {
	payload, err := NewPersonModule().Collect(context.Background(), Target{
		Value: "Jane Doe",
		State: "WY",
	})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	person := payload.(*PersonPayload)
	if person.CriminalRecords[2].Source != "WY State Criminal Records" {
		t.Errorf("Expected generic state system, got %q", person.CriminalRecords[2].Source)
	}
	if person.CourtCases[1].URL != "https://www.wycourts.gov" {
		t.Errorf("Expected derived court URL, got %q", person.CourtCases[1].URL)
	}
}

func TestPersonModule_WithoutState(t *testing.T) {
	payload, err := NewPersonModule().Collect(context.Background(), Target{Value: "John Smith"})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	person := payload.(*PersonPayload)
	if len(person.CriminalRecords) != 2 {
		t.Errorf("Expected federal sources only, got %d", len(person.CriminalRecords))
	}
	if person.VoterRegistration.State != "" {
		t.Error("No state should be recorded without a state hint")
	}
	if len(person.SocialMedia) != 3 {
		t.Errorf("Expected 3 social search URLs, got %d", len(person.SocialMedia))
	}
}
