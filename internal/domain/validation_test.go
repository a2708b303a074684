package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewCandidateProfile_TrimsAndValidates(t *testing.T) {
	p, err := NewCandidateProfile("  Jane Doe ", " 5 years Go ", " Backend Engineer ", "", " Acme ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Jane Doe" || p.CVText != "5 years Go" || p.JobTitle != "Backend Engineer" || p.CompanyName != "Acme" {
		t.Fatalf("expected trimmed fields, got %+v", p)
	}
}

func TestNewCandidateProfile_MissingRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		cv     string
		fields []string
	}{
		{"", "cv", []string{"name"}},
		{"Jane", "   ", []string{"cv_text"}},
		{" ", "", []string{"name", "cv_text"}},
	}
	for _, tc := range cases {
		_, err := NewCandidateProfile(tc.name, tc.cv, "", "", "")
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for %q/%q, got %v", tc.name, tc.cv, err)
		}
		if !reflect.DeepEqual(verr.Fields, tc.fields) {
			t.Fatalf("expected fields %v, got %v", tc.fields, verr.Fields)
		}
	}
}

func TestNewCandidateProfile_OptionalFieldsMayBeEmpty(t *testing.T) {
	if _, err := NewCandidateProfile("Jane", "cv", "", "", ""); err != nil {
		t.Fatalf("optional fields must not be required: %v", err)
	}
}
