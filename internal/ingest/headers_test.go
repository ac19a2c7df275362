package ingest

import (
	"reflect"
	"testing"
)

func TestDetectHeaders(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    HeaderMapping
	}{
		{
			name:    "english export",
			headers: []string{"Email", "First Name", "Last Name", "Company", "Job Title"},
			want: HeaderMapping{
				FieldEmail:     0,
				FieldFirstName: 1,
				FieldLastName:  2,
				FieldCompany:   3,
				FieldJobTitle:  4,
			},
		},
		{
			name:    "french export",
			headers: []string{"Courriel", "Prénom", "Nom", "Entreprise", "Poste"},
			want: HeaderMapping{
				FieldEmail:     0,
				FieldFirstName: 1,
				FieldLastName:  2,
				FieldCompany:   3,
				FieldJobTitle:  4,
			},
		},
		{
			name:    "underscores and case folded",
			headers: []string{"EMAIL_ADDRESS", "first_name", "JOB_TITLE"},
			want: HeaderMapping{
				FieldEmail:     0,
				FieldFirstName: 1,
				FieldJobTitle:  2,
			},
		},
		{
			name:    "whitespace runs collapsed",
			headers: []string{"  email  ", "first   name"},
			want: HeaderMapping{
				FieldEmail:     0,
				FieldFirstName: 1,
			},
		},
		{
			name:    "accents optional in french headers",
			headers: []string{"Téléphone", "Société", "Secteur d'activité"},
			want: HeaderMapping{
				FieldPhone:    0,
				FieldCompany:  1,
				FieldIndustry: 2,
			},
		},
		{
			name:    "first matching column wins for a field",
			headers: []string{"Email", "E-mail", "Company"},
			want: HeaderMapping{
				FieldEmail:   0,
				FieldCompany: 2,
			},
		},
		{
			name:    "unknown headers ignored",
			headers: []string{"Email", "Favorite Color", "Company"},
			want: HeaderMapping{
				FieldEmail:   0,
				FieldCompany: 2,
			},
		},
		{
			name:    "bare name is not mapped",
			headers: []string{"Name", "Email"},
			want: HeaderMapping{
				FieldEmail: 1,
			},
		},
		{
			name:    "excel wrapped header",
			headers: []string{`="Email"`, "Company"},
			want: HeaderMapping{
				FieldEmail:   0,
				FieldCompany: 1,
			},
		},
		{
			name:    "empty row",
			headers: nil,
			want:    HeaderMapping{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectHeaders(tt.headers)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectHeaders(%v) = %v, want %v", tt.headers, got, tt.want)
			}
		})
	}
}

func TestDetectHeadersClaimsColumnsOnce(t *testing.T) {
	// "size" aliases employees; a column is consumed by at most one field
	// even when another field's alias list also matches it.
	got := DetectHeaders([]string{"Company Size", "Company"})
	want := HeaderMapping{
		FieldCompany:   1,
		FieldEmployees: 0,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DetectHeaders() = %v, want %v", got, want)
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Email", "email"},
		{"  E-MAIL  ", "e-mail"},
		{"first_name", "first name"},
		{"Téléphone", "telephone"},
		{"Nombre   d'employés", "nombre d'employes"},
		{" email ", "email"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeHeader(tt.in); got != tt.want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
