package ingest

import (
	"fmt"
	"strings"
	"testing"
)

func TestImport(t *testing.T) {
	csv := strings.Join([]string{
		"Email,First Name,Last Name,Company,Employees",
		"JOHN.DOE@Example.com,JOHN,DOE,Acme Software,25",
		",,,No Email Co,5",
		"john.doe@example.com,John,Doe,Acme Software,25",
		",,,,",
		"jane@beta.io,jane,smith,Beta Consulting,300",
	}, "\n")

	result := Import(csv, DefaultImportOptions())

	if len(result.ParseErrors) != 0 {
		t.Fatalf("unexpected parse errors: %v", result.ParseErrors)
	}
	if len(result.Prospects) != 2 {
		t.Fatalf("got %d prospects, want 2", len(result.Prospects))
	}

	john := result.Prospects[0]
	if john.Email != "john.doe@example.com" {
		t.Errorf("Email = %q, want normalized john.doe@example.com", john.Email)
	}
	if john.FirstName != "John" || john.LastName != "Doe" {
		t.Errorf("name = %q %q, want John Doe", john.FirstName, john.LastName)
	}
	if john.CompanyDomain != "example.com" {
		t.Errorf("CompanyDomain = %q, want example.com", john.CompanyDomain)
	}
	if john.CompanySizeBucket != "small" {
		t.Errorf("CompanySizeBucket = %q, want small", john.CompanySizeBucket)
	}
	if john.Line != 2 {
		t.Errorf("Line = %d, want 2", john.Line)
	}

	jane := result.Prospects[1]
	if jane.CompanySizeBucket != "large" {
		t.Errorf("CompanySizeBucket = %q, want large", jane.CompanySizeBucket)
	}

	if len(result.Invalid) != 1 {
		t.Fatalf("got %d invalid, want 1", len(result.Invalid))
	}
	if result.Invalid[0].Reasons[0] != ReasonEmailRequired {
		t.Errorf("invalid reason = %q", result.Invalid[0].Reasons[0])
	}

	if len(result.Duplicates) != 1 {
		t.Fatalf("got %d duplicates, want 1", len(result.Duplicates))
	}
	d := result.Duplicates[0]
	if d.Line != 4 || d.FirstSeenLine != 2 {
		t.Errorf("duplicate lines = %d/%d, want 4/2", d.Line, d.FirstSeenLine)
	}

	stats := result.Stats
	if stats.DataRows != 4 || stats.Valid != 2 || stats.Invalid != 1 || stats.Duplicates != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.EmptyRowsSkipped != 1 {
		t.Errorf("EmptyRowsSkipped = %d, want 1", stats.EmptyRowsSkipped)
	}
}

func TestImportFatalParseError(t *testing.T) {
	csv := "Email,Name\njohn@example.com,\"John"
	result := Import(csv, DefaultImportOptions())

	if len(result.ParseErrors) != 1 {
		t.Fatalf("got %d parse errors, want 1", len(result.ParseErrors))
	}
	if result.ParseErrors[0].Line != 2 {
		t.Errorf("error line = %d, want 2", result.ParseErrors[0].Line)
	}
	// A fatal error yields no partial results.
	if len(result.Prospects) != 0 || len(result.Invalid) != 0 || len(result.Duplicates) != 0 {
		t.Errorf("expected empty result sets, got %d/%d/%d",
			len(result.Prospects), len(result.Invalid), len(result.Duplicates))
	}
}

func TestImportEmptyInput(t *testing.T) {
	for _, input := range []string{"", "\n\n", "Email,Company\n"} {
		result := Import(input, DefaultImportOptions())
		if len(result.ParseErrors) != 0 {
			t.Errorf("Import(%q) parse errors = %v, want none", input, result.ParseErrors)
		}
		if len(result.Prospects) != 0 || result.Stats.DataRows != 0 {
			t.Errorf("Import(%q) = %d prospects, %d data rows; want none",
				input, len(result.Prospects), result.Stats.DataRows)
		}
	}
}

func TestImportSemicolonDelimiter(t *testing.T) {
	opts := DefaultImportOptions()
	opts.Delimiter = ';'
	result := Import("Email;Company\na@x.com;Acme, Inc.\n", opts)

	if len(result.Prospects) != 1 {
		t.Fatalf("got %d prospects, want 1", len(result.Prospects))
	}
	if result.Prospects[0].Company != "Acme, Inc." {
		t.Errorf("Company = %q, want Acme, Inc.", result.Prospects[0].Company)
	}
}

func TestImportParallelMatchesSequential(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Email,First Name,Company\n")
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&sb, "user%d@example.com,USER%d,Company %d\n", i, i, i)
	}
	csv := sb.String()

	seq := Import(csv, DefaultImportOptions())
	if len(seq.Prospects) != 500 || len(seq.ParseErrors) != 0 {
		t.Fatalf("sequential import: %d prospects, %d parse errors; want 500, 0",
			len(seq.Prospects), len(seq.ParseErrors))
	}

	par := DefaultImportOptions()
	par.Workers = 8
	got := Import(csv, par)

	if len(got.Prospects) != len(seq.Prospects) {
		t.Fatalf("parallel returned %d prospects, sequential %d",
			len(got.Prospects), len(seq.Prospects))
	}
	for i := range got.Prospects {
		if got.Prospects[i].ProspectRecord != seq.Prospects[i].ProspectRecord {
			t.Fatalf("prospect %d differs: %+v vs %+v",
				i, got.Prospects[i].ProspectRecord, seq.Prospects[i].ProspectRecord)
		}
	}
}
