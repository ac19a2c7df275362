package ingest

import (
	"io"
	"strings"
	"testing"
)

func TestSanitizedReader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "clean ascii passes through",
			input: "email,company",
			want:  "email,company",
		},
		{
			name:  "bom stripped",
			input: "\xef\xbb\xbfemail",
			want:  "email",
		},
		{
			name:  "bom only",
			input: "\xef\xbb\xbf",
			want:  "",
		},
		{
			name:  "short input is not a bom",
			input: "ab",
			want:  "ab",
		},
		{
			name:  "valid multibyte preserved",
			input: "Élodie,Müller,日本",
			want:  "Élodie,Müller,日本",
		},
		{
			name:  "invalid byte replaced",
			input: "caf\xe9,inc",
			want:  "caf?,inc",
		},
		{
			name:  "each invalid byte replaced separately",
			input: "a\xff\xfeb",
			want:  "a??b",
		},
		{
			name:  "truncated sequence at end replaced",
			input: "abc\xc3",
			want:  "abc?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(newSanitizedReader(strings.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("sanitized = %q, want %q", got, tt.want)
			}
		})
	}
}

// Small read buffers force multibyte sequences to straddle Read calls.
type oneByteReader struct{ r io.Reader }

func (o oneByteReader) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return o.r.Read(p)
}

func TestSanitizedReaderSplitSequences(t *testing.T) {
	input := "Élodie café 日本"
	got, err := io.ReadAll(newSanitizedReader(oneByteReader{strings.NewReader(input)}))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != input {
		t.Errorf("sanitized = %q, want %q", got, input)
	}
}
