package identity

import (
	"strings"
	"testing"
)

func TestNewProducesValidIdentifiers(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := New()
		if !Valid(id) {
			t.Fatalf("New returned invalid identifier %q", id)
		}
		if _, ok := seen[id]; ok {
			t.Fatalf("New returned duplicate identifier %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestParse(t *testing.T) {
	valid := New()

	cases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "valid", input: valid, want: valid},
		{name: "uppercase is normalised", input: strings.ToUpper(valid), want: valid},
		{name: "surrounding whitespace", input: "  " + valid + "\n", want: valid},
		{name: "empty", input: "", wantErr: true},
		{name: "too short", input: valid[:23], wantErr: true},
		{name: "too long", input: valid + "0", wantErr: true},
		{name: "non hex characters", input: strings.Repeat("z", Length), wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Parse(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
