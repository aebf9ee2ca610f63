package personalize

import "testing"

var fields = map[string]string{
	"first_name":   "Ada",
	"last_name":    "Lovelace",
	"company_name": "Analytical Engines",
	"email":        "ada@example.com",
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"all tokens", "Hi {first_name} {last_name} from {company_name} <{email}>",
			"Hi Ada Lovelace from Analytical Engines <ada@example.com>"},
		{"case insensitive", "Hi {FIRST_NAME} at {Company_Name}",
			"Hi Ada at Analytical Engines"},
		{"no tokens", "plain text", "plain text"},
		{"unknown token left verbatim", "Hi {nickname}, meet {first_name}",
			"Hi {nickname}, meet Ada"},
		{"malformed braces left verbatim", "open {first_name and {last_name}",
			"open {first_name and Lovelace"},
		{"empty template", "", ""},
		{"repeated token", "{first_name} {first_name}", "Ada Ada"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(tt.template, fields); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}

func TestApplyMissingFields(t *testing.T) {
	got := Apply("Hi {first_name} from {company_name}", map[string]string{"first_name": "Bo"})
	if got != "Hi Bo from " {
		t.Errorf("missing field should substitute empty string, got %q", got)
	}

	if got := Apply("Hi {first_name}", nil); got != "Hi " {
		t.Errorf("nil fields should not panic, got %q", got)
	}
}

func TestApplyIdempotent(t *testing.T) {
	once := Apply("Hello {first_name} from {company_name}", fields)
	twice := Apply(once, fields)
	if once != twice {
		t.Errorf("second pass changed output: %q vs %q", once, twice)
	}
}
