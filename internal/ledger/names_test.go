package ledger

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantKey     string
		wantDisplay string
	}{
		{name: "plain", raw: "Bob", wantKey: "bob", wantDisplay: "Bob"},
		{name: "surrounding whitespace", raw: "  bob\t", wantKey: "bob", wantDisplay: "bob"},
		{name: "upper case", raw: "BOB", wantKey: "bob", wantDisplay: "BOB"},
		{name: "internal whitespace collapsed", raw: "Mary   Ann\n Lee", wantKey: "mary ann lee", wantDisplay: "Mary Ann Lee"},
		{name: "decomposed accent composed", raw: "Jose\u0301", wantKey: "jos\u00e9", wantDisplay: "Jos\u00e9"},
		{name: "all caps", raw: "STRASSE", wantKey: "strasse", wantDisplay: "STRASSE"},
		{name: "blank", raw: "   ", wantKey: "", wantDisplay: ""},
		{name: "empty", raw: "", wantKey: "", wantDisplay: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, display := NormalizeName(tt.raw)
			if key != tt.wantKey {
				t.Errorf("key = %q, want %q", key, tt.wantKey)
			}
			if display != tt.wantDisplay {
				t.Errorf("display = %q, want %q", display, tt.wantDisplay)
			}
		})
	}
}

func TestSameName(t *testing.T) {
	if !SameName("Alice", " ALICE ") {
		t.Error("expected Alice and ' ALICE ' to be the same player")
	}
	if !SameName("Jos\u00e9", "jose\u0301") {
		t.Error("expected composed and decomposed accents to match")
	}
	if SameName("Alice", "Alicia") {
		t.Error("expected Alice and Alicia to differ")
	}
	if SameName("", " ") {
		t.Error("blank names never match")
	}
}
