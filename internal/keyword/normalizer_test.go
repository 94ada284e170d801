package keyword

import "testing"

func TestNormalize(t *testing.T) {
	norm := NewNormalizer([]string{"it", "the", "and", "IS"})

	tests := []struct {
		name  string
		token string
		want  string
		ok    bool
	}{
		{"lowercases and strips trailing period", "Fig.", "fig", true},
		{"plain word passes through", "ocean", "ocean", true},
		{"mixed case", "WhAlE", "whale", true},
		{"strips repeated punctuation", "deep?!,", "deep", true},
		{"strips colon and semicolon", "depths:;", "depths", true},
		{"noise word rejected", "it", "", false},
		{"noise word rejected case-insensitively", "The", "", false},
		{"noise set lowercased at construction", "is", "", false},
		{"single character rejected", "a", "", false},
		{"single letter with punctuation rejected", "a.", "", false},
		{"empty token rejected", "", "", false},
		{"all punctuation rejected", "...", "", false},
		{"trailing digit rejected", "abc123", "", false},
		{"trailing symbol rejected", "word)", "", false},
		{"embedded hyphen rejected", "equi-distant", "", false},
		{"embedded digit rejected", "a1c", "", false},
		{"embedded apostrophe rejected", "don't", "", false},
		{"digits only rejected", "1234", "", false},
		{"punctuation only in middle rejected", "state.of", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := norm.Normalize(tt.token)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Normalize(%q) = (%q, %v), want (%q, %v)",
					tt.token, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	norm := NewNormalizer(nil)
	words := []string{"Fig.", "Whale", "ocean!!", "deep"}
	for _, w := range words {
		first, ok := norm.Normalize(w)
		if !ok {
			t.Fatalf("Normalize(%q) unexpectedly rejected", w)
		}
		second, ok := norm.Normalize(first)
		if !ok || second != first {
			t.Errorf("Normalize not idempotent for %q: first %q, second (%q, %v)",
				w, first, second, ok)
		}
	}
}

func TestNoiseWordCheckedBeforeStripping(t *testing.T) {
	// "it." is not in the noise set as written; the noise check runs on
	// the full lowercased token before punctuation stripping, so the
	// stripped form still has to pass the remaining checks.
	norm := NewNormalizer([]string{"it"})
	got, ok := norm.Normalize("it.")
	if !ok || got != "it" {
		t.Errorf("Normalize(%q) = (%q, %v), want (%q, true)", "it.", got, ok, "it")
	}
}
