package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  audio  ", "audio"},
		{"Café Ünïcode", "Cafe Unicode"},
		{"a/b\\c:d*e", "a-b-c-d-e"},
		{"what?<is>|\"this\"", "whatisthis"},
		{"../secret", "-secret"},
		{".hidden", "hidden"},
		{"tab\there", "tabhere"},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFoldAccents(t *testing.T) {
	if got := FoldAccents("naïve résumé"); got != "naive resume" {
		t.Fatalf("unexpected fold %q", got)
	}
}
