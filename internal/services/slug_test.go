package services

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"My Project 2", "my-project-2"},
		{"Café Étude", "cafe-etude"},
		{"  leading and trailing  ", "leading-and-trailing"},
		{"Multiple---separators___here", "multiple-separators-here"},
		{"UPPER", "upper"},
		{"already-slugged", "already-slugged"},
		{"!!!", ""},
		{"", ""},
		{"Trailing punctuation!", "trailing-punctuation"},
	}
	for _, tc := range tests {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
