package parsing

import "testing"

func TestValidateURL(t *testing.T) {
	t.Parallel()

	valid := []string{
		"https://www.youtube.com/watch?v=abc",
		"http://example.com/video",
		"https://youtu.be/abc123",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Fatalf("ValidateURL(%q): %v", u, err)
		}
	}

	invalid := []string{
		"",
		"not a url",
		"ftp://example.com/file",
		"file:///etc/passwd",
		"https://",
	}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Fatalf("ValidateURL(%q) should fail", u)
		}
	}
}

func TestBaseDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/watch?v=abc", "youtube.com"},
		{"https://music.youtube.com/watch?v=abc", "youtube.com"},
		{"https://youtu.be/abc", "youtu.be"},
		{"https://vimeo.com/12345", "vimeo.com"},
		{"http://localhost:8080/video", "localhost"},
	}
	for _, tt := range tests {
		got, err := BaseDomain(tt.in)
		if err != nil {
			t.Fatalf("BaseDomain(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("BaseDomain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsRestrictedSource(t *testing.T) {
	t.Parallel()

	restricted := []string{
		"https://www.youtube.com/watch?v=abc",
		"https://YOUTU.BE/abc",
		"https://music.youtube.com/watch?v=abc",
	}
	for _, u := range restricted {
		if !IsRestrictedSource(u) {
			t.Fatalf("IsRestrictedSource(%q) should be true", u)
		}
	}

	open := []string{
		"https://vimeo.com/12345",
		"https://example.com/notyoutube.com/abc",
		"http://localhost/video",
	}
	for _, u := range open {
		if IsRestrictedSource(u) {
			t.Fatalf("IsRestrictedSource(%q) should be false", u)
		}
	}
}
