package transport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestMailtoURL(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		subject  string
		body     string
		expected string
	}{
		{
			name:     "Spaces percent encoded",
			address:  "a@x.com",
			subject:  "A personalized image for you",
			body:     "Hi Bob",
			expected: "mailto:a@x.com?subject=A%20personalized%20image%20for%20you&body=Hi%20Bob",
		},
		{
			name:     "Newlines encoded",
			address:  "b@x.com",
			subject:  "Hello",
			body:     "Hi Bob,\n\nBest",
			expected: "mailto:b@x.com?subject=Hello&body=Hi%20Bob%2C%0A%0ABest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MailtoURL(tt.address, tt.subject, tt.body); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestMailtoOpenerUsesInjectedOpen(t *testing.T) {
	var opened string
	opener := NewMailtoOpener(func(rawURL string) error {
		opened = rawURL
		return nil
	}, zap.NewNop().Sugar())

	if err := opener.Open("a@x.com", "Hello", "Hi"); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if !strings.HasPrefix(opened, "mailto:a@x.com?") {
		t.Errorf("unexpected mailto URL: %q", opened)
	}
}

func TestFileClipboardOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outbox")
	clip, err := NewFileClipboard(dir)
	if err != nil {
		t.Fatalf("failed to create clipboard: %v", err)
	}

	if err := clip.Copy([]byte("first")); err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if err := clip.Copy([]byte("second")); err != nil {
		t.Fatalf("second copy failed: %v", err)
	}

	data, err := os.ReadFile(clip.Path())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("expected latest copy to win, got %q", data)
	}
}
