package transport

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// encodeComponent percent-encodes like JS encodeURIComponent: spaces become
// %20, never +, so mail clients decode the subject and body correctly.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// MailtoURL builds a mailto: request carrying the recipient address and a
// percent-encoded subject and body.
func MailtoURL(address, subject, body string) string {
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		address, encodeComponent(subject), encodeComponent(body))
}

// MailtoOpener opens mailto: URLs through an injected open func, defaulting
// to the platform opener.
type MailtoOpener struct {
	open   func(rawURL string) error
	logger *zap.SugaredLogger
}

func NewMailtoOpener(open func(rawURL string) error, logger *zap.SugaredLogger) *MailtoOpener {
	if open == nil {
		open = openWithSystem
	}
	return &MailtoOpener{open: open, logger: logger}
}

func (m *MailtoOpener) Open(address, subject, body string) error {
	rawURL := MailtoURL(address, subject, body)
	m.logger.Debugf("Opening mail client for %s", address)
	return m.open(rawURL)
}

func openWithSystem(rawURL string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL).Start()
	default:
		return exec.Command("xdg-open", rawURL).Start()
	}
}
