package util

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s`)

// SafeFileName replaces each whitespace character with an underscore so the
// name can be used in Content-Disposition headers and on disk.
// Example: "Team Award 2025" -> "Team_Award_2025"
func SafeFileName(name string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(name), "_")
}

// ExportFileName builds the download name for an image-free template
// settings file. Example: "Team Award" -> "Team_Award-settings.json"
func ExportFileName(templateName string) string {
	return SafeFileName(templateName) + "-settings.json"
}

// CertificateFileName builds the download name for a rendered certificate.
// Falls back to a generic name when the recipient name is blank.
func CertificateFileName(recipientName string) string {
	safe := SafeFileName(recipientName)
	if safe == "" {
		safe = "personalized_image"
	}
	return "Personalized-" + safe + ".png"
}
