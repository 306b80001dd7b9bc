// Package transport holds the outbound collaborators of a dispatch: the
// clipboard hand-off for the rendered image and the mail-client invocation.
// Both are interfaces so the dispatch flow can be exercised with fakes.
package transport

// Clipboard receives the rendered PNG bytes. A dispatch only counts as
// delivered to the outbound channel once Copy returns nil.
type Clipboard interface {
	Copy(image []byte) error
}

// MailClient opens the operator's mail client with a prefilled message.
// The open is fire-and-forget: callers must not treat its result as proof of
// delivery.
type MailClient interface {
	Open(address, subject, body string) error
}
