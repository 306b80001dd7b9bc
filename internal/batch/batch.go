package batch

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/SengHong/CertSend/internal/constant"
	"github.com/SengHong/CertSend/internal/template"
	"github.com/SengHong/CertSend/internal/transport"
	"github.com/SengHong/CertSend/pkg/certimg"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoTemplateSelected = errors.New("a valid template must be selected first")
	ErrRecipientNotFound  = errors.New("recipient not found in batch")
	ErrDispatchInFlight   = errors.New("another dispatch is already in flight")
	ErrRenderFailed       = errors.New("failed to render certificate")
	ErrTransportFailed    = errors.New("failed to hand image to the clipboard")
)

// Renderer is the compositing dependency of a dispatch.
type Renderer interface {
	Render(baseImage []byte, req certimg.RenderRequest, displayName string) ([]byte, error)
}

// Batch owns the pending/sent partition of the current recipient list.
// Recipients enter pending on import, move to sent exactly once on a
// successful dispatch and never move back. At most one dispatch runs at a
// time: a second dispatch while one is in flight fails fast instead of
// queueing. The in-flight marker lets a caller show one row as busy and is
// cleared on every exit path.
type Batch struct {
	renderer  Renderer
	clipboard transport.Clipboard
	mail      transport.MailClient
	logger    *zap.SugaredLogger

	mu       sync.Mutex
	id       string
	pending  []Recipient
	sent     []Recipient
	inFlight int // recipient id currently dispatching, -1 when idle
}

func NewBatch(renderer Renderer, clipboard transport.Clipboard, mail transport.MailClient, logger *zap.SugaredLogger) *Batch {
	return &Batch{
		renderer:  renderer,
		clipboard: clipboard,
		mail:      mail,
		logger:    logger,
		inFlight:  -1,
	}
}

// Replace discards the whole current batch, pending and sent alike, and
// seeds a fresh pending set. Imports never merge.
func (b *Batch) Replace(recipients []Recipient) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.id = uuid.NewString()
	b.pending = make([]Recipient, len(recipients))
	copy(b.pending, recipients)
	for i := range b.pending {
		b.pending[i].Status = StatusPending
	}
	b.sent = nil

	b.logger.Infof("Loaded batch %s with %d recipients", b.id, len(b.pending))
	return b.id
}

func (b *Batch) ID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.id
}

func (b *Batch) Pending() []Recipient {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Recipient, len(b.pending))
	copy(out, b.pending)
	return out
}

func (b *Batch) Sent() []Recipient {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Recipient, len(b.sent))
	copy(out, b.sent)
	return out
}

func (b *Batch) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending) + len(b.sent)
}

// ProgressPct is 100*|sent|/total, or 0 for an empty batch.
func (b *Batch) ProgressPct() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := len(b.pending) + len(b.sent)
	if total == 0 {
		return 0
	}
	return 100 * float64(len(b.sent)) / float64(total)
}

// InFlight reports the recipient currently dispatching, if any.
func (b *Batch) InFlight() (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inFlight, b.inFlight >= 0
}

func (b *Batch) findLocked(id int) (Recipient, bool) {
	for i := range b.pending {
		if b.pending[i].ID == id {
			return b.pending[i], true
		}
	}
	for i := range b.sent {
		if b.sent[i].ID == id {
			return b.sent[i], true
		}
	}
	return Recipient{}, false
}

// SubstituteName fills every {{name}} token in the body template, falling
// back to the literal word "there" for a blank name.
func SubstituteName(bodyTemplate, name string) string {
	if strings.TrimSpace(name) == "" {
		name = "there"
	}
	return strings.ReplaceAll(bodyTemplate, "{{name}}", name)
}

// Dispatch renders the selected template for one recipient, hands the PNG to
// the clipboard and opens the mail client. Only the clipboard hand-off gates
// the pending-to-sent transition: the mailto open cannot report delivery, so
// its outcome is logged and otherwise ignored. A recipient already sent runs
// the same sequence with no membership change, so re-sends are idempotent.
func (b *Batch) Dispatch(recipientID int, tmpl *template.Template) error {
	if tmpl == nil || tmpl.Validate() != nil {
		return ErrNoTemplateSelected
	}

	b.mu.Lock()
	rec, ok := b.findLocked(recipientID)
	if !ok {
		b.mu.Unlock()
		return ErrRecipientNotFound
	}
	if b.inFlight >= 0 {
		b.mu.Unlock()
		return ErrDispatchInFlight
	}
	batchID := b.id
	b.inFlight = rec.ID
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.inFlight = -1
		b.mu.Unlock()
	}()

	img, err := b.renderer.Render(tmpl.ImageData, tmpl.RenderRequest(), rec.Name)
	if err != nil {
		b.logger.Errorf("Render failed for recipient %d (%s): %v", rec.ID, rec.Name, err)
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	if err := b.clipboard.Copy(img); err != nil {
		b.logger.Errorf("Clipboard copy failed for recipient %d (%s): %v", rec.ID, rec.Name, err)
		return fmt.Errorf("%w: %v", ErrTransportFailed, err)
	}

	subject := tmpl.EmailSubject
	if subject == "" {
		subject = constant.DEFAULT_EMAIL_SUBJECT
	}
	body := SubstituteName(tmpl.EmailBodyTemplate, rec.Name)

	// Fire-and-forget: the mail client surface cannot report back.
	if err := b.mail.Open(rec.Email, subject, body); err != nil {
		b.logger.Warnf("Mail client open failed for recipient %d (%s): %v", rec.ID, rec.Name, err)
	}

	if rec.Status == StatusPending {
		b.markSent(batchID, rec.ID)
	}

	return nil
}

func (b *Batch) markSent(batchID string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// An import may have replaced the batch while the send ran. The result
	// belongs to a recipient that no longer exists, not to whoever holds the
	// same id in the new batch.
	if b.id != batchID {
		return
	}

	for i := range b.pending {
		if b.pending[i].ID == id {
			rec := b.pending[i]
			rec.Status = StatusSent

			b.pending = append(b.pending[:i], b.pending[i+1:]...)
			b.sent = append(b.sent, rec)
			// Sent list reads in import order no matter the dispatch order.
			sort.Slice(b.sent, func(x, y int) bool { return b.sent[x].ID < b.sent[y].ID })
			return
		}
	}
}
