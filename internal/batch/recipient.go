package batch

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
)

// Recipient is one row of an imported batch. ID is the zero-based ingestion
// index of the row and stays stable for the life of the batch, it is never
// reused after rows are dropped.
type Recipient struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status Status `json:"status"`
}
