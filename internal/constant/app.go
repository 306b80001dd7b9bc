package constant

const (
	REQUEST_SUCCESSFUL   = "Request successful"
	REQUEST_UNSUCCESSFUL = "Request unsuccessful"
)

// Key under which the whole template collection is persisted. The collection
// is always read and written as one JSON array.
const TEMPLATE_STORAGE_KEY = "certificate_templates"

// Subject used when a template's email subject is left empty.
const DEFAULT_EMAIL_SUBJECT = "A personalized image for you"
