package domain

// DraftRequest carries the user's selections for one generation.
type DraftRequest struct {
	Description string   `json:"description"`
	Language    Language `json:"language"`
	Tone        Tone     `json:"tone"`
	Category    Category `json:"category"`
}

// Draft is the subject/body pair produced by the drafting service.
// Bracketed placeholders such as [Name] are a content convention of the
// service; they are passed through untouched.
type Draft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
