package types

// WizardInput is the raw wizard-input document collected from the user before
// any normalization. It is deliberately loose: every field is optional and
// free-form, and each normalizer defensively reads only the subkeys it needs.
//
// Multi-line string fields (Skills, each Experience/Education/Projects entry)
// are split into line-based lists during normalization; the leading line of an
// entry is treated as a title or degree heuristically.
type WizardInput struct {
	// Free text describing the candidate in one or two sentences.
	Summary string `json:"summary,omitempty"`

	// Free text, one skill or "Category: a, b, c" grouping per line.
	Skills string `json:"skills,omitempty"`

	// One multi-line free-text entry per role. The first line is the
	// heading ("Title | Company | Dates"); remaining lines become bullets.
	Experience []string `json:"experience,omitempty"`

	// One multi-line free-text entry per education record. The first line
	// is the degree heading; remaining lines become details.
	Education []string `json:"education,omitempty"`

	// One entry per certification, "Title - Issuer" or multi-line.
	Certifications []string `json:"certifications,omitempty"`

	// One multi-line free-text entry per project. First line is the name;
	// a "Tech:" line lists technologies; remaining lines become bullets.
	Projects []string `json:"projects,omitempty"`

	// One entry per language, "Language - Level" or "Language (Level)".
	Languages []string `json:"languages,omitempty"`

	// Structured hints surfaced in the additional information section.
	VisaStatus     string `json:"visa_status,omitempty"`
	Location       string `json:"location,omitempty"`
	WorkPreference string `json:"work_preference,omitempty"`

	// Contact hints.
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`

	// Free-form notes carried into the additional information section.
	Notes []string `json:"notes,omitempty"`
}
