package models

// OutcomeStatus tags a SubmissionOutcome
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailure OutcomeStatus = "failure"
)

// SubmissionOutcome is the single user-facing result of a lead submission.
// A CRM or email failure alone still yields OutcomeSuccess; only failures
// before any sink is attempted produce OutcomeFailure.
type SubmissionOutcome struct {
	Status       OutcomeStatus `json:"status"`
	Message      string        `json:"message"`
	SubmissionID string        `json:"submissionId,omitempty"`
	CRMSucceeded bool          `json:"crmSubmitted"`
	EmailSent    bool          `json:"emailSent"`
	LeadID       string        `json:"leadId,omitempty"`
	// FieldErrors carries per-field messages when the server rejected the form
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

// Success builds a success outcome
func Success(message string, crmSucceeded bool) *SubmissionOutcome {
	return &SubmissionOutcome{Status: OutcomeSuccess, Message: message, CRMSucceeded: crmSucceeded}
}

// Failure builds a failure outcome
func Failure(message string) *SubmissionOutcome {
	return &SubmissionOutcome{Status: OutcomeFailure, Message: message}
}

// Succeeded reports whether the outcome is a success
func (o *SubmissionOutcome) Succeeded() bool {
	return o != nil && o.Status == OutcomeSuccess
}

// ContactChannels are the fallback ways to reach the business, returned with
// every submission response regardless of outcome.
type ContactChannels struct {
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp"`
}

// SubmissionResponse is the JSON body of a 200 from the form routes
type SubmissionResponse struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	SubmissionID string          `json:"submissionId,omitempty"`
	CRMSubmitted bool            `json:"crmSubmitted"`
	Contact      ContactChannels `json:"contact"`
}

// ErrorResponse is the JSON body of a 4xx/5xx from the form routes
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
	Contact *ContactChannels  `json:"contact,omitempty"`
}

// LeadRecord is one journaled submission
type LeadRecord struct {
	SubmissionID    string
	Form            string
	Name            string
	Phone           string
	Email           string
	City            string
	ServiceInterest string
	CRMSucceeded    bool
	CRMLeadID       string
	EmailSent       bool
}
