package form

import (
	"context"
	"errors"
	"sync"

	"github.com/pestpro/pestpro-api/internal/models"
	"github.com/pestpro/pestpro-api/pkg/logger"
	"go.uber.org/zap"
)

// State of a form instance
type State int

const (
	StateEditing State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// GenericFailureMessage is shown when the submission never got an answer.
const GenericFailureMessage = "Failed to submit your request. Please try again or call us directly."

var (
	// ErrInvalid is returned by Submit when validation kept the form in editing.
	ErrInvalid = errors.New("form has validation errors")
	// ErrSubmitInFlight is returned by Submit while a previous submit is pending.
	ErrSubmitInFlight = errors.New("submission already in progress")
)

// Submitter delivers a validated form to the intake routes
type Submitter interface {
	Submit(ctx context.Context, kind Kind, d Data) (*models.SubmissionOutcome, error)
}

// DraftClearer drops a persisted draft once its form has been submitted
type DraftClearer interface {
	Clear(ctx context.Context) error
}

// Banner is the success or error notice shown above the form
type Banner struct {
	Success bool
	Message string
}

// FieldChangeFunc is the callback inputs use to report edits.
type FieldChangeFunc func(field, value string)

// Controller owns the state of one form instance for one page visit.
type Controller struct {
	mu        sync.Mutex
	kind      Kind
	data      Data
	errors    Errors
	state     State
	banner    *Banner
	submitter Submitter
	drafts    DraftClearer
}

// Option configures a Controller
type Option func(*Controller)

// WithInitialData pre-fills the form, e.g. from a restored draft
func WithInitialData(d Data) Option {
	return func(c *Controller) { c.data = d.Clone() }
}

// WithDraftClearer clears the persisted draft after a successful submit
func WithDraftClearer(dc DraftClearer) Option {
	return func(c *Controller) { c.drafts = dc }
}

// NewController creates a controller in the editing state
func NewController(kind Kind, submitter Submitter, opts ...Option) *Controller {
	c := &Controller{
		kind:      kind,
		errors:    Errors{},
		state:     StateEditing,
		submitter: submitter,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetField updates one field. It clears that field's error (and only that
// one) and dismisses a previous success/error banner.
func (c *Controller) SetField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.data.Set(field, value); err != nil {
		return err
	}
	c.edited(field)
	return nil
}

// OnChange adapts SetField to the input callback signature. Unknown fields
// are logged and ignored.
func (c *Controller) OnChange() FieldChangeFunc {
	return func(field, value string) {
		if err := c.SetField(field, value); err != nil {
			logger.Warn("Ignoring edit to unknown form field", zap.String("field", field))
		}
	}
}

// TogglePestType selects or deselects one pest tag
func (c *Controller) TogglePestType(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data.TogglePest(tag)
	c.edited(FieldPestTypes)
}

func (c *Controller) edited(field string) {
	delete(c.errors, field)
	if field == FieldAddress || field == FieldStreetAddress {
		delete(c.errors, FieldAddress)
		delete(c.errors, FieldStreetAddress)
	}
	if c.state == StateSucceeded || c.state == StateFailed {
		c.state = StateEditing
		c.banner = nil
	}
}

// Submit validates the form and, if valid, hands it to the submitter. On
// success the fields are reset and the persisted draft is cleared; on failure
// the entered values are kept. A transport error is returned alongside a
// failure outcome.
func (c *Controller) Submit(ctx context.Context) (*models.SubmissionOutcome, error) {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}

	errs := Validate(c.kind, c.data)
	if !errs.Valid() {
		c.errors = errs
		c.state = StateEditing
		c.banner = nil
		c.mu.Unlock()
		return nil, ErrInvalid
	}

	c.errors = Errors{}
	c.state = StateSubmitting
	c.banner = nil
	snapshot := c.data.Clone()
	c.mu.Unlock()

	outcome, err := c.submitter.Submit(ctx, c.kind, snapshot)
	if err != nil {
		logger.Warn("Form submission failed", zap.String("form", string(c.kind)), zap.Error(err))
		outcome = models.Failure(GenericFailureMessage)
	} else if outcome == nil {
		outcome = models.Failure(GenericFailureMessage)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !outcome.Succeeded() {
		c.state = StateFailed
		c.banner = &Banner{Success: false, Message: outcome.Message}
		for field, msg := range outcome.FieldErrors {
			c.errors[field] = msg
		}
		return outcome, err
	}

	c.state = StateSucceeded
	c.banner = &Banner{Success: true, Message: outcome.Message}
	c.data = Data{}
	c.errors = Errors{}
	if c.drafts != nil {
		if clearErr := c.drafts.Clear(ctx); clearErr != nil {
			logger.Warn("Failed to clear saved draft", zap.Error(clearErr))
		}
	}
	return outcome, nil
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Data returns a copy of the current field values
func (c *Controller) Data() Data {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Clone()
}

// Errors returns a copy of the current field errors
func (c *Controller) Errors() Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(Errors, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

// Banner returns the banner currently shown, or nil
func (c *Controller) Banner() *Banner {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.banner == nil {
		return nil
	}
	b := *c.banner
	return &b
}
