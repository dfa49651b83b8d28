// Package form holds the state of one support form: typed fields, the
// attachment set and the outcome of the last submission.
package form

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/itchan-dev/supportdesk/frontend/internal/apiclient"
	"github.com/itchan-dev/supportdesk/shared/domain"
	"github.com/itchan-dev/supportdesk/shared/validation"
)

var ErrSubmissionInFlight = errors.New("a submission is already in progress")

type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	}
	return "idle"
}

// Submitter is satisfied by *apiclient.APIClient.
type Submitter interface {
	Submit(ctx context.Context, payload *domain.SubmissionPayload, progress apiclient.ProgressFunc) error
}

// Fields are the typed inputs of the form.
type Fields struct {
	SupportFlow    domain.SupportFlow
	Email          string
	CustomerNumber string
	ContactPerson  string
	PncNumber      string
	SerialNumber   string
	CaseType       string
	FeedbackText   string
}

type Form struct {
	client   Submitter
	language string

	inFlight atomic.Bool

	mu          sync.Mutex
	fields      Fields
	attachments *validation.AttachmentSet
	status      Status
	lastErr     error
	progress    int
}

func New(client Submitter, limits validation.Limits, language string) *Form {
	return &Form{
		client:      client,
		language:    language,
		attachments: validation.NewAttachmentSet(limits),
	}
}

// SetFields replaces the typed inputs. Edits are refused while a submission
// is in flight; a successful submission clears what it sent.
func (f *Form) SetFields(fields Fields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == StatusSubmitting {
		return ErrSubmissionInFlight
	}
	f.fields = fields
	f.touch()
	return nil
}

func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// SetSupportFlow switches flow and drops a case type that does not belong to it.
func (f *Form) SetSupportFlow(flow domain.SupportFlow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == StatusSubmitting {
		return ErrSubmissionInFlight
	}
	f.fields.SupportFlow = flow
	if !domain.IsCaseType(flow, f.fields.CaseType) {
		f.fields.CaseType = ""
	}
	f.touch()
	return nil
}

// AddFiles adds all candidates or none. Success clears a previous error.
func (f *Form) AddFiles(candidates ...*domain.Attachment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == StatusSubmitting {
		return ErrSubmissionInFlight
	}
	if err := f.attachments.Add(candidates...); err != nil {
		f.lastErr = err
		return err
	}
	f.lastErr = nil
	f.touch()
	return nil
}

func (f *Form) RemoveFile(index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == StatusSubmitting {
		return ErrSubmissionInFlight
	}
	if err := f.attachments.Remove(index); err != nil {
		return err
	}
	f.touch()
	return nil
}

func (f *Form) Attachments() []*domain.Attachment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attachments.Items()
}

// FileNames lists the attached files in order.
func (f *Form) FileNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attachments.Names()
}

func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *Form) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

func (f *Form) Progress() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.progress
}

// Submit sends the current fields and attachments. Only one submission may
// run at a time; a concurrent call returns ErrSubmissionInFlight at once.
// On success the form is cleared and the status stays Succeeded until the
// next edit. On failure everything the user entered is kept.
func (f *Form) Submit(ctx context.Context, progress apiclient.ProgressFunc) error {
	if !f.inFlight.CompareAndSwap(false, true) {
		return ErrSubmissionInFlight
	}
	defer f.inFlight.Store(false)

	f.mu.Lock()
	payload := f.payloadLocked()
	f.status = StatusSubmitting
	f.lastErr = nil
	f.progress = 0
	f.mu.Unlock()

	err := f.client.Submit(ctx, payload, func(p int) {
		f.mu.Lock()
		f.progress = p
		f.mu.Unlock()
		if progress != nil {
			progress(p)
		}
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.status = StatusFailed
		f.lastErr = err
		return err
	}
	f.status = StatusSucceeded
	f.fields = Fields{SupportFlow: f.fields.SupportFlow}
	f.attachments.Clear()
	return nil
}

func (f *Form) payloadLocked() *domain.SubmissionPayload {
	return &domain.SubmissionPayload{
		SupportFlow:    f.fields.SupportFlow,
		Email:          f.fields.Email,
		CustomerNumber: f.fields.CustomerNumber,
		ContactPerson:  f.fields.ContactPerson,
		PncNumber:      f.fields.PncNumber,
		SerialNumber:   f.fields.SerialNumber,
		CaseType:       f.fields.CaseType,
		FeedbackText:   f.fields.FeedbackText,
		Language:       f.language,
		Attachments:    f.attachments.Items(),
	}
}

// touch dismisses a finished submission's status on the next user action.
func (f *Form) touch() {
	if f.status == StatusSucceeded || f.status == StatusFailed {
		f.status = StatusIdle
	}
}
