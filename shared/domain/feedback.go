package domain

import (
	"slices"
	"strings"
)

type SupportFlow = string

const (
	FlowCustomer  SupportFlow = "customer"
	FlowTechnical SupportFlow = "technical"
)

var caseTypes = map[SupportFlow][]string{
	FlowCustomer:  {"return", "services", "order", "other"},
	FlowTechnical: {"training", "other", "wheeled", "proRobotics", "handheld", "automower"},
}

// CaseTypes lists the categories selectable in a flow, in display order.
func CaseTypes(flow SupportFlow) []string {
	return slices.Clone(caseTypes[flow])
}

// IsCaseType reports whether caseType belongs to flow.
func IsCaseType(flow SupportFlow, caseType string) bool {
	return slices.Contains(caseTypes[flow], caseType)
}

// SubmissionPayload is built fresh for every submission and never persisted.
type SubmissionPayload struct {
	SupportFlow    SupportFlow `validate:"required,oneof=customer technical"`
	Email          string      `validate:"required,email"`
	CustomerNumber string      `validate:"required"`
	ContactPerson  string
	PncNumber      string // technical flow only
	SerialNumber   string // technical flow only
	CaseType       string `validate:"required"`
	FeedbackText   string `validate:"required"`
	Language       string
	Attachments    []*Attachment
}

// FileNames is the comma separated list sent alongside the files.
func (p *SubmissionPayload) FileNames() string {
	names := make([]string, 0, len(p.Attachments))
	for _, a := range p.Attachments {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}
