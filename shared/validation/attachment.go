package validation

import (
	"fmt"
	"slices"

	"github.com/itchan-dev/supportdesk/shared/config"
	"github.com/itchan-dev/supportdesk/shared/domain"
	internal_errors "github.com/itchan-dev/supportdesk/shared/errors"
)

// Limits bound an AttachmentSet.
type Limits struct {
	MaxFiles     int
	MaxFileSize  int64
	MaxTotalSize int64
}

func LimitsFromConfig(c config.Attachments) Limits {
	return Limits{
		MaxFiles:     c.MaxFiles,
		MaxFileSize:  c.MaxFileSizeBytes,
		MaxTotalSize: c.MaxTotalSizeBytes,
	}
}

func DefaultLimits() Limits {
	return LimitsFromConfig(config.Default().Public.Attachments)
}

// AttachmentSet is an ordered list of attachments whose limits hold after every mutation.
// The zero value is not usable; create sets with NewAttachmentSet.
type AttachmentSet struct {
	limits Limits
	items  []*domain.Attachment
}

func NewAttachmentSet(limits Limits) *AttachmentSet {
	return &AttachmentSet{limits: limits}
}

// Add appends candidates in order, or rejects the whole batch leaving the set unchanged.
// Limits are checked as count, then per file, then total. File content is not read.
func (s *AttachmentSet) Add(candidates ...*domain.Attachment) error {
	if len(candidates) == 0 {
		return nil
	}

	if len(s.items)+len(candidates) > s.limits.MaxFiles {
		return &internal_errors.ValidationError{
			Message: fmt.Sprintf("you can upload up to %d files", s.limits.MaxFiles),
			Err:     ErrTooManyFiles,
		}
	}

	for _, c := range candidates {
		if c.SizeBytes > s.limits.MaxFileSize {
			return &internal_errors.ValidationError{
				Message: fmt.Sprintf("each file must be under %.0f MB (%s)", FormatSizeMB(s.limits.MaxFileSize), c.Name),
				Err:     ErrFileTooLarge,
			}
		}
	}

	total := s.TotalSize()
	for _, c := range candidates {
		total += c.SizeBytes
	}
	if total > s.limits.MaxTotalSize {
		return &internal_errors.ValidationError{
			Message: fmt.Sprintf("total attachment size must stay under %.0f MB", FormatSizeMB(s.limits.MaxTotalSize)),
			Err:     ErrTotalTooLarge,
		}
	}

	s.items = append(s.items, candidates...)
	return nil
}

// Remove drops the attachment at index. Removal cannot violate limits, so nothing is re-validated.
func (s *AttachmentSet) Remove(index int) error {
	if index < 0 || index >= len(s.items) {
		return &internal_errors.ValidationError{
			Message: fmt.Sprintf("no attachment at index %d", index),
			Err:     ErrIndexOutOfRange,
		}
	}
	s.items = slices.Delete(slices.Clone(s.items), index, index+1)
	return nil
}

func (s *AttachmentSet) Len() int {
	return len(s.items)
}

// Items returns a copy of the attachments in selection order.
func (s *AttachmentSet) Items() []*domain.Attachment {
	return slices.Clone(s.items)
}

// Names lists file names in selection order.
func (s *AttachmentSet) Names() []string {
	names := make([]string, len(s.items))
	for i, a := range s.items {
		names[i] = a.Name
	}
	return names
}

func (s *AttachmentSet) TotalSize() int64 {
	var total int64
	for _, a := range s.items {
		total += a.SizeBytes
	}
	return total
}

func (s *AttachmentSet) Clear() {
	s.items = nil
}

func (s *AttachmentSet) Limits() Limits {
	return s.limits
}

// FormatSizeMB converts bytes to megabytes for user-friendly error messages.
func FormatSizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
