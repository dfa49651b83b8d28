// Package encoder converts attachment content to and from standard base64.
package encoder

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/itchan-dev/supportdesk/shared/domain"
	internal_errors "github.com/itchan-dev/supportdesk/shared/errors"
)

// ChunkSize is how much raw content is read per step.
const ChunkSize = 32 * 1024

var ErrInvalidBase64 = errors.New("invalid base64 content")

// Encode reads the whole attachment and returns its padded standard base64 form.
func Encode(a *domain.Attachment) (string, error) {
	rc, err := a.Open()
	if err != nil {
		return "", &internal_errors.IoError{Name: a.Name, Err: err}
	}
	defer rc.Close()

	s, err := EncodeReader(rc, a.SizeBytes)
	if err != nil {
		return "", &internal_errors.IoError{Name: a.Name, Err: err}
	}
	return s, nil
}

// EncodeReader encodes r in ChunkSize steps. sizeHint only pre-sizes the output.
func EncodeReader(r io.Reader, sizeHint int64) (string, error) {
	var sb strings.Builder
	if sizeHint > 0 {
		sb.Grow(base64.StdEncoding.EncodedLen(int(sizeHint)))
	}

	// the streaming encoder carries partial 3-byte groups across chunk boundaries
	enc := base64.NewEncoder(base64.StdEncoding, &sb)
	buf := make([]byte, ChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := enc.Write(buf[:n]); werr != nil {
				return "", werr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Decode accepts padded or unpadded standard base64, ignores whitespace
// and strips a data URL prefix such as "data:image/png;base64,".
func Decode(s string) ([]byte, error) {
	s = stripDataURL(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)

	enc := base64.StdEncoding
	if len(s)%4 != 0 {
		enc = base64.RawStdEncoding
	}
	data, err := enc.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}
	return data, nil
}

func stripDataURL(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, ";base64,"); i >= 0 {
		return s[i+len(";base64,"):]
	}
	return s
}
