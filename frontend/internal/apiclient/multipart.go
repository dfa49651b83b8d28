package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync"

	"github.com/itchan-dev/supportdesk/shared/domain"
	internal_errors "github.com/itchan-dev/supportdesk/shared/errors"
)

// fixed so the dry run and the streamed body produce identical framing
const multipartBoundary = "supportdesk-7d1f0c2e9a4b4f3c8e6a5b2d1c0f9e8a"

const filesField = "files"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// MultipartTransport streams form fields and raw attachment parts as
// multipart/form-data and reports byte-accurate upload progress.
type MultipartTransport struct {
	URL        string
	HttpClient *http.Client
}

type formField struct {
	name, value string
}

func formFields(p *domain.SubmissionPayload) []formField {
	return []formField{
		{"supportFlow", p.SupportFlow},
		{"email", p.Email},
		{"customerNumber", p.CustomerNumber},
		{"contactPerson", p.ContactPerson},
		{"pncNumber", p.PncNumber},
		{"serialNumber", p.SerialNumber},
		{"caseType", p.CaseType},
		{"feedbackText", p.FeedbackText},
		{"language", p.Language},
		{"fileNames", p.FileNames()},
	}
}

func filePartHeader(a *domain.Attachment) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, filesField, escapeQuotes(a.Name)))
	h.Set("Content-Type", domain.DetectMimeType(a.Name, a.MimeType))
	return h
}

// writeForm writes the whole body. With copyContent false only the framing is
// written and file content is skipped, which is how the length is measured.
func writeForm(w io.Writer, p *domain.SubmissionPayload, copyContent bool) error {
	mw := multipart.NewWriter(w)
	if err := mw.SetBoundary(multipartBoundary); err != nil {
		return err
	}

	for _, f := range formFields(p) {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return err
		}
	}

	for _, a := range p.Attachments {
		part, err := mw.CreatePart(filePartHeader(a))
		if err != nil {
			return err
		}
		if !copyContent {
			continue
		}
		if err := copyAttachment(part, a); err != nil {
			return err
		}
	}
	return mw.Close()
}

// copyAttachment writes exactly SizeBytes of content or fails with IoError.
func copyAttachment(dst io.Writer, a *domain.Attachment) error {
	rc, err := a.Open()
	if err != nil {
		return &internal_errors.IoError{Name: a.Name, Err: err}
	}
	defer rc.Close()

	n, err := io.Copy(dst, io.LimitReader(rc, a.SizeBytes+1))
	if err != nil {
		return &internal_errors.IoError{Name: a.Name, Err: err}
	}
	if n != a.SizeBytes {
		return &internal_errors.IoError{Name: a.Name, Err: fmt.Errorf("file changed: expected %d bytes", a.SizeBytes)}
	}
	return nil
}

type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

// contentLength is the exact size of the body writeForm will stream.
func contentLength(p *domain.SubmissionPayload) (int64, error) {
	var cw countingWriter
	if err := writeForm(&cw, p, false); err != nil {
		return 0, err
	}
	total := cw.n
	for _, a := range p.Attachments {
		total += a.SizeBytes
	}
	return total, nil
}

// progressReader reports percent of total read so far. It never reports
// 100; that is left for the confirmed response.
type progressReader struct {
	r        io.Reader
	total    int64
	progress ProgressFunc

	mu   sync.Mutex
	read int64
	last int
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.mu.Lock()
		pr.read += int64(n)
		pct := percent(pr.read, pr.total)
		if pct > 99 {
			pct = 99
		}
		if pct > pr.last {
			pr.last = pct
			pr.progress(pct)
		}
		pr.mu.Unlock()
	}
	return n, err
}

func percent(done, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

func (t *MultipartTransport) Send(ctx context.Context, payload *domain.SubmissionPayload, progress ProgressFunc) error {
	total, err := contentLength(payload)
	if err != nil {
		return fmt.Errorf("failed to measure multipart body: %w", err)
	}

	progress(0)

	pipeReader, pipeWriter := io.Pipe()
	writeErr := make(chan error, 1)

	// Start a goroutine to write the multipart data
	go func() {
		err := writeForm(pipeWriter, payload, true)
		pipeWriter.CloseWithError(err)
		writeErr <- err
	}()

	body := &progressReader{r: pipeReader, total: total, progress: progress}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, body)
	if err != nil {
		pipeReader.Close()
		<-writeErr
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+multipartBoundary)

	resp, err := t.HttpClient.Do(req)
	if err != nil {
		pipeReader.CloseWithError(err)
		if werr := <-writeErr; werr != nil {
			var ioErr *internal_errors.IoError
			if errors.As(werr, &ioErr) {
				return ioErr
			}
		}
		return requestError(ctx, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	pipeReader.Close()
	<-writeErr

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, respBody)
	}
	progress(100)
	return nil
}
