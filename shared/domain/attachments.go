package domain

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
)

const DefaultMimeType = "application/octet-stream"

// FileSource gives deferred access to attachment content.
// Nothing is read until the attachment is encoded or streamed.
type FileSource interface {
	Open() (io.ReadCloser, error)
}

// Attachment represents one user-selected file pending submission
type Attachment struct {
	Name      string
	MimeType  string
	SizeBytes int64
	Source    FileSource
}

// Open returns a reader over the attachment content.
func (a *Attachment) Open() (io.ReadCloser, error) {
	if a.Source == nil {
		return nil, fmt.Errorf("attachment %q has no content source", a.Name)
	}
	return a.Source.Open()
}

type bytesSource []byte

func (b bytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b)), nil
}

type pathSource string

func (p pathSource) Open() (io.ReadCloser, error) {
	return os.Open(string(p))
}

type headerSource struct {
	fh *multipart.FileHeader
}

func (s headerSource) Open() (io.ReadCloser, error) {
	return s.fh.Open()
}

// NewAttachmentFromBytes wraps in-memory content.
func NewAttachmentFromBytes(name, mimeType string, content []byte) *Attachment {
	return &Attachment{
		Name:      name,
		MimeType:  DetectMimeType(name, mimeType),
		SizeBytes: int64(len(content)),
		Source:    bytesSource(content),
	}
}

// NewAttachmentFromPath stats the file but does not read it.
func NewAttachmentFromPath(filePath string) (*Attachment, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", filePath)
	}
	name := filepath.Base(filePath)
	return &Attachment{
		Name:      name,
		MimeType:  DetectMimeType(name, ""),
		SizeBytes: info.Size(),
		Source:    pathSource(filePath),
	}, nil
}

// NewAttachmentFromHeader adapts an uploaded multipart file.
func NewAttachmentFromHeader(fh *multipart.FileHeader) *Attachment {
	return &Attachment{
		Name:      fh.Filename,
		MimeType:  DetectMimeType(fh.Filename, fh.Header.Get("Content-Type")),
		SizeBytes: fh.Size,
		Source:    headerSource{fh},
	}
}

// DetectMimeType keeps a declared type unless it is empty or generic,
// then falls back to the file extension.
func DetectMimeType(name, declared string) string {
	if declared != "" && declared != DefaultMimeType {
		return declared
	}
	if detected := mime.TypeByExtension(filepath.Ext(name)); detected != "" {
		return detected
	}
	return DefaultMimeType
}
