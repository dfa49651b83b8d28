package encoder

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/itchan-dev/supportdesk/shared/domain"
	internal_errors "github.com/itchan-dev/supportdesk/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSource struct {
	openErr error
	readErr error
}

func (f failingSource) Open() (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(&failingReader{err: f.readErr}), nil
}

type failingReader struct {
	served bool
	err    error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.served {
		r.served = true
		n := copy(p, "partial")
		return n, nil
	}
	return 0, r.err
}

// oneByteReader forces many tiny reads so chunk carry-over is exercised.
type oneByteReader struct {
	data []byte
}

func (r *oneByteReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	p[0] = r.data[0]
	r.data = r.data[1:]
	return 1, nil
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"one byte", []byte{0xff}},
		{"text", []byte("Hello World! This is a test file content.")},
		{"exactly one chunk", randomBytes(t, ChunkSize)},
		{"chunk plus one", randomBytes(t, ChunkSize+1)},
		{"100000 random bytes", randomBytes(t, 100000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := Encode(domain.NewAttachmentFromBytes("f.bin", "", tt.data))
			require.NoError(t, err)
			assert.Equal(t, base64.StdEncoding.EncodeToString(tt.data), encoded)

			decoded, err := Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, len(tt.data), len(decoded))
			assert.True(t, string(tt.data) == string(decoded), "content mismatch")
		})
	}
}

func TestEncodeReaderTinyReads(t *testing.T) {
	data := randomBytes(t, 1000)
	encoded, err := EncodeReader(&oneByteReader{data: data}, 0)
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(data), encoded)
}

func TestEncodeIoErrors(t *testing.T) {
	t.Run("open fails", func(t *testing.T) {
		revoked := errors.New("handle revoked")
		a := &domain.Attachment{Name: "gone.pdf", Source: failingSource{openErr: revoked}}

		_, err := Encode(a)

		var ioErr *internal_errors.IoError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "gone.pdf", ioErr.Name)
		assert.ErrorIs(t, err, revoked)
	})

	t.Run("read fails midway", func(t *testing.T) {
		broken := errors.New("disk error")
		a := &domain.Attachment{Name: "half.pdf", Source: failingSource{readErr: broken}}

		_, err := Encode(a)

		var ioErr *internal_errors.IoError
		require.ErrorAs(t, err, &ioErr)
		assert.ErrorIs(t, err, broken)
	})

	t.Run("no source", func(t *testing.T) {
		_, err := Encode(&domain.Attachment{Name: "nothing"})
		var ioErr *internal_errors.IoError
		assert.ErrorAs(t, err, &ioErr)
	})
}

func TestDecodeVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"padded", "aGk="},
		{"unpadded", "aGk"},
		{"whitespace", " aG\nk= "},
		{"data url", "data:text/plain;base64,aGk="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, "hi", string(out))
		})
	}

	_, err := Decode("not base64!!")
	assert.ErrorIs(t, err, ErrInvalidBase64)
}
