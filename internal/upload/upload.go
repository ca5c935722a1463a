package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/justinloyola/alma/internal/config"
)

var (
	ErrEmpty    = errors.New("upload: empty file")
	ErrTooLarge = errors.New("upload: file exceeds size limit")
	ErrBadType  = errors.New("upload: unsupported content type")
)

// File is a validated upload ready to hand to a storage backend.
type File struct {
	Content          []byte
	OriginalFilename string
	MimeType         string
	Size             int64
}

// Policy validates incoming résumé uploads. The declared Content-Type
// header is ignored; the type is sniffed from the first bytes of the
// payload so a renamed executable does not slip through.
type Policy struct {
	maxSizeBytes int64
	allowedTypes map[string]struct{}
}

func NewPolicy(cfg config.UploadConfig) *Policy {
	allowed := make(map[string]struct{}, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[t] = struct{}{}
	}
	return &Policy{maxSizeBytes: cfg.MaxSizeBytes, allowedTypes: allowed}
}

func (p *Policy) MaxSizeBytes() int64 { return p.maxSizeBytes }

// Validate reads the upload fully, enforcing the size cap while reading,
// and sniffs the content type. Returns ErrEmpty, ErrTooLarge or
// ErrBadType when the payload is rejected.
func (p *Policy) Validate(r io.Reader, originalFilename string) (*File, error) {
	limited := io.LimitReader(r, p.maxSizeBytes+1)
	content, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(content) == 0 {
		return nil, ErrEmpty
	}
	if int64(len(content)) > p.maxSizeBytes {
		return nil, ErrTooLarge
	}

	mimeType := sniff(content)
	if _, ok := p.allowedTypes[mimeType]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrBadType, mimeType)
	}

	return &File{
		Content:          content,
		OriginalFilename: originalFilename,
		MimeType:         mimeType,
		Size:             int64(len(content)),
	}, nil
}

func sniff(content []byte) string {
	mimeType := http.DetectContentType(content)
	// DetectContentType reports PDFs as application/pdf but appends
	// "; charset=utf-8" to text-ish fallbacks; strip any parameters.
	for i := 0; i < len(mimeType); i++ {
		if mimeType[i] == ';' {
			return mimeType[:i]
		}
	}
	return mimeType
}
