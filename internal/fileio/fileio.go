// Package fileio opens source files for the format connectors. It maps
// missing files onto the not-found error type, transparently decompresses
// gzip inputs, and decodes non-UTF-8 charsets by IANA name, so the
// format packages only ever see a plain reader of UTF-8 bytes.
package fileio

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/dataforge-io/tabconnect/pkg/errors"
)

// Open opens the file at path for reading. A ".gz" suffix enables
// transparent gzip decompression; encoding names a non-UTF-8 charset to
// decode from. The returned ReadCloser closes the whole reader stack.
func Open(path, encoding string) (io.ReadCloser, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from caller configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrorTypeNotFound, "source file not found").
				WithDetail("path", path)
		}
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open source file").
			WithDetail("path", path)
	}

	var r io.Reader = f
	closers := []io.Closer{f}

	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "invalid gzip stream").
				WithDetail("path", path)
		}
		r = gz
		closers = append(closers, gz)
	}

	if dec, err := decoder(encoding); err != nil {
		_ = closeAll(closers)
		return nil, err
	} else if dec != nil {
		r = transform.NewReader(r, dec)
	}

	return &stackedReadCloser{r: r, closers: closers}, nil
}

// decoder returns the charset decoder for an IANA encoding name, or nil
// when the content is already UTF-8.
func decoder(encoding string) (transform.Transformer, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return nil, nil
	}

	enc, err := ianaindex.IANA.Encoding(encoding)
	if err != nil || enc == nil {
		return nil, errors.Newf(errors.ErrorTypeOption, "unsupported encoding %q", encoding)
	}
	return enc.NewDecoder(), nil
}

func closeAll(closers []io.Closer) error {
	var first error
	// Close in reverse so wrappers close before the file they wrap.
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type stackedReadCloser struct {
	r       io.Reader
	closers []io.Closer
}

func (s *stackedReadCloser) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

func (s *stackedReadCloser) Close() error {
	return closeAll(s.closers)
}
