// Package source opens join inputs as line sources.
//
// A name of "-" reads standard input. Files ending in .gz or .zst are
// decompressed, .xlsx workbooks are streamed row by row, and text inputs can
// be transcoded to UTF-8 from any encoding known to the WHATWG index.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Stdin is the name that selects standard input.
const Stdin = "-"

// ErrStdinTwice is returned by OpenPair when both names are "-".
var ErrStdinTwice = errors.New("standard input can be used for only one side")

// Options controls how inputs are opened.
type Options struct {
	// Delimiter joins spreadsheet cells into a line. Zero means TAB.
	Delimiter rune

	// Encoding names the text encoding of the input ("latin1",
	// "windows-1252", "shift_jis", ...). Empty means UTF-8.
	Encoding string

	// Sheet selects the workbook sheet for .xlsx inputs. Empty means the
	// first sheet.
	Sheet string

	// Stdin overrides os.Stdin for the "-" name.
	Stdin io.Reader
}

// Source reads lines from an opened input. It implements cursor.LineSource.
type Source struct {
	name    string
	next    func() (string, error)
	closers []io.Closer
}

// Name returns the name the source was opened with.
func (s *Source) Name() string {
	return s.name
}

// ReadLine returns the next line without its terminator, or io.EOF.
func (s *Source) ReadLine() (string, error) {
	return s.next()
}

// Close releases every resource held by the source, innermost last.
func (s *Source) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open opens name for reading.
func Open(name string, opts Options) (*Source, error) {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return openWorkbook(name, opts)
	}

	s := &Source{name: name}
	var r io.Reader
	if name == Stdin {
		r = opts.Stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		s.closers = append(s.closers, f)
		r = f
	}

	r, err := s.decompress(name, r)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	r, err = transcode(r, opts.Encoding)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	s.next = lineReader(bufio.NewReaderSize(r, 64*1024))
	return s, nil
}

func (s *Source) decompress(name string, r io.Reader) (io.Reader, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		s.closers = append(s.closers, zr)
		return zr, nil
	case ".zst":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		rc := dec.IOReadCloser()
		s.closers = append(s.closers, rc)
		return rc, nil
	}
	return r, nil
}

func transcode(r io.Reader, name string) (io.Reader, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return r, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", name, err)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// lineReader returns lines with "\n" or "\r\n" removed. A final line without
// a terminator is still returned.
func lineReader(br *bufio.Reader) func() (string, error) {
	return func() (string, error) {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		if errors.Is(err, io.EOF) && line == "" {
			return "", io.EOF
		}
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		return line, nil
	}
}

// OpenPair opens the left and right inputs concurrently. If either fails the
// other is closed.
func OpenPair(left, right string, opts Options) (*Source, *Source, error) {
	if left == Stdin && right == Stdin {
		return nil, nil, ErrStdinTwice
	}

	var l, r *Source
	var g errgroup.Group
	g.Go(func() error {
		var err error
		l, err = Open(left, opts)
		return err
	})
	g.Go(func() error {
		var err error
		r, err = Open(right, opts)
		return err
	})
	if err := g.Wait(); err != nil {
		if l != nil {
			l.Close()
		}
		if r != nil {
			r.Close()
		}
		return nil, nil, err
	}
	return l, r, nil
}
