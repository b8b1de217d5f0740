package table

import (
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// source is the random-access backing store of an open table.
type source interface {
	io.ReaderAt
	io.Closer
	kind() string
}

// fileSource reads records with pread on the open file.
type fileSource struct {
	f *os.File
}

func (s *fileSource) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

func (s *fileSource) Close() error {
	return s.f.Close()
}

func (s *fileSource) kind() string { return "file" }

// mmapSource serves records from a read-only mapping of the whole file.
type mmapSource struct {
	f    *os.File
	data mmap.MMap
}

func openMmap(f *os.File) (*mmapSource, error) {
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}

	return &mmapSource{f: f, data: m}, nil
}

// ReadAt copies from the mapping with io.ReaderAt semantics: a short read
// returns io.EOF.
func (s *mmapSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, os.ErrInvalid
	}

	if off >= int64(len(s.data)) {
		return 0, io.EOF
	}

	n := copy(p, s.data[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

// Close unmaps the file and closes it.
func (s *mmapSource) Close() error {
	var err error
	if s.data != nil {
		err = s.data.Unmap()
		s.data = nil
	}

	if s.f != nil {
		if cerr := s.f.Close(); err == nil {
			err = cerr
		}
		s.f = nil
	}

	return err
}

func (s *mmapSource) kind() string { return "mmap" }
