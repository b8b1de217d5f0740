// Package sidecar reads the info.txt file stored next to a run's PT-tables.
//
// The file is a list of "Key: Value" lines written by the calculation code:
//
//	Start Wavenumber: 100.0
//	End Wavenumber: 3000.0
//	Input Molecule: CO2
//	Cut Off: 25
//	Target Value: VAC
//	Atmospheric Profile File: tropical.dat
//
// Only the wavenumber bounds are required. Lines without a colon are ignored.
package sidecar

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arloliu/ptbin/errs"
	"github.com/arloliu/ptbin/export"
	"github.com/arloliu/ptbin/section"
)

// FileName is the sidecar file name inside a run directory.
const FileName = "info.txt"

// Recognised keys.
const (
	KeyStartWavenumber = "Start Wavenumber"
	KeyEndWavenumber   = "End Wavenumber"
	KeyMolecule        = "Input Molecule"
	KeyCutoff          = "Cut Off"
	KeyTarget          = "Target Value"
	KeyProfile         = "Atmospheric Profile File"
)

// Metadata is the parsed content of a sidecar file.
type Metadata struct {
	// Start and End are the wavenumber bounds of the calculation in cm⁻¹.
	Start, End float64
	// HasStart and HasEnd report whether the bounds were present.
	HasStart, HasEnd bool

	Molecule string
	Cutoff   string
	Target   string
	Profile  string

	// Extra holds keys this package does not interpret.
	Extra map[string]string
	// Raw is the file content as read.
	Raw []byte
}

// Load reads and parses the sidecar file at path.
func Load(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(bytes.NewReader(data))
}

// LoadDir reads FileName from a run directory.
func LoadDir(dir string) (*Metadata, error) {
	return Load(filepath.Join(dir, FileName))
}

// Parse reads "Key: Value" lines from r.
//
// Keys are matched case-sensitively after trimming; values are trimmed. A key
// given twice keeps its last value. Parse does not require the bounds; call
// Validate for that.
//
// Returns:
//   - *Metadata: The parsed metadata, with Raw holding everything read
//   - error: A read error, or ErrCorruptSidecar when a bound is not a number
func Parse(r io.Reader) (*Metadata, error) {
	var raw bytes.Buffer
	sc := bufio.NewScanner(io.TeeReader(r, &raw))

	m := &Metadata{Extra: make(map[string]string)}
	line := 0
	for sc.Scan() {
		line++

		key, value, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		var err error
		switch key {
		case KeyStartWavenumber:
			m.Start, err = parseBound(value)
			m.HasStart = err == nil
		case KeyEndWavenumber:
			m.End, err = parseBound(value)
			m.HasEnd = err == nil
		case KeyMolecule:
			m.Molecule = value
		case KeyCutoff:
			m.Cutoff = value
		case KeyTarget:
			m.Target = value
		case KeyProfile:
			m.Profile = value
		default:
			m.Extra[key] = value
		}

		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s: %w", errs.ErrCorruptSidecar, line, key, err)
		}
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	m.Raw = raw.Bytes()

	return m, nil
}

func parseBound(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// Validate checks that both wavenumber bounds are present and ordered.
func (m *Metadata) Validate() error {
	if !m.HasStart || !m.HasEnd {
		return fmt.Errorf("%w: start or end wavenumber is not defined", errs.ErrCorruptSidecar)
	}

	if m.Start >= m.End {
		return fmt.Errorf("%w: start wavenumber %v is not below end wavenumber %v",
			errs.ErrCorruptSidecar, m.Start, m.End)
	}

	return nil
}

// Extent returns the calculated wavenumber range.
func (m *Metadata) Extent() section.Extent {
	return section.Extent{Left: m.Start, Right: m.End}
}

// CheckRequest enforces Start <= left < right <= End.
//
// Returns:
//   - error: ErrCorruptSidecar if the bounds are missing, ErrInvalidRange or
//     ErrOutOfTableBounds for the request
func (m *Metadata) CheckRequest(left, right float64) error {
	if err := m.Validate(); err != nil {
		return err
	}

	return m.Extent().Check(left, right)
}

// Labels builds the display labels of an extraction of [left, right) at level.
func (m *Metadata) Labels(level int, left, right float64) export.Labels {
	return export.Labels{
		Molecule: m.Molecule,
		Level:    level,
		Left:     left,
		Right:    right,
		Table:    m.Extent(),
		Cutoff:   m.Cutoff,
		Target:   m.Target,
		Profile:  m.Profile,
		Preamble: m.Raw,
	}
}
