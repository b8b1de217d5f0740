package table

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arloliu/ptbin/errs"
	"github.com/arloliu/ptbin/format"
)

// LatestRunFile names the file, inside the base directory, that holds the name
// of the most recent calculation run.
const LatestRunFile = "latest_run.txt"

// MaxLevel is the largest atmospheric level that fits the 3-character name field.
const MaxLevel = 999

// TableName returns the file name of the table for an atmospheric level.
//
// The level is left-aligned in a 3-character field padded with underscores,
// followed by a dot and the extension:
//
//	level 0   -> "0__.ptbin"
//	level 1   -> "1__.ptbin"
//	level 12  -> "12_.ptbin"
//	level 123 -> "123.ptbin"
//
// Parameters:
//   - level: Atmospheric level, 0..MaxLevel
//   - ext: File extension without the dot; empty means format.DefaultExtension
//
// Returns:
//   - string: The table file name
//   - error: ErrInvalidLevel if the level is outside 0..MaxLevel
func TableName(level int, ext string) (string, error) {
	if level < 0 || level > MaxLevel {
		return "", fmt.Errorf("%w: %d must be in 0..%d", errs.ErrInvalidLevel, level, MaxLevel)
	}

	if ext == "" {
		ext = format.DefaultExtension
	}

	field := strconv.Itoa(level)
	field += strings.Repeat("_", 3-len(field))

	return field + "." + ext, nil
}

// TablePath joins dir with the default-extension table name for level.
func TablePath(dir string, level int) (string, error) {
	name, err := TableName(level, "")
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, name), nil
}

// LatestRun resolves the directory of the most recent run below baseDir by
// reading baseDir/latest_run.txt.
//
// Returns:
//   - string: baseDir joined with the run directory name
//   - error: The read error, or ErrEmptyLatestRun when the file is blank
func LatestRun(baseDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, LatestRunFile))
	if err != nil {
		return "", err
	}

	subdir := strings.TrimSpace(string(data))
	if subdir == "" {
		return "", fmt.Errorf("%w: %s", errs.ErrEmptyLatestRun, filepath.Join(baseDir, LatestRunFile))
	}

	return filepath.Join(baseDir, subdir), nil
}
