package format

import (
	"fmt"
	"strings"

	"github.com/arloliu/ptbin/errs"
)

type (
	AddressingBase uint8
	Resolution     uint8
)

const (
	// OneBased places record r at byte (r-1)*RecordSize. This is the layout written
	// by the line-by-line calculation code and the one existing tables use.
	OneBased AddressingBase = 0x1
	// ZeroBased places record r at byte r*RecordSize.
	ZeroBased AddressingBase = 0x2

	ResolutionHigh   Resolution = 0x1 // ResolutionHigh keeps every sample (stride 1).
	ResolutionMedium Resolution = 0x2 // ResolutionMedium keeps every 10th sample.
	ResolutionCoarse Resolution = 0x3 // ResolutionCoarse keeps every 100th sample.
)

func (b AddressingBase) String() string {
	switch b {
	case OneBased:
		return "OneBased"
	case ZeroBased:
		return "ZeroBased"
	default:
		return "Unknown"
	}
}

// Origin returns the record index stored at byte offset zero.
func (b AddressingBase) Origin() int64 {
	if b == ZeroBased {
		return 0
	}

	return 1
}

func (r Resolution) String() string {
	switch r {
	case ResolutionHigh:
		return "high"
	case ResolutionMedium:
		return "medium"
	case ResolutionCoarse:
		return "coarse"
	default:
		return "unknown"
	}
}

// Stride returns the decimation stride of the resolution profile, or 0 for an
// unrecognized profile.
func (r Resolution) Stride() int {
	switch r {
	case ResolutionHigh:
		return 1
	case ResolutionMedium:
		return 10
	case ResolutionCoarse:
		return 100
	default:
		return 0
	}
}

// IsValid reports whether r is one of the three fixed profiles.
func (r Resolution) IsValid() bool {
	return r.Stride() != 0
}

// ParseResolution maps a profile name ("high", "medium", "coarse") to a Resolution.
//
// Returns:
//   - Resolution: The matching profile
//   - error: ErrInvalidResolution if the name is not a known profile
func ParseResolution(name string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "high":
		return ResolutionHigh, nil
	case "medium":
		return ResolutionMedium, nil
	case "coarse":
		return ResolutionCoarse, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrInvalidResolution, name)
	}
}
