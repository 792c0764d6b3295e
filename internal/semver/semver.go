package semver

import (
	"fmt"
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// Version is a semantic version.
//
// This is a thin wrapper around github.com/Masterminds/semver/v3.
type Version struct {
	v *mm.Version
}

// Range is an npm-style version range such as "^5.1.0" or "~1.4".
type Range struct {
	raw   string
	c     *mm.Constraints
	floor Version
}

func ParseVersion(raw string) (Version, error) {
	v, err := mm.NewVersion(raw)
	if err != nil {
		return Version{}, fmt.Errorf("semver: parse version %q: %w", raw, err)
	}
	return Version{v: v}, nil
}

func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseRange parses a range and records its floor: the lowest version any
// of its alternatives admits.
func ParseRange(raw string) (Range, error) {
	trimmed := strings.TrimSpace(raw)
	c, err := mm.NewConstraint(trimmed)
	if err != nil {
		return Range{}, fmt.Errorf("semver: parse range %q: %w", raw, err)
	}
	floor, err := floorOf(trimmed)
	if err != nil {
		return Range{}, fmt.Errorf("semver: floor of %q: %w", raw, err)
	}
	return Range{raw: trimmed, c: c, floor: Version{v: floor}}, nil
}

func MustParseRange(raw string) Range {
	r, err := ParseRange(raw)
	if err != nil {
		panic(err)
	}
	return r
}

// floorOf returns the smallest lower bound across the || alternatives.
func floorOf(raw string) (*mm.Version, error) {
	var floor *mm.Version
	for _, alt := range strings.Split(raw, "||") {
		lo, err := alternativeFloor(alt)
		if err != nil {
			return nil, err
		}
		if floor == nil || lo.LessThan(floor) {
			floor = lo
		}
	}
	return floor, nil
}

// alternativeFloor is the highest lower bound among the comparators of one
// alternative. Upper bounds do not raise it, so "<2.0.0" floors at 0.0.0.
func alternativeFloor(alt string) (*mm.Version, error) {
	lo := mm.New(0, 0, 0, "", "")
	tokens := strings.Fields(strings.ReplaceAll(alt, ",", " "))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "-" {
			// upper end of a hyphen range
			i++
			continue
		}
		op := tok[:len(tok)-len(strings.TrimLeft(tok, "^~>=<!"))]
		ver := tok[len(op):]
		if ver == "" && i+1 < len(tokens) {
			i++
			ver = tokens[i]
		}
		if op == "<" || op == "<=" || op == "!=" {
			continue
		}
		v, err := wildcardFloor(ver)
		if err != nil {
			return nil, err
		}
		if v.GreaterThan(lo) {
			lo = v
		}
	}
	return lo, nil
}

// wildcardFloor maps "1.x", "1.2.*" or "*" to the lowest version they match.
func wildcardFloor(ver string) (*mm.Version, error) {
	ver = strings.TrimPrefix(strings.TrimPrefix(ver, "v"), "V")
	parts := strings.SplitN(ver, ".", 3)
	for i, part := range parts {
		if part == "" || part == "x" || part == "X" || part == "*" {
			parts = parts[:i]
			break
		}
	}
	if len(parts) == 0 {
		return mm.New(0, 0, 0, "", ""), nil
	}
	return mm.NewVersion(strings.Join(parts, "."))
}

// String returns the range as written.
func (r Range) String() string {
	return r.raw
}

// Floor returns the lowest version admitted by the range.
func (r Range) Floor() Version {
	return r.floor
}

func Satisfies(v Version, r Range) bool {
	if v.v == nil || r.c == nil {
		return false
	}
	return r.c.Check(v.v)
}

// Compare compares a and b, returning:
// -1 if a < b
//
//	0 if a == b
//	1 if a > b
func Compare(a, b Version) int {
	if a.v == nil && b.v == nil {
		return 0
	}
	if a.v == nil {
		return -1
	}
	if b.v == nil {
		return 1
	}
	return a.v.Compare(b.v)
}

// CompareRanges orders two ranges by their floors.
func CompareRanges(a, b Range) int {
	return Compare(a.floor, b.floor)
}

func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.String()
}
