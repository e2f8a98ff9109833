// Package proficiency maps proficiency level names onto a single ordinal scale.
package proficiency

import (
	"errors"
	"fmt"
	"strings"
)

// Level is a canonical proficiency level name.
type Level string

const (
	Beginner     Level = "beginner"
	Intermediate Level = "intermediate"
	Advanced     Level = "advanced"
)

// ErrUnknownLevel is returned for a level name or ordinal outside the scale.
var ErrUnknownLevel = errors.New("unknown proficiency level")

var ordinals = map[Level]int{
	Beginner:     1,
	Intermediate: 2,
	Advanced:     3,
}

var byOrdinal = [...]Level{1: Beginner, 2: Intermediate, 3: Advanced}

// All returns the levels in ascending order.
func All() []Level {
	return []Level{Beginner, Intermediate, Advanced}
}

// Ordinal returns the position of a level name on the scale (1..3).
// Matching ignores case but not surrounding whitespace.
func Ordinal(level string) (int, error) {
	n, ok := ordinals[Level(strings.ToLower(level))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	return n, nil
}

// LevelName is the inverse of Ordinal.
func LevelName(ordinal int) (Level, error) {
	if ordinal < 1 || ordinal >= len(byOrdinal) {
		return "", fmt.Errorf("%w: ordinal %d", ErrUnknownLevel, ordinal)
	}
	return byOrdinal[ordinal], nil
}

// Parse normalizes a level name to its canonical spelling.
func Parse(s string) (Level, error) {
	n, err := Ordinal(s)
	if err != nil {
		return "", err
	}
	return byOrdinal[n], nil
}

// Valid reports whether l is a canonical level.
func (l Level) Valid() bool {
	_, ok := ordinals[l]
	return ok
}

// Ordinal returns the ordinal of a canonical level, or 0 if l is not one.
func (l Level) Ordinal() int {
	return ordinals[l]
}

// Title returns the display name, e.g. "Intermediate".
func (l Level) Title() string {
	if l == "" {
		return ""
	}
	return strings.ToUpper(string(l[:1])) + string(l[1:])
}

func (l Level) String() string {
	return string(l)
}

// Max returns the higher of two canonical levels.
func Max(a, b Level) Level {
	if b.Ordinal() > a.Ordinal() {
		return b
	}
	return a
}
