package proficiency

import (
	"errors"
	"testing"
)

func TestOrdinal_CaseInsensitive(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"beginner", 1},
		{"Beginner", 1},
		{"INTERMEDIATE", 2},
		{"Intermediate", 2},
		{"advanced", 3},
		{"AdVaNcEd", 3},
	}
	for _, tt := range tests {
		got, err := Ordinal(tt.in)
		if err != nil {
			t.Fatalf("Ordinal(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Ordinal(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestOrdinal_Unknown(t *testing.T) {
	for _, in := range []string{"", "expert", " beginner", "beginner "} {
		_, err := Ordinal(in)
		if !errors.Is(err, ErrUnknownLevel) {
			t.Errorf("Ordinal(%q) err = %v, want ErrUnknownLevel", in, err)
		}
	}
}

func TestLevelName_RoundTrip(t *testing.T) {
	for _, l := range All() {
		n, err := Ordinal(string(l))
		if err != nil {
			t.Fatalf("Ordinal(%q): %v", l, err)
		}
		back, err := LevelName(n)
		if err != nil {
			t.Fatalf("LevelName(%d): %v", n, err)
		}
		if back != l {
			t.Errorf("LevelName(Ordinal(%q)) = %q", l, back)
		}
	}
}

func TestLevelName_OutOfRange(t *testing.T) {
	for _, n := range []int{-1, 0, 4} {
		if _, err := LevelName(n); !errors.Is(err, ErrUnknownLevel) {
			t.Errorf("LevelName(%d) err = %v, want ErrUnknownLevel", n, err)
		}
	}
}

func TestParse(t *testing.T) {
	l, err := Parse("ADVANCED")
	if err != nil {
		t.Fatal(err)
	}
	if l != Advanced {
		t.Errorf("Parse = %q, want %q", l, Advanced)
	}
	if l.Title() != "Advanced" {
		t.Errorf("Title = %q", l.Title())
	}
}

func TestMax(t *testing.T) {
	if got := Max(Beginner, Advanced); got != Advanced {
		t.Errorf("Max = %q", got)
	}
	if got := Max(Intermediate, Beginner); got != Intermediate {
		t.Errorf("Max = %q", got)
	}
}
