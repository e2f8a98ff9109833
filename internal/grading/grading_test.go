package grading

import (
	"errors"
	"testing"

	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/proficiency"
)

func mcq(id string, points int, correct string) assessment.Question {
	return assessment.Question{
		ID:     id,
		Text:   "q " + id,
		Points: points,
		Body:   assessment.MCQ{Options: []string{"a", "b", "c"}, CorrectAnswer: correct},
	}
}

func TestGrade_WeightedPoints(t *testing.T) {
	a := &assessment.Assessment{Questions: []assessment.Question{
		mcq("q1", 1, "a"),
		mcq("q2", 2, "b"),
		mcq("q3", 3, "c"),
	}}
	out, err := Grade(a, map[string]string{"q1": "a", "q2": "a", "q3": "c"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Score != 4 || out.MaxScore != 6 {
		t.Errorf("score = %d/%d, want 4/6", out.Score, out.MaxScore)
	}
	if out.Percentage != 67 {
		t.Errorf("percentage = %d, want 67", out.Percentage)
	}
	if out.Level != proficiency.Beginner {
		t.Errorf("level = %s, want beginner", out.Level)
	}
	if !out.Correct[0] || out.Correct[1] || !out.Correct[2] {
		t.Errorf("correct = %v", out.Correct)
	}
}

func TestGrade_UnansweredIsWrong(t *testing.T) {
	a := &assessment.Assessment{Questions: []assessment.Question{
		mcq("q1", 1, "a"),
		mcq("q2", 1, "b"),
	}}
	out, err := Grade(a, map[string]string{"q1": "a"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Score != 1 || out.Percentage != 50 {
		t.Errorf("got %d (%d%%), want 1 (50%%)", out.Score, out.Percentage)
	}
	if out.Answered != 1 || len(out.Unanswered) != 1 || out.Unanswered[0] != "q2" {
		t.Errorf("answered=%d unanswered=%v", out.Answered, out.Unanswered)
	}
}

func TestGrade_CodeChallengeNeedsVerdict(t *testing.T) {
	a := &assessment.Assessment{Questions: []assessment.Question{
		{ID: "c1", Text: "write it", Points: 2, Body: assessment.CodeChallenge{ExpectedOutput: "42"}},
		{ID: "c2", Text: "write it", Points: 2, Body: assessment.CodeChallenge{ExpectedOutput: "42"}},
	}}
	out, err := Grade(a, map[string]string{"c1": assessment.VerdictCorrect, "c2": "42"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Score != 2 {
		t.Errorf("score = %d, want 2", out.Score)
	}
}

func TestGrade_AdaptiveKeysByIndex(t *testing.T) {
	a := &assessment.Assessment{
		Kind: assessment.KindAdaptive,
		Questions: []assessment.Question{
			mcq("", 1, "a"),
			mcq("", 1, "b"),
		},
	}
	out, err := Grade(a, map[string]string{"0": "a", "1": "b"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Percentage != 100 || out.Level != proficiency.Advanced {
		t.Errorf("got %d%% %s", out.Percentage, out.Level)
	}
}

func TestGrade_NoQuestions(t *testing.T) {
	_, err := Grade(&assessment.Assessment{}, nil)
	if !errors.Is(err, ErrNoGradableQuestions) {
		t.Fatalf("err = %v, want ErrNoGradableQuestions", err)
	}
}

func TestCalculateLevel_Thresholds(t *testing.T) {
	tests := []struct {
		pct  int
		want proficiency.Level
	}{
		{100, proficiency.Advanced},
		{90, proficiency.Advanced},
		{89, proficiency.Intermediate},
		{70, proficiency.Intermediate},
		{69, proficiency.Beginner},
		{0, proficiency.Beginner},
	}
	for _, tt := range tests {
		if got := CalculateLevel(tt.pct); got != tt.want {
			t.Errorf("CalculateLevel(%d) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestPercentage_RoundsHalfUp(t *testing.T) {
	if got := Percentage(1, 8); got != 13 {
		t.Errorf("Percentage(1,8) = %d, want 13", got)
	}
	if got := Percentage(1, 3); got != 33 {
		t.Errorf("Percentage(1,3) = %d, want 33", got)
	}
}
