package problemgen

import "testing"

func TestPriorQuestionList(t *testing.T) {
	tests := []struct {
		name  string
		prior []string
		limit int
		want  string
	}{
		{"empty", nil, 5, "(none yet)"},
		{"blank only", []string{"  ", ""}, 5, "(none yet)"},
		{"keeps order", []string{"What is a slice?", "What is a map?"}, 5, "- What is a slice?\n- What is a map?"},
		{"drops repeats", []string{"What is a  slice?", "what is a slice?", "What is a map?"}, 5, "- what is a slice?\n- What is a map?"},
		{"newest within limit", []string{"Q1", "Q2", "Q3"}, 2, "- Q2\n- Q3"},
		{"no limit", []string{"Q1", "Q2", "Q3"}, 0, "- Q1\n- Q2\n- Q3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := priorQuestionList(tt.prior, tt.limit); got != tt.want {
				t.Errorf("priorQuestionList() = %q, want %q", got, tt.want)
			}
		})
	}
}
