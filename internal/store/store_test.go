package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/proficiency"
	"github.com/abhisek/skillpath/internal/skills"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedSkills(t *testing.T, s *Store, ids ...string) {
	t.Helper()
	for _, id := range ids {
		err := s.SkillRepo().Upsert(context.Background(), skills.Skill{ID: id, Name: "Skill " + id, Category: "lang"})
		require.NoError(t, err)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSkillUpsertAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.SkillRepo()

	require.NoError(t, repo.Upsert(ctx, skills.Skill{ID: "go", Name: "Go", Category: "language"}))
	require.NoError(t, repo.Upsert(ctx, skills.Skill{ID: "go", Name: "Golang", Category: "language"}))

	got, err := repo.Get(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, "Golang", got.Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = repo.Get(ctx, "rust")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUserSkillPutGetSetLevel(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedSkills(t, s, "go", "sql")
	repo := s.UserSkillRepo()

	missing, err := repo.Get(ctx, "u1", "go")
	require.NoError(t, err)
	assert.Nil(t, missing)

	years := 3
	require.NoError(t, repo.Put(ctx, skills.UserSkill{UserID: "u1", SkillID: "go", Level: "Beginner", YearsOfExperience: &years}))
	require.NoError(t, repo.Put(ctx, skills.UserSkill{UserID: "u1", SkillID: "sql", Level: "intermediate"}))

	got, err := repo.Get(ctx, "u1", "go")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Beginner", got.Level)
	assert.Equal(t, "Skill go", got.SkillName)
	require.NotNil(t, got.YearsOfExperience)
	assert.Equal(t, 3, *got.YearsOfExperience)

	require.NoError(t, repo.SetLevel(ctx, "u1", "go", string(proficiency.Advanced)))
	got, err = repo.Get(ctx, "u1", "go")
	require.NoError(t, err)
	assert.Equal(t, "advanced", got.Level)

	err = repo.SetLevel(ctx, "u2", "go", "advanced")
	assert.True(t, errors.Is(err, ErrNotFound), "SetLevel must not create records")

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Skill go", list[0].SkillName)
	assert.Equal(t, "Skill sql", list[1].SkillName)
	assert.Equal(t, 3, *list[0].YearsOfExperience)
	assert.Nil(t, list[1].YearsOfExperience)
}

func TestJobRoleUpsertReplacesRequirements(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedSkills(t, s, "go", "sql", "k8s")
	repo := s.JobRoleRepo()

	role := skills.JobRole{
		ID:    "backend",
		Title: "Backend Engineer",
		Skills: []skills.JobRoleSkill{
			{SkillID: "go", RequiredLevel: proficiency.Advanced, Importance: skills.Required},
			{SkillID: "sql", RequiredLevel: proficiency.Intermediate, Importance: skills.Preferred},
		},
	}
	require.NoError(t, repo.Upsert(ctx, role))

	role.Skills = []skills.JobRoleSkill{
		{SkillID: "k8s", RequiredLevel: proficiency.Beginner, Importance: skills.Preferred},
	}
	require.NoError(t, repo.Upsert(ctx, role))

	got, err := repo.Get(ctx, "backend")
	require.NoError(t, err)
	require.Len(t, got.Skills, 1)
	assert.Equal(t, "k8s", got.Skills[0].SkillID)
	assert.Equal(t, "Skill k8s", got.Skills[0].SkillName)

	roles, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 1)

	_, err = repo.Get(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAssessmentRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedSkills(t, s, "go")
	repo := s.AssessmentRepo()

	a := &assessment.Assessment{
		ID:               "go-basics",
		Title:            "Go Basics",
		SkillID:          "go",
		TimeLimitMinutes: assessment.Minutes(15),
		Questions: []assessment.Question{
			{Text: "Write FizzBuzz", Points: 3, OrderIndex: 3, Body: assessment.CodeChallenge{
				Language: "go", TestCases: []assessment.TestCase{{Input: "3", ExpectedOutput: "Fizz"}},
			}},
			{Text: "Zero value of int?", Points: 1, OrderIndex: 1, Body: assessment.MCQ{
				Options: []string{"0", "nil"}, CorrectAnswer: "0",
			}},
		},
	}
	require.NoError(t, repo.Upsert(ctx, a))

	got, err := repo.Get(ctx, "go-basics")
	require.NoError(t, err)
	assert.Equal(t, "go", got.SkillID)
	require.NotNil(t, got.TimeLimitMinutes)
	assert.Equal(t, 15, *got.TimeLimitMinutes)
	require.Len(t, got.Questions, 2)
	assert.Equal(t, assessment.TypeMCQ, got.Questions[0].Type())
	assert.Equal(t, assessment.TypeCodeChallenge, got.Questions[1].Type())
	assert.Equal(t, 4, got.MaxScore())

	require.NoError(t, repo.Upsert(ctx, &assessment.Assessment{ID: "empty", Title: "Empty"}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "empty", list[0].ID)
	assert.Equal(t, 0, list[0].QuestionCount)
	assert.Equal(t, "go-basics", list[1].ID)
	assert.Equal(t, 2, list[1].QuestionCount)
	require.NotNil(t, list[1].TimeLimitMinutes)
}

func TestInsertResultIsIdempotentPerAttempt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedSkills(t, s, "go")
	require.NoError(t, s.AssessmentRepo().Upsert(ctx, &assessment.Assessment{ID: "a1", Title: "A1"}))
	repo := s.ResultRepo()

	first, created, err := repo.InsertResult(ctx, &Result{
		AttemptID: "att-1", UserID: "u1", AssessmentID: "a1",
		Score: 4, MaxScore: 6, Percentage: 67, CalculatedLevel: "beginner",
		Answers: map[string]string{"q1": "a"}, Trigger: "manual",
	})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.InsertResult(ctx, &Result{
		AttemptID: "att-1", UserID: "u1", AssessmentID: "a1",
		Score: 6, MaxScore: 6, Percentage: 100, CalculatedLevel: "advanced", Trigger: "timeout",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 4, second.Score)

	list, err := repo.ListResults(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, map[string]string{"q1": "a"}, list[0].Answers)
}

func TestInsertAdaptiveKeepsSnapshotVerbatim(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedSkills(t, s, "go")
	repo := s.ResultRepo()

	snapshot := []byte(`[{"question_type":"mcq","question_text":"x","options":["a","b"],"correct_answer":"a","order_index":0}]`)
	stored, created, err := repo.InsertAdaptive(ctx, &AdaptiveResult{
		AttemptID: "att-2", UserID: "u1", SkillID: "go", DifficultyLevel: "beginner",
		Questions: snapshot, Answers: map[string]string{"0": "a"},
		Score: 1, MaxScore: 1, Percentage: 100, CalculatedLevel: "advanced", Trigger: "manual",
	})
	require.NoError(t, err)
	require.True(t, created)

	got, err := repo.GetAdaptive(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, string(snapshot), string(got.Questions))

	_, created, err = repo.InsertAdaptive(ctx, &AdaptiveResult{
		AttemptID: "att-2", UserID: "u1", SkillID: "go", Questions: []byte("[]"), Answers: map[string]string{},
	})
	require.NoError(t, err)
	assert.False(t, created)

	list, err := repo.ListAdaptive(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestWithTxRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedSkills(t, s, "go")
	require.NoError(t, s.UserSkillRepo().Put(ctx, skills.UserSkill{UserID: "u1", SkillID: "go", Level: "beginner"}))

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx *Tx) error {
		if err := tx.UserSkillRepo().SetLevel(ctx, "u1", "go", "advanced"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.UserSkillRepo().Get(ctx, "u1", "go")
	require.NoError(t, err)
	assert.Equal(t, "beginner", got.Level)
}

func TestEventsShareSequence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	events := s.EventRepo()

	require.NoError(t, events.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock-1", Purpose: "question-gen", InputTokens: 10, OutputTokens: 20,
		LatencyMs: 5, Success: true, RequestBody: "req", ResponseBody: "resp",
	}))
	require.NoError(t, events.AppendEscalation(ctx, EscalationEventData{
		UserID: "u1", SkillID: "go", AttemptID: "att-1",
		FromLevel: "beginner", ToLevel: "intermediate", CalculatedLevel: "intermediate",
		Upgraded: true, Trigger: "standard-assessment",
	}))

	llmEvents, err := events.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	require.NoError(t, err)
	require.Len(t, llmEvents, 1)
	assert.Equal(t, int64(1), llmEvents[0].Sequence)

	got, err := events.GetLLMEvent(ctx, llmEvents[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "resp", got.ResponseBody)

	none, err := events.GetLLMEvent(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, none)

	esc, err := events.QueryEscalations(ctx, "u1", QueryOpts{})
	require.NoError(t, err)
	require.Len(t, esc, 1)
	assert.Equal(t, int64(2), esc[0].Sequence)
	assert.True(t, esc[0].Upgraded)
}
