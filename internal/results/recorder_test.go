package results

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/grading"
	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/abhisek/skillpath/internal/proficiency"
	"github.com/abhisek/skillpath/internal/session"
	"github.com/abhisek/skillpath/internal/skills"
	"github.com/abhisek/skillpath/internal/store"
)

func setup(t *testing.T) (*store.Store, *Recorder) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	require.NoError(t, s.SkillRepo().Upsert(ctx, skills.Skill{ID: "go", Name: "Go", Category: "language"}))
	require.NoError(t, s.AssessmentRepo().Upsert(ctx, standardAssessment()))
	return s, NewRecorder(s, nil)
}

func standardAssessment() *assessment.Assessment {
	return &assessment.Assessment{
		ID:      "go-basics",
		Title:   "Go Basics",
		SkillID: "go",
		Questions: []assessment.Question{
			{ID: "q1", Text: "Zero value of int?", Points: 1, Body: assessment.MCQ{Options: []string{"0", "nil"}, CorrectAnswer: "0"}},
			{ID: "q2", Text: "Keyword for goroutines?", Points: 1, Body: assessment.MCQ{Options: []string{"go", "async"}, CorrectAnswer: "go"}},
		},
	}
}

func completion(t *testing.T, a *assessment.Assessment, attemptID string, answers map[string]string) *session.Completion {
	t.Helper()
	out, err := grading.Grade(a, answers)
	require.NoError(t, err)
	return &session.Completion{
		AttemptID:   attemptID,
		UserID:      "u1",
		Assessment:  a,
		Answers:     answers,
		Outcome:     out,
		Trigger:     session.TriggerManual,
		CompletedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecord_StandardUpgrades(t *testing.T) {
	s, rec := setup(t)
	ctx := context.Background()
	require.NoError(t, s.UserSkillRepo().Put(ctx, skills.UserSkill{UserID: "u1", SkillID: "go", Level: "beginner"}))

	c := completion(t, standardAssessment(), "att-1", map[string]string{"q1": "0", "q2": "go"})
	receipt, err := rec.Record(ctx, c)
	require.NoError(t, err)
	assert.False(t, receipt.Duplicate)
	assert.NotEmpty(t, receipt.RecordID)
	assert.True(t, receipt.Decision.Upgraded)
	assert.Equal(t, proficiency.Advanced, receipt.Decision.To)

	us, err := s.UserSkillRepo().Get(ctx, "u1", "go")
	require.NoError(t, err)
	assert.Equal(t, "advanced", us.Level)

	events, err := s.EventRepo().QueryEscalations(ctx, "u1", store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "beginner", events[0].FromLevel)
	assert.Equal(t, "advanced", events[0].ToLevel)
	assert.Equal(t, string(mastery.TriggerStandard), events[0].Trigger)
}

func TestRecord_NeverDowngrades(t *testing.T) {
	s, rec := setup(t)
	ctx := context.Background()
	require.NoError(t, s.UserSkillRepo().Put(ctx, skills.UserSkill{UserID: "u1", SkillID: "go", Level: "Advanced"}))

	receipt, err := rec.Record(ctx, completion(t, standardAssessment(), "att-1", map[string]string{"q1": "nil"}))
	require.NoError(t, err)
	assert.False(t, receipt.Decision.Upgraded)
	assert.Equal(t, mastery.ReasonNotHigher, receipt.Decision.Reason)

	us, err := s.UserSkillRepo().Get(ctx, "u1", "go")
	require.NoError(t, err)
	assert.Equal(t, "Advanced", us.Level, "stored level is left untouched")
}

func TestRecord_StandardWithoutUserSkillCreatesNothing(t *testing.T) {
	s, rec := setup(t)
	ctx := context.Background()

	receipt, err := rec.Record(ctx, completion(t, standardAssessment(), "att-1", map[string]string{"q1": "0", "q2": "go"}))
	require.NoError(t, err)
	assert.Equal(t, mastery.ReasonNoUserSkill, receipt.Decision.Reason)

	us, err := s.UserSkillRepo().Get(ctx, "u1", "go")
	require.NoError(t, err)
	assert.Nil(t, us)

	list, err := s.ResultRepo().ListResults(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRecord_DuplicateAttemptIsIdempotent(t *testing.T) {
	s, rec := setup(t)
	ctx := context.Background()
	require.NoError(t, s.UserSkillRepo().Put(ctx, skills.UserSkill{UserID: "u1", SkillID: "go", Level: "beginner"}))

	c := completion(t, standardAssessment(), "att-1", map[string]string{"q1": "0", "q2": "go"})
	first, err := rec.Record(ctx, c)
	require.NoError(t, err)

	second, err := rec.Record(ctx, c)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.RecordID, second.RecordID)

	events, err := s.EventRepo().QueryEscalations(ctx, "u1", store.QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, events, 1, "a duplicate must not escalate again")
}

func TestRecord_UnknownStoredLevelRollsBack(t *testing.T) {
	s, rec := setup(t)
	ctx := context.Background()
	require.NoError(t, s.UserSkillRepo().Put(ctx, skills.UserSkill{UserID: "u1", SkillID: "go", Level: "guru"}))

	_, err := rec.Record(ctx, completion(t, standardAssessment(), "att-1", map[string]string{"q1": "0"}))
	assert.ErrorIs(t, err, proficiency.ErrUnknownLevel)

	list, err := s.ResultRepo().ListResults(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, list, "result insert is rolled back with the failed escalation")
}

func TestRecord_AdaptiveKeepsSnapshot(t *testing.T) {
	s, rec := setup(t)
	ctx := context.Background()
	require.NoError(t, s.UserSkillRepo().Put(ctx, skills.UserSkill{UserID: "u1", SkillID: "go", Level: "beginner"}))

	raws := []assessment.Raw{
		{QuestionType: "mcq", QuestionText: "Which is a channel op?", Points: 2, Options: []string{"<-", "->"}, CorrectAnswer: "<-"},
		{QuestionType: "mcq", QuestionText: "Map zero value?", Points: 1, Options: []string{"nil", "{}"}, CorrectAnswer: "nil"},
	}
	snapshot, err := json.Marshal(raws)
	require.NoError(t, err)
	qs, err := assessment.DecodeAll(raws)
	require.NoError(t, err)

	a := &assessment.Assessment{
		ID:         "adaptive-go",
		Title:      "Adaptive: Go",
		SkillID:    "go",
		Kind:       assessment.KindAdaptive,
		Difficulty: "intermediate",
		Questions:  qs,
		Snapshot:   snapshot,
	}
	receipt, err := rec.Record(ctx, completion(t, a, "att-a", map[string]string{"0": "<-", "1": "{}"}))
	require.NoError(t, err)
	assert.Equal(t, proficiency.Beginner, receipt.Decision.Calculated)

	stored, err := s.ResultRepo().GetAdaptive(ctx, receipt.RecordID)
	require.NoError(t, err)
	assert.JSONEq(t, string(snapshot), string(stored.Questions))
	assert.Equal(t, "intermediate", stored.DifficultyLevel)
	assert.Equal(t, 2, stored.Score)
	assert.Equal(t, 3, stored.MaxScore)

	events, err := s.EventRepo().QueryEscalations(ctx, "u1", store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(mastery.TriggerAdaptive), events[0].Trigger)
}

func TestRecord_ThroughSession(t *testing.T) {
	s, rec := setup(t)
	ctx := context.Background()
	require.NoError(t, s.UserSkillRepo().Put(ctx, skills.UserSkill{UserID: "u1", SkillID: "go", Level: "beginner"}))

	a, err := s.AssessmentRepo().Get(ctx, "go-basics")
	require.NoError(t, err)
	sess := session.New(a, "u1", rec, session.WithAttemptID("att-s"))
	sess.Start()
	require.NoError(t, sess.Answer(a.AnswerKey(0), "0"))
	require.NoError(t, sess.Answer(a.AnswerKey(1), "async"))

	res, err := sess.Submit(ctx, session.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Outcome.Percentage)
	assert.Equal(t, session.StateScored, sess.State())
	assert.Equal(t, mastery.ReasonNotHigher, res.Receipt.Decision.Reason)
}
