package catalog

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/proficiency"
	"github.com/abhisek/skillpath/internal/skills"
	"github.com/abhisek/skillpath/internal/store"
)

func TestSample_Loads(t *testing.T) {
	c, err := Sample()
	require.NoError(t, err)
	assert.Len(t, c.Skills, 4)
	assert.Len(t, c.Roles, 2)
	assert.Len(t, c.Assessments, 2)
	assert.Len(t, c.Assessments[0].Questions, 3)
}

func TestLoad_CollectsAllProblems(t *testing.T) {
	doc := `
skills:
  - id: go
    name: Go
  - id: go
    name: ""
roles:
  - id: r1
    title: Backend
    requires:
      - skill: rust
        level: expert
        importance: nice-to-have
assessments:
  - id: a1
    title: Broken
    skill: go
    questions:
      - question_type: mcq
        question_text: Pick one
        options: ["a"]
        correct_answer: a
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		`skills[1]: duplicate id "go"`,
		"skills[1]: name is required",
		`unknown skill "rust"`,
		"importance must be required or preferred",
		"assessments[0]:",
	} {
		assert.Contains(t, msg, want)
	}
	assert.ErrorIs(t, err, proficiency.ErrUnknownLevel)
	assert.ErrorIs(t, err, assessment.ErrInvalidQuestion)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	_, err := Load(strings.NewReader("skils:\n  - id: go\n"))
	assert.Error(t, err)
}

func TestLoad_Empty(t *testing.T) {
	c, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, c.Skills)
}

func TestSeed(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	c, err := Sample()
	require.NoError(t, err)

	st, err := c.Seed(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, Stats{Skills: 4, Roles: 2, Assessments: 2}, st)

	// Seeding twice must not duplicate anything.
	_, err = c.Seed(ctx, s)
	require.NoError(t, err)

	role, err := s.JobRoleRepo().Get(ctx, "backend-engineer")
	require.NoError(t, err)
	require.Len(t, role.Skills, 3)
	byID := map[string]skills.JobRoleSkill{}
	for _, rs := range role.Skills {
		byID[rs.SkillID] = rs
	}
	assert.Equal(t, proficiency.Advanced, byID["go"].RequiredLevel)
	assert.Equal(t, skills.Required, byID["go"].Importance)
	assert.Equal(t, skills.Preferred, byID["docker"].Importance)

	a, err := s.AssessmentRepo().Get(ctx, "go-fundamentals")
	require.NoError(t, err)
	require.True(t, a.Timed())
	assert.Equal(t, 6, a.MaxScore())
	assert.Equal(t, assessment.TypeCodeChallenge, a.Questions[2].Type())

	list, err := s.AssessmentRepo().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
