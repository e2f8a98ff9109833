// Package adaptive builds assessments from freshly generated questions
// targeted at a learner's level, and replays stored ones for review.
package adaptive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/problemgen"
	"github.com/abhisek/skillpath/internal/proficiency"
	"github.com/abhisek/skillpath/internal/store"
)

// ErrNoUserSkill is returned when the learner has not declared the skill.
// Adaptive attempts need a starting level to target.
var ErrNoUserSkill = errors.New("no recorded level for this skill")

const (
	DefaultQuestionCount = 10

	// historyLimit bounds how many earlier attempts feed the prompt's
	// already-asked list.
	historyLimit = 5
)

// Repos is the slice of the store the service reads.
type Repos interface {
	SkillRepo() store.SkillRepo
	UserSkillRepo() store.UserSkillRepo
	ResultRepo() store.ResultRepo
}

type Config struct {
	QuestionCount int
	// TimeLimitMinutes of zero leaves adaptive attempts untimed.
	TimeLimitMinutes int
}

type Service struct {
	repos  Repos
	gen    problemgen.Generator
	cfg    Config
	logger *zap.Logger
	newID  func() string
}

func NewService(repos Repos, gen problemgen.Generator, cfg Config, logger *zap.Logger) *Service {
	if cfg.QuestionCount <= 0 {
		cfg.QuestionCount = DefaultQuestionCount
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repos: repos, gen: gen, cfg: cfg, logger: logger, newID: uuid.NewString}
}

// Prepare generates a new adaptive assessment. An empty difficulty targets
// the learner's current level. The returned assessment keys answers by
// question index and carries the generated set as its snapshot.
func (s *Service) Prepare(ctx context.Context, userID, skillID, difficulty string) (*assessment.Assessment, error) {
	current, err := s.repos.UserSkillRepo().Get(ctx, userID, skillID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("%w: user %s skill %s", ErrNoUserSkill, userID, skillID)
	}
	skill, err := s.repos.SkillRepo().Get(ctx, skillID)
	if err != nil {
		return nil, err
	}

	if difficulty == "" {
		difficulty = current.Level
	}
	level, err := proficiency.Parse(difficulty)
	if err != nil {
		return nil, err
	}

	prior, err := s.priorQuestions(ctx, userID, skillID)
	if err != nil {
		return nil, err
	}

	set, err := s.gen.Generate(ctx, problemgen.GenerateInput{
		SkillName:      skill.Name,
		SkillCategory:  skill.Category,
		Level:          level,
		Count:          s.cfg.QuestionCount,
		PriorQuestions: prior,
	})
	if err != nil {
		s.logger.Warn("question generation failed",
			zap.String("user_id", userID),
			zap.String("skill_id", skillID),
			zap.Error(err))
		return nil, err
	}
	snapshot, err := set.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("snapshot question set: %w", err)
	}

	a := &assessment.Assessment{
		ID:          "adaptive-" + s.newID(),
		Title:       fmt.Sprintf("Adaptive %s: %s", level.Title(), skill.Name),
		Description: fmt.Sprintf("%d generated questions targeting %s level", len(set.Questions), level),
		SkillID:     skillID,
		Kind:        assessment.KindAdaptive,
		Difficulty:  string(level),
		Questions:   set.Questions,
		Snapshot:    snapshot,
	}
	if s.cfg.TimeLimitMinutes > 0 {
		a.TimeLimitMinutes = assessment.Minutes(s.cfg.TimeLimitMinutes)
	}

	s.logger.Info("adaptive assessment prepared",
		zap.String("assessment_id", a.ID),
		zap.String("user_id", userID),
		zap.String("skill_id", skillID),
		zap.String("difficulty", a.Difficulty),
		zap.Int("questions", len(a.Questions)))
	return a, nil
}

// priorQuestions collects question texts from the learner's recent
// attempts on the same skill.
func (s *Service) priorQuestions(ctx context.Context, userID, skillID string) ([]string, error) {
	history, err := s.repos.ResultRepo().ListAdaptive(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	var texts []string
	seen := 0
	for _, h := range history {
		if h.SkillID != skillID {
			continue
		}
		if seen++; seen > historyLimit {
			break
		}
		var raws []assessment.Raw
		if err := json.Unmarshal(h.Questions, &raws); err != nil {
			s.logger.Debug("skip unreadable snapshot", zap.String("id", h.ID), zap.Error(err))
			continue
		}
		for _, r := range raws {
			texts = append(texts, r.QuestionText)
		}
	}
	return texts, nil
}
