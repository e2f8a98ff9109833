// Package results persists graded attempts and applies the escalation
// policy in the same transaction.
package results

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/mastery"
	"github.com/abhisek/skillpath/internal/metrics"
	"github.com/abhisek/skillpath/internal/session"
	"github.com/abhisek/skillpath/internal/store"
)

// Transactor runs fn inside one database transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *store.Tx) error) error
}

// Recorder is the session.Sink backed by the store.
type Recorder struct {
	db     Transactor
	logger *zap.Logger
}

var _ session.Sink = (*Recorder)(nil)

func NewRecorder(db Transactor, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{db: db, logger: logger}
}

// Record stores the attempt once per attempt id. A repeated attempt id
// returns the first stored row with Duplicate set and does not escalate
// again.
func (r *Recorder) Record(ctx context.Context, c *session.Completion) (*session.Receipt, error) {
	if c == nil || c.Assessment == nil || c.Outcome == nil {
		return nil, fmt.Errorf("record: incomplete completion")
	}

	var receipt *session.Receipt
	err := r.db.WithTx(ctx, func(tx *store.Tx) error {
		var err error
		if c.Assessment.Kind == assessment.KindAdaptive {
			receipt, err = r.recordAdaptive(ctx, tx, c)
		} else {
			receipt, err = r.recordStandard(ctx, tx, c)
		}
		return err
	})
	if err != nil {
		r.logger.Error("record attempt",
			zap.String("attempt_id", c.AttemptID),
			zap.String("user_id", c.UserID),
			zap.Error(err))
		return nil, err
	}

	metrics.ResultsRecorded.WithLabelValues(string(c.Assessment.Kind), strconv.FormatBool(receipt.Duplicate)).Inc()
	if receipt.Duplicate {
		r.logger.Info("attempt already recorded",
			zap.String("attempt_id", c.AttemptID),
			zap.String("record_id", receipt.RecordID))
		return receipt, nil
	}

	r.logger.Info("attempt recorded",
		zap.String("attempt_id", c.AttemptID),
		zap.String("user_id", c.UserID),
		zap.String("kind", string(c.Assessment.Kind)),
		zap.Int("percentage", c.Outcome.Percentage),
		zap.String("calculated_level", string(c.Outcome.Level)),
		zap.String("trigger", string(c.Trigger)),
		zap.Stringer("decision", receipt.Decision))
	return receipt, nil
}

func (r *Recorder) recordStandard(ctx context.Context, tx *store.Tx, c *session.Completion) (*session.Receipt, error) {
	stored, created, err := tx.ResultRepo().InsertResult(ctx, &store.Result{
		AttemptID:       c.AttemptID,
		UserID:          c.UserID,
		AssessmentID:    c.Assessment.ID,
		Score:           c.Outcome.Score,
		MaxScore:        c.Outcome.MaxScore,
		Percentage:      c.Outcome.Percentage,
		CalculatedLevel: string(c.Outcome.Level),
		Answers:         c.Answers,
		Trigger:         string(c.Trigger),
		CompletedAt:     c.CompletedAt,
	})
	if err != nil {
		return nil, err
	}
	if !created {
		return &session.Receipt{RecordID: stored.ID, Duplicate: true}, nil
	}

	receipt := &session.Receipt{RecordID: stored.ID}
	if c.Assessment.SkillID == "" {
		receipt.Decision = mastery.Decision{Calculated: c.Outcome.Level, Reason: mastery.ReasonNoUserSkill}
		return receipt, nil
	}
	receipt.Decision, err = escalate(ctx, tx, c, mastery.TriggerStandard)
	return receipt, err
}

func (r *Recorder) recordAdaptive(ctx context.Context, tx *store.Tx, c *session.Completion) (*session.Receipt, error) {
	stored, created, err := tx.ResultRepo().InsertAdaptive(ctx, &store.AdaptiveResult{
		AttemptID:       c.AttemptID,
		UserID:          c.UserID,
		SkillID:         c.Assessment.SkillID,
		DifficultyLevel: c.Assessment.Difficulty,
		Questions:       c.Assessment.Snapshot,
		Answers:         c.Answers,
		Score:           c.Outcome.Score,
		MaxScore:        c.Outcome.MaxScore,
		Percentage:      c.Outcome.Percentage,
		CalculatedLevel: string(c.Outcome.Level),
		Trigger:         string(c.Trigger),
		CompletedAt:     c.CompletedAt,
	})
	if err != nil {
		return nil, err
	}
	if !created {
		return &session.Receipt{RecordID: stored.ID, Duplicate: true}, nil
	}

	d, err := escalate(ctx, tx, c, mastery.TriggerAdaptive)
	if err != nil {
		return nil, err
	}
	return &session.Receipt{RecordID: stored.ID, Decision: d}, nil
}

// escalate applies the upgrade-only policy to the learner's record for the
// attempt's skill and appends the decision to the event log.
func escalate(ctx context.Context, tx *store.Tx, c *session.Completion, trigger mastery.Trigger) (mastery.Decision, error) {
	skillID := c.Assessment.SkillID
	current, err := tx.UserSkillRepo().Get(ctx, c.UserID, skillID)
	if err != nil {
		return mastery.Decision{}, err
	}
	d, err := mastery.Escalate(current, c.Outcome.Level)
	if err != nil {
		return mastery.Decision{}, err
	}
	d.SkillID = skillID

	if d.Upgraded {
		if err := tx.UserSkillRepo().SetLevel(ctx, c.UserID, skillID, string(d.To)); err != nil {
			return mastery.Decision{}, fmt.Errorf("upgrade %s for %s: %w", skillID, c.UserID, err)
		}
	}

	err = tx.EventRepo().AppendEscalation(ctx, store.EscalationEventData{
		UserID:          c.UserID,
		SkillID:         skillID,
		AttemptID:       c.AttemptID,
		FromLevel:       d.From,
		ToLevel:         string(d.To),
		CalculatedLevel: string(d.Calculated),
		Upgraded:        d.Upgraded,
		Trigger:         string(trigger),
	})
	if err != nil {
		return mastery.Decision{}, err
	}

	metrics.Escalations.WithLabelValues(string(trigger), string(d.Reason)).Inc()
	return d, nil
}
