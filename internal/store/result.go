package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

type resultRepo struct {
	q querier
}

var resultColumns = []string{
	"id", "attempt_id", "user_id", "assessment_id", "score", "max_score",
	"percentage", "calculated_level", "answers", "trigger", "completed_at",
}

var adaptiveColumns = []string{
	"id", "attempt_id", "user_id", "skill_id", "difficulty_level", "questions", "answers",
	"score", "max_score", "percentage", "calculated_level", "trigger", "completed_at",
}

func (r *resultRepo) InsertResult(ctx context.Context, res *Result) (*Result, bool, error) {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.CompletedAt.IsZero() {
		res.CompletedAt = time.Now().UTC()
	}
	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return nil, false, fmt.Errorf("encode answers: %w", err)
	}

	query, args := builder().Insert(AssessmentResultsTable.Name).
		Columns(resultColumns...).
		Values(res.ID, res.AttemptID, res.UserID, res.AssessmentID, res.Score, res.MaxScore,
			res.Percentage, res.CalculatedLevel, string(answers), res.Trigger, res.CompletedAt).
		OnConflict(entsql.ConflictColumns("attempt_id"), entsql.DoNothing()).
		Query()
	created, err := execInserted(ctx, r.q, query, args)
	if err != nil {
		return nil, false, fmt.Errorf("insert result for attempt %s: %w", res.AttemptID, err)
	}
	if created {
		return res, true, nil
	}

	stored, err := r.resultByAttempt(ctx, res.AttemptID)
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

func (r *resultRepo) InsertAdaptive(ctx context.Context, res *AdaptiveResult) (*AdaptiveResult, bool, error) {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.CompletedAt.IsZero() {
		res.CompletedAt = time.Now().UTC()
	}
	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return nil, false, fmt.Errorf("encode answers: %w", err)
	}

	query, args := builder().Insert(AdaptiveAssessmentsTable.Name).
		Columns(adaptiveColumns...).
		Values(res.ID, res.AttemptID, res.UserID, res.SkillID, res.DifficultyLevel, string(res.Questions),
			string(answers), res.Score, res.MaxScore, res.Percentage, res.CalculatedLevel, res.Trigger, res.CompletedAt).
		OnConflict(entsql.ConflictColumns("attempt_id"), entsql.DoNothing()).
		Query()
	created, err := execInserted(ctx, r.q, query, args)
	if err != nil {
		return nil, false, fmt.Errorf("insert adaptive result for attempt %s: %w", res.AttemptID, err)
	}
	if created {
		return res, true, nil
	}

	stored, err := r.adaptiveWhere(ctx, entsql.EQ("attempt_id", res.AttemptID))
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

func execInserted(ctx context.Context, q querier, query string, args []any) (bool, error) {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *resultRepo) resultByAttempt(ctx context.Context, attemptID string) (*Result, error) {
	query, args := builder().Select(resultColumns...).
		From(entsql.Table(AssessmentResultsTable.Name)).
		Where(entsql.EQ("attempt_id", attemptID)).
		Query()
	res, err := scanResult(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("result for attempt %s: %w", attemptID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get result for attempt %s: %w", attemptID, err)
	}
	return res, nil
}

func (r *resultRepo) ListResults(ctx context.Context, userID string, limit int) ([]Result, error) {
	sel := builder().Select(resultColumns...).
		From(entsql.Table(AssessmentResultsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("completed_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func (r *resultRepo) GetAdaptive(ctx context.Context, id string) (*AdaptiveResult, error) {
	return r.adaptiveWhere(ctx, entsql.EQ("id", id))
}

func (r *resultRepo) adaptiveWhere(ctx context.Context, p *entsql.Predicate) (*AdaptiveResult, error) {
	query, args := builder().Select(adaptiveColumns...).
		From(entsql.Table(AdaptiveAssessmentsTable.Name)).
		Where(p).
		Query()
	res, err := scanAdaptive(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("adaptive assessment: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get adaptive assessment: %w", err)
	}
	return res, nil
}

func (r *resultRepo) ListAdaptive(ctx context.Context, userID string, limit int) ([]AdaptiveResult, error) {
	sel := builder().Select(adaptiveColumns...).
		From(entsql.Table(AdaptiveAssessmentsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("completed_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list adaptive assessments: %w", err)
	}
	defer rows.Close()

	var out []AdaptiveResult
	for rows.Next() {
		res, err := scanAdaptive(rows)
		if err != nil {
			return nil, fmt.Errorf("scan adaptive assessment: %w", err)
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(sc scanner) (*Result, error) {
	var (
		res     Result
		answers string
	)
	err := sc.Scan(&res.ID, &res.AttemptID, &res.UserID, &res.AssessmentID, &res.Score, &res.MaxScore,
		&res.Percentage, &res.CalculatedLevel, &answers, &res.Trigger, &res.CompletedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(answers), &res.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return &res, nil
}

func scanAdaptive(sc scanner) (*AdaptiveResult, error) {
	var (
		res                AdaptiveResult
		questions, answers string
	)
	err := sc.Scan(&res.ID, &res.AttemptID, &res.UserID, &res.SkillID, &res.DifficultyLevel, &questions,
		&answers, &res.Score, &res.MaxScore, &res.Percentage, &res.CalculatedLevel, &res.Trigger, &res.CompletedAt)
	if err != nil {
		return nil, err
	}
	res.Questions = []byte(questions)
	if err := json.Unmarshal([]byte(answers), &res.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return &res, nil
}
