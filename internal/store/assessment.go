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

	"github.com/abhisek/skillpath/internal/assessment"
)

type assessmentRepo struct {
	q querier
}

func (r *assessmentRepo) Upsert(ctx context.Context, a *assessment.Assessment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	var skillID, limit any
	if a.SkillID != "" {
		skillID = a.SkillID
	}
	if a.TimeLimitMinutes != nil {
		limit = *a.TimeLimitMinutes
	}

	query, args := builder().Insert(AssessmentsTable.Name).
		Columns("id", "title", "description", "skill_id", "time_limit_minutes", "created_at").
		Values(a.ID, a.Title, a.Description, skillID, limit, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("title")
				u.SetExcluded("description")
				u.SetExcluded("skill_id")
				u.SetExcluded("time_limit_minutes")
			}),
		).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert assessment %s: %w", a.ID, err)
	}

	query, args = builder().Delete(QuestionsTable.Name).
		Where(entsql.EQ("assessment_id", a.ID)).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear questions of %s: %w", a.ID, err)
	}

	if len(a.Questions) == 0 {
		return nil
	}
	ins := builder().Insert(QuestionsTable.Name).
		Columns("id", "assessment_id", "question_type", "question_text", "points", "order_index", "payload")
	for i := range a.Questions {
		q := &a.Questions[i]
		if q.ID == "" {
			q.ID = fmt.Sprintf("%s-q%d", a.ID, i+1)
		}
		payload, err := json.Marshal(assessment.Encode(*q))
		if err != nil {
			return fmt.Errorf("encode question %s: %w", q.ID, err)
		}
		ins.Values(q.ID, a.ID, string(q.Type()), q.Text, q.Points, q.OrderIndex, string(payload))
	}
	query, args = ins.Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert questions of %s: %w", a.ID, err)
	}
	return nil
}

func (r *assessmentRepo) Get(ctx context.Context, id string) (*assessment.Assessment, error) {
	query, args := builder().Select("id", "title", "description", "skill_id", "time_limit_minutes").
		From(entsql.Table(AssessmentsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		a       = &assessment.Assessment{Kind: assessment.KindStandard}
		skillID sql.NullString
		limit   sql.NullInt64
	)
	err := r.q.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.Title, &a.Description, &skillID, &limit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("assessment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment %s: %w", id, err)
	}
	a.SkillID = skillID.String
	if limit.Valid {
		a.TimeLimitMinutes = assessment.Minutes(int(limit.Int64))
	}

	qs, err := r.questions(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Questions = qs
	a.SortQuestions()
	return a, nil
}

func (r *assessmentRepo) questions(ctx context.Context, assessmentID string) ([]assessment.Question, error) {
	query, args := builder().Select("id", "question_type", "question_text", "points", "order_index", "payload").
		From(entsql.Table(QuestionsTable.Name)).
		Where(entsql.EQ("assessment_id", assessmentID)).
		OrderBy("order_index", "id").
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list questions of %s: %w", assessmentID, err)
	}
	defer rows.Close()

	var raws []assessment.Raw
	for rows.Next() {
		var (
			raw                      assessment.Raw
			id, qtype, text, payload string
			points, order            int
		)
		if err := rows.Scan(&id, &qtype, &text, &points, &order, &payload); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &raw); err != nil {
			return nil, fmt.Errorf("decode payload of question %s: %w", id, err)
		}
		raw.ID = id
		raw.QuestionType = assessment.Type(qtype)
		raw.QuestionText = text
		raw.Points = points
		raw.OrderIndex = order
		raws = append(raws, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assessment.DecodeAll(raws)
}

func (r *assessmentRepo) List(ctx context.Context) ([]AssessmentSummary, error) {
	a := builder().Table(AssessmentsTable.Name).As("a")
	q := builder().Table(QuestionsTable.Name).As("q")
	query, args := builder().
		Select(a.C("id"), a.C("title"), a.C("skill_id"), a.C("time_limit_minutes"), entsql.Count(q.C("id"))).
		From(a).
		LeftJoin(q).On(a.C("id"), q.C("assessment_id")).
		GroupBy(a.C("id")).
		OrderBy(a.C("title")).
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var out []AssessmentSummary
	for rows.Next() {
		var (
			s       AssessmentSummary
			skillID sql.NullString
			limit   sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &s.Title, &skillID, &limit, &s.QuestionCount); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		s.SkillID = skillID.String
		if limit.Valid {
			s.TimeLimitMinutes = assessment.Minutes(int(limit.Int64))
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
