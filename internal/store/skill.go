package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/skillpath/internal/skills"
)

type skillRepo struct {
	q querier
}

func (r *skillRepo) Upsert(ctx context.Context, s skills.Skill) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	query, args := builder().Insert(SkillsTable.Name).
		Columns("id", "name", "category", "created_at").
		Values(s.ID, s.Name, s.Category, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("name")
				u.SetExcluded("category")
			}),
		).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert skill %s: %w", s.ID, err)
	}
	return nil
}

func (r *skillRepo) Get(ctx context.Context, id string) (*skills.Skill, error) {
	query, args := builder().Select("id", "name", "category").
		From(entsql.Table(SkillsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	var s skills.Skill
	err := r.q.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Name, &s.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("skill %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get skill %s: %w", id, err)
	}
	return &s, nil
}

func (r *skillRepo) List(ctx context.Context) ([]skills.Skill, error) {
	query, args := builder().Select("id", "name", "category").
		From(entsql.Table(SkillsTable.Name)).
		OrderBy("category", "name").
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	var out []skills.Skill
	for rows.Next() {
		var s skills.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type userSkillRepo struct {
	q querier
}

func (r *userSkillRepo) Put(ctx context.Context, us skills.UserSkill) error {
	now := time.Now().UTC()
	var years any
	if us.YearsOfExperience != nil {
		years = *us.YearsOfExperience
	}
	query, args := builder().Insert(UserSkillsTable.Name).
		Columns("id", "user_id", "skill_id", "level", "years_of_experience", "created_at", "updated_at").
		Values(uuid.NewString(), us.UserID, us.SkillID, us.Level, years, now, now).
		OnConflict(
			entsql.ConflictColumns("user_id", "skill_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("level")
				u.SetExcluded("years_of_experience")
				u.SetExcluded("updated_at")
			}),
		).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put user skill %s/%s: %w", us.UserID, us.SkillID, err)
	}
	return nil
}

func (r *userSkillRepo) selector() (*entsql.Selector, *entsql.SelectTable, *entsql.SelectTable) {
	us := builder().Table(UserSkillsTable.Name).As("us")
	sk := builder().Table(SkillsTable.Name).As("s")
	sel := builder().
		Select(us.C("user_id"), us.C("skill_id"), sk.C("name"), us.C("level"), us.C("years_of_experience")).
		From(us).
		Join(sk).On(us.C("skill_id"), sk.C("id"))
	return sel, us, sk
}

func scanUserSkill(sc scanner) (skills.UserSkill, error) {
	var (
		us    skills.UserSkill
		years sql.NullInt64
	)
	if err := sc.Scan(&us.UserID, &us.SkillID, &us.SkillName, &us.Level, &years); err != nil {
		return skills.UserSkill{}, err
	}
	if years.Valid {
		y := int(years.Int64)
		us.YearsOfExperience = &y
	}
	return us, nil
}

func (r *userSkillRepo) Get(ctx context.Context, userID, skillID string) (*skills.UserSkill, error) {
	sel, us, _ := r.selector()
	query, args := sel.Where(entsql.And(
		entsql.EQ(us.C("user_id"), userID),
		entsql.EQ(us.C("skill_id"), skillID),
	)).Query()

	got, err := scanUserSkill(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user skill %s/%s: %w", userID, skillID, err)
	}
	return &got, nil
}

func (r *userSkillRepo) SetLevel(ctx context.Context, userID, skillID, level string) error {
	query, args := builder().Update(UserSkillsTable.Name).
		Set("level", level).
		Set("updated_at", time.Now().UTC()).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("skill_id", skillID))).
		Query()
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set level %s/%s: %w", userID, skillID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set level %s/%s: %w", userID, skillID, err)
	}
	if n == 0 {
		return fmt.Errorf("user skill %s/%s: %w", userID, skillID, ErrNotFound)
	}
	return nil
}

func (r *userSkillRepo) ListByUser(ctx context.Context, userID string) ([]skills.UserSkill, error) {
	sel, us, sk := r.selector()
	query, args := sel.
		Where(entsql.EQ(us.C("user_id"), userID)).
		OrderBy(sk.C("name")).
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list user skills: %w", err)
	}
	defer rows.Close()

	var out []skills.UserSkill
	for rows.Next() {
		us, err := scanUserSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user skill: %w", err)
		}
		out = append(out, us)
	}
	return out, rows.Err()
}
