package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/skillpath/internal/proficiency"
	"github.com/abhisek/skillpath/internal/skills"
)

type jobRoleRepo struct {
	q querier
}

func (r *jobRoleRepo) Upsert(ctx context.Context, role skills.JobRole) error {
	if role.ID == "" {
		role.ID = uuid.NewString()
	}
	query, args := builder().Insert(JobRolesTable.Name).
		Columns("id", "title", "created_at").
		Values(role.ID, role.Title, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("title")
			}),
		).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert job role %s: %w", role.ID, err)
	}

	query, args = builder().Delete(JobRoleSkillsTable.Name).
		Where(entsql.EQ("job_role_id", role.ID)).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear requirements of %s: %w", role.ID, err)
	}

	if len(role.Skills) == 0 {
		return nil
	}
	ins := builder().Insert(JobRoleSkillsTable.Name).
		Columns("job_role_id", "skill_id", "required_level", "importance")
	for _, rs := range role.Skills {
		ins.Values(role.ID, rs.SkillID, string(rs.RequiredLevel), string(rs.Importance))
	}
	query, args = ins.Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert requirements of %s: %w", role.ID, err)
	}
	return nil
}

func (r *jobRoleRepo) Get(ctx context.Context, id string) (*skills.JobRole, error) {
	query, args := builder().Select("id", "title").
		From(entsql.Table(JobRolesTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	var role skills.JobRole
	err := r.q.QueryRowContext(ctx, query, args...).Scan(&role.ID, &role.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job role %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get job role %s: %w", id, err)
	}

	reqs, err := r.requirements(ctx, id)
	if err != nil {
		return nil, err
	}
	role.Skills = reqs
	return &role, nil
}

func (r *jobRoleRepo) requirements(ctx context.Context, roleID string) ([]skills.JobRoleSkill, error) {
	rs := builder().Table(JobRoleSkillsTable.Name).As("rs")
	sk := builder().Table(SkillsTable.Name).As("s")
	query, args := builder().
		Select(rs.C("skill_id"), sk.C("name"), rs.C("required_level"), rs.C("importance")).
		From(rs).
		Join(sk).On(rs.C("skill_id"), sk.C("id")).
		Where(entsql.EQ(rs.C("job_role_id"), roleID)).
		OrderBy(rs.C("id")).
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requirements of %s: %w", roleID, err)
	}
	defer rows.Close()

	var out []skills.JobRoleSkill
	for rows.Next() {
		var (
			s          skills.JobRoleSkill
			level, imp string
		)
		if err := rows.Scan(&s.SkillID, &s.SkillName, &level, &imp); err != nil {
			return nil, fmt.Errorf("scan requirement: %w", err)
		}
		s.RequiredLevel = proficiency.Level(level)
		s.Importance = skills.Importance(imp)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *jobRoleRepo) ListIDs(ctx context.Context) ([]string, error) {
	query, args := builder().Select("id").
		From(entsql.Table(JobRolesTable.Name)).
		OrderBy("title").
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list job roles: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan job role: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *jobRoleRepo) List(ctx context.Context) ([]skills.JobRole, error) {
	ids, err := r.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	roles := make([]skills.JobRole, 0, len(ids))
	for _, id := range ids {
		role, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}
	return roles, nil
}
