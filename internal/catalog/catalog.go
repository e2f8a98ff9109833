// Package catalog loads skills, job roles and assessments from YAML and
// seeds them into the store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/proficiency"
	"github.com/abhisek/skillpath/internal/skills"
	"github.com/abhisek/skillpath/internal/store"
)

// Catalog is the on-disk document.
type Catalog struct {
	Skills      []Skill      `yaml:"skills"`
	Roles       []Role       `yaml:"roles"`
	Assessments []Assessment `yaml:"assessments"`
}

type Skill struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

type Role struct {
	ID       string            `yaml:"id"`
	Title    string            `yaml:"title"`
	Requires []RoleRequirement `yaml:"requires"`
}

type RoleRequirement struct {
	Skill      string `yaml:"skill"`
	Level      string `yaml:"level"`
	Importance string `yaml:"importance"`
}

type Assessment struct {
	ID               string           `yaml:"id"`
	Title            string           `yaml:"title"`
	Description      string           `yaml:"description"`
	Skill            string           `yaml:"skill"`
	TimeLimitMinutes int              `yaml:"time_limit_minutes"`
	Questions        []assessment.Raw `yaml:"questions"`
}

// LoadFile reads and validates a catalog file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load decodes and validates a catalog. Unknown keys are rejected.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var c Catalog
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports every problem found, not just the first.
func (c *Catalog) Validate() error {
	var errs []error
	addf := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	skillIDs := make(map[string]bool, len(c.Skills))
	names := make(map[string]bool, len(c.Skills))
	for i, s := range c.Skills {
		switch {
		case s.ID == "":
			addf("skills[%d]: id is required", i)
		case skillIDs[s.ID]:
			addf("skills[%d]: duplicate id %q", i, s.ID)
		}
		if s.Name == "" {
			addf("skills[%d]: name is required", i)
		} else if names[s.Name] {
			addf("skills[%d]: duplicate name %q", i, s.Name)
		}
		skillIDs[s.ID] = true
		names[s.Name] = true
	}

	roleIDs := make(map[string]bool, len(c.Roles))
	for i, r := range c.Roles {
		if r.ID == "" || roleIDs[r.ID] {
			addf("roles[%d]: missing or duplicate id %q", i, r.ID)
		}
		roleIDs[r.ID] = true
		if r.Title == "" {
			addf("roles[%d]: title is required", i)
		}
		seen := make(map[string]bool, len(r.Requires))
		for j, req := range r.Requires {
			if !skillIDs[req.Skill] {
				addf("roles[%d].requires[%d]: unknown skill %q", i, j, req.Skill)
			}
			if seen[req.Skill] {
				addf("roles[%d].requires[%d]: skill %q listed twice", i, j, req.Skill)
			}
			seen[req.Skill] = true
			if _, err := proficiency.Parse(req.Level); err != nil {
				addf("roles[%d].requires[%d]: %w", i, j, err)
			}
			if !importance(req.Importance).Valid() {
				addf("roles[%d].requires[%d]: importance must be required or preferred, got %q", i, j, req.Importance)
			}
		}
	}

	asmtIDs := make(map[string]bool, len(c.Assessments))
	for i, a := range c.Assessments {
		if a.ID == "" || asmtIDs[a.ID] {
			addf("assessments[%d]: missing or duplicate id %q", i, a.ID)
		}
		asmtIDs[a.ID] = true
		if a.Title == "" {
			addf("assessments[%d]: title is required", i)
		}
		if a.Skill != "" && !skillIDs[a.Skill] {
			addf("assessments[%d]: unknown skill %q", i, a.Skill)
		}
		if a.TimeLimitMinutes < 0 {
			addf("assessments[%d]: time_limit_minutes must not be negative", i)
		}
		if len(a.Questions) == 0 {
			addf("assessments[%d]: at least one question is required", i)
		}
		if _, err := assessment.DecodeAll(a.Questions); err != nil {
			addf("assessments[%d]: %w", i, err)
		}
	}
	return errors.Join(errs...)
}

// importance defaults an empty value to required.
func importance(s string) skills.Importance {
	if s == "" {
		return skills.Required
	}
	return skills.Importance(s)
}

// Stats counts what Seed wrote.
type Stats struct {
	Skills      int
	Roles       int
	Assessments int
}

// Transactor runs fn inside one database transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *store.Tx) error) error
}

// Seed upserts the whole catalog in one transaction. Re-seeding the same
// file is a no-op apart from timestamps.
func (c *Catalog) Seed(ctx context.Context, db Transactor) (Stats, error) {
	var st Stats
	err := db.WithTx(ctx, func(tx *store.Tx) error {
		for _, s := range c.Skills {
			if err := tx.SkillRepo().Upsert(ctx, skills.Skill{ID: s.ID, Name: s.Name, Category: s.Category}); err != nil {
				return err
			}
			st.Skills++
		}
		for _, r := range c.Roles {
			role := skills.JobRole{ID: r.ID, Title: r.Title}
			for _, req := range r.Requires {
				lvl, _ := proficiency.Parse(req.Level)
				role.Skills = append(role.Skills, skills.JobRoleSkill{
					SkillID:       req.Skill,
					RequiredLevel: lvl,
					Importance:    importance(req.Importance),
				})
			}
			if err := tx.JobRoleRepo().Upsert(ctx, role); err != nil {
				return err
			}
			st.Roles++
		}
		for _, a := range c.Assessments {
			qs, err := assessment.DecodeAll(a.Questions)
			if err != nil {
				return err
			}
			asmt := &assessment.Assessment{
				ID:          a.ID,
				Title:       a.Title,
				Description: a.Description,
				SkillID:     a.Skill,
				Kind:        assessment.KindStandard,
				Questions:   qs,
			}
			if a.TimeLimitMinutes > 0 {
				asmt.TimeLimitMinutes = assessment.Minutes(a.TimeLimitMinutes)
			}
			if err := tx.AssessmentRepo().Upsert(ctx, asmt); err != nil {
				return err
			}
			st.Assessments++
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	return st, nil
}
