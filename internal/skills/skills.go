// Package skills defines the skill catalog and learner skill records.
package skills

import "github.com/abhisek/skillpath/internal/proficiency"

// Importance says whether a job role needs a skill or merely prefers it.
type Importance string

const (
	Required  Importance = "required"
	Preferred Importance = "preferred"
)

// Valid reports whether i is a known importance.
func (i Importance) Valid() bool {
	return i == Required || i == Preferred
}

// Skill is a catalog entry.
type Skill struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
}

// UserSkill is a learner's self-reported or escalated level in one skill.
// Level is stored as entered; compare through proficiency.Ordinal.
type UserSkill struct {
	UserID            string `json:"user_id"`
	SkillID           string `json:"skill_id"`
	SkillName         string `json:"skill_name,omitempty"`
	Level             string `json:"level"`
	YearsOfExperience *int   `json:"years_of_experience,omitempty"`
}

// JobRoleSkill is one requirement of a job role.
type JobRoleSkill struct {
	SkillID       string            `json:"skill_id"`
	SkillName     string            `json:"skill_name"`
	RequiredLevel proficiency.Level `json:"required_level"`
	Importance    Importance        `json:"importance"`
}

// JobRole is a target role with its skill requirements.
type JobRole struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	Skills []JobRoleSkill `json:"skills"`
}

// Index keys user skills by skill ID.
func Index(userSkills []UserSkill) map[string]UserSkill {
	m := make(map[string]UserSkill, len(userSkills))
	for _, us := range userSkills {
		m[us.SkillID] = us
	}
	return m
}
