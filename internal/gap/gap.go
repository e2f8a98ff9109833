// Package gap compares a learner's skills with the requirements of a job role.
package gap

import (
	"fmt"
	"math"
	"sort"

	"github.com/abhisek/skillpath/internal/proficiency"
	"github.com/abhisek/skillpath/internal/skills"
)

// Status classifies a single requirement.
type Status string

const (
	StatusMet     Status = "met"
	StatusPartial Status = "partial"
	StatusMissing Status = "missing"
)

// Readiness weights per importance.
const (
	readinessRequiredWeight  = 3
	readinessPreferredWeight = 1
)

// Match score weights per importance.
const (
	matchRequiredWeight  = 2.0
	matchPreferredWeight = 1.0
)

// Entry is the gap for one job role skill.
type Entry struct {
	SkillID       string            `json:"skill_id"`
	SkillName     string            `json:"skill_name"`
	Importance    skills.Importance `json:"importance"`
	RequiredLevel int               `json:"required_level"`
	UserLevel     int               `json:"user_level"`
	Gap           int               `json:"gap"`
	Status        Status            `json:"status"`

	// UnknownUserLevel is set when the learner has a record for the skill
	// whose level is not on the scale. Such a record counts as absent.
	UnknownUserLevel bool `json:"unknown_user_level,omitempty"`
}

// Report is the gap analysis for one role.
type Report struct {
	RoleID    string  `json:"role_id"`
	RoleTitle string  `json:"role_title"`
	Entries   []Entry `json:"entries"`
	Readiness int     `json:"readiness"`
	Met       int     `json:"met"`
	Partial   int     `json:"partial"`
	Missing   int     `json:"missing"`
}

// StatusFor maps a non-negative gap to a status.
func StatusFor(gap int) Status {
	switch {
	case gap <= 0:
		return StatusMet
	case gap == 1:
		return StatusPartial
	default:
		return StatusMissing
	}
}

// Analyze builds a gap report for role. A nil role yields an empty report.
// An unparseable required level is an error.
func Analyze(userSkills []skills.UserSkill, role *skills.JobRole) (*Report, error) {
	if role == nil {
		return &Report{}, nil
	}

	byID := skills.Index(userSkills)
	r := &Report{
		RoleID:    role.ID,
		RoleTitle: role.Title,
		Entries:   make([]Entry, 0, len(role.Skills)),
	}

	for _, rs := range role.Skills {
		required, err := proficiency.Ordinal(string(rs.RequiredLevel))
		if err != nil {
			return nil, fmt.Errorf("role %s skill %s: %w", role.Title, rs.SkillName, err)
		}

		e := Entry{
			SkillID:       rs.SkillID,
			SkillName:     rs.SkillName,
			Importance:    rs.Importance,
			RequiredLevel: required,
		}
		if us, ok := byID[rs.SkillID]; ok {
			n, err := proficiency.Ordinal(us.Level)
			if err != nil {
				e.UnknownUserLevel = true
			} else {
				e.UserLevel = n
			}
		}
		e.Gap = max(0, required-e.UserLevel)
		e.Status = StatusFor(e.Gap)

		switch e.Status {
		case StatusMet:
			r.Met++
		case StatusPartial:
			r.Partial++
		case StatusMissing:
			r.Missing++
		}
		r.Entries = append(r.Entries, e)
	}

	r.Readiness = ReadinessScore(r.Entries)
	sortEntries(r.Entries)
	return r, nil
}

// ReadinessScore is the weighted share of required proficiency the learner
// covers, 0..100. Required skills weigh 3, preferred 1. Each skill
// contributes weight*min(user, required) of weight*required.
func ReadinessScore(entries []Entry) int {
	var earned, total int
	for _, e := range entries {
		w := readinessPreferredWeight
		if e.Importance == skills.Required {
			w = readinessRequiredWeight
		}
		total += w * e.RequiredLevel
		earned += w * min(e.UserLevel, e.RequiredLevel)
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(earned) / float64(total)))
}

// MatchScore is a coarser role match, 0..100. Required skills weigh 2,
// preferred 1. A met skill earns its full weight, a held but
// under-level skill earns half, an absent skill earns nothing.
func MatchScore(userSkills []skills.UserSkill, role *skills.JobRole) (int, error) {
	if role == nil {
		return 0, nil
	}
	byID := skills.Index(userSkills)

	var earned, total float64
	for _, rs := range role.Skills {
		required, err := proficiency.Ordinal(string(rs.RequiredLevel))
		if err != nil {
			return 0, fmt.Errorf("role %s skill %s: %w", role.Title, rs.SkillName, err)
		}
		w := matchPreferredWeight
		if rs.Importance == skills.Required {
			w = matchRequiredWeight
		}
		total += w

		us, ok := byID[rs.SkillID]
		if !ok {
			continue
		}
		user, err := proficiency.Ordinal(us.Level)
		if err != nil {
			continue
		}
		switch {
		case user >= required:
			earned += w
		case user > 0:
			earned += 0.5 * w
		}
	}
	if total == 0 {
		return 0, nil
	}
	return int(math.Round(100 * earned / total)), nil
}

// CompareRoles analyzes several roles and orders the reports by readiness,
// highest first, then by title.
func CompareRoles(userSkills []skills.UserSkill, roles []skills.JobRole) ([]*Report, error) {
	reports := make([]*Report, 0, len(roles))
	for i := range roles {
		r, err := Analyze(userSkills, &roles[i])
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].Readiness != reports[j].Readiness {
			return reports[i].Readiness > reports[j].Readiness
		}
		return reports[i].RoleTitle < reports[j].RoleTitle
	})
	return reports, nil
}

// sortEntries puts required skills first, then larger gaps, then by name.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if (a.Importance == skills.Required) != (b.Importance == skills.Required) {
			return a.Importance == skills.Required
		}
		if a.Gap != b.Gap {
			return a.Gap > b.Gap
		}
		return a.SkillName < b.SkillName
	})
}
