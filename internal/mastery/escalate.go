// Package mastery decides whether an assessment result changes a learner's
// recorded proficiency.
package mastery

import (
	"fmt"

	"github.com/abhisek/skillpath/internal/proficiency"
	"github.com/abhisek/skillpath/internal/skills"
)

// Reason explains an escalation decision.
type Reason string

const (
	ReasonUpgraded    Reason = "upgraded"
	ReasonNotHigher   Reason = "not-higher"
	ReasonNoUserSkill Reason = "no-user-skill"
)

// Trigger names the kind of attempt that produced a decision.
type Trigger string

const (
	TriggerStandard Trigger = "standard-assessment"
	TriggerAdaptive Trigger = "adaptive-assessment"
)

// Decision is the outcome of applying an attempt's calculated level.
type Decision struct {
	SkillID    string
	From       string
	To         proficiency.Level
	Calculated proficiency.Level
	Upgraded   bool
	Reason     Reason
}

// Escalate applies the upgrade-only policy. The returned To is the level the
// learner's record should hold afterwards. Escalate never creates a record:
// with no current skill the decision is a no-op.
func Escalate(current *skills.UserSkill, calculated proficiency.Level) (Decision, error) {
	calcOrd, err := proficiency.Ordinal(string(calculated))
	if err != nil {
		return Decision{}, err
	}
	calc, _ := proficiency.LevelName(calcOrd)

	if current == nil {
		return Decision{Calculated: calc, Reason: ReasonNoUserSkill}, nil
	}

	curOrd, err := proficiency.Ordinal(current.Level)
	if err != nil {
		return Decision{}, fmt.Errorf("user %s skill %s: %w", current.UserID, current.SkillID, err)
	}
	cur, _ := proficiency.LevelName(curOrd)

	d := Decision{
		SkillID:    current.SkillID,
		From:       current.Level,
		To:         cur,
		Calculated: calc,
		Reason:     ReasonNotHigher,
	}
	if calcOrd > curOrd {
		d.To = calc
		d.Upgraded = true
		d.Reason = ReasonUpgraded
	}
	return d, nil
}

func (d Decision) String() string {
	if d.Upgraded {
		return fmt.Sprintf("%s: %s -> %s", d.SkillID, d.From, d.To)
	}
	return fmt.Sprintf("%s: %s (%s)", d.SkillID, d.To, d.Reason)
}
