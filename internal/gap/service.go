package gap

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/skillpath/internal/skills"
	"github.com/abhisek/skillpath/internal/store"
)

// Repos is the slice of the store the service reads.
type Repos interface {
	UserSkillRepo() store.UserSkillRepo
	JobRoleRepo() store.JobRoleRepo
}

// Service runs the analyzer against stored learner skills and roles.
type Service struct {
	repos Repos
}

func NewService(repos Repos) *Service {
	return &Service{repos: repos}
}

// Readiness reports the learner against the given roles, or against every
// role when none are named. Named roles that do not exist are skipped.
// Reports are ordered by readiness.
func (s *Service) Readiness(ctx context.Context, userID string, roleIDs ...string) ([]*Report, error) {
	if len(roleIDs) == 0 {
		ids, err := s.repos.JobRoleRepo().ListIDs(ctx)
		if err != nil {
			return nil, err
		}
		roleIDs = ids
	}

	userSkills, err := s.repos.UserSkillRepo().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := make([]*skills.JobRole, len(roleIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, id := range roleIDs {
		g.Go(func() error {
			role, err := s.repos.JobRoleRepo().Get(gctx, id)
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			found[i] = role
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	roles := make([]skills.JobRole, 0, len(found))
	for _, role := range found {
		if role != nil {
			roles = append(roles, *role)
		}
	}
	return CompareRoles(userSkills, roles)
}

// Match returns the weighted match score for one role along with its gap
// report.
func (s *Service) Match(ctx context.Context, userID, roleID string) (int, *Report, error) {
	role, err := s.repos.JobRoleRepo().Get(ctx, roleID)
	if err != nil {
		return 0, nil, err
	}
	userSkills, err := s.repos.UserSkillRepo().ListByUser(ctx, userID)
	if err != nil {
		return 0, nil, err
	}
	score, err := MatchScore(userSkills, role)
	if err != nil {
		return 0, nil, err
	}
	report, err := Analyze(userSkills, role)
	if err != nil {
		return 0, nil, err
	}
	return score, report, nil
}
