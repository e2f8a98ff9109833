package adaptive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/store"
)

// Review is a stored adaptive attempt laid out question by question.
type Review struct {
	Result *store.AdaptiveResult
	Items  []ReviewItem
}

type ReviewItem struct {
	Question assessment.Raw
	Answer   string
	Answered bool
	Correct  bool
}

// Review replays the stored snapshot exactly as it was generated, paired
// with the learner's answers.
func (s *Service) Review(ctx context.Context, id string) (*Review, error) {
	res, err := s.repos.ResultRepo().GetAdaptive(ctx, id)
	if err != nil {
		return nil, err
	}
	var raws []assessment.Raw
	if err := json.Unmarshal(res.Questions, &raws); err != nil {
		return nil, fmt.Errorf("decode snapshot of %s: %w", id, err)
	}

	rv := &Review{Result: res, Items: make([]ReviewItem, len(raws))}
	for i, raw := range raws {
		item := ReviewItem{Question: raw}
		item.Answer, item.Answered = res.Answers[assessment.IndexKey(i)]
		if q, err := assessment.Decode(raw); err == nil && item.Answered {
			item.Correct = q.Body.Correct(item.Answer)
		}
		rv.Items[i] = item
	}
	return rv, nil
}
