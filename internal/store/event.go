package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out one monotonic sequence shared by every event
// table, so events of different kinds can be ordered against each other.
// Uses raw SQL because the increment must be atomic at the database level;
// the mutex serializes within the process.
type sequenceCounter struct {
	mu sync.Mutex
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{}, nil
}

// Next atomically returns the next sequence number and increments the
// counter. q may be a transaction, in which case the increment rolls back
// with it.
func (sc *sequenceCounter) Next(ctx context.Context, q querier) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := q.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo on top of the global sequence counter.
type eventRepo struct {
	q   querier
	seq *sequenceCounter
}

var llmEventColumns = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose", "input_tokens", "output_tokens",
	"latency_ms", "success", "error_message", "request_body", "response_body",
}

var escalationEventColumns = []string{
	"id", "sequence", "timestamp", "user_id", "skill_id", "attempt_id",
	"from_level", "to_level", "calculated_level", "upgraded", "trigger",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx, r.q)
	if err != nil {
		return err
	}

	query, args := builder().Insert(LlmRequestEventsTable.Name).
		Columns(llmEventColumns[1:]...).
		Values(seqNum, time.Now().UTC(), data.Provider, data.Model, data.Purpose, data.InputTokens,
			data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	sel := builder().Select(llmEventColumns...).From(entsql.Table(LlmRequestEventsTable.Name))
	applyQueryOpts(sel, opts)
	query, args := sel.Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error) {
	query, args := builder().Select(llmEventColumns...).
		From(entsql.Table(LlmRequestEventsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()
	e, err := scanLLMEvent(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	return e, nil
}

func scanLLMEvent(sc scanner) (*LLMRequestEvent, error) {
	var e LLMRequestEvent
	err := sc.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose, &e.InputTokens,
		&e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepo) AppendEscalation(ctx context.Context, data EscalationEventData) error {
	seqNum, err := r.seq.Next(ctx, r.q)
	if err != nil {
		return err
	}

	query, args := builder().Insert(EscalationEventsTable.Name).
		Columns(escalationEventColumns[1:]...).
		Values(seqNum, time.Now().UTC(), data.UserID, data.SkillID, data.AttemptID,
			data.FromLevel, data.ToLevel, data.CalculatedLevel, data.Upgraded, data.Trigger).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save escalation event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryEscalations(ctx context.Context, userID string, opts QueryOpts) ([]EscalationEvent, error) {
	sel := builder().Select(escalationEventColumns...).
		From(entsql.Table(EscalationEventsTable.Name)).
		Where(entsql.EQ("user_id", userID))
	applyQueryOpts(sel, opts)
	query, args := sel.Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query escalation events: %w", err)
	}
	defer rows.Close()

	var out []EscalationEvent
	for rows.Next() {
		var e EscalationEvent
		err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.UserID, &e.SkillID, &e.AttemptID,
			&e.FromLevel, &e.ToLevel, &e.CalculatedLevel, &e.Upgraded, &e.Trigger)
		if err != nil {
			return nil, fmt.Errorf("scan escalation event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// applyQueryOpts adds filters and newest-first ordering to an event query.
func applyQueryOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
