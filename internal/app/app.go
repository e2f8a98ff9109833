// Package app wires the store, the LLM stack and the services behind the
// commands, and runs the assessment TUI.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/skillpath/internal/adaptive"
	"github.com/abhisek/skillpath/internal/assessment"
	"github.com/abhisek/skillpath/internal/codecheck"
	"github.com/abhisek/skillpath/internal/config"
	"github.com/abhisek/skillpath/internal/gap"
	"github.com/abhisek/skillpath/internal/llm"
	"github.com/abhisek/skillpath/internal/metrics"
	"github.com/abhisek/skillpath/internal/problemgen"
	"github.com/abhisek/skillpath/internal/results"
	"github.com/abhisek/skillpath/internal/screens/take"
	"github.com/abhisek/skillpath/internal/session"
	"github.com/abhisek/skillpath/internal/store"
)

// Deps holds everything a command needs. Provider and Adaptive are nil
// when no LLM backend is configured; LLMErr says why.
type Deps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    *store.Store
	Provider llm.Provider
	LLMErr   error
	Checker  *codecheck.Checker
	Recorder *results.Recorder
	Gaps     *gap.Service
	Adaptive *adaptive.Service
}

// Open builds the dependency graph. A missing LLM configuration is not an
// error: standard assessments and gap analysis work without it.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Deps, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()

	if err := store.EnsureDir(cfg.Database.Path); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	d := &Deps{
		Config:   cfg,
		Logger:   logger,
		Store:    st,
		Recorder: results.NewRecorder(st, logger),
		Gaps:     gap.NewService(st),
	}

	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), logger)
	if err != nil {
		logger.Debug("llm provider unavailable", zap.Error(err))
		d.LLMErr = err
	} else {
		d.Provider = provider
		d.Adaptive = adaptive.NewService(st, problemgen.New(provider, problemgen.DefaultConfig()), adaptive.Config{
			QuestionCount:    cfg.Adaptive.QuestionCount,
			TimeLimitMinutes: cfg.Adaptive.TimeLimitMinutes,
		}, logger)
	}
	d.Checker = codecheck.New(d.Provider)
	return d, nil
}

// Close releases the store and flushes the logger.
func (d *Deps) Close() error {
	_ = d.Logger.Sync()
	return d.Store.Close()
}

// RequireLLM returns the reason the LLM stack is unavailable, if it is.
func (d *Deps) RequireLLM() error {
	if d.Provider != nil {
		return nil
	}
	return fmt.Errorf("LLM provider not configured: %w", d.LLMErr)
}

// NewSession prepares an attempt for userID. Timeout submissions are
// logged; the screen picks up their result on its next tick.
func (d *Deps) NewSession(a *assessment.Assessment, userID string) *session.Session {
	return session.New(a, userID, d.Recorder,
		session.WithCodeChecker(d.Checker),
		session.WithLogger(d.Logger),
		session.WithTimeoutHandler(func(res *session.Result, err error) {
			if err != nil {
				d.Logger.Error("timeout submission failed", zap.String("assessment_id", a.ID), zap.Error(err))
				return
			}
			d.Logger.Info("attempt submitted on timeout", zap.String("attempt_id", res.AttemptID))
		}),
	)
}

// Take runs the assessment screen until the learner finishes or leaves.
// A nil result with a nil error means the attempt was abandoned.
func (d *Deps) Take(ctx context.Context, a *assessment.Assessment, userID string) (*session.Result, error) {
	sess := d.NewSession(a, userID)
	p := tea.NewProgram(take.New(ctx, sess))
	final, err := p.Run()
	if err != nil {
		sess.Abandon()
		return nil, fmt.Errorf("run assessment screen: %w", err)
	}
	m, ok := final.(*take.Model)
	if !ok || m.Abandoned() {
		return nil, nil
	}
	if res := m.Result(); res != nil {
		return res, nil
	}
	if sess.State() == session.StateFailed && m.Err() != nil {
		return nil, m.Err()
	}
	// The screen can close while a submission is still being written.
	if res := sess.Result(); res != nil {
		return res, nil
	}
	return nil, fmt.Errorf("attempt %s was not recorded", sess.AttemptID())
}
