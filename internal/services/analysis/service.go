package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/asanchez/divicast/internal/common"
	"github.com/asanchez/divicast/internal/interfaces"
	"github.com/asanchez/divicast/internal/models"
)

// Service implements AnalysisService
type Service struct {
	oracle    interfaces.DividendOracle
	portfolio models.Portfolio
	sessions  *sessionStore
	logger    *common.Logger
}

// NewService creates a new analysis service
func NewService(oracle interfaces.DividendOracle, portfolio models.Portfolio, sessionTTL time.Duration, logger *common.Logger) *Service {
	return &Service{
		oracle:    oracle,
		portfolio: portfolio,
		sessions:  newSessionStore(sessionTTL),
		logger:    logger,
	}
}

// checkInput validates the month/year selection at the edge, before anything
// reaches the oracle. Returns the canonical month name.
func checkInput(month string, year int) (string, error) {
	m, ok := models.MonthIndex(month)
	if !ok {
		return "", fmt.Errorf("unknown month %q", month)
	}
	if year < 1900 || year > 2999 {
		return "", fmt.Errorf("year %d out of range", year)
	}
	return models.MonthName(m), nil
}

// Analyze runs one analysis synchronously and returns the final snapshot.
func (s *Service) Analyze(ctx context.Context, sessionID, month string, year int) (*models.Session, error) {
	canonical, err := checkInput(month, year)
	if err != nil {
		return nil, err
	}
	if s.oracle == nil {
		return nil, fmt.Errorf("dividend oracle is not configured")
	}

	sess := s.sessions.get(sessionID)
	requestID := uuid.NewString()
	sess.beginLoading(requestID, canonical, year)

	s.run(ctx, sess, requestID, canonical, year)
	return sess.snapshot(), nil
}

// AnalyzeAsync issues an analysis and returns the loading snapshot. The
// pipeline continues past the caller's request lifetime; supersession is
// advisory, so the underlying call runs to completion and its outcome is
// simply discarded if stale.
func (s *Service) AnalyzeAsync(ctx context.Context, sessionID, month string, year int) (*models.Session, error) {
	canonical, err := checkInput(month, year)
	if err != nil {
		return nil, err
	}
	if s.oracle == nil {
		return nil, fmt.Errorf("dividend oracle is not configured")
	}

	sess := s.sessions.get(sessionID)
	requestID := uuid.NewString()
	sess.beginLoading(requestID, canonical, year)

	go s.run(context.WithoutCancel(ctx), sess, requestID, canonical, year)
	return sess.snapshot(), nil
}

// run executes the analysis pipeline for one issued request and publishes
// its outcome to the session under last-request-wins.
func (s *Service) run(ctx context.Context, sess *session, requestID, month string, year int) {
	req := BuildQuery(month, year, s.portfolio)

	payload, err := s.oracle.Analyze(ctx, req)
	if err != nil {
		s.fail(sess, requestID, month, year, err)
		return
	}

	summary, err := ValidateAnalysis(payload, month, year, s.logger)
	if err != nil {
		s.fail(sess, requestID, month, year, err)
		return
	}

	if !sess.applyResult(requestID, summary) {
		s.logger.Debug().
			Str("session", sess.id).
			Str("request_id", requestID).
			Msg("Discarding stale analysis result")
		return
	}

	s.logger.Info().
		Str("session", sess.id).
		Str("month", month).
		Int("year", year).
		Int("companies", summary.TotalCompanies).
		Float64("net_eur", summary.TotalNetEur).
		Msg("Analysis published")
}

// fail logs the diagnostic detail and publishes the generic error state.
func (s *Service) fail(sess *session, requestID, month string, year int, err error) {
	kind := "unknown"
	var f *models.AnalysisFailure
	if errors.As(err, &f) {
		kind = string(f.Kind)
	}

	s.logger.Error().
		Err(err).
		Str("session", sess.id).
		Str("kind", kind).
		Str("month", month).
		Int("year", year).
		Msg("Dividend analysis failed")

	if !sess.applyFailure(requestID) {
		s.logger.Debug().
			Str("session", sess.id).
			Str("request_id", requestID).
			Msg("Discarding stale analysis failure")
	}
}

// Current returns the session's visible state without creating a session.
func (s *Service) Current(sessionID string) *models.Session {
	if sess := s.sessions.peek(sessionID); sess != nil {
		return sess.snapshot()
	}
	return &models.Session{ID: sessionID, State: models.SessionEmpty, UpdatedAt: time.Now().UTC()}
}

// Reset returns the session to the empty state.
func (s *Service) Reset(sessionID string) {
	if sess := s.sessions.peek(sessionID); sess != nil {
		sess.reset()
	}
}

// Portfolio returns the static portfolio under analysis.
func (s *Service) Portfolio() models.Portfolio {
	return s.portfolio
}

// Ensure Service implements AnalysisService
var _ interfaces.AnalysisService = (*Service)(nil)
