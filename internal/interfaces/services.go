package interfaces

import (
	"context"

	"github.com/asanchez/divicast/internal/models"
)

// AnalysisService orchestrates one analysis request end to end: build the
// query, call the oracle, validate the payload, and publish the outcome to
// the session. Last-request-wins: a newer request supersedes the visible
// result of any in-flight one.
type AnalysisService interface {
	// Analyze runs an analysis synchronously and returns the final session
	// snapshot for the request it issued.
	Analyze(ctx context.Context, sessionID, month string, year int) (*models.Session, error)

	// AnalyzeAsync issues an analysis and returns the loading snapshot
	// immediately; the outcome is published to the session when it resolves.
	AnalyzeAsync(ctx context.Context, sessionID, month string, year int) (*models.Session, error)

	// Current returns the session's visible state, or an empty snapshot for
	// an unknown session ID.
	Current(sessionID string) *models.Session

	// Reset returns the session to the empty state.
	Reset(sessionID string)

	// Portfolio returns the static portfolio under analysis.
	Portfolio() models.Portfolio
}
