// Package interfaces defines service contracts for Divicast
package interfaces

import (
	"context"

	"github.com/asanchez/divicast/internal/models"
)

// DividendOracle is the external reasoning service that answers a structured
// dividend query with a schema-conformant payload. Its output is untrusted
// input: every payload must pass the validator before display.
type DividendOracle interface {
	// Analyze sends one request and decodes the structured response.
	// Failures of any kind are returned as *models.AnalysisFailure.
	Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisPayload, error)
}
