package models

import "fmt"

// FailureKind distinguishes the internal cause of a failed analysis.
// All kinds collapse to the same user-visible error state.
type FailureKind string

const (
	// FailureTransport — the oracle call could not complete (network,
	// timeout, service error).
	FailureTransport FailureKind = "transport"
	// FailureSchema — the response did not parse as JSON or did not match
	// the required structure.
	FailureSchema FailureKind = "schema"
	// FailureDomain — the response parsed but violated a domain invariant.
	FailureDomain FailureKind = "domain"
)

// UserFacingError is the single generic message shown for any failed
// analysis. Diagnostic detail stays in the logs.
const UserFacingError = "Error en la consulta financiera. Reintenta en unos instantes."

// AnalysisFailure normalizes every analysis failure mode into one error type
// carrying the internal kind and diagnostic detail.
type AnalysisFailure struct {
	Kind   FailureKind
	Detail string
	Err    error
}

func (f *AnalysisFailure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("analysis failure (%s): %s: %v", f.Kind, f.Detail, f.Err)
	}
	return fmt.Sprintf("analysis failure (%s): %s", f.Kind, f.Detail)
}

func (f *AnalysisFailure) Unwrap() error {
	return f.Err
}

// NewTransportFailure wraps a transport-level error.
func NewTransportFailure(detail string, err error) *AnalysisFailure {
	return &AnalysisFailure{Kind: FailureTransport, Detail: detail, Err: err}
}

// NewSchemaFailure wraps a malformed or non-conforming response.
func NewSchemaFailure(detail string, err error) *AnalysisFailure {
	return &AnalysisFailure{Kind: FailureSchema, Detail: detail, Err: err}
}

// NewDomainFailure wraps a domain invariant violation found by the validator.
func NewDomainFailure(detail string) *AnalysisFailure {
	return &AnalysisFailure{Kind: FailureDomain, Detail: detail}
}
