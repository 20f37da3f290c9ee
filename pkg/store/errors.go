package store

import "errors"

// ErrorKind classifies pipeline failures for the caller. Non-fatal kinds
// are absorbed where they occur and surface only through the partial flag
// and the diagnostics list; fatal kinds short-circuit the query.
type ErrorKind string

const (
	KindNone                 ErrorKind = ""
	KindRewriteUnavailable   ErrorKind = "REWRITE_UNAVAILABLE"
	KindRetrievalUnavailable ErrorKind = "RETRIEVAL_UNAVAILABLE"
	KindRerankFailed         ErrorKind = "RERANK_FAILED"
	KindLiveFetchTimeout     ErrorKind = "LIVE_FETCH_TIMEOUT"
	KindLiveFetchFailed      ErrorKind = "LIVE_FETCH_FAILED"
	KindNoEvidenceFound      ErrorKind = "NO_EVIDENCE_FOUND"
	KindGenerationFailed     ErrorKind = "GENERATION_FAILED"
)

// Sentinel errors for the fatal kinds. Wrap with %w so callers can match
// via errors.Is.
var (
	ErrRetrievalUnavailable = errors.New("retrieval unavailable: all sources failed")
	ErrNoEvidenceFound      = errors.New("no evidence found")
	ErrGenerationFailed     = errors.New("generation failed")
)

// KindOf maps an error to its ErrorKind. Unknown errors report as
// generation failures since that is the only stage allowed to bubble an
// unclassified error to the caller.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNoEvidenceFound):
		return KindNoEvidenceFound
	case errors.Is(err, ErrRetrievalUnavailable):
		return KindRetrievalUnavailable
	case errors.Is(err, ErrGenerationFailed):
		return KindGenerationFailed
	default:
		return KindGenerationFailed
	}
}

// Fatal reports whether the kind aborts the query.
func (k ErrorKind) Fatal() bool {
	switch k {
	case KindRetrievalUnavailable, KindNoEvidenceFound, KindGenerationFailed:
		return true
	default:
		return false
	}
}
