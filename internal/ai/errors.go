package ai

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnsupportedType is returned for a quiz type the generator does not know.
var ErrUnsupportedType = errors.New("unsupported question type, use 'mcq', 'one line answer' or 'coding question'")

// JudgeFailureVerdict is the verdict recorded when the judge cannot be reached or
// answers with something unusable. Failures never count as correct.
const JudgeFailureVerdict = false

// UpstreamError reports a failed or malformed generative AI call.
// Status is the upstream HTTP status, or 0 when no usable status exists.
type UpstreamError struct {
	Status  int
	Details json.RawMessage
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gemini upstream status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("gemini upstream: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
