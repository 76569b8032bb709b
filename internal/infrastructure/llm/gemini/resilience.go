package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/genai"

	"github.com/askai-uz/askai/internal/core/domain"
	"github.com/askai-uz/askai/internal/infrastructure/resilience"
)

// classifyGenerateError never retries: a second generation call doubles cost
// and may produce different text. Failures still count against the breaker
// unless the caller itself gave up.
func classifyGenerateError(err error) resilience.ErrorClassification {
	if errors.Is(err, context.Canceled) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}

// classifyEmbedError retries transient failures; embedding the same text
// twice is idempotent.
func classifyEmbedError(err error) resilience.ErrorClassification {
	if errors.Is(err, context.Canceled) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 408, apiErr.Code == 429, apiErr.Code >= 500:
			return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
		default:
			// 4xx is a caller bug, retrying cannot help.
			return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}

// wrapTemporaryIfNeeded tags breaker-open and overload failures as temporary
// so the HTTP layer can answer 503 instead of a generic 500.
func wrapTemporaryIfNeeded(operation string, err error) error {
	if resilience.IsCircuitOpen(err) {
		return fmt.Errorf("%s: %w: %w", operation, domain.ErrTemporary, err)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && (apiErr.Code == 429 || apiErr.Code == 503) {
		return fmt.Errorf("%s: %w: %w", operation, domain.ErrTemporary, err)
	}
	return err
}
