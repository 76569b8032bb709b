package ports

import (
	"context"

	"github.com/askai-uz/askai/internal/core/domain"
)

// ChatService is the inbound contract for the question answering pipeline.
type ChatService interface {
	Chat(ctx context.Context, req domain.ChatRequest) (domain.Answer, error)
}
