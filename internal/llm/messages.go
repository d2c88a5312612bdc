package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/calder-ai/llmgate/internal/llm/transport"
)

// MessageBuilder assembles the normalized messages for a completion call
// from prompt text and optional screenshot bytes. Implementations may
// suspend on I/O (for example when encoding large image payloads), hence
// the context.
type MessageBuilder interface {
	Build(ctx context.Context, prompt string, screenshots [][]byte) ([]transport.Message, error)
}

// ChatMessageBuilder is the default MessageBuilder. It produces a single
// user message with one text part followed by one inline base64 image part
// per screenshot, preserving input order.
type ChatMessageBuilder struct{}

// NewChatMessageBuilder creates the default message builder.
func NewChatMessageBuilder() *ChatMessageBuilder {
	return &ChatMessageBuilder{}
}

// Build implements MessageBuilder.
func (b *ChatMessageBuilder) Build(ctx context.Context, prompt string, screenshots [][]byte) ([]transport.Message, error) {
	parts := make([]transport.ContentPart, 0, 1+len(screenshots))
	parts = append(parts, transport.ContentPart{
		Type: transport.ContentTypeText,
		Text: prompt,
	})

	for i, screenshot := range screenshots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(screenshot) == 0 {
			return nil, fmt.Errorf("screenshot %d is empty", i)
		}
		parts = append(parts, transport.ContentPart{
			Type: transport.ContentTypeImageURL,
			ImageURL: &transport.ImageURL{
				URL: encodeImageDataURL(screenshot),
			},
		})
	}

	return []transport.Message{{Role: transport.RoleUser, Content: parts}}, nil
}

// encodeImageDataURL encodes image bytes as a base64 data URL, sniffing the
// media type from the content. Screenshots are PNG in practice; the sniff
// keeps JPEG captures working too.
func encodeImageDataURL(data []byte) string {
	mediaType := http.DetectContentType(data)
	if !strings.HasPrefix(mediaType, "image/") {
		mediaType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(data))
}
