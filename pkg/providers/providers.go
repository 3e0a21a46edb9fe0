// Package providers adapts hosted model APIs behind a small generation
// interface. Callers pick a tier, not a model; model names live in config.
package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Tier selects which configured model serves a request. Small is for cheap
// extraction-style calls, large for user-facing text.
type Tier string

const (
	TierSmall Tier = "small"
	TierLarge Tier = "large"
)

// ErrSchemaMismatch reports model output that could not be parsed into the
// requested shape. Callers decide whether that is fatal for their operation.
var ErrSchemaMismatch = errors.New("model output does not match expected schema")

// Client generates text from a prompt. Implementations apply their own
// request timeout and record token usage.
type Client interface {
	GenerateText(ctx context.Context, prompt string, tier Tier, stop []string) (string, error)
}

// GenerateObject runs one generation and unmarshals the JSON block in the
// response into out. Parse failures are reported as ErrSchemaMismatch;
// transport failures pass through unchanged.
func GenerateObject(ctx context.Context, c Client, prompt string, tier Tier, out interface{}) error {
	text, err := c.GenerateText(ctx, prompt, tier, nil)
	if err != nil {
		return err
	}

	block := ExtractJSONBlock(text)
	if block == "" {
		return fmt.Errorf("%w: no JSON found in response", ErrSchemaMismatch)
	}
	if err := json.Unmarshal([]byte(block), out); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return nil
}

// ExtractJSONBlock pulls the JSON payload out of a model response. Fenced
// ```json blocks win; otherwise the outermost object or array is taken.
// Returns "" when no candidate is present.
func ExtractJSONBlock(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}

	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		start := strings.Index(text, pair[0])
		end := strings.LastIndex(text, pair[1])
		if start >= 0 && end > start {
			return strings.TrimSpace(text[start : end+1])
		}
	}
	return ""
}
