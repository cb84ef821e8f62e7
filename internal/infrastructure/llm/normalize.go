package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
)

// ErrEmptyResponse reports a completion that was blank after trimming.
var ErrEmptyResponse = errors.New("model returned empty response")

const snippetLimit = 200

// NoJSONFoundError reports content with no locatable JSON object, keeping a
// short snippet for diagnostics.
type NoJSONFoundError struct {
	Snippet string
}

func (e *NoJSONFoundError) Error() string {
	return fmt.Sprintf("no JSON found in model response: %q", e.Snippet)
}

// JSONDecodeError reports a located span that failed to parse.
type JSONDecodeError struct {
	Snippet string
	Err     error
}

func (e *JSONDecodeError) Error() string {
	return fmt.Sprintf("decode model response as JSON: %v: %q", e.Err, e.Snippet)
}

func (e *JSONDecodeError) Unwrap() error { return e.Err }

// Normalize recovers a single JSON object from arbitrary model output. Models
// wrap valid JSON in markdown fences, prose, or both; the fallback order here
// matters: trim, unfence, then slice from the first '{' to the last '}'.
func Normalize(raw string) (domain.RawExtraction, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return nil, ErrEmptyResponse
	}

	content = stripFences(content)

	if !strings.HasPrefix(content, "{") && !strings.HasPrefix(content, "[") {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start == -1 || end == -1 || end <= start {
			return nil, &NoJSONFoundError{Snippet: snippet(content)}
		}
		content = content[start : end+1]
	}

	var out domain.RawExtraction
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, &JSONDecodeError{Snippet: snippet(content), Err: err}
	}
	return out, nil
}

func stripFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) > 2 {
		content = strings.Join(lines[1:len(lines)-1], "\n")
	}
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}

func snippet(content string) string {
	if len(content) > snippetLimit {
		return content[:snippetLimit]
	}
	return content
}
