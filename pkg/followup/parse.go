package followup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/richfrem/quoteagent/pkg/domain"
)

// ErrMalformedResponse is returned when the model output is not the expected JSON shape.
var ErrMalformedResponse = errors.New("malformed follow-up response")

type response struct {
	RequiresFollowUp *bool    `json:"requiresFollowUp"`
	Questions        []string `json:"questions"`
}

// Parse decodes {"requiresFollowUp": bool, "questions": string[]} from model
// output, tolerating a surrounding Markdown code fence. Questions are trimmed,
// empty ones dropped and the list capped at domain.MaxFollowUps.
func Parse(content string) ([]string, error) {
	raw := stripFence(content)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty content", ErrMalformedResponse)
	}

	var resp response
	if err := sonic.UnmarshalString(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.RequiresFollowUp == nil {
		return nil, fmt.Errorf("%w: missing requiresFollowUp", ErrMalformedResponse)
	}
	if !*resp.RequiresFollowUp {
		return nil, nil
	}

	var out []string
	for _, q := range resp.Questions {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		out = append(out, q)
		if len(out) == domain.MaxFollowUps {
			break
		}
	}
	return out, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the info string (e.g. "json").
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
