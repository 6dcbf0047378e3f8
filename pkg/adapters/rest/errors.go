package rest

import (
	"encoding/json"
	"strings"
)

// errorBody covers the error shapes the service produces: FastAPI's
// {"detail": "..."} and {"detail": [{"msg": "..."}]}, plus the common
// {"error": "..."} and {"message": "..."} conventions.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type validationIssue struct {
	Msg string `json:"msg"`
}

// extractMessage returns the server's error detail, or "" when the body
// carries none.
func extractMessage(body []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}

	if len(parsed.Detail) > 0 {
		var text string
		if err := json.Unmarshal(parsed.Detail, &text); err == nil {
			return strings.TrimSpace(text)
		}
		var issues []validationIssue
		if err := json.Unmarshal(parsed.Detail, &issues); err == nil {
			for _, issue := range issues {
				if msg := strings.TrimSpace(issue.Msg); msg != "" {
					return msg
				}
			}
		}
	}

	if msg := strings.TrimSpace(parsed.Error); msg != "" {
		return msg
	}
	return strings.TrimSpace(parsed.Message)
}
