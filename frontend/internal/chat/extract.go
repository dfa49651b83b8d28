package chat

import (
	"encoding/json"
	"strings"
)

// Rule pulls a display string out of a loosely shaped webhook response.
type Rule struct {
	Name       string
	TryExtract func(payload any) (string, bool)
}

var replyFields = []string{"displayMessage", "reply", "output", "message", "assistant"}

// Rules are tried in order; the first match wins.
var Rules = buildRules()

func buildRules() []Rule {
	rules := []Rule{{Name: "direct-string", TryExtract: directString}}
	for _, f := range replyFields {
		rules = append(rules, fieldRule(f))
	}
	for _, parent := range []string{"data", "chat"} {
		for _, f := range replyFields {
			rules = append(rules, fieldRule(parent+"."+f))
		}
	}
	rules = append(rules,
		fieldRule("summary.text"),
		Rule{Name: "messages[role=assistant]", TryExtract: assistantInMessages},
	)
	return rules
}

func directString(payload any) (string, bool) {
	s, ok := payload.(string)
	return s, ok && strings.TrimSpace(s) != ""
}

// fieldRule follows a dotted path of object keys to a non-empty string.
func fieldRule(path string) Rule {
	keys := strings.Split(path, ".")
	return Rule{
		Name: path,
		TryExtract: func(payload any) (string, bool) {
			cur := payload
			for _, k := range keys {
				obj, ok := cur.(map[string]any)
				if !ok {
					return "", false
				}
				cur = obj[k]
			}
			return directString(cur)
		},
	}
}

func assistantInMessages(payload any) (string, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return "", false
	}
	msgs, ok := obj["messages"].([]any)
	if !ok {
		return "", false
	}
	for _, m := range msgs {
		msg, ok := m.(map[string]any)
		if !ok || msg["role"] != "assistant" {
			continue
		}
		// only the first assistant entry counts
		return directString(msg["content"])
	}
	return "", false
}

// Extract applies Rules in order and reports the name of the rule that matched.
func Extract(payload any) (text, rule string, ok bool) {
	for _, r := range Rules {
		if s, ok := r.TryExtract(payload); ok {
			return s, r.Name, true
		}
	}
	return "", "", false
}

// Normalize turns a raw webhook body into an extractable payload.
// Non-JSON text becomes {displayMessage: text}; an array is reduced to its
// first element's "json" field, or the element itself. ok is false for an
// empty body.
func Normalize(body []byte) (payload any, ok bool) {
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return nil, false
	}

	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return map[string]any{"displayMessage": string(body)}, true
	}

	if arr, isArr := payload.([]any); isArr {
		if len(arr) == 0 {
			return map[string]any{}, true
		}
		if first, isObj := arr[0].(map[string]any); isObj {
			if inner, has := first["json"]; has && inner != nil {
				return inner, true
			}
		}
		return arr[0], true
	}
	return payload, true
}
