package painter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// UnparsableResponseError reports model output from which no JSON object
// could be located.
type UnparsableResponseError struct {
	Detail string
}

func (e *UnparsableResponseError) Error() string {
	return fmt.Sprintf("unparsable model response: %s", e.Detail)
}

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractObject locates a JSON object in raw model text and decodes it into
// an untyped map. The model is not guaranteed to emit bare JSON: fenced
// ```json blocks are accepted, as is an object embedded in surrounding prose.
func ExtractObject(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &UnparsableResponseError{Detail: "empty response"}
	}

	// Fenced code block first: when present it is the model's explicit
	// answer, regardless of surrounding text
	if m := fencedJSONRe.FindStringSubmatch(raw); len(m) >= 2 {
		if obj, err := decodeObject(m[1]); err == nil {
			return obj, nil
		}
	}

	// Otherwise take the widest brace span
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &UnparsableResponseError{Detail: "no JSON object found"}
	}

	obj, err := decodeObject(raw[start : end+1])
	if err != nil {
		return nil, &UnparsableResponseError{Detail: err.Error()}
	}
	return obj, nil
}

func decodeObject(s string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, err
	}
	return obj, nil
}
