package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON indicates that a model reply contained no JSON object at all.
var ErrNoJSON = errors.New("no JSON object found in text")

// ExtractJSON returns the first balanced top-level JSON object embedded in
// text. Models frequently wrap their payload in prose or markdown code
// fences; both are tolerated. String literals are scanned so braces inside
// them do not unbalance the walk.
func ExtractJSON(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", ErrNoJSON
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", ErrNoJSON
}

// DecodeStrict extracts the first JSON object from text and unmarshals it
// into v, rejecting unknown fields. A parse failure and a schema mismatch
// surface as the same error kind so callers can treat both as an ordinary
// validation failure.
func DecodeStrict(text string, v any) error {
	raw, err := ExtractJSON(text)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode model output: %w", err)
	}

	return nil
}
