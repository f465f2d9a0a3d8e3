package ai

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrNoFields     = errors.New("response has no KEY: value lines")
	ErrDuplicateKey = errors.New("response repeats a key")
	ErrMissingField = errors.New("response is missing a field")
	ErrInvalidScore = errors.New("score is not a number")
)

var keyRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ParseResponse reads a completion made of `KEY: value` lines into a map keyed
// by the upper-cased key. Blank lines, lines without a colon and lines whose
// prefix is not a single key token are ignored. Markdown emphasis left over
// from `**KEY:** value` is trimmed from both sides of the colon. A value must sit
// on the same line as its key. A key given twice is an error.
func ParseResponse(text string) (map[string]string, error) {
	fields := make(map[string]string)
	for _, line := range strings.Split(stripFences(text), "\n") {
		line = strings.TrimSpace(line)
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.Trim(strings.TrimSpace(key), "*#_")
		key = strings.TrimSpace(key)
		if !keyRegex.MatchString(key) {
			continue
		}
		key = strings.ToUpper(key)
		if _, dup := fields[key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, key)
		}
		fields[key] = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(value), "*_"))
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	return fields, nil
}

// stripFences removes a surrounding markdown code block if the model added one.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if nl := strings.IndexByte(content, '\n'); nl >= 0 && !strings.Contains(content[:nl], ":") {
			content = content[nl+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	return strings.TrimSpace(content)
}

// ParseScore reads SCORE and ANALYSIS from parsed fields. SCORE may be an
// integer or a decimal (rounded) and is clamped to [0, 100]. Both fields are
// required; a missing or non-numeric score is never replaced by a default.
func ParseScore(fields map[string]string) (int, string, error) {
	raw, ok := fields["SCORE"]
	if !ok {
		return 0, "", fmt.Errorf("%w: SCORE", ErrMissingField)
	}
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "/100")
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "%"))

	score, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, "", fmt.Errorf("%w: %q", ErrInvalidScore, fields["SCORE"])
		}
		score = int(math.Round(math.Max(-1, math.Min(f, 101))))
	}

	analysis := fields["ANALYSIS"]
	if analysis == "" {
		return 0, "", fmt.Errorf("%w: ANALYSIS", ErrMissingField)
	}
	return clamp(score), analysis, nil
}

func clamp(score int) int {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}
