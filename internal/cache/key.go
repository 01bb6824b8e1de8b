package cache

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Separator joins the case-folded fields of a derived key. Fields that
// contain it are rejected rather than escaped: the inverse used by ListAll
// and warm-file parsing must be exact.
const Separator = "_"

// Input is the structured lookup input: the word triple a poem is generated
// from.
type Input struct {
	Verb      string
	Adjective string
	Noun      string
}

// String returns the input as entered, for display and logging.
func (in Input) String() string {
	return in.Verb + " " + in.Adjective + " " + in.Noun
}

func (in Input) fields() [3]string {
	return [3]string{in.Verb, in.Adjective, in.Noun}
}

// Key derives the deterministic lookup key for the input. Each field is
// case-folded, so ("Dance", "Ethereal", "Moonlight") and
// ("dance", "ethereal", "moonlight") derive the same key.
func (in Input) Key() (string, error) {
	folded := make([]string, 0, 3)
	for _, f := range in.fields() {
		if f == "" {
			return "", fmt.Errorf("%w: empty field in %q", ErrMalformedKey, in.String())
		}
		if strings.Contains(f, Separator) {
			return "", fmt.Errorf("%w: %q", ErrSeparatorInField, f)
		}
		folded = append(folded, cases.Fold().String(f))
	}
	return strings.Join(folded, Separator), nil
}

// ParseKey splits a derived key back into its input fields. Key rejects
// fields containing the separator up front, so every key produced by Key
// parses exactly; keys written by other producers may not.
func ParseKey(key string) (Input, error) {
	parts := strings.Split(key, Separator)
	if len(parts) != 3 {
		return Input{}, fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}
	for _, p := range parts {
		if p == "" {
			return Input{}, fmt.Errorf("%w: %q", ErrMalformedKey, key)
		}
	}
	return Input{Verb: parts[0], Adjective: parts[1], Noun: parts[2]}, nil
}
