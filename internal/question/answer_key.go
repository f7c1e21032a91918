package question

import "strings"

// AnswerKey names the option slot holding the correct answer.
type AnswerKey int

const (
	// AnswerInvalid marks an answer text outside A-D. It never matches.
	AnswerInvalid AnswerKey = iota
	AnswerA
	AnswerB
	AnswerC
	AnswerD
)

// Labels lists the option labels in slot order.
var Labels = [OptionCount]string{"A", "B", "C", "D"}

// ParseAnswerKey trims and upper-cases value before mapping it to a key.
func ParseAnswerKey(value string) AnswerKey {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "A":
		return AnswerA
	case "B":
		return AnswerB
	case "C":
		return AnswerC
	case "D":
		return AnswerD
	default:
		return AnswerInvalid
	}
}

// Valid reports whether the key maps to an option slot.
func (k AnswerKey) Valid() bool {
	return k >= AnswerA && k <= AnswerD
}

// Slot returns the zero-based option index for the key.
func (k AnswerKey) Slot() (int, bool) {
	if !k.Valid() {
		return 0, false
	}
	return int(k - AnswerA), true
}

// String returns the option label, or an empty string for an invalid key.
func (k AnswerKey) String() string {
	slot, ok := k.Slot()
	if !ok {
		return ""
	}
	return Labels[slot]
}

// MarshalText encodes the key as its label.
func (k AnswerKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a label. Unknown labels decode to AnswerInvalid.
func (k *AnswerKey) UnmarshalText(text []byte) error {
	*k = ParseAnswerKey(string(text))
	return nil
}
