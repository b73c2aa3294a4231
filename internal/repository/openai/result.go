package openai

// Outcome is the explicit result of a single model call. Callers check OK and fall back
// to their own value when it is false; a failed outcome carries only a reason.
type Outcome[T any] struct {
	value  T
	reason string
	ok     bool
}

// Result carries a parsed JSON object from StructuredComplete.
type Result = Outcome[map[string]any]

// TextResult carries the reply text from FreeTextComplete.
type TextResult = Outcome[string]

func Ok[T any](value T) Outcome[T] {
	return Outcome[T]{value: value, ok: true}
}

func Failed[T any](reason string) Outcome[T] {
	return Outcome[T]{reason: reason}
}

func (o Outcome[T]) OK() bool {
	return o.ok
}

func (o Outcome[T]) Value() T {
	return o.value
}

// Get returns the value and whether the call succeeded.
func (o Outcome[T]) Get() (T, bool) {
	return o.value, o.ok
}

func (o Outcome[T]) Reason() string {
	return o.reason
}

// String reads a string field from a decoded JSON object.
func String(obj map[string]any, key string) (string, bool) {
	v, ok := obj[key].(string)
	return v, ok
}

// Strings reads an array of strings, skipping non-string items. The bool is false when
// the key is absent or not an array.
func Strings(obj map[string]any, key string) ([]string, bool) {
	raw, ok := obj[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}
