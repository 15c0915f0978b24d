// Package category holds the ordered rule tables that turn an email into a
// university classification and a classification or check-in count into a
// report label.  Every table is evaluated top to bottom and the first
// matching rule wins; the categories overlap, so order is part of the
// contract.
package category

import "strings"

// Rule pairs a predicate with the label it produces.
type Rule[T any] struct {
	Match func(T) bool
	Label func(T) string
}

// Table is an ordered rule list with a fallback label.
type Table[T any] struct {
	Rules    []Rule[T]
	Fallback string
}

// Apply returns the label of the first matching rule, or the fallback.
func (t Table[T]) Apply(v T) string {
	for _, r := range t.Rules {
		if r.Match(v) {
			return r.Label(v)
		}
	}
	return t.Fallback
}

func fixed[T any](label string) func(T) string {
	return func(T) string { return label }
}

func hasSuffix(suffix string) func(string) bool {
	return func(s string) bool { return strings.HasSuffix(strings.ToLower(s), suffix) }
}

func contains(sub string) func(string) bool {
	return func(s string) bool { return strings.Contains(strings.ToLower(s), sub) }
}

func equals(values ...string) func(string) bool {
	return func(s string) bool {
		for _, v := range values {
			if s == v {
				return true
			}
		}
		return false
	}
}

func anyOf(preds ...func(string) bool) func(string) bool {
	return func(s string) bool {
		for _, p := range preds {
			if p(s) {
				return true
			}
		}
		return false
	}
}
