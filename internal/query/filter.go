// Package query translates raw CLI option values into well-formed
// upstream query parameters. Every normalizer either returns a validated
// FilterOption or an error; invalid input never produces a value.
package query

import "strings"

// FilterKind tags the variant of a FilterOption.
type FilterKind int

const (
	// KindEquals is a single validated value.
	KindEquals FilterKind = iota
	// KindRange is an inclusive low/high pair, rendered "><low|high".
	KindRange
	// KindDisjunction is an OR of values, rendered "a|b|c".
	KindDisjunction
	// KindMagic is a reserved token that maps straight to an upstream
	// value without a lookup ("me", "!*", ...).
	KindMagic
)

// FilterOption is one validated search constraint, ready for inclusion
// in a parameter map.
type FilterOption struct {
	kind   FilterKind
	value  string
	values []string
	low    string
	high   string
}

func Equals(value string) FilterOption {
	return FilterOption{kind: KindEquals, value: value}
}

func Range(low, high string) FilterOption {
	return FilterOption{kind: KindRange, low: low, high: high}
}

func Disjunction(values []string) FilterOption {
	return FilterOption{kind: KindDisjunction, values: values}
}

func MagicToken(token string) FilterOption {
	return FilterOption{kind: KindMagic, value: token}
}

func (f FilterOption) Kind() FilterKind { return f.kind }

// String renders the upstream wire value.
func (f FilterOption) String() string {
	switch f.kind {
	case KindRange:
		return "><" + f.low + "|" + f.high
	case KindDisjunction:
		return strings.Join(f.values, "|")
	default:
		return f.value
	}
}
