// Package readiness defines the predicate vocabulary used to decide when
// asynchronously rendered text has actually arrived. Predicates are pure
// functions over normalized text; adding one never changes how polling works.
package readiness

import (
	"fmt"
	"sort"
	"unicode"
)

// Predicate is a named readiness check over normalized element text.
type Predicate struct {
	Name  string
	Holds func(normalized string) bool
}

// ScriptBlock builds a predicate that passes once the text contains at least
// one code point from the given Unicode range table. The target script is
// configuration: a suite for a different output language registers its own.
func ScriptBlock(name string, rt *unicode.RangeTable) Predicate {
	return Predicate{
		Name: name,
		Holds: func(s string) bool {
			return containsRange(s, rt)
		},
	}
}

// ScriptBlockOrDigit additionally accepts decimal digits, for inputs the
// service passes through numerically.
func ScriptBlockOrDigit(name string, rt *unicode.RangeTable) Predicate {
	return Predicate{
		Name: name,
		Holds: func(s string) bool {
			if containsRange(s, rt) {
				return true
			}
			for _, r := range s {
				if unicode.IsDigit(r) {
					return true
				}
			}
			return false
		},
	}
}

// Builtin predicates. Sinhala is the default for this suite's fixtures.
var (
	Sinhala        = ScriptBlock("sinhala", unicode.Sinhala)
	SinhalaOrDigit = ScriptBlockOrDigit("sinhala_or_digit", unicode.Sinhala)
	NonEmpty       = Predicate{
		Name: "non_empty",
		Holds: func(s string) bool {
			return len(s) > 0
		},
	}
)

var registry = map[string]Predicate{
	Sinhala.Name:        Sinhala,
	SinhalaOrDigit.Name: SinhalaOrDigit,
	NonEmpty.Name:       NonEmpty,
}

// Register adds a predicate to the fixture-visible vocabulary.
func Register(p Predicate) error {
	if p.Name == "" || p.Holds == nil {
		return fmt.Errorf("readiness: predicate needs a name and a check")
	}
	if _, exists := registry[p.Name]; exists {
		return fmt.Errorf("readiness: predicate %q already registered", p.Name)
	}
	registry[p.Name] = p
	return nil
}

// ByName resolves a fixture predicate name. The empty name selects the
// suite default, Sinhala.
func ByName(name string) (Predicate, error) {
	if name == "" {
		return Sinhala, nil
	}
	p, ok := registry[name]
	if !ok {
		return Predicate{}, fmt.Errorf("readiness: unknown predicate %q (known: %v)", name, Names())
	}
	return p, nil
}

// Names lists the registered predicate names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func containsRange(s string, rt *unicode.RangeTable) bool {
	for _, r := range s {
		if unicode.Is(rt, r) {
			return true
		}
	}
	return false
}
