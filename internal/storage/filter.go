package storage

import "strings"

// Filter is a composable predicate over student fields. It compiles down
// to a parameterized WHERE fragment plus its arguments, so filter values
// travel as bound parameters — never spliced into the SQL text.
//
// Build filters from the constructors and combine them:
//
//	storage.Or(storage.GenderIs("M"), storage.AgeLessThan(22))
//
// The zero value (storage.All()) matches every row.
type Filter struct {
	clause string
	args   []any
}

// All returns the empty filter, which matches every row.
func All() Filter { return Filter{} }

// IsEmpty reports whether the filter matches everything.
func (f Filter) IsEmpty() bool { return f.clause == "" }

// Clause returns the WHERE fragment (without the WHERE keyword) and the
// bound arguments, in placeholder order. Empty string for the empty filter.
func (f Filter) Clause() (string, []any) { return f.clause, f.args }

// NameIs matches rows whose name equals the given value exactly.
func NameIs(name string) Filter {
	return Filter{clause: "name = ?", args: []any{name}}
}

// GenderIs matches rows with the given gender character.
func GenderIs(gender string) Filter {
	return Filter{clause: "gender = ?", args: []any{gender}}
}

// AgeGreaterThan matches rows strictly older than the given age.
func AgeGreaterThan(age int) Filter {
	return Filter{clause: "age > ?", args: []any{age}}
}

// AgeLessThan matches rows strictly younger than the given age.
func AgeLessThan(age int) Filter {
	return Filter{clause: "age < ?", args: []any{age}}
}

// NameHasPrefix matches rows whose name starts with the given prefix.
//
// SQL LIKE treats % and _ as wildcards, so a prefix containing them would
// silently match more than intended. We escape those characters and tell
// SQLite our escape character, then append the single trailing % that
// means "anything after the prefix".
func NameHasPrefix(prefix string) Filter {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	return Filter{
		clause: `name LIKE ? ESCAPE '\'`,
		args:   []any{escaped + "%"},
	}
}

// And combines filters so a row must satisfy every one of them.
// Empty filters are skipped; combining nothing yields the empty filter.
func And(filters ...Filter) Filter {
	return combine(" AND ", filters)
}

// Or combines filters so a row must satisfy at least one of them.
func Or(filters ...Filter) Filter {
	return combine(" OR ", filters)
}

// combine joins the non-empty child clauses with the given operator.
// Each child is parenthesised so nested And/Or trees keep their grouping:
// Or(a, And(b, c)) compiles to (a) OR ((b) AND (c)).
func combine(op string, filters []Filter) Filter {
	var kept []Filter
	for _, f := range filters {
		if !f.IsEmpty() {
			kept = append(kept, f)
		}
	}

	switch len(kept) {
	case 0:
		return Filter{}
	case 1:
		// A single child needs no operator or extra parentheses.
		return kept[0]
	}

	clauses := make([]string, 0, len(kept))
	args := make([]any, 0, len(kept))
	for _, f := range kept {
		clauses = append(clauses, "("+f.clause+")")
		args = append(args, f.args...)
	}

	return Filter{clause: strings.Join(clauses, op), args: args}
}
