// Package grammar builds and validates the extended grammar DSL: a
// tree of Rule combinators (alternatives, repetition, optional,
// separated lists, precedence) that the bnf package lowers into flat
// BNF productions.
package grammar

// Assoc is the associativity of a precedence level.
type Assoc int

const (
	AssocNone Assoc = iota
	AssocLeft
	AssocRight
)

func (a Assoc) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	default:
		return "none"
	}
}

// Kind tags the variant held by a Rule.
type Kind int

const (
	KindSym Kind = iota
	KindSeq
	KindOr
	KindMany
	KindMany1
	KindOption
	KindSepBy
	KindSepBy1
	KindPrec
)

func (k Kind) String() string {
	switch k {
	case KindSym:
		return "sym"
	case KindSeq:
		return "seq"
	case KindOr:
		return "or"
	case KindMany:
		return "many"
	case KindMany1:
		return "many1"
	case KindOption:
		return "option"
	case KindSepBy:
		return "sepBy"
	case KindSepBy1:
		return "sepBy1"
	case KindPrec:
		return "prec"
	default:
		return "unknown"
	}
}

// Rule is a node in the extended grammar tree. The zero value is not
// a valid Rule; construct one with Sym, Seq, Or, Many, Many1, Option,
// SepBy, SepBy1, or Prec. Its fields are unexported; the bnf package
// (and any other consumer that needs to walk the tree) uses the
// accessor methods below, the same way the teacher's lexer regex tree
// (grammar/lexical/parser/tree.go) exposes a narrow accessor interface
// over hidden node structs instead of public fields.
type Rule struct {
	kind Kind

	name string // KindSym

	rules []Rule // KindSeq, KindOr

	rule *Rule // KindMany, KindMany1, KindOption, KindSepBy/1 (the repeated rule), KindPrec

	sep *Rule // KindSepBy, KindSepBy1

	prec  int   // KindPrec
	assoc Assoc // KindPrec
}

// Sym references a previously declared token or rule by name.
func Sym(name string) Rule {
	return Rule{kind: KindSym, name: name}
}

// Seq sequences a fixed list of subrules.
func Seq(rules ...Rule) Rule {
	return Rule{kind: KindSeq, rules: rules}
}

// Or builds an alternative of subrules. Or is associative and
// flattens eagerly: combining an Or with another Or or with a plain
// rule concatenates rather than nesting, so the alternative list seen
// by lowering always reflects authoring order regardless of how the
// caller grouped Or calls.
func Or(rules ...Rule) Rule {
	var flat []Rule
	for _, r := range rules {
		if r.kind == KindOr {
			flat = append(flat, r.rules...)
		} else {
			flat = append(flat, r)
		}
	}
	return Rule{kind: KindOr, rules: flat}
}

// Many is zero-or-more repetition of rule.
func Many(rule Rule) Rule {
	return Rule{kind: KindMany, rule: &rule}
}

// Many1 is one-or-more repetition of rule.
func Many1(rule Rule) Rule {
	return Rule{kind: KindMany1, rule: &rule}
}

// Option is rule or nothing.
func Option(rule Rule) Rule {
	return Rule{kind: KindOption, rule: &rule}
}

// SepBy is zero-or-more occurrences of rule separated by sep.
func SepBy(sep, rule Rule) Rule {
	return Rule{kind: KindSepBy, sep: &sep, rule: &rule}
}

// SepBy1 is one-or-more occurrences of rule separated by sep.
func SepBy1(sep, rule Rule) Rule {
	return Rule{kind: KindSepBy1, sep: &sep, rule: &rule}
}

// Prec stamps a precedence level and associativity onto every
// production that rule lowers to.
func Prec(prec int, assoc Assoc, rule Rule) Rule {
	return Rule{kind: KindPrec, prec: prec, assoc: assoc, rule: &rule}
}

// Kind reports which variant r holds.
func (r Rule) Kind() Kind {
	return r.kind
}

// Name returns the referenced name of a KindSym rule. Only valid when
// Kind() == KindSym.
func (r Rule) Name() string {
	return r.name
}

// Subrules returns the alternative/sequence members of a KindSeq or
// KindOr rule. Only valid when Kind() is one of those two.
func (r Rule) Subrules() []Rule {
	return r.rules
}

// Sub returns the single wrapped rule of a KindMany, KindMany1,
// KindOption, KindSepBy, KindSepBy1, or KindPrec rule.
func (r Rule) Sub() Rule {
	return *r.rule
}

// Sep returns the separator rule of a KindSepBy or KindSepBy1 rule.
func (r Rule) Sep() Rule {
	return *r.sep
}

// PrecLevel and Associativity return the precedence stamped on a
// KindPrec rule.
func (r Rule) PrecLevel() int {
	return r.prec
}

func (r Rule) Associativity() Assoc {
	return r.assoc
}
