package tableau

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Operator is a truth-functional or modal connective. Arity and rank mirror
// the fixed lexical ordering every sentence's SortTuple is built from.
type Operator int

const (
	Assertion Operator = iota
	Negation
	Conjunction
	Disjunction
	MaterialConditional
	MaterialBiconditional
	Conditional
	Biconditional
	Possibility
	Necessity
)

var operatorArity = map[Operator]int{
	Assertion: 1, Negation: 1, Conjunction: 2, Disjunction: 2,
	MaterialConditional: 2, MaterialBiconditional: 2, Conditional: 2,
	Biconditional: 2, Possibility: 1, Necessity: 1,
}

var operatorName = map[Operator]string{
	Assertion: "Assertion", Negation: "Negation", Conjunction: "Conjunction",
	Disjunction: "Disjunction", MaterialConditional: "MaterialConditional",
	MaterialBiconditional: "MaterialBiconditional", Conditional: "Conditional",
	Biconditional: "Biconditional", Possibility: "Possibility", Necessity: "Necessity",
}

// Arity returns the fixed operand count for the operator.
func (o Operator) Arity() int { return operatorArity[o] }

func (o Operator) String() string { return operatorName[o] }

// IsModal reports whether the operator is Possibility or Necessity.
func (o Operator) IsModal() bool { return o == Possibility || o == Necessity }

// Quantifier is Existential or Universal.
type Quantifier int

const (
	Existential Quantifier = iota
	Universal
)

func (q Quantifier) String() string {
	if q == Existential {
		return "Existential"
	}
	return "Universal"
}

// lexRank orders lexical kinds for cross-kind SortTuple comparisons. The
// numbers have no meaning beyond ordering; they mirror pytableaux's
// LexType.rank in relative order (predicates, then params, then sentences).
const (
	rankPredicate = 10
	rankConstant  = 20
	rankVariable  = 21
	rankQuantifier = 30
	rankOperator   = 31
	rankAtomic     = 40
	rankPredicated = 41
	rankQuantified = 42
	rankOperated   = 43
)

// Lexical is implemented by every canonical, immutable lexical item:
// predicates, parameters, and sentences. SortTuple gives a total order
// consistent with Spec equality, with the lexical kind's rank leading so
// items of different kinds never compare equal.
type Lexical interface {
	fmt.Stringer
	SortTuple() []int
}

// Less orders two lexical items by SortTuple, lexicographically.
func Less(a, b Lexical) bool {
	at, bt := a.SortTuple(), b.SortTuple()
	for i := 0; i < len(at) && i < len(bt); i++ {
		if at[i] != bt[i] {
			return at[i] < bt[i]
		}
	}
	return len(at) < len(bt)
}

// ---------------------------------------------------------------------
// Predicate
// ---------------------------------------------------------------------

// Predicate is a triple (index, subscript, arity). Two built-in system
// predicates, Identity and Existence, occupy the reserved negative index
// range and cannot be constructed through NewPredicate.
type Predicate struct {
	Index      int
	Subscript  int
	Arity      int
	Name       string // non-empty only for system predicates
	systemPred bool
}

// System predicates. Their negative index keeps them out of the range
// NewPredicate/NextPredicate ever produce.
var (
	Identity  = Predicate{Index: -1, Subscript: 0, Arity: 2, Name: "Identity", systemPred: true}
	Existence = Predicate{Index: -2, Subscript: 0, Arity: 1, Name: "Existence", systemPred: true}
)

// NewPredicate constructs a user predicate. It fails with ValueConflict if
// index would collide with the reserved system range, and with InputError
// if arity < 1 or subscript < 0.
func NewPredicate(index, subscript, arity int) (Predicate, error) {
	if index < 0 {
		return Predicate{}, newValueConflict("predicate index %d is in the reserved system range", index)
	}
	if arity < 1 {
		return Predicate{}, newInputError("predicate arity must be >= 1, got %d", arity)
	}
	if subscript < 0 {
		return Predicate{}, newInputError("predicate subscript must be >= 0, got %d", subscript)
	}
	return Predicate{Index: index, Subscript: subscript, Arity: arity}, nil
}

// IsSystem reports whether p is one of the built-in system predicates.
func (p Predicate) IsSystem() bool { return p.systemPred }

func (p Predicate) String() string {
	if p.systemPred {
		return p.Name
	}
	return fmt.Sprintf("pred(%d,%d,%d)", p.Index, p.Subscript, p.Arity)
}

// SortTuple ranks system predicates before user predicates of the same
// arity, mirroring Predicate.next()'s system-predicate-first traversal.
func (p Predicate) SortTuple() []int {
	sys := 0
	if p.systemPred {
		sys = -1
	}
	return []int{rankPredicate, sys, p.Index, p.Subscript, p.Arity}
}

// NextPredicate returns the next user predicate of the same arity,
// incrementing index until a type maximum then bumping subscript, the
// same roll-over discipline coordinate lexical items use.
func NextPredicate(p Predicate, maxIndex int) Predicate {
	if p.Index < maxIndex {
		return Predicate{Index: p.Index + 1, Subscript: p.Subscript, Arity: p.Arity}
	}
	return Predicate{Index: 0, Subscript: p.Subscript + 1, Arity: p.Arity}
}

// ---------------------------------------------------------------------
// Parameters: Constant, Variable
// ---------------------------------------------------------------------

// Parameter is either a Constant or a Variable, each a bare (index,
// subscript) coordinate pair.
type Parameter struct {
	Index     int
	Subscript int
	variable  bool
}

// Constant constructs a constant parameter.
func Constant(index, subscript int) Parameter {
	return Parameter{Index: index, Subscript: subscript}
}

// VariableP constructs a variable parameter.
func VariableP(index, subscript int) Parameter {
	return Parameter{Index: index, Subscript: subscript, variable: true}
}

// IsConstant reports whether the parameter is a Constant.
func (p Parameter) IsConstant() bool { return !p.variable }

// IsVariable reports whether the parameter is a Variable.
func (p Parameter) IsVariable() bool { return p.variable }

func (p Parameter) String() string {
	kind := "c"
	if p.variable {
		kind = "v"
	}
	return fmt.Sprintf("%s%d,%d", kind, p.Index, p.Subscript)
}

// SortTuple ranks constants before variables of the same coordinates.
func (p Parameter) SortTuple() []int {
	rank := rankConstant
	if p.variable {
		rank = rankVariable
	}
	return []int{rank, p.Index, p.Subscript}
}

const maxParamIndex = 3 // small canonical coordinate space, same shape for every coordinate kind

// NextParameter returns the canonically next parameter of the same kind.
func NextParameter(p Parameter) Parameter {
	idx, sub := p.Index, p.Subscript
	if idx < maxParamIndex {
		idx++
	} else {
		idx = 0
		sub++
	}
	return Parameter{Index: idx, Subscript: sub, variable: p.variable}
}

// ---------------------------------------------------------------------
// Sentence
// ---------------------------------------------------------------------

// Sentence is implemented by Atomic, Predicated, Quantified, and Operated.
// Every sentence exposes its recursive structural derivations and supports
// substitution.
type Sentence interface {
	Lexical

	// Predicates returns the predicates occurring in the sentence, in
	// order of occurrence; repeated occurrences are not merged.
	Predicates() []Predicate
	// Constants returns the constants occurring in the sentence, in
	// order of occurrence; repeated occurrences are not merged.
	Constants() []Parameter
	// Variables returns the variables occurring in the sentence, in
	// order of occurrence; repeated occurrences are not merged.
	Variables() []Parameter
	// Atomics returns the atomic sub-sentences, in order of occurrence;
	// repeated occurrences are not merged.
	Atomics() []Atomic
	// Quantifiers returns the sequence of quantifiers, outermost first.
	Quantifiers() []Quantifier
	// Operators returns the sequence of operators, outermost first.
	Operators() []Operator

	// Substitute returns the sentence with every occurrence of pold
	// replaced by pnew. The identity when pold does not occur.
	Substitute(pnew, pold Parameter) Sentence
	// VariableOccurs reports whether v occurs anywhere in the sentence.
	VariableOccurs(v Parameter) bool
}

// Negate wraps s in a Negation.
func Negate(s Sentence) Sentence { return NewOperated(Negation, s) }

// IsNegation reports whether s is a Negation and returns its operand.
func IsNegation(s Sentence) (Sentence, bool) {
	if o, ok := s.(Operated); ok && o.Op == Negation {
		return o.Operands[0], true
	}
	return nil, false
}

// ---------------------------------------------------------------------
// Atomic
// ---------------------------------------------------------------------

// Atomic is an atomic sentence (index, subscript).
type Atomic struct {
	Index     int
	Subscript int
}

func (a Atomic) String() string      { return fmt.Sprintf("atomic(%d,%d)", a.Index, a.Subscript) }
func (a Atomic) SortTuple() []int    { return []int{rankAtomic, a.Index, a.Subscript} }
func (a Atomic) Predicates() []Predicate { return nil }
func (a Atomic) Constants() []Parameter  { return nil }
func (a Atomic) Variables() []Parameter  { return nil }
func (a Atomic) Atomics() []Atomic       { return []Atomic{a} }
func (a Atomic) Quantifiers() []Quantifier { return nil }
func (a Atomic) Operators() []Operator     { return nil }
func (a Atomic) Substitute(Parameter, Parameter) Sentence { return a }
func (a Atomic) VariableOccurs(Parameter) bool            { return false }

// NextAtomic returns the canonically next atomic sentence.
func NextAtomic(a Atomic) Atomic {
	if a.Index < maxParamIndex {
		return Atomic{Index: a.Index + 1, Subscript: a.Subscript}
	}
	return Atomic{Index: 0, Subscript: a.Subscript + 1}
}

// FirstAtomic is the canonical first atomic sentence, atomic(0,0).
var FirstAtomic = Atomic{}

// ---------------------------------------------------------------------
// Predicated
// ---------------------------------------------------------------------

// Predicated is a predicate applied to a tuple of parameters whose length
// equals the predicate's arity.
type Predicated struct {
	Pred   Predicate
	Params []Parameter
}

// NewPredicated constructs a predicated sentence, failing with ArityMismatch
// (an InputError) if len(params) != pred.Arity.
func NewPredicated(pred Predicate, params ...Parameter) (Predicated, error) {
	if len(params) != pred.Arity {
		return Predicated{}, newInputError("arity mismatch: predicate %s expects %d params, got %d", pred, pred.Arity, len(params))
	}
	cp := make([]Parameter, len(params))
	copy(cp, params)
	return Predicated{Pred: pred, Params: cp}, nil
}

func (p Predicated) String() string {
	parts := make([]string, len(p.Params))
	for i, x := range p.Params {
		parts[i] = x.String()
	}
	return fmt.Sprintf("%s(%s)", p.Pred, strings.Join(parts, ","))
}

func (p Predicated) SortTuple() []int {
	t := append([]int{rankPredicated}, p.Pred.SortTuple()...)
	for _, x := range p.Params {
		t = append(t, x.SortTuple()...)
	}
	return t
}

func (p Predicated) Predicates() []Predicate { return []Predicate{p.Pred} }

func (p Predicated) Constants() []Parameter {
	var out []Parameter
	for _, x := range p.Params {
		if x.IsConstant() {
			out = append(out, x)
		}
	}
	return out
}

func (p Predicated) Variables() []Parameter {
	var out []Parameter
	for _, x := range p.Params {
		if x.IsVariable() {
			out = append(out, x)
		}
	}
	return out
}

func (p Predicated) Atomics() []Atomic         { return nil }
func (p Predicated) Quantifiers() []Quantifier { return nil }
func (p Predicated) Operators() []Operator     { return nil }

func (p Predicated) Substitute(pnew, pold Parameter) Sentence {
	np := make([]Parameter, len(p.Params))
	changed := false
	for i, x := range p.Params {
		if x == pold {
			np[i] = pnew
			changed = true
		} else {
			np[i] = x
		}
	}
	if !changed {
		return p
	}
	return Predicated{Pred: p.Pred, Params: np}
}

func (p Predicated) VariableOccurs(v Parameter) bool {
	for _, x := range p.Params {
		if x == v {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------
// Quantified
// ---------------------------------------------------------------------

// Quantified is (quantifier, variable, inner sentence).
type Quantified struct {
	Quant    Quantifier
	Variable Parameter
	Inner    Sentence
}

// NewQuantified constructs a quantified sentence.
func NewQuantified(q Quantifier, v Parameter, inner Sentence) Quantified {
	return Quantified{Quant: q, Variable: v, Inner: inner}
}

func (q Quantified) String() string {
	return fmt.Sprintf("%s %s %s", q.Quant, q.Variable, q.Inner)
}

func (q Quantified) SortTuple() []int {
	t := []int{rankQuantified, int(q.Quant)}
	t = append(t, q.Variable.SortTuple()...)
	return append(t, q.Inner.SortTuple()...)
}

func (q Quantified) Predicates() []Predicate   { return q.Inner.Predicates() }
func (q Quantified) Constants() []Parameter    { return q.Inner.Constants() }
func (q Quantified) Atomics() []Atomic         { return q.Inner.Atomics() }
func (q Quantified) Operators() []Operator     { return q.Inner.Operators() }

func (q Quantified) Variables() []Parameter {
	out := []Parameter{q.Variable}
	return append(out, q.Inner.Variables()...)
}

func (q Quantified) Quantifiers() []Quantifier {
	out := []Quantifier{q.Quant}
	return append(out, q.Inner.Quantifiers()...)
}

func (q Quantified) Substitute(pnew, pold Parameter) Sentence {
	if q.Variable == pold {
		// pold is bound here; do not substitute inside, matching
		// substitution as free-occurrence replacement only.
		return q
	}
	inner := q.Inner.Substitute(pnew, pold)
	if inner.String() == q.Inner.String() {
		return q
	}
	return Quantified{Quant: q.Quant, Variable: q.Variable, Inner: inner}
}

func (q Quantified) VariableOccurs(v Parameter) bool {
	return q.Variable == v || q.Inner.VariableOccurs(v)
}

// Unquantify substitutes c for the bound variable throughout Inner:
// quantified.Unquantify(c) = Inner[c/variable].
func (q Quantified) Unquantify(c Parameter) Sentence {
	return substituteBound(q.Inner, c, q.Variable)
}

// substituteBound replaces every occurrence of pold, including ones nested
// under a re-binding quantifier of the same variable, unlike Substitute
// which treats a same-named inner binder as shadowing.
func substituteBound(s Sentence, pnew, pold Parameter) Sentence {
	switch v := s.(type) {
	case Atomic:
		return v
	case Predicated:
		return v.Substitute(pnew, pold)
	case Quantified:
		inner := substituteBound(v.Inner, pnew, pold)
		if inner.String() == v.Inner.String() {
			return v
		}
		return Quantified{Quant: v.Quant, Variable: v.Variable, Inner: inner}
	case Operated:
		return v.Substitute(pnew, pold)
	default:
		return s
	}
}

// ---------------------------------------------------------------------
// Operated
// ---------------------------------------------------------------------

// Operated is (operator, operand tuple) with operand count equal to the
// operator's arity.
type Operated struct {
	Op       Operator
	Operands []Sentence
}

// NewOperated constructs an operated sentence, panicking on arity mismatch
// since operators are a fixed closed set the caller controls directly
// (unlike predicates, which come from user input).
func NewOperated(op Operator, operands ...Sentence) Operated {
	if len(operands) != op.Arity() {
		panic(fmt.Sprintf("tableau: operator %s expects %d operands, got %d", op, op.Arity(), len(operands)))
	}
	cp := make([]Sentence, len(operands))
	copy(cp, operands)
	return Operated{Op: op, Operands: cp}
}

func (o Operated) String() string {
	parts := make([]string, len(o.Operands))
	for i, s := range o.Operands {
		parts[i] = s.String()
	}
	return fmt.Sprintf("%s(%s)", o.Op, strings.Join(parts, ","))
}

func (o Operated) SortTuple() []int {
	t := []int{rankOperated, rankOperator, int(o.Op)}
	for _, s := range o.Operands {
		t = append(t, s.SortTuple()...)
	}
	return t
}

func (o Operated) Predicates() []Predicate {
	var out []Predicate
	for _, s := range o.Operands {
		out = append(out, s.Predicates()...)
	}
	return out
}

func (o Operated) Constants() []Parameter {
	var out []Parameter
	for _, s := range o.Operands {
		out = append(out, s.Constants()...)
	}
	return out
}

func (o Operated) Variables() []Parameter {
	var out []Parameter
	for _, s := range o.Operands {
		out = append(out, s.Variables()...)
	}
	return out
}

func (o Operated) Atomics() []Atomic {
	var out []Atomic
	for _, s := range o.Operands {
		out = append(out, s.Atomics()...)
	}
	return out
}

func (o Operated) Quantifiers() []Quantifier {
	var out []Quantifier
	for _, s := range o.Operands {
		out = append(out, s.Quantifiers()...)
	}
	return out
}

func (o Operated) Operators() []Operator {
	out := []Operator{o.Op}
	for _, s := range o.Operands {
		out = append(out, s.Operators()...)
	}
	return out
}

func (o Operated) Substitute(pnew, pold Parameter) Sentence {
	changed := false
	ns := make([]Sentence, len(o.Operands))
	for i, s := range o.Operands {
		r := s.Substitute(pnew, pold)
		if r.String() != s.String() {
			changed = true
		}
		ns[i] = r
	}
	if !changed {
		return o
	}
	return Operated{Op: o.Op, Operands: ns}
}

func (o Operated) VariableOccurs(v Parameter) bool {
	for _, s := range o.Operands {
		if s.VariableOccurs(v) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------
// Argument
// ---------------------------------------------------------------------

// Argument is an ordered pair (conclusion, premises). Title is informational
// and ignored by Equal.
type Argument struct {
	Conclusion Sentence
	Premises   []Sentence
	Title      string
}

// NewArgument builds an argument from a conclusion and ordered premises.
func NewArgument(conclusion Sentence, premises ...Sentence) Argument {
	cp := make([]Sentence, len(premises))
	copy(cp, premises)
	return Argument{Conclusion: conclusion, Premises: cp}
}

// Sentences returns [conclusion, premises...], matching the invariant
// Sentences[0] == Conclusion and Sentences[1:] == Premises.
func (a Argument) Sentences() []Sentence {
	out := make([]Sentence, 0, len(a.Premises)+1)
	out = append(out, a.Conclusion)
	return append(out, a.Premises...)
}

// Equal compares conclusion and premises structurally, ignoring Title.
func (a Argument) Equal(b Argument) bool {
	if a.Conclusion.String() != b.Conclusion.String() || len(a.Premises) != len(b.Premises) {
		return false
	}
	for i := range a.Premises {
		if a.Premises[i].String() != b.Premises[i].String() {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------
// Canonical interning
// ---------------------------------------------------------------------

// intern deduplicates structurally-equal sentences to a single canonical
// pointer-comparable representative, giving the "canonically interned by
// identity" guarantee for callers that want pointer identity rather than
// structural equality (e.g. the branch index's map keys use the string
// form, which is already canonical since every sub-sentence's String()
// is derived purely from its structural spec).
type internTable struct {
	mu    sync.Mutex
	table map[string]Sentence
}

var sentences = &internTable{table: make(map[string]Sentence)}

// Intern returns the canonical representative for s: subsequent calls with
// a structurally-equal sentence return the exact same value.
func (t *internTable) Intern(s Sentence) Sentence {
	key := s.String()
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.table[key]; ok {
		return existing
	}
	t.table[key] = s
	return s
}

// Intern canonicalizes s through the package-level intern table.
func Intern(s Sentence) Sentence { return sentences.Intern(s) }

// sortSentences returns a new slice of ss sorted by SortTuple.
func sortSentences(ss []Sentence) []Sentence {
	out := make([]Sentence, len(ss))
	copy(out, ss)
	sort.Slice(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}
