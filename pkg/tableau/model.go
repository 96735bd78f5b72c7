package tableau

import (
	"fmt"
	"sort"
	"strings"
)

// Mval is a model truth value. Each logic's Meta fixes which Mval
// constants are legal for it and which count as designated; Mval itself
// is just a float64 so the shared lattice operations (min/max for modal
// generalization) fall out of ordinary comparison.
type Mval float64

// The four truth-value constants every supported lattice shape is built
// from: 2-valued {F,T}, 3-valued gappy {F,N,T}, 3-valued glutty {F,B,T},
// 4-valued {F,N,B,T}. T and F are the same float64 across every lattice
// so a literal's plain true/false reading needs no per-logic branching.
const (
	ValueCPL_F Mval = 0.0
	ValueCPL_T Mval = 1.0

	ValueK3_F Mval = 0.0
	ValueK3_N Mval = 0.5
	ValueK3_T Mval = 1.0

	ValueLP_F Mval = 0.0
	ValueLP_B Mval = 0.5
	ValueLP_T Mval = 1.0

	ValueFDE_F Mval = 0.0
	ValueFDE_N Mval = 0.25
	ValueFDE_B Mval = 0.75
	ValueFDE_T Mval = 1.0
)

func (v Mval) String() string {
	switch v {
	case ValueCPL_F:
		return "F"
	case ValueCPL_T:
		return "T"
	case ValueFDE_N:
		return "N"
	case ValueFDE_B:
		return "B"
	default:
		return fmt.Sprintf("%.2f", float64(v))
	}
}

// valueCell accumulates a sentence's designated (pos) and undesignated
// (neg) evidence as a branch is read, the same pos/neg discipline
// PredicateInterpretation uses for predicated literals: both set means a
// glut (B), neither means a gap (the logic's UnassignedValue), one alone
// means a plain T or F. This is what lets read_branch tolerate
// paraconsistent input (a node for `a` and one for `not a`) instead of
// raising a conflict the moment both appear. No conflict is raised for a
// bivalent logic either: it has no glut value, so both bits read as T
// (see glutValue).
type valueCell struct{ pos, neg bool }

func (c *valueCell) mark(pos bool) {
	if pos {
		c.pos = true
	} else {
		c.neg = true
	}
}

func combine(c *valueCell, meta *Meta) Mval {
	if c == nil {
		return meta.UnassignedValue
	}
	switch {
	case c.pos && c.neg:
		return glutValue(meta)
	case c.pos:
		return ValueCPL_T
	case c.neg:
		return ValueCPL_F
	default:
		return meta.UnassignedValue
	}
}

// glutValue returns the logic's glut value (B) if its Values include
// one, else falls back to T -- a bivalent logic's own closure rule means
// this fallback is never actually reached on an open, finished branch.
func glutValue(meta *Meta) Mval {
	for _, v := range meta.Values {
		if v == ValueFDE_B {
			return v
		}
	}
	return ValueCPL_T
}

// PredicateInterpretation is a pair (pos, neg) of parameter-tuple sets, a
// predicate's interpretation in one frame: pos is the extension, neg the
// antiextension. Both-membership is a glut (B), neither is a gap.
type PredicateInterpretation struct {
	Pred Predicate
	pos  map[string]struct{}
	neg  map[string]struct{}
}

func newPredicateInterpretation(p Predicate) *PredicateInterpretation {
	return &PredicateInterpretation{Pred: p, pos: make(map[string]struct{}), neg: make(map[string]struct{})}
}

func paramsKey(params []Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}

// Mark records params as a member of the extension (pos) or antiextension
// (neg) of the predicate.
func (pi *PredicateInterpretation) Mark(params []Parameter, pos bool) {
	key := paramsKey(params)
	if pos {
		pi.pos[key] = struct{}{}
	} else {
		pi.neg[key] = struct{}{}
	}
}

// GetValue returns B if params is in both pos and neg, T if only pos, F
// if only neg, else the logic's unassigned value.
func (pi *PredicateInterpretation) GetValue(params []Parameter, meta *Meta) Mval {
	key := paramsKey(params)
	_, inPos := pi.pos[key]
	_, inNeg := pi.neg[key]
	switch {
	case inPos && inNeg:
		return glutValue(meta)
	case inPos:
		return ValueCPL_T
	case inNeg:
		return ValueCPL_F
	default:
		return meta.UnassignedValue
	}
}

// Frame is the truth assignment at one world.
type Frame struct {
	World      int
	Atomics    map[Atomic]*valueCell
	Opaques    map[string]*valueCell
	opaqueKeys map[string]Sentence
	Predicates map[Predicate]*PredicateInterpretation
}

func newFrame(world int) *Frame {
	return &Frame{
		World:      world,
		Atomics:    make(map[Atomic]*valueCell),
		Opaques:    make(map[string]*valueCell),
		opaqueKeys: make(map[string]Sentence),
		Predicates: make(map[Predicate]*PredicateInterpretation),
	}
}

func (f *Frame) predicate(p Predicate) *PredicateInterpretation {
	pi, ok := f.Predicates[p]
	if !ok {
		pi = newPredicateInterpretation(p)
		f.Predicates[p] = pi
	}
	return pi
}

func (f *Frame) atomicCell(a Atomic) *valueCell {
	c, ok := f.Atomics[a]
	if !ok {
		c = &valueCell{}
		f.Atomics[a] = c
	}
	return c
}

func (f *Frame) opaqueCell(s Sentence) *valueCell {
	key := s.String()
	c, ok := f.Opaques[key]
	if !ok {
		c = &valueCell{}
		f.Opaques[key] = c
		f.opaqueKeys[key] = s
	}
	return c
}

// String renders a debug summary of the frame's assignments, grounded on
// pytableaux's get_data() summary shape (not adopting its web/JSON
// layer, just the idea of a readable worlds/atomics/predicates digest).
func (f *Frame) String(meta *Meta) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Frame[w=%d]{", f.World)
	keys := make([]Atomic, 0, len(f.Atomics))
	for a := range f.Atomics {
		keys = append(keys, a)
	}
	sort.Slice(keys, func(i, j int) bool { return Less(keys[i], keys[j]) })
	for _, a := range keys {
		fmt.Fprintf(&sb, " %s=%s", a, combine(f.Atomics[a], meta))
	}
	sb.WriteString(" }")
	return sb.String()
}

// AccessGraph is the accessibility relation R: world -> set of worlds.
type AccessGraph map[int]map[int]struct{}

func (g AccessGraph) add(w1, w2 int) {
	s, ok := g[w1]
	if !ok {
		s = make(map[int]struct{})
		g[w1] = s
	}
	s[w2] = struct{}{}
	if _, ok := g[w2]; !ok {
		g[w2] = make(map[int]struct{})
	}
}

func (g AccessGraph) visible(w int) []int {
	s := g[w]
	out := make([]int, 0, len(s))
	for w2 := range s {
		out = append(out, w2)
	}
	return out
}

// Model is a mapping from worlds to Frames plus an accessibility relation
// and shared sets of constants/sentences read off an open branch.
type Model struct {
	Meta      *Meta
	Frames    map[int]*Frame
	R         AccessGraph
	Constants map[Parameter]struct{}
	Sentences map[string]Sentence

	finished bool
}

// NewModel builds an empty model for meta, with a world-0 frame already
// present (every non-modal logic ends up with exactly this one frame).
func NewModel(meta *Meta) *Model {
	m := &Model{Meta: meta, Frames: make(map[int]*Frame), R: make(AccessGraph), Constants: make(map[Parameter]struct{}), Sentences: make(map[string]Sentence)}
	m.frame(0)
	return m
}

func (m *Model) frame(w int) *Frame {
	f, ok := m.Frames[w]
	if !ok {
		f = newFrame(w)
		m.Frames[w] = f
	}
	return f
}

// IsOpaque reports whether s is a shape this logic refuses to analyse
// further (a quantified sentence when Meta.Quantified is false, or an
// Operated sentence whose operator is listed in Meta.ModalOperators when
// Meta.Modal is false).
func (m *Model) IsOpaque(s Sentence) bool {
	if !m.Meta.Quantified {
		if _, ok := s.(Quantified); ok {
			return true
		}
	}
	if !m.Meta.Modal {
		if o, ok := s.(Operated); ok && m.Meta.ModalOperators[o.Op] {
			return true
		}
	}
	return false
}

// IsLiteral reports whether s is an Atomic/Predicated sentence, or a
// Negation of one (or of an opaque sentence).
func (m *Model) IsLiteral(s Sentence) bool {
	switch v := s.(type) {
	case Atomic, Predicated:
		return true
	case Operated:
		if v.Op == Negation {
			switch v.Operands[0].(type) {
			case Atomic, Predicated:
				return true
			}
			return m.IsOpaque(v.Operands[0])
		}
	}
	return false
}

// ValueOf evaluates s at world (default 0), dispatching by sentence
// shape. The model must be finished first.
func (m *Model) ValueOf(s Sentence, world int) (Mval, error) {
	if !m.finished {
		return 0, newIllegalState("reading from an unfinished model")
	}
	if m.IsOpaque(s) {
		f := m.frame(world)
		key := s.String()
		if c, ok := f.Opaques[key]; ok {
			return combine(c, m.Meta), nil
		}
		return m.Meta.UnassignedValue, nil
	}
	switch v := s.(type) {
	case Atomic:
		f := m.frame(world)
		return combine(f.Atomics[v], m.Meta), nil
	case Predicated:
		for _, p := range v.Params {
			if p.IsConstant() {
				if _, ok := m.Constants[p]; !ok {
					return 0, newDenotationError("parameter %s was not introduced in the model", p)
				}
			}
		}
		return m.frame(world).predicate(v.Pred).GetValue(v.Params, m.Meta), nil
	case Quantified:
		return m.valueOfQuantified(v, world)
	case Operated:
		return m.valueOfOperated(v, world)
	default:
		return 0, newInputError("unsupported sentence shape %T", s)
	}
}

func (m *Model) valueOfQuantified(q Quantified, world int) (Mval, error) {
	if !m.Meta.Quantified {
		return 0, newIllegalState("model does not support quantification")
	}
	var vals []Mval
	for c := range m.Constants {
		if !c.IsConstant() {
			continue
		}
		v, err := m.ValueOf(q.Unquantify(c), world)
		if err != nil {
			return 0, err
		}
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return m.Meta.UnassignedValue, nil
	}
	if q.Quant == Existential {
		return maxMval(vals), nil
	}
	return minMval(vals), nil
}

func (m *Model) valueOfOperated(o Operated, world int) (Mval, error) {
	if o.Op.IsModal() {
		if !m.Meta.Modal {
			return 0, newIllegalState("model does not support modal operators")
		}
		var vals []Mval
		for _, w2 := range m.R.visible(world) {
			v, err := m.ValueOf(o.Operands[0], w2)
			if err != nil {
				return 0, err
			}
			vals = append(vals, v)
		}
		if len(vals) == 0 {
			vals = []Mval{m.Meta.UnassignedValue}
		}
		if o.Op == Possibility {
			return maxMval(vals), nil
		}
		return minMval(vals), nil
	}
	vals := make([]Mval, len(o.Operands))
	for i, s := range o.Operands {
		v, err := m.ValueOf(s, world)
		if err != nil {
			return 0, err
		}
		vals[i] = v
	}
	return m.Meta.TruthFn(o.Op, vals...), nil
}

func maxMval(vs []Mval) Mval {
	best := vs[0]
	for _, v := range vs[1:] {
		if v > best {
			best = v
		}
	}
	return best
}

func minMval(vs []Mval) Mval {
	best := vs[0]
	for _, v := range vs[1:] {
		if v < best {
			best = v
		}
	}
	return best
}

// markLiteral records the designated-evidence a literal sentence node
// contributes: a plain atomic/predicated node marks its pos (or neg, if
// undesignated) side directly; a Negation node marks the *opposite* side
// of its operand, since asserting not-x designated is evidence x is
// false-ish (and vice versa for an undesignated not-x). This is what
// lets an open branch carrying both `a` and `not a` read back as a glut
// instead of tripping a hard conflict -- closure, not model-reading, is
// what rules out a genuine contradiction for a bivalent logic.
func (m *Model) markLiteral(s Sentence, designated bool, world int) error {
	target := s
	pos := designated
	if inner, isNeg := IsNegation(s); isNeg {
		target = inner
		pos = !designated
	}
	switch v := target.(type) {
	case Atomic:
		m.frame(world).atomicCell(v).mark(pos)
		m.Sentences[v.String()] = v
	case Predicated:
		if len(v.Variables()) > 0 {
			return newInputError("free variables not allowed in %s", v)
		}
		m.frame(world).predicate(v.Pred).Mark(v.Params, pos)
		for _, c := range v.Constants() {
			m.Constants[c] = struct{}{}
		}
		m.Sentences[v.String()] = v
	default:
		m.frame(world).opaqueCell(target).mark(pos)
		for _, p := range target.Predicates() {
			m.frame(world).predicate(p)
		}
		for _, c := range target.Constants() {
			m.Constants[c] = struct{}{}
		}
		m.Sentences[target.String()] = target
	}
	return nil
}

// ReadBranch populates the model from branch: access edges, worlds, and
// literal/opaque sentence values, the node-by-node recursion pytableaux's
// BaseModel.read_branch/_read_node performs.
func (m *Model) ReadBranch(branch *Branch) error {
	if m.finished {
		return newIllegalState("model is already finished")
	}
	for _, n := range branch.nodes {
		if err := m.readNode(n); err != nil {
			return err
		}
	}
	return m.Finish()
}

func (m *Model) readNode(n *Node) error {
	if n.HasAccess() {
		m.R.add(n.World1, n.World2)
		return nil
	}
	world := 0
	if n.HasWorld() {
		world = n.World
	}
	m.frame(world)
	if !n.HasSentence() {
		return nil
	}
	s := n.Sentence
	m.Sentences[s.String()] = s
	for _, c := range s.Constants() {
		m.Constants[c] = struct{}{}
	}
	if !m.IsLiteral(s) && !m.IsOpaque(s) {
		return nil
	}
	designated := true
	if n.HasDesignated() {
		designated = n.Designated
	}
	return m.markLiteral(s, designated, world)
}

// Finish completes the model: every world mentioned in R gets a frame.
// It adds no atomic, opaque or predicate entries to any frame; an entry a
// frame lacks reads as the logic's unassigned value when it is looked up.
func (m *Model) Finish() error {
	if m.finished {
		return newIllegalState("model is already finished")
	}
	for w := range m.R {
		m.frame(w)
	}
	m.finished = true
	return nil
}

// Finished reports whether Finish has been called.
func (m *Model) Finished() bool { return m.finished }

// IsCountermodelTo reports whether every premise evaluates to a
// designated value and the conclusion does not.
func (m *Model) IsCountermodelTo(arg Argument) (bool, error) {
	for _, p := range arg.Premises {
		v, err := m.ValueOf(p, 0)
		if err != nil {
			return false, err
		}
		if !m.Meta.Designated(v) {
			return false, nil
		}
	}
	v, err := m.ValueOf(arg.Conclusion, 0)
	if err != nil {
		return false, err
	}
	return !m.Meta.Designated(v), nil
}

func (m *Model) String() string {
	var sb strings.Builder
	sb.WriteString("Model{")
	worlds := make([]int, 0, len(m.Frames))
	for w := range m.Frames {
		worlds = append(worlds, w)
	}
	sort.Ints(worlds)
	for _, w := range worlds {
		sb.WriteString(m.Frames[w].String(m.Meta))
		sb.WriteString(" ")
	}
	sb.WriteString("}")
	return sb.String()
}
