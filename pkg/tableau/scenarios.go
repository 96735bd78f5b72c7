package tableau

// Scenario is one named, ready-to-build argument under a logic: the
// six worked examples this package ships as its own regression coverage
// and as the CLI/examples demonstration set.
type Scenario struct {
	Name        string
	Description string
	LogicName   string
	Logic       *Logic
	Argument    Argument
}

func atomA() Atomic { return FirstAtomic }
func atomB() Atomic { return NextAtomic(FirstAtomic) }

// AllScenarios returns the six canonical arguments this package is built
// to prove or refute, one per supported logic family.
func AllScenarios() []Scenario {
	a, b := atomA(), atomB()

	fPred, _ := NewPredicate(0, 0, 1)
	x := VariableP(0, 0)
	fx := func(p Parameter) Predicated {
		pr, _ := NewPredicated(fPred, p)
		return pr
	}

	return []Scenario{
		{
			Name:        "modus-ponens",
			Description: "classical modus ponens: Uab, a |- b",
			LogicName:   "CPL",
			Logic:       CPL,
			Argument:    NewArgument(b, NewOperated(MaterialConditional, a, b), a),
		},
		{
			Name:        "affirming-consequent",
			Description: "classical affirming the consequent (invalid): Uab, b |- a",
			LogicName:   "CPL",
			Logic:       CPL,
			Argument:    NewArgument(a, NewOperated(MaterialConditional, a, b), b),
		},
		{
			Name:        "fde-explosion",
			Description: "FDE explosion (invalid under a glut): KaNa |- b",
			LogicName:   "FDE",
			Logic:       FDE,
			Argument:    NewArgument(b, NewOperated(Conjunction, a, Negate(a))),
		},
		{
			Name:        "k-necessity-distribution",
			Description: "K necessity distributes over the conditional: LUab |- ULaLb",
			LogicName:   "K",
			Logic:       K,
			Argument: NewArgument(
				NewOperated(MaterialConditional, NewOperated(Necessity, a), NewOperated(Necessity, b)),
				NewOperated(Necessity, NewOperated(MaterialConditional, a, b)),
			),
		},
		{
			Name:        "existential-from-universal",
			Description: "first-order existential generalization: VxFx |- SxFx",
			LogicName:   "CFOL",
			Logic:       CFOL,
			Argument: NewArgument(
				NewQuantified(Existential, x, fx(x)),
				NewQuantified(Universal, x, fx(x)),
			),
		},
		{
			Name:        "serial-box-to-diamond",
			Description: "seriality licenses box-to-diamond: La |- Ma",
			LogicName:   "D",
			Logic:       D,
			Argument:    NewArgument(NewOperated(Possibility, a), NewOperated(Necessity, a)),
		},
	}
}
