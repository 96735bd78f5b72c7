package tableau

import "github.com/hashicorp/go-hclog"

// TabEvent names a tableau-level lifecycle event.
type TabEvent int

const (
	BeforeTrunkBuild TabEvent = iota
	AfterTrunkBuild
	AfterBranchAdd
	AfterBranchClose
	AfterNodeAdd
	AfterNodeTick
	AfterRuleApply
	AfterFinish
)

func (e TabEvent) String() string {
	switch e {
	case BeforeTrunkBuild:
		return "BEFORE_TRUNK_BUILD"
	case AfterTrunkBuild:
		return "AFTER_TRUNK_BUILD"
	case AfterBranchAdd:
		return "AFTER_BRANCH_ADD"
	case AfterBranchClose:
		return "AFTER_BRANCH_CLOSE"
	case AfterNodeAdd:
		return "AFTER_NODE_ADD"
	case AfterNodeTick:
		return "AFTER_NODE_TICK"
	case AfterRuleApply:
		return "AFTER_RULE_APPLY"
	case AfterFinish:
		return "AFTER_FINISH"
	default:
		return "UNKNOWN_TAB_EVENT"
	}
}

// RuleEvent names a per-rule lifecycle event.
type RuleEvent int

const (
	BeforeApply RuleEvent = iota
	AfterApply
)

func (e RuleEvent) String() string {
	if e == BeforeApply {
		return "BEFORE_APPLY"
	}
	return "AFTER_APPLY"
}

// TabListener receives tableau events. Returning a non-nil error aborts the
// dispatch's aggregate (see dispatchErrors) but every other listener for
// the same event still runs: helpers must not swallow each other's errors,
// but one helper's error must not silently skip its siblings either.
type TabListener func(tab *Tableau, evt TabEvent, args ...interface{}) error

// RuleListener receives rule events.
type RuleListener func(rule Rule, evt RuleEvent, target *Target) error

// tabSubscription pairs an event with one listener for it.
type tabSubscription struct {
	evt TabEvent
	fn  TabListener
}

// EventBus is the tableau's synchronous, ordered event dispatcher. It
// generalizes gokando's GlobalConstraintBus (constraint_store.go) from
// cross-store constraint coordination to tableau/rule lifecycle events:
// same shape (registry of subscribers dispatched in subscription order,
// synchronous, no buffering surprises for the caller), new domain. Unlike
// the constraint bus, tableau dispatch must be synchronous and in-order
// per §5 ("event dispatch is synchronous and ordered by subscription
// within each event"), so there is no background goroutine or channel
// buffering here -- the channel-based streaming idiom from the bus
// becomes a plain slice-of-listeners walked inline.
type EventBus struct {
	log       hclog.Logger
	listeners map[TabEvent][]TabListener
	once      map[TabEvent][]TabListener
	ruleListeners []RuleListener
}

// newEventBus creates an empty bus.
func newEventBus(log hclog.Logger) *EventBus {
	return &EventBus{
		log:       log,
		listeners: make(map[TabEvent][]TabListener),
		once:      make(map[TabEvent][]TabListener),
	}
}

// On subscribes fn to evt; it fires every time evt is emitted.
func (b *EventBus) On(evt TabEvent, fn TabListener) {
	b.listeners[evt] = append(b.listeners[evt], fn)
}

// Once subscribes fn to fire on the next emission of evt only, then
// auto-unsubscribes. Used by New to lock rule-group membership after the
// first AFTER_BRANCH_ADD (§5).
func (b *EventBus) Once(evt TabEvent, fn TabListener) {
	b.once[evt] = append(b.once[evt], fn)
}

// OnRule subscribes fn to every rule event across every rule in the
// tableau.
func (b *EventBus) OnRule(fn RuleListener) {
	b.ruleListeners = append(b.ruleListeners, fn)
}

// Emit dispatches evt to every subscriber in subscription order, returning
// an aggregate error (via go-multierror) if more than one subscriber
// errors. Every listener runs regardless of an earlier listener's error.
func (b *EventBus) Emit(tab *Tableau, evt TabEvent, args ...interface{}) error {
	var errs dispatchErrors
	for _, fn := range b.listeners[evt] {
		errs.add(fn(tab, evt, args...))
	}
	if once := b.once[evt]; len(once) > 0 {
		delete(b.once, evt)
		for _, fn := range once {
			errs.add(fn(tab, evt, args...))
		}
	}
	if b.log != nil {
		b.log.Trace("tableau event", "event", evt.String())
	}
	return errs.errorOrNil()
}

// EmitRule dispatches a rule-scoped event to every OnRule subscriber.
func (b *EventBus) EmitRule(rule Rule, evt RuleEvent, target *Target) error {
	var errs dispatchErrors
	for _, fn := range b.ruleListeners {
		errs.add(fn(rule, evt, target))
	}
	return errs.errorOrNil()
}
