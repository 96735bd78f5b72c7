package tableau

import "fmt"

// nodeFlags tags which optional keys a Node carries, mirroring pytableaux's
// tagging of a Node by which mapping keys are present (SentenceNode,
// DesignationNode, WorldNode, AccessNode, ...).
type nodeFlags uint16

const (
	hasSentence nodeFlags = 1 << iota
	hasDesignated
	hasWorld
	hasAccess // world1 + world2
	hasFlag
	hasQuit
	hasClosure
	hasEllipsis
)

// Node is an immutable key-bag over a fixed recognised key-set. Equality
// and hashing are by identity: two distinct Node values are never equal
// even if every field matches, so Node is always handled through *Node.
// Info carries forward-compatible, untyped extras (pytableaux's free-form
// "info" key).
type Node struct {
	flags nodeFlags

	Sentence   Sentence
	Designated bool
	World      int
	World1     int
	World2     int
	Flag       string
	Quit       string // quit-flag rule name, when hasQuit
	Info       map[string]interface{}
}

// NodeOption configures a new Node.
type NodeOption func(*Node)

// WithSentence attaches a sentence, making the node a SentenceNode.
func WithSentence(s Sentence) NodeOption {
	return func(n *Node) { n.Sentence = s; n.flags |= hasSentence }
}

// WithDesignated attaches a designation flag, making the node a
// DesignationNode.
func WithDesignated(d bool) NodeOption {
	return func(n *Node) { n.Designated = d; n.flags |= hasDesignated }
}

// WithWorld attaches a world index, making the node a WorldNode.
func WithWorld(w int) NodeOption {
	return func(n *Node) { n.World = w; n.flags |= hasWorld }
}

// WithAccess attaches an access pair (w1, w2), making the node an
// AccessNode.
func WithAccess(w1, w2 int) NodeOption {
	return func(n *Node) { n.World1 = w1; n.World2 = w2; n.flags |= hasAccess }
}

// WithFlagName marks the node as a FlagNode carrying name.
func WithFlagName(name string) NodeOption {
	return func(n *Node) { n.Flag = name; n.flags |= hasFlag }
}

// WithQuitFlag marks the node as a QuitFlagNode recording which rule quit.
func WithQuitFlag(ruleName string) NodeOption {
	return func(n *Node) { n.Quit = ruleName; n.flags |= hasQuit | hasFlag; n.Flag = "quit" }
}

// WithClosureFlag marks the node as the trailing ClosureNode a closed
// branch appends.
func WithClosureFlag() NodeOption {
	return func(n *Node) { n.flags |= hasClosure | hasFlag; n.Flag = "closure" }
}

// WithEllipsis marks the node as an EllipsisNode (a placeholder used when
// presenting truncated node sequences).
func WithEllipsis() NodeOption {
	return func(n *Node) { n.flags |= hasEllipsis }
}

// WithInfo attaches a forward-compatible info entry.
func WithInfo(key string, val interface{}) NodeOption {
	return func(n *Node) {
		if n.Info == nil {
			n.Info = make(map[string]interface{})
		}
		n.Info[key] = val
	}
}

// NewNode builds a Node from the given options.
func NewNode(opts ...NodeOption) *Node {
	n := &Node{}
	for _, o := range opts {
		o(n)
	}
	return n
}

// SentenceNode is shorthand for NewNode(WithSentence(s)).
func SentenceNode(s Sentence) *Node { return NewNode(WithSentence(s)) }

// SDWNode builds a sentence node, optionally designated and/or worlded --
// the common shape trunk construction and rule targets use repeatedly.
func SDWNode(s Sentence, designated *bool, world *int) *Node {
	opts := []NodeOption{WithSentence(s)}
	if designated != nil {
		opts = append(opts, WithDesignated(*designated))
	}
	if world != nil {
		opts = append(opts, WithWorld(*world))
	}
	return NewNode(opts...)
}

func (n *Node) HasSentence() bool   { return n.flags&hasSentence != 0 }
func (n *Node) HasDesignated() bool { return n.flags&hasDesignated != 0 }
func (n *Node) HasWorld() bool      { return n.flags&hasWorld != 0 }
func (n *Node) HasAccess() bool     { return n.flags&hasAccess != 0 }
func (n *Node) IsFlagNode() bool    { return n.flags&hasFlag != 0 }
func (n *Node) IsClosureNode() bool { return n.flags&hasClosure != 0 }
func (n *Node) IsQuitFlagNode() bool { return n.flags&hasQuit != 0 }
func (n *Node) IsEllipsisNode() bool { return n.flags&hasEllipsis != 0 }

func (n *Node) String() string {
	switch {
	case n.IsClosureNode():
		return "ClosureNode"
	case n.IsQuitFlagNode():
		return fmt.Sprintf("QuitFlagNode(%s)", n.Quit)
	case n.HasAccess():
		return fmt.Sprintf("AccessNode(%d,%d)", n.World1, n.World2)
	case n.HasSentence():
		s := n.Sentence.String()
		if n.HasDesignated() {
			s = fmt.Sprintf("%s[des=%v]", s, n.Designated)
		}
		if n.HasWorld() {
			s = fmt.Sprintf("%s@w%d", s, n.World)
		}
		return s
	default:
		return "Node{}"
	}
}

// has reports whether the node matches every set field of q (a sparse
// query built the same way as Node itself, via NodeOption). Only fields
// present (flagged) in q are checked.
func (n *Node) matches(q *Node) bool {
	if q.flags&hasSentence != 0 {
		if !n.HasSentence() || n.Sentence.String() != q.Sentence.String() {
			return false
		}
	}
	if q.flags&hasDesignated != 0 {
		if !n.HasDesignated() || n.Designated != q.Designated {
			return false
		}
	}
	if q.flags&hasWorld != 0 {
		if !n.HasWorld() || n.World != q.World {
			return false
		}
	}
	if q.flags&hasAccess != 0 {
		if !n.HasAccess() || n.World1 != q.World1 || n.World2 != q.World2 {
			return false
		}
	}
	return true
}
