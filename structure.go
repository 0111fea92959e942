package pdfoutline

// BuilderState is the state of an OutlineBuilder.
type BuilderState int

const (
	StateStackEmpty BuilderState = iota
	StateStackOpen
)

// String returns a string representation of the builder state.
func (s BuilderState) String() string {
	if s == StateStackOpen {
		return "stack-open"
	}
	return "stack-empty"
}

// openNode is an entry of the builder stack.
type openNode struct {
	level int
	node  *OutlineNode
}

// OutlineBuilder assembles leveled headings into a tree. It keeps the currently open
// nodes on an explicit stack ordered by level; each pushed heading closes every open
// node at its level or deeper and becomes a child of the node left on top.
//
// Input order is preserved. Ending with open nodes on the stack is normal: they are
// simply the last entries of the tree.
type OutlineBuilder struct {
	root  *OutlineNode
	stack []openNode
}

// NewOutlineBuilder returns a builder holding an empty synthetic root.
func NewOutlineBuilder() *OutlineBuilder {
	b := &OutlineBuilder{}
	b.Reset()
	return b
}

// Reset discards everything built so far.
func (b *OutlineBuilder) Reset() {
	b.root = &OutlineNode{Level: 0, Children: []*OutlineNode{}}
	b.stack = b.stack[:0]
}

// State reports whether any node is currently open.
func (b *OutlineBuilder) State() BuilderState {
	if len(b.stack) == 0 {
		return StateStackEmpty
	}
	return StateStackOpen
}

// OpenLevels returns the levels on the stack, outermost first.
func (b *OutlineBuilder) OpenLevels() []int {
	levels := make([]int, len(b.stack))
	for i, open := range b.stack {
		levels[i] = open.level
	}
	return levels
}

// Push adds one heading and returns its node.
func (b *OutlineBuilder) Push(entry OutlineEntry) *OutlineNode {
	for len(b.stack) > 0 && b.stack[len(b.stack)-1].level >= entry.Level {
		b.stack = b.stack[:len(b.stack)-1]
	}

	node := &OutlineNode{
		Level:    entry.Level,
		Text:     entry.Text,
		Page:     entry.Page,
		Label:    entry.Label,
		Children: []*OutlineNode{},
	}

	parent := b.root
	if len(b.stack) > 0 {
		parent = b.stack[len(b.stack)-1].node
	}
	parent.Children = append(parent.Children, node)
	b.stack = append(b.stack, openNode{level: entry.Level, node: node})

	return node
}

// Root returns the synthetic level 0 root.
func (b *OutlineBuilder) Root() *OutlineNode {
	return b.root
}

// BuildTree builds a tree from leveled entries in reading order.
func BuildTree(entries []OutlineEntry) *OutlineNode {
	b := NewOutlineBuilder()
	for _, entry := range entries {
		b.Push(entry)
	}
	return b.Root()
}

// BuildHierarchy builds the outline tree from level-assigned candidates.
func BuildHierarchy(candidates []HeadingCandidate) *OutlineNode {
	b := NewOutlineBuilder()
	for _, c := range candidates {
		entry := OutlineEntry{
			Level: c.Level,
			Text:  c.Text(),
			Page:  c.Line.Page,
		}
		if c.Match != nil {
			entry.Label = c.Match.Label
		}
		b.Push(entry)
	}
	return b.Root()
}
