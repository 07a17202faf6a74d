package taxonomy

import "fmt"

// rootID is the synthetic root every top-level label hangs from.
const rootID = 0

// Edge is a single hypernym relation: Child is a kind of Parent.
type Edge struct {
	Child  string
	Parent string
}

// LabelSet is a set of semantic class labels exempt from hierarchy-based partial credit.
type LabelSet map[string]struct{}

// NewLabelSet builds a set from labels.
func NewLabelSet(labels ...string) LabelSet {
	set := make(LabelSet, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}

// Contains reports whether label belongs to the set.
func (s LabelSet) Contains(label string) bool {
	_, ok := s[label]
	return ok
}

// MalformedTaxonomyError is returned when the hierarchy cannot be built.
type MalformedTaxonomyError struct {
	message string
}

func (e *MalformedTaxonomyError) Error() string {
	return "malformed taxonomy: " + e.message
}

func NewMalformedTaxonomyError(format string, args ...any) *MalformedTaxonomyError {
	return &MalformedTaxonomyError{message: fmt.Sprintf(format, args...)}
}

// UnknownLabelError is returned for a label that is neither in the hierarchy
// nor in the out-of-taxonomy set.
type UnknownLabelError struct {
	Label string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("semantic class '%s' is not in the taxonomy", e.Label)
}

func NewUnknownLabelError(label string) *UnknownLabelError {
	return &UnknownLabelError{Label: label}
}

type node struct {
	label  string
	parent int
	depth  int
}

// Taxonomy is an immutable tree of semantic classes.
// Nodes live in an arena indexed by integer ids; index 0 is the synthetic root
// with depth 0, so every real label has depth >= 1.
// Taxonomy is safe for concurrent reads.
type Taxonomy struct {
	nodes []node
	index map[string]int
}

// New builds a taxonomy from child -> parent edges.
// Identical duplicate edges are accepted. It fails with *MalformedTaxonomyError on
// an empty label, a self-parent, a child with two different parents or a cycle.
func New(edges []Edge) (*Taxonomy, error) {
	t := &Taxonomy{
		nodes: []node{{parent: -1}},
		index: make(map[string]int),
	}

	parents := make(map[int]int)
	for i, e := range edges {
		if e.Child == "" || e.Parent == "" {
			return nil, NewMalformedTaxonomyError("row %d: empty label", i+1)
		}
		if e.Child == e.Parent {
			return nil, NewMalformedTaxonomyError("row %d: '%s' is its own parent", i+1, e.Child)
		}
		child := t.intern(e.Child)
		parent := t.intern(e.Parent)
		if existing, found := parents[child]; found && existing != parent {
			return nil, NewMalformedTaxonomyError(
				"'%s' has conflicting parents '%s' and '%s'", e.Child, t.nodes[existing].label, e.Parent)
		}
		parents[child] = parent
	}

	for id := 1; id < len(t.nodes); id++ {
		if parent, found := parents[id]; found {
			t.nodes[id].parent = parent
		} else {
			t.nodes[id].parent = rootID
		}
	}

	if err := t.computeDepths(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Taxonomy) intern(label string) int {
	if id, found := t.index[label]; found {
		return id
	}
	id := len(t.nodes)
	t.nodes = append(t.nodes, node{label: label, depth: -1})
	t.index[label] = id
	return id
}

// computeDepths walks every node up to an already resolved ancestor and
// memoizes depths on the way back. A walk that revisits its own path is a cycle.
func (t *Taxonomy) computeDepths() error {
	onPath := make(map[int]bool)
	for id := 1; id < len(t.nodes); id++ {
		if t.nodes[id].depth >= 0 {
			continue
		}
		var path []int
		cur := id
		for cur != rootID && t.nodes[cur].depth < 0 {
			if onPath[cur] {
				return NewMalformedTaxonomyError("cycle through '%s'", t.nodes[cur].label)
			}
			onPath[cur] = true
			path = append(path, cur)
			cur = t.nodes[cur].parent
		}
		depth := t.nodes[cur].depth
		for i := len(path) - 1; i >= 0; i-- {
			depth++
			t.nodes[path[i]].depth = depth
			delete(onPath, path[i])
		}
	}
	return nil
}

// Len returns the number of labels, excluding the synthetic root.
func (t *Taxonomy) Len() int {
	return len(t.nodes) - 1
}

// Contains reports whether label is a node of the hierarchy.
func (t *Taxonomy) Contains(label string) bool {
	_, found := t.index[label]
	return found
}

// depth returns the distance of label from the synthetic root.
func (t *Taxonomy) depth(label string) (int, bool) {
	id, found := t.index[label]
	if !found {
		return 0, false
	}
	return t.nodes[id].depth, true
}

func (t *Taxonomy) lowestCommonAncestor(a, b int) int {
	for t.nodes[a].depth > t.nodes[b].depth {
		a = t.nodes[a].parent
	}
	for t.nodes[b].depth > t.nodes[a].depth {
		b = t.nodes[b].parent
	}
	for a != b {
		a = t.nodes[a].parent
		b = t.nodes[b].parent
	}
	return a
}

// Similarity scores two semantic classes in [0, 1].
//
// Equal labels always score 1.0, including out-of-taxonomy sentinels. A label from
// outOfTaxonomy scores 0.0 against anything else. Labels unknown to both the
// hierarchy and outOfTaxonomy produce *UnknownLabelError. Otherwise the Wu-Palmer
// similarity 2*depth(lca) / (depth(a) + depth(b)) is returned, which is 0.0 when
// the only common ancestor is the synthetic root.
func (t *Taxonomy) Similarity(a, b string, outOfTaxonomy LabelSet) (float64, error) {
	if a == b {
		return 1.0, nil
	}
	if outOfTaxonomy.Contains(a) || outOfTaxonomy.Contains(b) {
		return 0.0, nil
	}

	idA, found := t.index[a]
	if !found {
		return 0.0, NewUnknownLabelError(a)
	}
	idB, found := t.index[b]
	if !found {
		return 0.0, NewUnknownLabelError(b)
	}

	lca := t.lowestCommonAncestor(idA, idB)
	return 2.0 * float64(t.nodes[lca].depth) / float64(t.nodes[idA].depth+t.nodes[idB].depth), nil
}
