package topology

import (
	"slices"
	"strings"
)

// Store owns the nodes and links of one lab sketch.
//
// The zero value is not usable; create stores with [New].
type Store struct {
	nodes  []*Node
	links  []Link
	byName map[string]*Node
}

// New creates an empty store.
func New() *Store {
	return &Store{byName: make(map[string]*Node)}
}

// AddNode inserts n and indexes it by name.
//
// The name is trimmed of surrounding whitespace. AddNode returns a
// [*DuplicateNameError] if the trimmed name is empty or already present, and
// ErrInvalidAttribute if a capacity is negative. On error the store is left
// unchanged.
func (s *Store) AddNode(n Node) error {
	n.Name = strings.TrimSpace(n.Name)
	if n.Name == "" {
		return &DuplicateNameError{}
	}
	if _, exists := s.byName[n.Name]; exists {
		return &DuplicateNameError{Name: n.Name}
	}
	if err := validateAttrs(n); err != nil {
		return err
	}
	node := &n
	s.nodes = append(s.nodes, node)
	s.byName[node.Name] = node
	return nil
}

// AddLink appends l after checking that both endpoints exist.
//
// Endpoint names are trimmed. AddLink returns an [*UnknownEndpointError] if
// either name is empty or unknown, and ErrInvalidAttribute if the bandwidth is
// not positive. A link whose source and target are the same node is accepted.
func (s *Store) AddLink(l Link) error {
	l.Source = strings.TrimSpace(l.Source)
	l.Target = strings.TrimSpace(l.Target)
	if l.Source == "" || l.Target == "" {
		return &UnknownEndpointError{Source: l.Source, Target: l.Target, Missing: []string{""}}
	}
	var missing []string
	for _, name := range []string{l.Source, l.Target} {
		if _, ok := s.byName[name]; !ok && !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &UnknownEndpointError{Source: l.Source, Target: l.Target, Missing: missing}
	}
	if err := validateAttrs(l); err != nil {
		return err
	}
	s.links = append(s.links, l)
	return nil
}

// Resolve returns the node registered under name.
func (s *Store) Resolve(name string) (Node, bool) {
	n, ok := s.byName[name]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Has reports whether a node named name exists.
func (s *Store) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// NodeCount returns the number of nodes.
func (s *Store) NodeCount() int { return len(s.nodes) }

// LinkCount returns the number of links.
func (s *Store) LinkCount() int { return len(s.links) }

// Snapshot returns a copy of the current nodes and links in insertion order.
// Later mutations of the store do not affect the returned value.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Nodes: make([]Node, len(s.nodes)),
		Links: slices.Clone(s.links),
	}
	for i, n := range s.nodes {
		snap.Nodes[i] = *n
	}
	if snap.Links == nil {
		snap.Links = []Link{}
	}
	return snap
}

// Reset removes every node and link.
func (s *Store) Reset() {
	s.nodes = nil
	s.links = nil
	s.byName = make(map[string]*Node)
}

// Seed adds nodes then links through the regular add path.
//
// Seeding is all-or-nothing: if any element is rejected the store is restored
// to its previous contents and the error is returned.
func (s *Store) Seed(nodes []Node, links []Link) error {
	prevNodes, prevLinks := slices.Clone(s.nodes), slices.Clone(s.links)
	restore := func() {
		s.nodes, s.links = prevNodes, prevLinks
		s.byName = make(map[string]*Node, len(prevNodes))
		for _, n := range prevNodes {
			s.byName[n.Name] = n
		}
	}

	for _, n := range nodes {
		if err := s.AddNode(n); err != nil {
			restore()
			return err
		}
	}
	for _, l := range links {
		if err := s.AddLink(l); err != nil {
			restore()
			return err
		}
	}
	return nil
}
