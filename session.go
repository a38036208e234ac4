package ski

import (
	"fmt"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

type Mode int

const (
	ModeAdd Mode = iota
	ModeRemove
	ModeEdit
	ModePlay
)

func (m Mode) String() string {
	switch m {
	case ModeAdd:
		return "add"
	case ModeRemove:
		return "remove"
	case ModeEdit:
		return "edit"
	case ModePlay:
		return "play"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

var hints = map[Mode]string{
	ModeAdd:    "Click on a flower to split it in two",
	ModeRemove: "Click on a node to change it into a flower",
	ModeEdit:   "Click on a flower to rename it",
	ModePlay:   "Click on a node",
}

// A Session is the state behind an interactive editor: the current tree,
// the editing mode and the leaf selected for renaming. All methods are safe
// for concurrent use.
type Session struct {
	mu       sync.Mutex
	cfg      Config
	reducer  *Reducer
	tree     *Tree
	mode     Mode
	selected NodeID
}

// NewSession starts a session in add mode showing expr.
func NewSession(cfg Config, expr string) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r, err := cfg.Reducer()
	if err != nil {
		return nil, err
	}
	s := &Session{cfg: cfg, reducer: r, mode: ModeAdd}
	if err := s.Load(expr); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the tree with the parse of expr.
func (s *Session) Load(expr string) error {
	t, err := Parse(expr)
	if err != nil {
		return errors.Wrapf(err, "loading %q", expr)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree = t
	s.selected = Nil
	return nil
}

// Clear resets the tree to a single empty leaf.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree = NewLeafTree("")
	s.selected = Nil
}

func (s *Session) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
	s.selected = Nil
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Hint returns the help line for the current mode.
func (s *Session) Hint() string {
	return hints[s.Mode()]
}

// Root returns the handle of the current root.
func (s *Session) Root() NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Root
}

// Selected returns the leaf awaiting a new label in edit mode, or Nil.
func (s *Session) Selected() NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Click applies the current mode to node id and reports whether the tree
// changed. Clicks that do not apply to the node (splitting an internal
// node, say) are ignored.
func (s *Session) Click(id NodeID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tree.Valid(id) {
		return false, errors.Wrapf(ErrStaleNode, "click %v", id)
	}

	leaf := s.tree.IsLeaf(id)
	switch {
	case s.mode == ModeAdd && leaf:
		return true, s.tree.Split(id)
	case s.mode == ModeRemove && !leaf:
		if err := s.tree.Collapse(id); err != nil {
			return false, err
		}
		s.tree.Collect()
		return true, nil
	case s.mode == ModeEdit && leaf:
		s.selected = id
		return false, nil
	case s.mode == ModePlay:
		rule, ok := s.reducer.TryReduce(s.tree, id)
		if ok {
			glog.V(5).Infof("play: rule %s at %v", rule, id)
		}
		return ok, nil
	}
	return false, nil
}

// Key renames the selected leaf. The selection is kept so that further
// keys keep renaming it.
func (s *Session) Key(label string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected.IsNil() {
		return false, nil
	}
	if err := s.tree.Rename(s.selected, label); err != nil {
		s.selected = Nil
		return false, err
	}
	return true, nil
}

// Step performs one reduction step on the whole tree.
func (s *Session) Step() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.reducer.Step(s.tree) {
		glog.V(3).Infof("cannot reduce anymore: %s", s.tree)
		return false
	}
	if !s.tree.Valid(s.selected) {
		s.selected = Nil
	}
	return true
}

// Expression returns the bracketed form of the current tree.
func (s *Session) Expression() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.String()
}

// Layout lays out the current tree with the session's spacing.
func (s *Session) Layout() *Placements {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Layout(s.tree, s.cfg.LevelHeight, s.cfg.Spacing)
}

// Snapshot returns a copy of the current tree that is safe to read
// without holding the session.
func (s *Session) Snapshot() *Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := NewTree()
	t.Root = t.Graft(s.tree, s.tree.Root)
	return t
}
