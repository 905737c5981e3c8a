package attribute

import (
	"sync"

	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// Owner is notified before an attribute it holds is renamed. Returning an
// error vetoes the rename.
type Owner interface {
	AttributeRenamed(id uint64, oldName, newName string) error
}

// Registry tracks which owners hold which attribute. It replaces a
// back-pointer from every attribute to its owners.
type Registry struct {
	mu     sync.Mutex
	owners map[uint64][]Owner
}

func NewRegistry() *Registry {
	return &Registry{owners: make(map[uint64][]Owner)}
}

// Register adds owner to the attribute's owner list. Registering the same
// owner twice is a no-op.
func (r *Registry) Register(id uint64, owner Owner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.owners[id] {
		if o == owner {
			return
		}
	}
	r.owners[id] = append(r.owners[id], owner)
}

func (r *Registry) Unregister(id uint64, owner Owner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.owners[id]
	for i, o := range list {
		if o == owner {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(r.owners, id)
		return
	}
	r.owners[id] = list
}

// Owners returns a snapshot of the owners holding the attribute.
func (r *Registry) Owners(id uint64) []Owner {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Owner, len(r.owners[id]))
	copy(out, r.owners[id])
	return out
}

// notifyRename tells every owner about the rename. When an owner refuses,
// the owners already notified are told to rename back.
func (r *Registry) notifyRename(id uint64, oldName, newName string) error {
	owners := r.Owners(id)
	for i, o := range owners {
		if err := o.AttributeRenamed(id, oldName, newName); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = owners[j].AttributeRenamed(id, newName, oldName)
			}
			return err
		}
	}
	return nil
}

// Set is an ordered collection of attributes indexed by name. It registers
// as owner of every member so the name index follows renames.
type Set struct {
	mu     sync.RWMutex
	attrs  []Attribute
	byName map[string]Attribute
}

// NewSet builds a set from attrs. Duplicate names are rejected.
func NewSet(attrs ...Attribute) (*Set, error) {
	s := &Set{byName: make(map[string]Attribute, len(attrs))}
	for _, a := range attrs {
		if err := s.Add(a); err != nil {
			s.Clear()
			return nil, err
		}
	}
	return s, nil
}

func (s *Set) Add(a Attribute) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[a.Name()]; ok {
		return tableerrors.Newf(tableerrors.ErrorTypeSchema, "duplicate attribute name %q", a.Name()).
			WithDetail("attribute", a.Name())
	}
	s.attrs = append(s.attrs, a)
	s.byName[a.Name()] = a
	a.Registry().Register(a.ID(), s)
	return nil
}

// Remove drops a and reports whether it was a member.
func (s *Set) Remove(a Attribute) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.attrs {
		if m.ID() != a.ID() {
			continue
		}
		s.attrs = append(s.attrs[:i], s.attrs[i+1:]...)
		delete(s.byName, m.Name())
		m.Registry().Unregister(m.ID(), s)
		return true
	}
	return false
}

// Clear removes every member.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.attrs {
		a.Registry().Unregister(a.ID(), s)
	}
	s.attrs = nil
	s.byName = make(map[string]Attribute)
}

func (s *Set) Get(name string) (Attribute, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byName[name]
	return a, ok
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.attrs)
}

// Attributes returns the members in insertion order.
func (s *Set) Attributes() []Attribute {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Attribute, len(s.attrs))
	copy(out, s.attrs)
	return out
}

// AttributeRenamed moves the name index entry. It refuses a name another
// member already uses.
func (s *Set) AttributeRenamed(id uint64, oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if other, ok := s.byName[newName]; ok && other.ID() != id {
		return tableerrors.Newf(tableerrors.ErrorTypeSchema, "cannot rename %q: name %q already in use", oldName, newName).
			WithDetail("attribute", oldName)
	}
	a, ok := s.byName[oldName]
	if !ok || a.ID() != id {
		return nil
	}
	delete(s.byName, oldName)
	s.byName[newName] = a
	return nil
}
