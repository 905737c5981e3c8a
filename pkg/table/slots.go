package table

import (
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/minetable/pkg/attribute"
	"github.com/ajitpratap0/minetable/pkg/metrics"
	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// slots manages the attribute slot list and its free list.
type slots struct {
	mu     sync.RWMutex
	attrs  []attribute.Attribute
	free   []int
	logger *zap.Logger
}

// add clones a into the oldest free slot, or a new one, and binds both the
// clone and a to that index. reused reports whether a freed slot was taken.
// A view takes no slot and reports its parent's index.
func (s *slots) add(a attribute.Attribute) (index int, reused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(a)
}

func (s *slots) addLocked(a attribute.Attribute) (int, bool) {
	if v, ok := a.(*attribute.View); ok {
		s.logger.Debug("view shares its parent column",
			zap.String("attribute", v.Name()),
			zap.String("parent", v.Parent().Name()),
			zap.Int("index", v.TableIndex()))
		return v.TableIndex(), false
	}
	c := a.Clone()
	index := len(s.attrs)
	reused := false
	if len(s.free) > 0 {
		index = s.free[0]
		s.free = s.free[1:]
		s.attrs[index] = c
		reused = true
		metrics.SlotsReused.Inc()
	} else {
		s.attrs = append(s.attrs, c)
	}
	c.SetTableIndex(index)
	a.SetTableIndex(index)
	metrics.AttributesAdded.Inc()
	s.logger.Debug("attribute added",
		zap.String("attribute", a.Name()),
		zap.Int("index", index),
		zap.Bool("reused", reused))
	return index, reused
}

func (s *slots) RemoveAttribute(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.attrs) || s.attrs[index] == nil {
		return
	}
	name := s.attrs[index].Name()
	s.attrs[index] = nil
	s.free = append(s.free, index)
	metrics.AttributesRemoved.Inc()
	s.logger.Debug("attribute removed", zap.String("attribute", name), zap.Int("index", index))
}

// RemoveAttributeByRef removes the slot a is bound to.
func (s *slots) RemoveAttributeByRef(a attribute.Attribute) {
	if a == nil {
		return
	}
	s.RemoveAttribute(a.TableIndex())
}

func (s *slots) Attribute(index int) attribute.Attribute {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.attrs) {
		return nil
	}
	return s.attrs[index]
}

func (s *slots) Attributes() []attribute.Attribute {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]attribute.Attribute, 0, len(s.attrs)-len(s.free))
	for _, a := range s.attrs {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

func (s *slots) AttributeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.attrs)
}

func (s *slots) LiveAttributeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.attrs) - len(s.free)
}

// FreeSlots returns the free list, oldest first.
func (s *slots) FreeSlots() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int, len(s.free))
	copy(out, s.free)
	return out
}

// FindAttribute returns the first live attribute called name.
func (s *slots) FindAttribute(name string) (attribute.Attribute, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.attrs {
		if a != nil && a.Name() == name {
			return a, nil
		}
	}
	return nil, tableerrors.Newf(tableerrors.ErrorTypeNotFound, "attribute %q not found", name).
		WithDetail("attribute", name)
}

// Validate checks that every live slot is bound to its own position and that
// the free list names exactly the empty slots.
func (s *slots) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	freed := make(map[int]bool, len(s.free))
	for _, i := range s.free {
		if i < 0 || i >= len(s.attrs) || s.attrs[i] != nil || freed[i] {
			return tableerrors.Newf(tableerrors.ErrorTypeInternal, "free list entry %d is not an empty slot", i).
				WithDetail("index", i)
		}
		freed[i] = true
	}
	for i, a := range s.attrs {
		if a == nil {
			if !freed[i] {
				return tableerrors.Newf(tableerrors.ErrorTypeInternal, "empty slot %d missing from free list", i).
					WithDetail("index", i)
			}
			continue
		}
		if a.TableIndex() != i {
			return tableerrors.Newf(tableerrors.ErrorTypeInternal, "attribute %q in slot %d reports index %d", a.Name(), i, a.TableIndex()).
				WithDetail("attribute", a.Name()).
				WithDetail("index", i)
		}
	}
	return nil
}
