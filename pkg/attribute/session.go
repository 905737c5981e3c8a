package attribute

import (
	"strconv"
	"sync"

	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// NameGenerator hands out prefix1, prefix2, ... per prefix.
type NameGenerator struct {
	mu       sync.Mutex
	counters map[string]int
}

func NewNameGenerator() *NameGenerator {
	return &NameGenerator{counters: make(map[string]int)}
}

// Next returns the next unused name for prefix.
func (g *NameGenerator) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counters[prefix]++
	return prefix + strconv.Itoa(g.counters[prefix])
}

// Reset restarts every counter.
func (g *NameGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counters = make(map[string]int)
}

// Session groups the state shared by attributes created together: generated
// names and the owner registry.
type Session struct {
	Names  *NameGenerator
	Owners *Registry
}

func NewSession() *Session {
	return &Session{Names: NewNameGenerator(), Owners: NewRegistry()}
}

// Factory creates attributes bound to a session.
type Factory struct {
	session *Session
}

// NewFactory returns a factory for session. A nil session gets a fresh one.
func NewFactory(session *Session) *Factory {
	if session == nil {
		session = NewSession()
	}
	return &Factory{session: session}
}

func (f *Factory) Session() *Session { return f.session }

// Create picks the attribute kind from vt: numerical, date-time or nominal.
func (f *Factory) Create(name string, vt ValueType) (Attribute, error) {
	reg := f.session.Owners
	switch {
	case vt.IsA(Numerical):
		return newNumerical(name, vt, reg), nil
	case vt.IsA(DateTime):
		return newDateTime(name, vt, reg), nil
	case vt.IsA(Nominal):
		return newNominal(name, vt, reg), nil
	}
	return nil, tableerrors.Newf(tableerrors.ErrorTypeValidation, "cannot create attribute of abstract type %s", vt).
		WithDetail("attribute", name)
}

// CreateGenerated creates an attribute named by the session's generator.
func (f *Factory) CreateGenerated(prefix string, vt ValueType) (Attribute, error) {
	return f.Create(f.session.Names.Next(prefix), vt)
}

// CreateView creates a view over parent in this session.
func (f *Factory) CreateView(name string, parent Attribute, model ViewModel) *View {
	return newView(name, parent, model, f.session.Owners)
}
