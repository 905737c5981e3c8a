// Package source provides row sources that feed example tables: an
// in-memory list, CSV text and JSON lines. Each source is single pass.
package source

import (
	"errors"
	"io"

	"github.com/ajitpratap0/minetable/pkg/datarow"
	"github.com/ajitpratap0/minetable/pkg/tableerrors"
)

// ListSource yields rows from a slice.
type ListSource struct {
	rows []datarow.Row
	pos  int
}

func NewListSource(rows ...datarow.Row) *ListSource {
	return &ListSource{rows: rows}
}

func (s *ListSource) HasNext() bool { return s.pos < len(s.rows) }

func (s *ListSource) Next() (datarow.Row, error) {
	if s.pos >= len(s.rows) {
		return nil, errExhausted
	}
	r := s.rows[s.pos]
	s.pos++
	return r, nil
}

var errExhausted = tableerrors.New(tableerrors.ErrorTypeNotFound, "row source exhausted")

// lookahead turns a read-until-EOF function into HasNext/Next.
type lookahead struct {
	read func() (datarow.Row, error)
	next datarow.Row
	err  error
	done bool
	rows int
}

func (l *lookahead) HasNext() bool {
	if l.next != nil || l.err != nil {
		return true
	}
	if l.done {
		return false
	}
	row, err := l.read()
	switch {
	case errors.Is(err, io.EOF):
		l.done = true
		return false
	case err != nil:
		l.err = err
		l.done = true
		return true
	}
	l.next = row
	return true
}

func (l *lookahead) Next() (datarow.Row, error) {
	if !l.HasNext() {
		return nil, errExhausted
	}
	if l.err != nil {
		err := l.err
		l.err = nil
		return nil, err
	}
	row := l.next
	l.next = nil
	l.rows++
	return row, nil
}

// Rows returns the number of rows handed out so far.
func (l *lookahead) Rows() int { return l.rows }
