package formalism

import (
	"fmt"

	"github.com/mimirplan/mimir/internal/repo"
)

// Literal is a polarity paired with a (handle to a) lifted Atom.
type Literal struct {
	Polarity bool
	Atom     repo.Index // index into Repository.Atoms
}

func (l Literal) key() string {
	return fmt.Sprintf("%v:%v", l.Polarity, l.Atom)
}

// GroundAtom is a fully substituted predicate application: a predicate
// handle and a list of object indices.
type GroundAtom struct {
	Predicate repo.Index
	Objects   []repo.Index
}

func (g GroundAtom) key() string {
	s := g.Predicate.String() + "("
	for i, o := range g.Objects {
		if i > 0 {
			s += ","
		}
		s += o.String()
	}
	return s + ")"
}

// GroundLiteral is a polarity paired with a handle to a GroundAtom.
type GroundLiteral struct {
	Polarity bool
	Atom     repo.Index // index into Repository.GroundAtoms
}

// GroundFunction is a fully substituted function application.
type GroundFunction struct {
	Skeleton repo.Index
	Objects  []repo.Index
}

func (g GroundFunction) key() string {
	s := g.Skeleton.String() + "("
	for i, o := range g.Objects {
		if i > 0 {
			s += ","
		}
		s += o.String()
	}
	return s + ")"
}
