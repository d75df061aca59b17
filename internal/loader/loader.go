// Package loader turns the JSON-serialized ast.Domain/ast.Problem pair
// into a translated, finalized formalism.Domain/formalism.Problem,
// standing in for the external PDDL parser front-end (§6, SPEC_FULL §B.1).
package loader

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mimirplan/mimir/internal/ast"
	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/translator"
)

// DecodeDomain parses a JSON-encoded ast.Domain from r.
func DecodeDomain(r io.Reader) (*ast.Domain, error) {
	var dom ast.Domain
	if err := json.NewDecoder(r).Decode(&dom); err != nil {
		return nil, fmt.Errorf("decode domain: %w", err)
	}
	return &dom, nil
}

// DecodeProblem parses a JSON-encoded ast.Problem from r.
func DecodeProblem(r io.Reader) (*ast.Problem, error) {
	var prob ast.Problem
	if err := json.NewDecoder(r).Decode(&prob); err != nil {
		return nil, fmt.Errorf("decode problem: %w", err)
	}
	return &prob, nil
}

// Loaded bundles a translated Domain/Problem pair sharing one Repository,
// plus the per-schema/axiom translation statistics.
type Loaded struct {
	Domain     *formalism.Domain
	Problem    *formalism.Problem
	Statistics []translator.Statistics
}

// Load translates an ast.Domain/ast.Problem pair into a finalized,
// interning-shared formalism.Domain/formalism.Problem (§4.2-§4.3).
func Load(dom *ast.Domain, prob *ast.Problem) (*Loaded, error) {
	d, stats, err := translator.Domain(dom)
	if err != nil {
		return nil, fmt.Errorf("translate domain %q: %w", dom.Name, err)
	}
	p, err := translator.Problem(d, prob)
	if err != nil {
		return nil, fmt.Errorf("translate problem %q: %w", prob.Name, err)
	}
	return &Loaded{Domain: d, Problem: p, Statistics: stats}, nil
}

// LoadReaders decodes and loads a domain/problem pair from JSON readers.
func LoadReaders(domainR, problemR io.Reader) (*Loaded, error) {
	dom, err := DecodeDomain(domainR)
	if err != nil {
		return nil, err
	}
	prob, err := DecodeProblem(problemR)
	if err != nil {
		return nil, err
	}
	return Load(dom, prob)
}
