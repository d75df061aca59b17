package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mimirplan/mimir/internal/ast"
	"github.com/mimirplan/mimir/internal/binding"
	"github.com/mimirplan/mimir/internal/formalism"
	"github.com/mimirplan/mimir/internal/ground"
	"github.com/mimirplan/mimir/internal/grounder"
	"github.com/mimirplan/mimir/internal/loader"
	"github.com/mimirplan/mimir/internal/logging"
	"github.com/mimirplan/mimir/internal/mimirerr"
	"github.com/mimirplan/mimir/internal/repo"
	"github.com/mimirplan/mimir/internal/store"
)

// deadlineFunc turns a config.Deadline duration into a binding.Deadline
// cooperative-cancellation closure (§5); zero disables cancellation.
func deadlineFunc(d time.Duration) binding.Deadline {
	if d <= 0 {
		return func() bool { return false }
	}
	cutoff := time.Now().Add(d)
	return func() bool { return time.Now().After(cutoff) }
}

// loadProblem decodes the domain and problem JSON files concurrently
// (SPEC_FULL §B.3 — two independent parses, the only place errgroup
// appears; grounding itself stays single-threaded per §5) and translates
// them into a finalized formalism.Domain/Problem pair.
func loadProblem(domainPath, problemPath string) (*loader.Loaded, error) {
	var dom *ast.Domain
	var prob *ast.Problem
	g := new(errgroup.Group)
	g.Go(func() error {
		f, err := os.Open(domainPath)
		if err != nil {
			return fmt.Errorf("open domain %s: %w", domainPath, err)
		}
		defer f.Close()
		d, err := loader.DecodeDomain(f)
		if err != nil {
			return err
		}
		dom = d
		return nil
	})
	g.Go(func() error {
		f, err := os.Open(problemPath)
		if err != nil {
			return fmt.Errorf("open problem %s: %w", problemPath, err)
		}
		defer f.Close()
		p, err := loader.DecodeProblem(f)
		if err != nil {
			return err
		}
		prob = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return loader.Load(dom, prob)
}

func atomName(repoRef *formalism.Repository, idx repo.Index) string {
	ga := repoRef.GroundAtom(idx)
	names := make([]string, len(ga.Objects))
	for i, o := range ga.Objects {
		names[i] = repoRef.Object(o).Name
	}
	return fmt.Sprintf("(%s %s)", repoRef.Predicate(ga.Predicate).Name, strings.Join(names, " "))
}

func newGrounder(loaded *loader.Loaded) (*grounder.Grounder, error) {
	return grounder.New(loaded.Problem, grounder.Options{
		ActionCostDefault: cfg.ActionCostDefault,
		Deadline:          deadlineFunc(cfg.Deadline),
	})
}

func openStore() (*store.Store, error) {
	if cfg.StorePath == "" {
		return nil, nil
	}
	return store.Open(cfg.StorePath)
}

func logErr(domainName string, err error) {
	logging.Err(logger, fmt.Sprintf("domain %s", domainName), err)
}

var groundCmd = &cobra.Command{
	Use:   "ground <domain.json> <problem.json>",
	Short: "build the initial state and enumerate its applicable ground actions",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadProblem(args[0], args[1])
		if err != nil {
			return err
		}
		if showStats, _ := cmd.Flags().GetBool("stats"); showStats {
			for _, st := range loaded.Statistics {
				fmt.Printf("%-24s static=%d fluent=%d derived=%d numeric=%d conditional=%d\n",
					st.Name, st.StaticLiterals, st.FluentLiterals, st.DerivedLiterals, st.NumericConstraints, st.ConditionalEffects)
			}
		}

		start := time.Now()
		g, err := newGrounder(loaded)
		if err != nil {
			logErr(loaded.Domain.Name, err)
			return err
		}
		s, err := g.InitialState()
		if err != nil {
			logErr(loaded.Domain.Name, err)
			return err
		}

		count := 0
		err = g.ApplicableActions(s, func(ga *ground.GroundAction) bool {
			count++
			fmt.Printf("action#%d schema=%d binding=%v cost=%v\n", count, ga.Schema, ga.Binding, ga.Cost)
			return true
		})
		if err != nil {
			logErr(loaded.Domain.Name, err)
			return err
		}
		logger.Debug("ground complete",
			zap.Int("applicable_actions", count),
			zap.Duration("elapsed", time.Since(start)),
		)
		fmt.Printf("initial state: %d fluent atoms, %d derived atoms; %d applicable actions\n",
			len(s.FluentAtoms()), len(s.DerivedAtoms()), count)

		for _, p := range g.GoalRelevantPredicates() {
			fmt.Printf("goal-relevant predicate: %s\n", loaded.Domain.Repo.Predicate(p).Name)
		}
		return nil
	},
}

var axiomsCmd = &cobra.Command{
	Use:   "axioms <domain.json> <problem.json>",
	Short: "print the initial state's fully derived atom set",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadProblem(args[0], args[1])
		if err != nil {
			return err
		}
		g, err := newGrounder(loaded)
		if err != nil {
			logErr(loaded.Domain.Name, err)
			return err
		}
		s, err := g.InitialState()
		if err != nil {
			logErr(loaded.Domain.Name, err)
			return err
		}
		for _, idx := range s.DerivedAtoms() {
			fmt.Println(atomName(loaded.Domain.Repo, idx))
		}
		fmt.Printf("goal satisfied: %v\n", g.IsGoal(s))
		return nil
	},
}

var successorCmd = &cobra.Command{
	Use:   "successor <domain.json> <problem.json>",
	Short: "ground the first applicable action in the initial state and print its successor",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadProblem(args[0], args[1])
		if err != nil {
			return err
		}
		g, err := newGrounder(loaded)
		if err != nil {
			logErr(loaded.Domain.Name, err)
			return err
		}
		s, err := g.InitialState()
		if err != nil {
			logErr(loaded.Domain.Name, err)
			return err
		}

		cache, err := openStore()
		if err != nil {
			return err
		}
		if cache != nil {
			defer cache.Close()
		}

		var chosen *ground.GroundAction
		err = g.ApplicableActions(s, func(ga *ground.GroundAction) bool {
			if chosen == nil {
				chosen = ga
				return false
			}
			return true
		})
		if err != nil {
			logErr(loaded.Domain.Name, err)
			return err
		}
		if chosen == nil {
			return mimirerr.InvalidInitial("no applicable action in initial state")
		}

		next, err := g.Successor(s, chosen)
		if err != nil {
			logErr(loaded.Domain.Name, err)
			return err
		}
		fmt.Printf("successor state: %d fluent atoms, %d derived atoms; goal=%v\n",
			len(next.FluentAtoms()), len(next.DerivedAtoms()), g.IsGoal(next))
		return nil
	},
}
