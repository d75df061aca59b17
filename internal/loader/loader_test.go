package loader_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimirplan/mimir/internal/loader"
)

const tinyDomainJSON = `{
  "name": "tiny",
  "actions": [
    {
      "name": "flip",
      "parameters": ["?x"],
      "condition": {"literals": [{"positive": false, "atom": {"predicate": "on", "terms": ["?x"]}}]},
      "effect": {"literals": [{"positive": true, "atom": {"predicate": "on", "terms": ["?x"]}}]}
    }
  ]
}`

const tinyProblemJSON = `{
  "name": "tiny-instance",
  "domain": "tiny",
  "objects": ["a"],
  "initial_literals": [],
  "goal": {"literals": [{"positive": true, "atom": {"predicate": "on", "terms": ["a"]}}]}
}`

func TestLoadReadersDecodesAndTranslates(t *testing.T) {
	loaded, err := loader.LoadReaders(strings.NewReader(tinyDomainJSON), strings.NewReader(tinyProblemJSON))
	require.NoError(t, err)

	require.Len(t, loaded.Domain.Actions, 1)
	assert.Equal(t, "flip", loaded.Domain.Actions[0].Name)
	require.Len(t, loaded.Statistics, 1)
	assert.Equal(t, "flip", loaded.Statistics[0].Name)
	assert.NotZero(t, loaded.Problem.Goal, "the goal condition must have been interned")
}

func TestDecodeDomainRejectsMalformedJSON(t *testing.T) {
	_, err := loader.DecodeDomain(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestDecodeProblemRejectsMalformedJSON(t *testing.T) {
	_, err := loader.DecodeProblem(strings.NewReader("[]"))
	assert.Error(t, err)
}

func TestLoadWrapsProblemTranslationErrorsWithProblemName(t *testing.T) {
	domainJSON := `{
  "name": "bad",
  "actions": [
    {
      "name": "act",
      "parameters": ["?x"],
      "condition": {"literals": []},
      "effect": {"literals": [{"positive": true, "atom": {"predicate": "fluent-pred", "terms": ["?x"]}}]}
    }
  ]
}`
	// A negative initial literal is never legal PDDL; ProblemBuilder.Finalize
	// rejects it, and Load must wrap that error with the problem's name.
	problemJSON := `{
  "name": "bad-instance",
  "domain": "bad",
  "objects": ["a"],
  "initial_literals": [{"positive": false, "atom": {"predicate": "fluent-pred", "terms": ["a"]}}],
  "goal": {}
}`

	_, err := loader.LoadReaders(strings.NewReader(domainJSON), strings.NewReader(problemJSON))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad-instance")
}
