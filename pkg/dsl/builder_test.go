package dsl

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/easybake/pkg/dag"
	"github.com/aretw0/easybake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pick []domain.TaskID

func (p pick) Tasks() []domain.TaskID { return p }
func (p pick) String() string         { return "pick" }

func noop(ctx context.Context, rc *dag.RunContext) (any, error) { return nil, nil }

func TestBuilder_SimpleFlow(t *testing.T) {
	b := New()

	b.Add("fetch").Do(noop).Describe("fetch things")
	b.Add("decide").
		Branch(func(ctx context.Context, rc *dag.RunContext) (dag.Selection, error) {
			return pick{"left"}, nil
		}).
		After("fetch")
	b.Add("left").Do(noop).After("decide")
	b.Add("right").Do(noop).After("decide").Retry(2, time.Second)
	b.Add("join").Do(noop).After("left", "right").Trigger(dag.NoneFailedMinOneSuccess)

	g, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, []domain.TaskID{"fetch", "decide", "left", "right", "join"}, g.IDs())

	fetch, _ := g.Node("fetch")
	assert.Equal(t, dag.KindTask, fetch.Kind)
	assert.Equal(t, "fetch things", fetch.Description)
	assert.Equal(t, dag.DefaultRetries, fetch.Retries)

	decide, _ := g.Node("decide")
	assert.Equal(t, dag.KindBranch, decide.Kind)
	out, err := decide.Action(context.Background(), dag.NewRunContext("r"))
	require.NoError(t, err)
	assert.Equal(t, []domain.TaskID{"left"}, out.(dag.Selection).Tasks())

	right, _ := g.Node("right")
	assert.Equal(t, 2, right.Retries)
	assert.Equal(t, time.Second, right.RetryDelay)

	join, _ := g.Node("join")
	assert.Equal(t, dag.NoneFailedMinOneSuccess, join.Trigger)
}

func TestBuilder_RetryZeroDisablesRetries(t *testing.T) {
	b := New()
	b.Add("a").Do(noop).Retry(0, time.Second)

	g, err := b.Build()
	require.NoError(t, err)
	a, _ := g.Node("a")
	assert.Equal(t, dag.NoRetries, a.Retries)
}

func TestBuilder_AddIsIdempotent(t *testing.T) {
	b := New()
	first := b.Add("a")
	second := b.Add("a")
	assert.Same(t, first, second)
}

func TestBuilder_InvalidGraph(t *testing.T) {
	b := New()
	b.Add("a").Do(noop).After("missing")

	_, err := b.Build()
	assert.ErrorIs(t, err, dag.ErrUnknownNode)
}
