package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/scheme-assistant/server/internal/agent/graph"
	"github.com/scheme-assistant/server/internal/agent/model"
	"github.com/scheme-assistant/server/internal/agent/repo"
	"github.com/scheme-assistant/server/internal/agent/schemes"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// countingRunner fails the test if two turns of one session overlap.
type countingRunner struct {
	mu      sync.Mutex
	active  map[string]int
	overlap int
	fail    error
}

func (r *countingRunner) Invoke(ctx context.Context, in model.TurnInput) (*model.ConversationState, error) {
	r.mu.Lock()
	if r.active == nil {
		r.active = map[string]int{}
	}
	r.active[in.ConversationID]++
	if r.active[in.ConversationID] > 1 {
		r.overlap++
	}
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.active[in.ConversationID]--
		r.mu.Unlock()
	}()

	if r.fail != nil {
		return nil, r.fail
	}
	time.Sleep(time.Millisecond)

	s := in.Prior.Clone()
	if s == nil {
		s = model.NewConversationState()
	}
	s.IterationCount++
	s.Response = in.Text
	return s, nil
}

func TestService_SerializesTurnsPerSession(t *testing.T) {
	runner := &countingRunner{}
	store := repo.NewMemorySessionRepository(time.Hour, 0)
	svc := NewService(runner, store)
	ctx := context.Background()

	const sessions, workers, turns = 6, 3, 8
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		id := fmt.Sprintf("session-%d", i)
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for k := 0; k < turns; k++ {
					_, err := svc.Handle(ctx, id, "హలో")
					assert.NoError(t, err)
				}
			}()
		}
	}
	wg.Wait()

	assert.Zero(t, runner.overlap)
	for i := 0; i < sessions; i++ {
		s, err := store.Load(ctx, fmt.Sprintf("session-%d", i))
		require.NoError(t, err)
		assert.Equal(t, workers*turns, s.IterationCount)
	}
	assert.Empty(t, svc.locks)
}

func TestService_RunnerErrorKeepsPriorState(t *testing.T) {
	store := repo.NewMemorySessionRepository(time.Hour, 0)
	ctx := context.Background()

	ok := NewService(&countingRunner{}, store)
	_, err := ok.Handle(ctx, "s1", "హలో")
	require.NoError(t, err)

	failing := NewService(&countingRunner{fail: errors.New("graph broke")}, store)
	_, err = failing.Handle(ctx, "s1", "హలో")
	assert.Error(t, err)

	s, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, s.IterationCount)
}

func TestService_RejectsEmptySessionID(t *testing.T) {
	svc := NewService(&countingRunner{}, repo.NewMemorySessionRepository(time.Hour, 0))
	_, err := svc.Handle(context.Background(), " ", "హలో")
	assert.Error(t, err)
}

func TestService_EndToEnd(t *testing.T) {
	catalog, err := schemes.LoadEmbedded()
	require.NoError(t, err)
	runner, err := graph.BuildTurnGraph(context.Background(), graph.Config{
		Oracle:  model.OracleConfig{Provider: model.ProviderNone},
		Catalog: catalog,
	})
	require.NoError(t, err)

	svc := NewService(runner, repo.NewMemorySessionRepository(time.Hour, 0))
	ctx := context.Background()

	out, err := svc.Handle(ctx, "citizen", "హలో")
	require.NoError(t, err)
	assert.Equal(t, model.IntentGreeting, out.Intent)

	out, err = svc.Handle(ctx, "citizen", "నేను తెలంగాణ రైతు, నా వయసు 45")
	require.NoError(t, err)
	assert.Equal(t, 2, out.IterationCount)
	assert.Len(t, out.History, 4)

	p, err := svc.Profile(ctx, "citizen")
	require.NoError(t, err)
	age, ok := p.Slots.Int(model.FieldAge)
	assert.True(t, ok)
	assert.Equal(t, 45, age)
	state, _ := p.Slots.Str(model.FieldState)
	assert.Equal(t, "TS", state)

	require.NoError(t, svc.Reset(ctx, "citizen"))
	p, err = svc.Profile(ctx, "citizen")
	require.NoError(t, err)
	assert.Empty(t, p.Slots)
	assert.Empty(t, p.EligibleSchemes)
}
