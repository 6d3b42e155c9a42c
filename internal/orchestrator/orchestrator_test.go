package orchestrator

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/savaki/forge-bootstrap/internal/console"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

// recordingSleeper captures requested delays instead of waiting.
type recordingSleeper struct {
	delays []time.Duration
}

func (r *recordingSleeper) Sleep(_ context.Context, d time.Duration) {
	r.delays = append(r.delays, d)
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name        string
		outcomes    []bool
		wantSuccess bool
	}{
		{
			name:        "all steps succeed",
			outcomes:    []bool{true, true, true},
			wantSuccess: true,
		},
		{
			name:        "first step fails",
			outcomes:    []bool{false, true, true},
			wantSuccess: false,
		},
		{
			name:        "middle step fails",
			outcomes:    []bool{true, false, true},
			wantSuccess: false,
		},
		{
			name:        "every step fails",
			outcomes:    []bool{false, false, false},
			wantSuccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var order []string
			var steps []Step
			for i, outcome := range tt.outcomes {
				name := string(rune('a' + i))
				outcome := outcome
				steps = append(steps, Step{
					Name: name,
					Run: func(context.Context) bool {
						order = append(order, name)
						return outcome
					},
				})
			}

			sleeper := &recordingSleeper{}
			result, err := Execute(context.Background(), console.New(&bytes.Buffer{}), steps, time.Second, sleeper.Sleep)
			require.NoError(t, err)

			assert.Equal(t, []string{"a", "b", "c"}, order)
			assert.Equal(t, tt.wantSuccess, result.Success)
			require.Len(t, result.Steps, len(tt.outcomes))
			for i, outcome := range tt.outcomes {
				assert.Equal(t, outcome, result.Steps[i].OK)
			}
			assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, sleeper.delays)
		})
	}
}

func TestExecute_RecoversPanics(t *testing.T) {
	var ran bool
	steps := []Step{
		{Name: "explode", Run: func(context.Context) bool { panic("boom") }},
		{Name: "after", Run: func(context.Context) bool { ran = true; return true }},
	}

	var out bytes.Buffer
	result, err := Execute(context.Background(), console.New(&out), steps, 0, (&recordingSleeper{}).Sleep)
	require.NoError(t, err)

	assert.True(t, ran)
	assert.False(t, result.Success)
	assert.False(t, result.Steps[0].OK)
	assert.True(t, result.Steps[1].OK)
	assert.Contains(t, out.String(), "explode step aborted: boom")
}

func TestExecute_NarratesSteps(t *testing.T) {
	steps := []Step{
		{Name: "Create repository", Run: func(context.Context) bool { return true }},
		{Name: "Configure Pages", Run: func(context.Context) bool { return false }},
	}

	var out bytes.Buffer
	_, err := Execute(context.Background(), console.New(&out), steps, 0, (&recordingSleeper{}).Sleep)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "1/2. Create repository")
	assert.Contains(t, out.String(), "2/2. Configure Pages")
	assert.Contains(t, out.String(), "Configure Pages step ran into problems, continuing with the remaining steps...")
}

func TestExecute_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var ran []string
	steps := []Step{
		{Name: "first", Run: func(context.Context) bool { ran = append(ran, "first"); cancel(); return true }},
		{Name: "second", Run: func(context.Context) bool { ran = append(ran, "second"); return true }},
	}

	result, err := Execute(ctx, console.New(&bytes.Buffer{}), steps, 0, (&recordingSleeper{}).Sleep)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"first"}, ran)
	assert.False(t, result.Success)
	assert.Len(t, result.Steps, 1)
}

func TestSleep(t *testing.T) {
	t.Run("zero returns immediately", func(t *testing.T) {
		start := time.Now()
		Sleep(context.Background(), 0)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("cancelled context returns early", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		Sleep(ctx, time.Hour)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("waits for the duration", func(t *testing.T) {
		start := time.Now()
		Sleep(context.Background(), 20*time.Millisecond)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})
}

func TestDefaultDelays(t *testing.T) {
	d := DefaultDelays()
	assert.Equal(t, time.Second, d.BetweenSteps)
	assert.Equal(t, 3*time.Second, d.RepositoryInit)
	assert.Equal(t, 2*time.Minute, d.PagesDeploy)
}
