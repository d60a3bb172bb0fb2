package submit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatorFunc func(ctx context.Context, g domain.Graph) (domain.PipelineResult, error)

func (f validatorFunc) Parse(ctx context.Context, g domain.Graph) (domain.PipelineResult, error) {
	return f(ctx, g)
}

type staticGraph domain.Graph

func (s staticGraph) Snapshot() domain.Graph { return domain.Graph(s).Clone() }

type recorder struct {
	mu  sync.Mutex
	got []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recorder) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.got...)
}

func counting(g domain.Graph) domain.PipelineResult {
	return domain.PipelineResult{NumNodes: len(g.Nodes), NumEdges: len(g.Edges), IsDAG: true}
}

func TestSubmitter_Success(t *testing.T) {
	rec := &recorder{}
	s := NewSubmitter(validatorFunc(func(_ context.Context, g domain.Graph) (domain.PipelineResult, error) {
		return counting(g), nil
	}), WithNotifier(rec))

	res, err := s.Submit(context.Background(), staticGraph(threeNodeGraph()))

	require.NoError(t, err)
	assert.Equal(t, domain.PipelineResult{NumNodes: 3, NumEdges: 2, IsDAG: true}, res)
	notes := rec.all()
	require.Len(t, notes, 1)
	assert.Equal(t, LevelSuccess, notes[0].Level)
	assert.Equal(t, "Nodes: 3\nEdges: 2\nIs DAG: Yes", notes[0].Message)
	assert.False(t, s.Pending())
}

func TestSubmitter_CycleIsNotAnError(t *testing.T) {
	rec := &recorder{}
	s := NewSubmitter(validatorFunc(func(context.Context, domain.Graph) (domain.PipelineResult, error) {
		return domain.PipelineResult{NumNodes: 2, NumEdges: 2, IsDAG: false}, nil
	}), WithNotifier(rec))

	res, err := s.Submit(context.Background(), staticGraph{})

	require.NoError(t, err)
	assert.False(t, res.IsDAG)
	assert.Contains(t, rec.all()[0].Message, "Is DAG: No")
}

func TestSubmitter_AtMostOneInFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	calls := 0
	s := NewSubmitter(validatorFunc(func(_ context.Context, g domain.Graph) (domain.PipelineResult, error) {
		calls++
		close(entered)
		<-release
		return counting(g), nil
	}))

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), staticGraph(threeNodeGraph()))
		done <- err
	}()
	<-entered
	assert.True(t, s.Pending())

	_, err := s.Submit(context.Background(), staticGraph(threeNodeGraph()))
	assert.ErrorIs(t, err, domain.ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, calls)
	assert.False(t, s.Pending())
}

func TestSubmitter_ReleasesGuardAfterFailure(t *testing.T) {
	rec := &recorder{}
	fail := true
	s := NewSubmitter(validatorFunc(func(_ context.Context, g domain.Graph) (domain.PipelineResult, error) {
		if fail {
			return domain.PipelineResult{}, &RejectedError{Status: 422, Body: "nope"}
		}
		return counting(g), nil
	}), WithNotifier(rec))

	_, err := s.Submit(context.Background(), staticGraph{})
	assert.ErrorIs(t, err, domain.ErrValidatorRejected)

	fail = false
	_, err = s.Submit(context.Background(), staticGraph{})
	assert.NoError(t, err)

	notes := rec.all()
	require.Len(t, notes, 2)
	assert.Equal(t, LevelError, notes[0].Level)
	assert.Equal(t, "Pipeline submit failed", notes[0].Title)
	assert.Equal(t, LevelSuccess, notes[1].Level)
}

func TestSubmitter_Unreachable(t *testing.T) {
	rec := &recorder{}
	s := NewSubmitter(validatorFunc(func(context.Context, domain.Graph) (domain.PipelineResult, error) {
		return domain.PipelineResult{}, errors.Join(domain.ErrValidatorUnreachable, errors.New("connection refused"))
	}), WithNotifier(rec))

	_, err := s.Submit(context.Background(), staticGraph{})

	assert.ErrorIs(t, err, domain.ErrValidatorUnreachable)
	assert.Equal(t, "Network error submitting pipeline", rec.all()[0].Title)
}

// Edits made while a submission is pending are not seen by it and are not overwritten by its result.
func TestSubmitter_WorksOnSnapshot(t *testing.T) {
	g := threeNodeGraph()
	var mu sync.Mutex
	src := &mutableGraph{g: g, mu: &mu}
	entered := make(chan struct{})
	release := make(chan struct{})

	s := NewSubmitter(validatorFunc(func(_ context.Context, snap domain.Graph) (domain.PipelineResult, error) {
		close(entered)
		<-release
		return counting(snap), nil
	}))

	done := make(chan domain.PipelineResult, 1)
	go func() {
		res, _ := s.Submit(context.Background(), src)
		done <- res
	}()
	<-entered
	src.add(domain.NewNode("text-9", domain.NodeTypeText, domain.Position{}))
	close(release)

	res := <-done
	assert.Equal(t, 3, res.NumNodes)
	assert.Len(t, src.Snapshot().Nodes, 4)
}

type mutableGraph struct {
	mu *sync.Mutex
	g  domain.Graph
}

func (m *mutableGraph) Snapshot() domain.Graph {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.g.Clone()
}

func (m *mutableGraph) add(n domain.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.g.Nodes = append(m.g.Nodes, n)
}

func TestSubmitter_Metrics(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	block := make(chan struct{})
	entered := make(chan struct{}, 1)
	s := NewSubmitter(validatorFunc(func(_ context.Context, g domain.Graph) (domain.PipelineResult, error) {
		entered <- struct{}{}
		<-block
		return domain.PipelineResult{IsDAG: false}, nil
	}), WithMetrics(m))

	go func() { _, _ = s.Submit(context.Background(), staticGraph{}) }()
	<-entered
	_, _ = s.Submit(context.Background(), staticGraph{})
	close(block)

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.Submissions.WithLabelValues(observability.OutcomeCyclic)) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues(observability.OutcomeBusy)))
}
