package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/flowboard/internal/adapters/file"
	"github.com/aretw0/flowboard/internal/config"
	"github.com/aretw0/flowboard/internal/logging"
	"github.com/aretw0/flowboard/pkg/adapters/memory"
	"github.com/aretw0/flowboard/pkg/adapters/redis"
	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/editor"
	"github.com/aretw0/flowboard/pkg/submit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Backends(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		app, err := Build(config.Default(), WithLogger(logging.NewNop()))
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, app.Store)
		assert.NotNil(t, app.Gatherer)
		assert.NotNil(t, app.Metrics)
	})

	t.Run("file", func(t *testing.T) {
		cfg := config.Default()
		cfg.Storage.Backend = "file"
		cfg.Storage.Dir = t.TempDir()
		app, err := Build(cfg, WithLogger(logging.NewNop()))
		require.NoError(t, err)
		assert.IsType(t, &file.Store{}, app.Store)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.Default()
		cfg.Storage.Backend = "redis"
		cfg.Storage.Redis.Addr = mr.Addr()
		app, err := Build(cfg, WithLogger(logging.NewNop()))
		require.NoError(t, err)
		assert.IsType(t, &redis.Store{}, app.Store)

		ctx := context.Background()
		sess, err := app.Sessions.Open(ctx, "s1")
		require.NoError(t, err)
		_, err = sess.Drop(domain.DropPayload{NodeType: "customInput"}, domain.Position{})
		require.NoError(t, err)
		require.NoError(t, app.Close(ctx))

		raw, err := mr.Get(redis.DefaultPrefix + "s1")
		require.NoError(t, err)
		assert.Contains(t, raw, domain.NodeTypeInput)
	})
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown backend", func(c *config.Config) { c.Storage.Backend = "s3" }},
		{"unknown policy", func(c *config.Config) { c.Editor.ConnectPolicy = "loose" }},
		{"unknown log level", func(c *config.Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			_, err := Build(cfg)
			assert.Error(t, err)
		})
	}
}

func TestBuild_SessionsUseConfiguredValidator(t *testing.T) {
	validator := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, submit.ParsePath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"num_nodes":1,"num_edges":0,"is_dag":true}`))
	}))
	defer validator.Close()

	var notes []submit.Notification
	cfg := config.Default()
	cfg.Validator.URL = validator.URL
	cfg.Editor.ConnectPolicy = "strict"
	app, err := Build(cfg,
		WithLogger(logging.NewNop()),
		WithStore(memory.NewStore()),
		WithNotifier(submit.NotifierFunc(func(n submit.Notification) { notes = append(notes, n) })),
	)
	require.NoError(t, err)

	ctx := context.Background()
	sess, err := app.Sessions.Open(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, editor.Strict, sess.Policy())

	_, err = sess.Drop(domain.DropPayload{NodeType: "customInput"}, domain.Position{})
	require.NoError(t, err)
	res, err := sess.Submit(ctx)
	require.NoError(t, err)
	assert.True(t, res.IsDAG)
	require.Len(t, notes, 1)
	assert.Equal(t, submit.LevelSuccess, notes[0].Level)
}

func TestDecodePipeline(t *testing.T) {
	jsonDoc := `{"nodes":[{"id":"a","type":"llm","position":{"x":1,"y":2},"data":{"temperature":0.5}}],"edges":[]}`
	yamlDoc := `
nodes:
  - id: a
    type: llm
    position: {x: 1, y: 2}
    data:
      temperature: 1
edges:
  - id: e1
    source: a
    target: b
`
	g, err := DecodePipeline("p.json", []byte(jsonDoc))
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, 0.5, g.Nodes[0].Data["temperature"])

	g, err = DecodePipeline("p.YAML", []byte(yamlDoc))
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, float64(1), g.Nodes[0].Data["temperature"])
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "b", g.Edges[0].Target)

	_, err = DecodePipeline("p.yml", []byte("nodes: [unclosed"))
	assert.Error(t, err)
	_, err = DecodePipeline("p.json", []byte("{"))
	assert.Error(t, err)
}

func TestReadPipeline_Missing(t *testing.T) {
	_, err := ReadPipeline(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestBuild_RedactsStoredSnapshots(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Redact = []string{"(?i)^url$"}
	app, err := Build(cfg, WithLogger(logging.NewNop()))
	require.NoError(t, err)

	ctx := context.Background()
	sess, err := app.Sessions.Open(ctx, "s1")
	require.NoError(t, err)
	rn, err := sess.Drop(domain.DropPayload{NodeType: domain.NodeTypeAPICall}, domain.Position{})
	require.NoError(t, err)
	require.NoError(t, sess.SetField(rn.Node.ID, "url", "https://internal.example"))
	require.NoError(t, app.Sessions.Save(ctx, "s1"))

	stored, err := app.Store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "***", stored.Nodes[0].Data["url"])
	assert.Equal(t, "https://internal.example", sess.Graph().Nodes[0].Data["url"])

	cfg.Storage.Redact = []string{"("}
	_, err = Build(cfg)
	assert.Error(t, err)
}
