package http

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/aretw0/flowboard/pkg/adapters/memory"
	"github.com/aretw0/flowboard/pkg/editor"
	"github.com/aretw0/flowboard/pkg/registry"
	"github.com/aretw0/flowboard/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPI_Valid(t *testing.T) {
	doc, err := OpenAPI()
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
	assert.Equal(t, "1", doc.Info.Version)
}

func TestOpenAPI_CoversEveryRoute(t *testing.T) {
	doc, err := OpenAPI()
	require.NoError(t, err)

	reg := registry.Builtin()
	mgr := session.NewManager(memory.NewStore(), func(string) *editor.Session { return editor.New(reg) })
	promReg := prometheus.NewRegistry()
	srv := NewServer(mgr, reg, WithLogger(quiet), WithMetrics(nil, promReg))

	router, ok := srv.Routes().(chi.Routes)
	require.True(t, ok)

	var seen int
	err = chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if method == http.MethodOptions {
			return nil
		}
		path := strings.TrimSuffix(route, "/")
		item := doc.Paths.Value(path)
		if assert.NotNil(t, item, "route %s %s is not documented", method, path) {
			assert.NotNil(t, item.GetOperation(method), "%s %s has no operation", method, path)
		}
		seen++
		return nil
	})
	require.NoError(t, err)
	assert.Greater(t, seen, 15)
}
