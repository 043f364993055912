package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "go.mod", "module example.com/demo\n\ngo 1.22\n")
	writeFile(t, root, "internal/registry/registry.go", `package registry

type Key[T any] string

type Registry struct{ m map[string]any }

func Set[T any](r *Registry, key Key[T], value T) { r.m[string(key)] = value }

type Clock struct{}

var (
	ClockKey  = Key[*Clock]("demo.clock")
	UnusedKey = Key[string]("demo.unused")
)
`)
	writeFile(t, root, "internal/app/app.go", `package app

import "example.com/demo/internal/registry"

type Wiring struct{}

func Wire(r *registry.Registry) {
	registry.Set(r, registry.ClockKey, &registry.Clock{})
}

func (w *Wiring) Rewire(r *registry.Registry) {
	registry.Set[*registry.Clock](r, registry.ClockKey, nil)
}
`)

	found, err := Find(root)
	require.NoError(t, err)
	require.Len(t, found, 2)

	clock := found[0]
	assert.Equal(t, "demo.clock", clock.Key)
	assert.Equal(t, "ClockKey", clock.Var)
	assert.Equal(t, "*Clock", clock.Type)
	assert.Equal(t, []string{
		"example.com/demo/internal/app.(*Wiring).Rewire",
		"example.com/demo/internal/app.Wire",
	}, clock.ProvidedBy)
	assert.Contains(t, clock.Pos, "internal/registry/registry.go:")

	unused := found[1]
	assert.Equal(t, "demo.unused", unused.Key)
	assert.Empty(t, unused.ProvidedBy)
}
