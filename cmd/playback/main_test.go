package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputFlags(t *testing.T) {
	t.Parallel()

	f := inputFlags{}
	require.NoError(t, f.Set("mass=12.5"))
	require.NoError(t, f.Set("acceleration=-3"))
	assert.Equal(t, map[string]float64{"mass": 12.5, "acceleration": -3}, map[string]float64(f))
	assert.Equal(t, "acceleration=-3,mass=12.5", f.String())

	assert.Error(t, f.Set("mass"))
	assert.Error(t, f.Set("=3"))
	assert.Error(t, f.Set("mass=heavy"))
}

func TestRenderTrack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		position float64
		wantIdx  int
	}{
		{"origin", 0, 5},
		{"full right", 100, 10},
		{"half left", -50, 2},
		{"beyond track", 400, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := renderTrack(tc.position, 100, 5)
			track := got[1:strings.Index(got, "]")]
			assert.Len(t, track, 11)
			assert.Equal(t, tc.wantIdx, strings.IndexRune(track, 'o'))
		})
	}
}

func TestRunPlaysTimeline(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
title: Playback
modules:
  - id: m
    title: M
    slides:
      - id: push
        title: Push
        kind: formula
        formula:
          formula: force
          visual:
            track_length: 100
            max_result: 100
          animation:
            - name: start
              duration: 5ms
              fraction: 0.5
            - name: finish
              duration: 5ms
              fraction: 1
`), 0o600))

	var out bytes.Buffer
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := run(context.Background(), &out, path, "push", map[string]float64{"mass": 10, "acceleration": 5}, log)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "F = m × a")
	assert.Contains(t, text, "start")
	assert.Contains(t, text, "finish")
	assert.Contains(t, text, "settled")
	assert.Less(t, strings.Index(text, "start"), strings.Index(text, "finish"))
}

func TestRunErrors(t *testing.T) {
	t.Parallel()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.Error(t, run(context.Background(), io.Discard, "", "", nil, log))
	assert.Error(t, run(context.Background(), io.Discard, "", "no-such-slide", nil, log))
}
