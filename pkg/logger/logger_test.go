package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"TRACE", zapcore.DebugLevel},
		{" info ", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"", zapcore.WarnLevel},
		{"nonsense", zapcore.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.in, zapcore.WarnLevel))
		})
	}
}

func TestTerminalPromptsBypassConsoleLevel(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	l, err := New(Options{ConsoleLevel: zapcore.ErrorLevel, Stdout: &stdout, Stderr: &stderr})
	require.NoError(t, err)

	l.Info("terminal prompt: Staged files: 2")
	l.Info("terminal prompt:", zap.String("output", "line one\nline two"))
	l.Info("regular info")

	assert.Equal(t, "Staged files: 2\nline one\nline two\n", stdout.String())
	assert.Empty(t, stderr.String())

	l.Error("boom")
	assert.Contains(t, stderr.String(), "boom")
}

func TestTerminalPromptExtraFieldsSorted(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	l, err := New(Options{ConsoleLevel: zapcore.ErrorLevel, Stdout: &stdout, Stderr: &bytes.Buffer{}})
	require.NoError(t, err)

	l.Info("terminal prompt: Result", zap.String("zeta", "z"), zap.Int("alpha", 1))
	assert.Equal(t, "Result\nalpha: 1\nzeta: z\n", stdout.String())
}

func TestFileCoreWritesJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "commitor.log")
	l, err := New(Options{
		ConsoleLevel: zapcore.FatalLevel,
		FileLevel:    zapcore.InfoLevel,
		FilePath:     path,
		Stdout:       &bytes.Buffer{},
		Stderr:       &bytes.Buffer{},
	})
	require.NoError(t, err)

	l.Info("generation finished", zap.Int("attempts", 2))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"generation finished"`)
	assert.Contains(t, string(data), `"attempts":2`)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLogPathOverride(t *testing.T) {
	t.Setenv("COMMITOR_LOG_FILE", "/tmp/custom.log")
	assert.Equal(t, "/tmp/custom.log", LogPath())
}
