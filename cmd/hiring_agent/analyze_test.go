package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hiring-agent/internal/types"
)

func resetAnalyzeFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		analyzeText, analyzeInFile, analyzeJobID, analyzeOutFile = "", "", "", ""
		analyzeVerbose = false
	})
}

func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyzeCommand_Text(t *testing.T) {
	resetAnalyzeFlags(t)

	stdout, stderr, err := executeRoot(t, "analyze", "--text", "Senior engineer with Docker and Kubernetes, 5 years of experience")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	var strategy types.SearchStrategy
	require.NoError(t, json.Unmarshal([]byte(stdout), &strategy))
	assert.Equal(t, types.StrategySourceFreeText, strategy.Source)
	assert.Contains(t, strategy.RequiredSkills, "docker")
	assert.Contains(t, strategy.RequiredSkills, "kubernetes")
	assert.Equal(t, 5.0, strategy.MinExperience)
	assert.Equal(t, types.ExperienceLevelSenior, strategy.ExperienceLevel)
	assert.Nil(t, strategy.SourceJobID)
}

func TestAnalyzeCommand_FileWithVerboseAndOutput(t *testing.T) {
	resetAnalyzeFlags(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "role.txt")
	out := filepath.Join(dir, "strategy.json")
	require.NoError(t, os.WriteFile(in, []byte("Junior Django developer"), 0o644))

	stdout, stderr, err := executeRoot(t, "analyze", "--in", in, "--out", out, "--verbose")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "SEARCH STRATEGY")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var strategy types.SearchStrategy
	require.NoError(t, json.Unmarshal(data, &strategy))
	assert.Contains(t, strategy.RequiredSkills, "django")
	assert.Equal(t, types.ExperienceLevelJunior, strategy.ExperienceLevel)
}

func TestAnalyzeCommand_SourceValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no source", args: []string{"analyze"}, wantErr: "exactly one of"},
		{name: "two sources", args: []string{"analyze", "--text", "x", "--in", "y.txt"}, wantErr: "exactly one of"},
		{name: "blank text", args: []string{"analyze", "--text", "   "}, wantErr: "empty"},
		{name: "bad job id", args: []string{"analyze", "--job-id", "nope"}, wantErr: "invalid job-id"},
		{name: "missing file", args: []string{"analyze", "--in", filepath.Join(t.TempDir(), "missing.txt")}, wantErr: "failed to read input file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetAnalyzeFlags(t)
			_, _, err := executeRoot(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
