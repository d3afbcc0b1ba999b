package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-digest/internal/domain/entity"
	"pdf-digest/internal/infra/pdf/pdftest"
)

// setupEnv points the pipeline at the local noop model.
func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DIGEST_CONFIG_FILE", "")
	t.Setenv("SUMMARIZER_PROVIDER", "noop")
	t.Setenv("SUMMARIZER_MIN_LENGTH", "1")
	t.Setenv("SUMMARIZER_MAX_LENGTH", "5")
	t.Setenv("MAX_CHUNK_SIZE", "")
	t.Setenv("LOG_LEVEL", "error")
}

func writePDF(t *testing.T, pages ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.pdf")
	require.NoError(t, os.WriteFile(path, pdftest.Build(pages...), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSummarize_JSON(t *testing.T) {
	setupEnv(t)
	path := writePDF(t, "Alpha beta gamma delta. Epsilon zeta eta theta.", "Iota kappa lambda.")

	stdout, _, err := execute(t, "summarize", path, "--output", "json", "--max-chunk", "30")
	require.NoError(t, err)

	var got result
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "sample.pdf", got.Filename)
	assert.Equal(t, 2, got.Pages)
	assert.NotEmpty(t, got.ID)
	assert.Contains(t, got.ExtractedText, "Epsilon zeta eta theta")
	assert.Equal(t, len(got.Chunks), got.ChunkCount)
	assert.Greater(t, got.ChunkCount, 1)
	assert.Equal(t, "noop", got.Provider)
	assert.NotEmpty(t, got.Summary)
	assert.LessOrEqual(t, got.SummaryWords, 5)
}

func TestExtract_Text(t *testing.T) {
	setupEnv(t)
	path := writePDF(t, "One. Two. Three.")

	stdout, _, err := execute(t, "extract", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Extracted PDF Text (sample.pdf, 1 pages):")
	assert.Contains(t, stdout, "One. Two. Three.")
	assert.Contains(t, stdout, "PDF content split into 1 chunks for summarization.")
	assert.NotContains(t, stdout, "Summary:")
}

func TestExtract_JSONOmitsSummary(t *testing.T) {
	setupEnv(t)
	path := writePDF(t, "One. Two. Three.")

	stdout, _, err := execute(t, "extract", path, "-o", "json")
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &raw))
	assert.NotContains(t, raw, "summary")
	assert.NotContains(t, raw, "provider")
	assert.Contains(t, raw, "chunks")
}

func TestSummarize_TextIncludesSummary(t *testing.T) {
	setupEnv(t)
	path := writePDF(t, "Hello world. This is a test document.")

	stdout, _, err := execute(t, "summarize", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Summary:")
	assert.Regexp(t, `\n\(\d+ words, noop / first-words\)\n$`, stdout)
}

func TestWriteText_SummaryAttribution(t *testing.T) {
	base := func(model string) *entity.Digest {
		return &entity.Digest{
			Document: &entity.Document{ID: "d1", Filename: "a.pdf", Pages: []entity.Page{{Number: 1, Text: "A."}}},
			RawText:  "A.",
			Chunks:   []entity.Chunk{{Index: 0, Text: "A.."}},
			Summary:  &entity.Summary{Text: "A", Words: 1, Provider: "openai", Model: model},
		}
	}

	tests := []struct {
		name  string
		model string
		want  string
	}{
		{name: "with model", model: "gpt-4o-mini", want: "(1 words, openai / gpt-4o-mini)\n"},
		{name: "without model", model: "", want: "(1 words, openai)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeText(&buf, base(tt.model)))
			assert.True(t, strings.HasSuffix(buf.String(), tt.want), "got %q", buf.String())
		})
	}
}

func TestRun_Errors(t *testing.T) {
	setupEnv(t)
	valid := writePDF(t, "Some text.")
	empty := writePDF(t, "")
	garbage := filepath.Join(t.TempDir(), "garbage.pdf")
	require.NoError(t, os.WriteFile(garbage, []byte("not a pdf at all"), 0o600))

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{name: "missing argument", args: []string{"summarize"}, wantMsg: "accepts 1 arg(s)"},
		{name: "bad output", args: []string{"extract", valid, "--output", "xml"}, wantMsg: `invalid --output "xml"`},
		{name: "negative chunk size", args: []string{"extract", valid, "--max-chunk", "-1"}, wantMsg: "invalid --max-chunk"},
		{name: "missing file", args: []string{"extract", filepath.Join(t.TempDir(), "nope.pdf")}, wantMsg: "failed to read"},
		{name: "not a pdf", args: []string{"summarize", garbage}, wantErr: entity.ErrParse},
		{name: "no text layer", args: []string{"summarize", empty}, wantErr: entity.ErrEmptyText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := execute(t, tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "Error: ")
		})
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("SUMMARIZER_PROVIDER", "mystery")
	path := writePDF(t, "Some text.")

	_, _, err := execute(t, "extract", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mystery")
}
