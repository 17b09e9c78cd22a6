package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zee-editor/zee/internal/buffer"
)

func TestParseMinimalConfig(t *testing.T) {
	cfg, err := Parse(`(theme_index: 0, modes: [])`)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.ThemeIndex)
	assert.Empty(t, cfg.Modes)
}

func TestParseModeWithAllFields(t *testing.T) {
	text := `(
		theme: "solarized-dark",
		modes: [
			Mode(
				name: "rust",
				scope: "source.rust",
				injection_regex: "",
				patterns: [Suffix("rs")],
				shebangs: ["rustscript"],
				comment: (token: "//"),
				indentation: (width: 4, unit: Space),
				grammar: (id: "rust", source: Git(git: "https://example.com/rust.git", rev: "abc123")),
			),
		],
	)`
	cfg, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "solarized-dark", cfg.ThemeName)
	require.Len(t, cfg.Modes, 1)

	m := cfg.Modes[0]
	assert.Equal(t, "rust", m.Name)
	assert.Equal(t, "source.rust", m.Scope)
	assert.Equal(t, []buffer.Pattern{{Suffix: "rs"}}, m.Patterns)
	assert.Equal(t, []string{"rustscript"}, m.Shebangs)
	assert.Equal(t, "//", m.CommentToken)
	assert.Equal(t, buffer.Indentation{Width: 4, Unit: buffer.IndentSpace}, m.Indent)
	require.NotNil(t, m.Grammar)
	assert.Equal(t, "rust", m.Grammar.ID)
	require.NotNil(t, m.Grammar.Source)
	assert.Equal(t, "abc123", m.Grammar.Source.Rev)
}

func TestUnknownTopLevelFieldIsParseError(t *testing.T) {
	_, err := Parse(`(theme_index: 0, bogus: 1)`)
	require.Error(t, err)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestUnknownModeFieldIsParseError(t *testing.T) {
	_, err := Parse(`(modes: [Mode(name: "x", bogus: 1)])`)
	require.Error(t, err)
}

func TestUnterminatedRecordIsParseError(t *testing.T) {
	_, err := Parse(`(theme_index: 0`)
	require.Error(t, err)
}
