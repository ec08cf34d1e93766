package faq_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santoshk66/maizic-chatbot/internal/faq"
)

func TestMatchExactTrigger(t *testing.T) {
	m := faq.NewOverlapMatcher([]faq.Entry{
		{Question: "camera is not working", Answer: "restart the camera"},
		{Question: "how to extend warranty", Answer: "visit the warranty page"},
	})

	answer, ok := m.Match("how to extend warranty")
	require.True(t, ok)
	assert.Equal(t, "visit the warranty page", answer)
}

func TestMatchBelowThreshold(t *testing.T) {
	m := faq.NewOverlapMatcher([]faq.Entry{
		{Question: "camera is not working", Answer: "restart the camera"},
		{Question: "how to extend warranty", Answer: "visit the warranty page"},
	})

	_, ok := m.Match("what is the meaning of life")
	assert.False(t, ok, "unrelated message must fall through to the model")
}

func TestMatchThresholdIsStrict(t *testing.T) {
	// 3 of 5 message words overlap: exactly 0.6, which must NOT match.
	m := faq.NewOverlapMatcher([]faq.Entry{
		{Question: "camera not working", Answer: "restart the camera"},
	})

	_, ok := m.Match("my camera is not working")
	assert.False(t, ok, "a score of exactly 0.6 must not be accepted")
}

func TestMatchTieFirstEntryWins(t *testing.T) {
	// Both triggers score identically against the message; the first-loaded
	// entry must win.
	m := faq.NewOverlapMatcher([]faq.Entry{
		{Question: "projector wifi setup", Answer: "first answer"},
		{Question: "setup wifi projector", Answer: "second answer"},
	})

	answer, ok := m.Match("projector wifi setup")
	require.True(t, ok)
	assert.Equal(t, "first answer", answer)
}

func TestMatchFuzzyPhrasing(t *testing.T) {
	m := faq.NewOverlapMatcher([]faq.Entry{
		{Question: "camera is not working", Answer: "restart the camera"},
	})

	answer, ok := m.Match("my camera is not working")
	require.True(t, ok)
	assert.Equal(t, "restart the camera", answer)
}

func TestLoadEmbeddedDefault(t *testing.T) {
	entries, err := faq.Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	m := faq.NewOverlapMatcher(entries)
	assert.Equal(t, len(entries), m.Len())

	_, ok := m.Match("my camera is not working")
	assert.True(t, ok, "default table must cover the camera question")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := faq.Load("does/not/exist.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsDuplicateTriggers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faqs.yaml")
	data := "- question: camera is not working\n  answer: a\n- question: Camera IS not working\n  answer: b\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := faq.Load(path)
	assert.ErrorContains(t, err, "duplicate")
}
