package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweetfetch/pkg/logger"
	"tweetfetch/pkg/twitter"
)

func sampleTweets() []twitter.Tweet {
	return []twitter.Tweet{
		{ID: "1", Text: "hello", CreatedAt: "2023-01-01T12:00:00Z"},
		{ID: "2", Text: "world", CreatedAt: "2023-01-02T12:00:00Z"},
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "jack_tweets.json", FileName("jack"))
	assert.Equal(t, "YonatanCale_tweets.json", FileName("YonatanCale"))
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, logger.NewTestLogger())

	path, err := w.Write("jack", sampleTweets())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "jack_tweets.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []twitter.Tweet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sampleTweets(), decoded)

	// Indented output with a trailing newline
	assert.Contains(t, string(data), "\n  {")
	assert.Equal(t, byte('\n'), data[len(data)-1])
}

func TestWriteEmptyCollection(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, logger.NewTestLogger())

	path, err := w.Write("jack", nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data), "empty collection writes an empty array, not null")
}

func TestWriteOverwrites(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, logger.NewTestLogger())

	_, err := w.Write("jack", sampleTweets())
	require.NoError(t, err)

	replacement := []twitter.Tweet{{ID: "9", Text: "newer", CreatedAt: "2023-02-01T12:00:00Z"}}
	path, err := w.Write("jack", replacement)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []twitter.Tweet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, replacement, decoded)
}

func TestWriteDeterministic(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, logger.NewTestLogger())

	path, err := w.Write("jack", sampleTweets())
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = w.Write("jack", sampleTweets())
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical input produces byte-identical output")
}

func TestWriteCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w := NewWriter(dir, logger.NewTestLogger())

	path, err := w.Write("jack", sampleTweets())
	require.NoError(t, err)
	assert.FileExists(t, path)
}
