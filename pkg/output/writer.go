package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"tweetfetch/pkg/logger"
	"tweetfetch/pkg/twitter"
)

// Writer serializes fetched tweets to a JSON file named after the user
type Writer struct {
	directory string
	logger    logger.Logger
}

// NewWriter creates a writer that places files in the given directory
func NewWriter(directory string, log logger.Logger) *Writer {
	if log == nil {
		log = logger.GetLogger()
	}
	if directory == "" {
		directory = "."
	}

	return &Writer{
		directory: directory,
		logger:    log,
	}
}

// FileName returns the output file name for a username
func FileName(username string) string {
	return fmt.Sprintf("%s_tweets.json", username)
}

// Write serializes tweets as an indented JSON array to
// <username>_tweets.json, overwriting any existing file, and returns the
// path written. An empty collection writes an empty array.
func (w *Writer) Write(username string, tweets []twitter.Tweet) (string, error) {
	if err := os.MkdirAll(w.directory, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", w.directory, err)
	}

	path := filepath.Join(w.directory, FileName(username))

	// json.Marshal of a nil slice yields "null", not "[]"
	if tweets == nil {
		tweets = []twitter.Tweet{}
	}

	data, err := json.MarshalIndent(tweets, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize tweets: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.logger.InfoWithFields("wrote output file", map[string]interface{}{
		"path":   path,
		"tweets": len(tweets),
	})

	return path, nil
}
