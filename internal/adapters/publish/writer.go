package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/okian/pointsplus/pkg/logger"
	"github.com/okian/pointsplus/pkg/metrics"
)

// Artifact file names under the output root.
const (
	LeaderboardFile  = "leaderboard.json"
	DistributionFile = "distribution.json"
	MetadataFile     = "metadata.json"
	PlayersDir       = "players"
)

// Writer writes bundles as JSON files under a root directory.
type Writer struct {
	root   string
	pretty bool
	log    logger.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithPretty toggles indented output.
func WithPretty(pretty bool) WriterOption {
	return func(w *Writer) { w.pretty = pretty }
}

// WithLogger sets the writer logger.
func WithLogger(l logger.Logger) WriterOption {
	return func(w *Writer) {
		if l != nil {
			w.log = l
		}
	}
}

// NewWriter creates a writer rooted at root.
func NewWriter(root string, opts ...WriterOption) *Writer {
	w := &Writer{root: root, pretty: true, log: logger.Nop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns the absolute location of rel under the root.
func (w *Writer) Path(rel string) string {
	return filepath.Join(w.root, rel)
}

// Write stores every artifact in b and returns the number of files written.
func (w *Writer) Write(ctx context.Context, b *Bundle) (int, error) {
	written := 0
	put := func(rel string, v any) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.writeJSON(rel, v); err != nil {
			return err
		}
		written++
		metrics.RecordArtifactWritten()
		return nil
	}

	if err := put(LeaderboardFile, b.Leaderboard); err != nil {
		return written, err
	}
	for _, p := range b.Leaderboard {
		rel := filepath.Join(PlayersDir, strconv.FormatInt(p.ID, 10)+".json")
		if err := put(rel, b.Players[p.ID]); err != nil {
			return written, err
		}
	}
	if err := put(DistributionFile, b.Distribution); err != nil {
		return written, err
	}
	if err := put(MetadataFile, b.Metadata); err != nil {
		return written, err
	}

	w.log.Info(ctx, "artifacts written",
		logger.String("root", w.root),
		logger.Int("files", written),
		logger.Int("players", len(b.Leaderboard)))
	return written, nil
}

// writeJSON replaces rel atomically through a temporary file.
func (w *Writer) writeJSON(rel string, v any) error {
	path := w.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	var (
		body []byte
		err  error
	)
	if w.pretty {
		body, err = json.MarshalIndent(v, "", "  ")
	} else {
		body, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, rel, err)
	}
	body = append(body, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %s: %w", ErrWrite, rel, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %s: %w", ErrWrite, rel, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %s: %w", ErrWrite, rel, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %s: %w", ErrWrite, rel, err)
	}
	return nil
}
