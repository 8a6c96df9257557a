package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"broadcast-tool-backend/internal/common/logger"
	"broadcast-tool-backend/internal/common/validation"
	"broadcast-tool-backend/internal/features/playlist/repository"
)

// fileRepository reads and writes the flat playlist file: one media URL per
// line. The streamer mounts the same file read-only, so every write must be
// atomic — a half-written file would feed it garbage mid-broadcast.
type fileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) repository.PlaylistRepository {
	return &fileRepository{path: path}
}

func (r *fileRepository) Load(ctx context.Context) ([]string, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			// A missing file is an empty playlist, not an error. It is
			// created on the first write.
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to open playlist file: %w", err)
	}
	defer f.Close()

	var urls []string
	skipped := 0

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := validation.ValidateTrackURL(line); err != nil {
			skipped++
			logger.Warn().
				Str("file", r.path).
				Str("line", truncate(line, 120)).
				Err(err).
				Msg("Skipping unusable playlist line")
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read playlist file: %w", err)
	}

	return urls, skipped, nil
}

func (r *fileRepository) Save(ctx context.Context, urls []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create playlist directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".playlist-*")
	if err != nil {
		return fmt.Errorf("failed to create temp playlist file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, u := range urls {
		if _, err := w.WriteString(u + "\n"); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("failed to write playlist: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to flush playlist: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync playlist: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp playlist: %w", err)
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod playlist: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace playlist file: %w", err)
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
