// Package backup manages the snapshot directory: export artifacts are
// written here, restore candidates are read from here, and a watcher
// reports files appearing or disappearing (e.g. dropped in by hand).
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Snapshot is one backup file available for restore.
type Snapshot struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Dir is a flat directory of JSON snapshot files.
type Dir struct {
	root string
}

// NewDir creates the backup directory if needed and returns a handle.
func NewDir(root string) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("backup: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("backup: create dir: %w", err)
	}
	return &Dir{root: abs}, nil
}

// Root returns the absolute directory path.
func (d *Dir) Root() string {
	return d.root
}

// safeName rejects names that would escape the backup directory.
func (d *Dir) safeName(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("backup: invalid snapshot name: %q", name)
	}
	return filepath.Join(d.root, name), nil
}

// Write atomically writes a snapshot: tmp file, fsync, rename.
func (d *Dir) Write(name string, data []byte) error {
	abs, err := d.safeName(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(d.root, ".wairdrobe-tmp-*")
	if err != nil {
		return fmt.Errorf("backup: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("backup: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("backup: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("backup: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("backup: rename: %w", err)
	}
	success = true
	return nil
}

// Read returns the raw bytes of a snapshot file.
func (d *Dir) Read(name string) ([]byte, error) {
	abs, err := d.safeName(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("backup: read %s: %w", name, err)
	}
	return data, nil
}

// List returns every .json snapshot in the directory, newest first.
func (d *Dir) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("backup: list: %w", err)
	}

	out := []Snapshot{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Snapshot{
			Name:      e.Name(),
			Size:      info.Size(),
			UpdatedAt: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}
