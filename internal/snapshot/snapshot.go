// Package snapshot copies the store file to and from a snapshots directory.
//
// The store runs in rollback-journal mode and closes its connection after
// every operation, so between calls the .db file alone is the complete state.
// There is no lock against writers that race a copy.
package snapshot

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hpungsan/taskbox/internal/errors"
)

// Ext is appended to snapshot names that lack it.
const Ext = ".db"

const (
	timestampLayout = "20060102_150405"
	tempSuffix      = ".tmp"
)

// sqliteHeader is the magic string at offset 0 of every SQLite 3 file.
var sqliteHeader = []byte("SQLite format 3\x00")

// Snapshot describes one file in the snapshots directory.
type Snapshot struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// RestoreOutput reports what was copied where.
type RestoreOutput struct {
	Restored bool   `json:"restored"`
	Source   string `json:"source"`
	Target   string `json:"target"`
}

// Manager creates, lists and restores snapshots of one store file.
type Manager struct {
	storePath string
	dir       string
	now       func() time.Time
}

// NewManager returns a Manager for the store at storePath writing into dir.
func NewManager(storePath, dir string) *Manager {
	return &Manager{storePath: storePath, dir: dir, now: time.Now}
}

// Dir returns the snapshots directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Create copies the store file into the snapshots directory. An empty name
// becomes <store basename>_<YYYYMMDD_HHMMSS>. An existing snapshot with the
// same name is replaced.
func (m *Manager) Create(name string) (*Snapshot, error) {
	if _, err := os.Stat(m.storePath); err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.NewNotFound("database", m.storePath)
		}
		return nil, errors.NewIO("stat database", err)
	}

	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return nil, errors.NewIO("create snapshot directory", err)
	}

	fileName := m.fileName(name)
	dest := filepath.Join(m.dir, fileName)
	if err := copyFile(m.storePath, dest); err != nil {
		return nil, errors.NewIO("create snapshot", err)
	}

	return stat(dest)
}

// List returns the snapshots in the directory sorted by name. A missing
// directory yields an empty list.
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return []Snapshot{}, nil
		}
		return nil, errors.NewIO("list snapshots", err)
	}

	snapshots := make([]Snapshot, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasSuffix(e.Name(), tempSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		snapshots = append(snapshots, Snapshot{
			Name:      e.Name(),
			Path:      filepath.Join(m.dir, e.Name()),
			SizeBytes: info.Size(),
			CreatedAt: info.ModTime().UTC(),
		})
	}

	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Name < snapshots[j].Name })
	return snapshots, nil
}

// Restore overwrites the store file with the snapshot at path. A bare file
// name is looked up in the snapshots directory. Callers gate this behind an
// explicit confirmation.
func (m *Manager) Restore(path string) (*RestoreOutput, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.NewInvalidRequest("snapshot file is required")
	}

	source := m.Resolve(path)
	info, err := os.Stat(source)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.NewNotFound("snapshot", path)
		}
		return nil, errors.NewIO("stat snapshot", err)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("snapshot is not a regular file: %s", path))
	}
	if err := checkHeader(source); err != nil {
		return nil, err
	}

	if err := copyFile(source, m.storePath); err != nil {
		return nil, errors.NewIO("restore snapshot", err)
	}

	// Sidecars from the replaced file would be replayed against the new one.
	for _, suffix := range []string{"-journal", "-wal", "-shm"} {
		if err := os.Remove(m.storePath + suffix); err != nil && !stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.NewIO("remove stale "+strings.TrimPrefix(suffix, "-"), err)
		}
	}

	return &RestoreOutput{Restored: true, Source: source, Target: m.storePath}, nil
}

// Resolve maps a bare snapshot name to its location in the snapshots
// directory. Paths with a directory component are returned cleaned.
func (m *Manager) Resolve(path string) string {
	if filepath.Base(path) == path {
		return filepath.Join(m.dir, path)
	}
	return filepath.Clean(path)
}

func (m *Manager) fileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		base := strings.TrimSuffix(filepath.Base(m.storePath), filepath.Ext(m.storePath))
		name = base + "_" + m.now().Format(timestampLayout)
	}
	name = SanitizeName(name)
	if !strings.HasSuffix(strings.ToLower(name), Ext) {
		name += Ext
	}
	return name
}

// SanitizeName makes name safe to use as a single path component.
func SanitizeName(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, "..", "-")

	var b strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}
	s = b.String()

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-. ")

	if s == "" {
		return "snapshot"
	}
	return s
}

func stat(path string) (*Snapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewIO("stat snapshot", err)
	}
	return &Snapshot{
		Name:      filepath.Base(path),
		Path:      path,
		SizeBytes: info.Size(),
		CreatedAt: info.ModTime().UTC(),
	}, nil
}

func checkHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.NewIO("open snapshot", err)
	}
	defer f.Close()

	buf := make([]byte, len(sqliteHeader))
	if _, err := io.ReadFull(f, buf); err != nil || !bytes.Equal(buf, sqliteHeader) {
		return errors.NewInvalidRequest(fmt.Sprintf("not a SQLite database: %s", path))
	}
	return nil
}

// copyFile writes src to a temp file beside dst, then renames it into place
// so dst is never left half-written.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return fmt.Errorf("failed to generate temp file name: %w", err)
	}
	tempPath := dst + "." + hex.EncodeToString(randBytes) + tempSuffix
	out, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	success := false
	defer func() {
		if out != nil {
			out.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	if err := out.Sync(); err != nil {
		return err
	}
	// Close before rename (required on Windows).
	if err := out.Close(); err != nil {
		return err
	}
	out = nil

	if info, err := os.Lstat(dst); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("destination is a symlink: %s", dst)
	}

	if err := replaceFile(tempPath, dst); err != nil {
		return err
	}
	success = true
	return nil
}
