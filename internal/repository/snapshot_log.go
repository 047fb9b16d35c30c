package repository

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"OddsCast/internal/domain/models"
	domrepo "OddsCast/internal/domain/repository"
	applogger "OddsCast/pkg/logger"
)

// minSpacing is the floor between consecutive accepted records. Snapshots
// arriving closer than this to the last persisted record are duplicates
// of the same collection interval and are rejected.
const minSpacing = time.Second

var (
	// ErrDuplicateSnapshot is returned when a snapshot lands within
	// minSpacing of the last persisted record.
	ErrDuplicateSnapshot = errors.New("snapshot within minimum spacing of last record")

	// ErrOutOfOrder is returned when a snapshot is older than the last
	// persisted record.
	ErrOutOfOrder = errors.New("snapshot older than last record")
)

// FileSnapshotLog implements SnapshotLog as a newline-delimited JSON file.
//
// The file on disk is, at every instant, either the previous valid content
// or the previous content plus one fully-written trailing record. Every
// mutation writes the full new content to a temp file in the same directory
// and renames it over the log path; the file is never written in place.
// Append, MigrateLegacy and PurgeBefore serialize on one mutex; readers
// never need it because they only ever observe fully-renamed content.
type FileSnapshotLog struct {
	path       string
	legacyPath string

	mu     sync.Mutex
	lastTS time.Time
	loaded bool

	l       *applogger.Logger
	metrics domrepo.Metrics
}

// NewFileSnapshotLog creates a snapshot log at path. legacyPath is the
// old whole-file JSON array, consulted only by MigrateLegacy.
func NewFileSnapshotLog(path, legacyPath string, l *applogger.Logger, m domrepo.Metrics) *FileSnapshotLog {
	return &FileSnapshotLog{path: path, legacyPath: legacyPath, l: l, metrics: m}
}

// Append durably adds one record as the new last line. On return the
// record is visible to subsequent reads, or the log is unchanged.
func (s *FileSnapshotLog) Append(snapshot *models.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(snapshot)
}

func (s *FileSnapshotLog) appendLocked(snapshot *models.Snapshot) error {
	if err := s.loadLastLocked(); err != nil {
		return err
	}

	if !s.lastTS.IsZero() {
		if snapshot.Timestamp.Before(s.lastTS) {
			return ErrOutOfOrder
		}
		if snapshot.Timestamp.Sub(s.lastTS) < minSpacing {
			return ErrDuplicateSnapshot
		}
	}

	line, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	existing, err := os.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read log: %w", err)
	}

	content := make([]byte, 0, len(existing)+len(line)+1)
	content = append(content, existing...)
	content = append(content, line...)
	content = append(content, '\n')

	if err := s.replace(content); err != nil {
		if s.metrics != nil {
			s.metrics.RecordAppendError()
		}
		return err
	}

	s.lastTS = snapshot.Timestamp
	return nil
}

// replace writes content to a temp file in the log's directory, syncs it,
// and renames it over the log path.
func (s *FileSnapshotLog) replace(content []byte) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp: %w", err)
	}

	// Make the rename itself durable.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	return nil
}

// loadLastLocked primes lastTS from the tail of the file on first use.
func (s *FileSnapshotLog) loadLastLocked() error {
	if s.loaded {
		return nil
	}
	all, err := s.readFile()
	if err != nil {
		return err
	}
	if n := len(all); n > 0 {
		s.lastTS = all[n-1].Timestamp
	}
	s.loaded = true
	return nil
}

// ReadAll returns every parseable snapshot in file order. A line that
// fails to parse is skipped and counted, never aborts the read.
func (s *FileSnapshotLog) ReadAll() ([]models.Snapshot, error) {
	return s.readFile()
}

// ReadRange returns snapshots with from <= timestamp <= to in file order.
func (s *FileSnapshotLog) ReadRange(from, to time.Time) ([]models.Snapshot, error) {
	all, err := s.readFile()
	if err != nil {
		return nil, err
	}
	out := make([]models.Snapshot, 0, len(all))
	for _, snap := range all {
		if snap.Timestamp.Before(from) || snap.Timestamp.After(to) {
			continue
		}
		out = append(out, snap)
	}
	return out, nil
}

func (s *FileSnapshotLog) readFile() ([]models.Snapshot, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	var out []models.Snapshot
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var snap models.Snapshot
		if err := json.Unmarshal(line, &snap); err != nil || snap.Timestamp.IsZero() {
			if s.metrics != nil {
				s.metrics.RecordCorruptRecord()
			}
			if s.l != nil {
				s.l.Warn("skipping corrupt record", applogger.Int("line", lineNo))
			}
			continue
		}
		out = append(out, snap)
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("scan log: %w", err)
	}
	return out, nil
}

// MigrateLegacy converts the legacy whole-file JSON array into the
// line-delimited log, once. A marker file guards re-runs; a timestamped
// backup of the legacy file is kept next to it.
func (s *FileSnapshotLog) MigrateLegacy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	marker := s.path + ".migrated"
	if _, err := os.Stat(marker); err == nil {
		return nil
	}

	if s.legacyPath == "" {
		return s.writeMarker(marker)
	}

	raw, err := os.ReadFile(s.legacyPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing to migrate; start from empty.
			return s.writeMarker(marker)
		}
		return fmt.Errorf("read legacy file: %w", err)
	}

	var snaps []models.Snapshot
	if err := json.Unmarshal(raw, &snaps); err != nil {
		// Inconsistent legacy data never blocks startup.
		if s.l != nil {
			s.l.Error("legacy file unparseable, starting from empty", applogger.Error(err))
		}
		return s.writeMarker(marker)
	}

	backup := fmt.Sprintf("%s.bak-%s", s.legacyPath, time.Now().UTC().Format("20060102_150405"))
	if err := os.WriteFile(backup, raw, 0o644); err != nil {
		return fmt.Errorf("backup legacy file: %w", err)
	}

	migrated, skipped := 0, 0
	for i := range snaps {
		if err := s.appendLocked(&snaps[i]); err != nil {
			if errors.Is(err, ErrDuplicateSnapshot) || errors.Is(err, ErrOutOfOrder) {
				skipped++
				continue
			}
			return fmt.Errorf("migrate record %d: %w", i, err)
		}
		migrated++
	}

	if s.l != nil {
		s.l.Info("legacy migration complete",
			applogger.Int("migrated", migrated),
			applogger.Int("skipped", skipped),
		)
	}
	return s.writeMarker(marker)
}

// PurgeBefore removes all records before cutoff, once. Guarded by a
// marker file; the rewrite uses the same temp+rename discipline.
func (s *FileSnapshotLog) PurgeBefore(cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	marker := s.path + ".purged"
	if _, err := os.Stat(marker); err == nil {
		return nil
	}

	all, err := s.readFile()
	if err != nil {
		return err
	}

	var content []byte
	kept := 0
	for i := range all {
		if all[i].Timestamp.Before(cutoff) {
			continue
		}
		line, err := json.Marshal(&all[i])
		if err != nil {
			return fmt.Errorf("marshal snapshot: %w", err)
		}
		content = append(content, line...)
		content = append(content, '\n')
		kept++
	}

	if err := s.replace(content); err != nil {
		return err
	}
	s.loaded = false

	if s.l != nil {
		s.l.Info("purge complete",
			applogger.Time("cutoff", cutoff),
			applogger.Int("kept", kept),
			applogger.Int("dropped", len(all)-kept),
		)
	}
	return s.writeMarker(marker)
}

// Export streams the raw log bytes, byte-identical to the on-disk format.
func (s *FileSnapshotLog) Export(w io.Writer) error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("copy log: %w", err)
	}
	return nil
}

func (s *FileSnapshotLog) writeMarker(marker string) error {
	ts := time.Now().UTC().Format(time.RFC3339) + "\n"
	if err := os.WriteFile(marker, []byte(ts), 0o644); err != nil {
		return fmt.Errorf("write marker: %w", err)
	}
	return nil
}
