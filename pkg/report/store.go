package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound reports that no persisted report exists for the given key.
var ErrNotFound = errors.New("report not found")

const latestFile = "results.json"

// Key identifies one persisted run.
type Key struct {
	// Date is the run date, YYYY-MM-DD.
	Date string
	// Dataset is the dataset base name without extension.
	Dataset string
	// ArchivePath is the run-specific archival file.
	ArchivePath string
	// LatestPath is the shared latest file for this date/dataset key.
	LatestPath string
}

// Store persists reports under a dated tree:
//
//	<root>/<YYYY-MM-DD>/<dataset>/results_<HHMMSS>.json   (archival)
//	<root>/<YYYY-MM-DD>/<dataset>/results.json            (latest)
//
// Every run gets its own archival file; the latest file is overwritten.
type Store struct {
	root string
}

// NewStore returns a store rooted at dir. The directory is created
// lazily on first save.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the results root directory.
func (s *Store) Root() string { return s.root }

// Save writes the report's archival copy, then overwrites the latest
// copy. Both writes go through a temp file plus rename, so a reader
// never observes a torn report, and the latest file never points at a
// run that is not also archived.
func (s *Store) Save(r *Report) (Key, error) {
	key := s.keyFor(r)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return Key{}, fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(key.ArchivePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Key{}, fmt.Errorf("create results dir %s: %w", dir, err)
	}
	if err := writeAtomic(key.ArchivePath, data); err != nil {
		return Key{}, err
	}
	if err := writeAtomic(key.LatestPath, data); err != nil {
		return Key{}, err
	}
	return key, nil
}

// Latest loads the latest report for a date/dataset key.
func (s *Store) Latest(date, dataset string) (*Report, error) {
	return s.loadFile(filepath.Join(s.root, date, dataset, latestFile))
}

// Archives lists the archival file names for a date/dataset key, sorted,
// which is also run order since the names embed the run time.
func (s *Store) Archives(date, dataset string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, date, dataset))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, date, dataset)
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "results_") && strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Datasets lists the dataset keys that have reports for a date, sorted.
func (s *Store) Datasets(date string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, date))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, date)
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadArchive loads one archival report by file name.
func (s *Store) LoadArchive(date, dataset, name string) (*Report, error) {
	return s.loadFile(filepath.Join(s.root, date, dataset, name))
}

func (s *Store) keyFor(r *Report) Key {
	date := r.Timestamp.Format("2006-01-02")
	dir := filepath.Join(s.root, date, r.DatasetName)
	archive := fmt.Sprintf("results_%s.json", r.Timestamp.Format("150405"))
	return Key{
		Date:        date,
		Dataset:     r.DatasetName,
		ArchivePath: filepath.Join(dir, archive),
		LatestPath:  filepath.Join(dir, latestFile),
	}
}

func (s *Store) loadFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &r, nil
}

// writeAtomic writes data to a temp file in the target directory, syncs
// it, and renames it into place. The sync keeps a crash from leaving a
// renamed file whose bytes never reached disk.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".results-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
