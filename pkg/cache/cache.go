// Package cache persists the relationship graph between invocations,
// keyed by a fingerprint of the schema source text. A cache entry is
// usable only while its fingerprint matches the schema currently on disk;
// anything else -- absent file, stale fingerprint, undecodable content --
// is a miss, and the caller rebuilds from the schema and saves again.
// Staleness is never an error the user sees.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MaxwellKnight/csvg/pkg/graph"
	"github.com/MaxwellKnight/csvg/pkg/schema"
)

const fileName = "graph.json"

var ErrMiss = errors.New("cache: miss")

// CorruptError is a miss caused by undecodable cache content; it matches
// ErrMiss with errors.Is and carries a message worth surfacing as a
// warning before the rebuild.
type CorruptError struct {
	Path string
	Err  error
}

func (err *CorruptError) Error() string {
	return fmt.Sprintf("cache: corrupt cache file %s: %s", err.Path, err.Err)
}

func (err *CorruptError) Unwrap() error {
	return ErrMiss
}

// Fingerprint hashes schema source text. Raw bytes, no normalization: any
// edit to the schema file invalidates the cache.
func Fingerprint(text []byte) string {
	sum := sha256.Sum256(text)
	return hex.EncodeToString(sum[:])
}

// cacheFile is the stable on-disk layout of graph.json.
type cacheFile struct {
	Fingerprint string         `json:"fingerprint"`
	Tables      []schema.Table `json:"tables"`
	Edges       []graph.Edge   `json:"edges"`
}

func Path(dir string) string {
	return filepath.Join(dir, fileName)
}

func Exists(dir string) bool {
	_, err := os.Stat(Path(dir))
	return err == nil
}

// Save writes the graph to dir atomically: marshal to a temporary file in
// the same directory, then rename over graph.json. A crash mid-write
// leaves the previous cache intact, and a concurrent reader of the old
// file is unaffected by the replace.
func Save(dir string, g *graph.Graph, fingerprint string) error {
	buf, err := json.Marshal(cacheFile{
		Fingerprint: fingerprint,
		Tables:      g.Tables(),
		Edges:       g.Edges(),
	})
	if err != nil {
		return fmt.Errorf("cache: marshal graph: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".graph-*.json")
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	_, err = tmp.Write(buf)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cache: write %s: %w", tmp.Name(), err)
	}

	// CreateTemp opens the file 0600; match the other project files.
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cache: %w", err)
	}

	if err := os.Rename(tmp.Name(), Path(dir)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

// Load returns the cached graph if the stored fingerprint matches
// exactly; otherwise ErrMiss (or a CorruptError wrapping it).
func Load(dir string, fingerprint string) (*graph.Graph, error) {
	buf, err := os.ReadFile(Path(dir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrMiss
	} else if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	var cf cacheFile
	if err := json.Unmarshal(buf, &cf); err != nil {
		return nil, &CorruptError{Path: Path(dir), Err: err}
	}
	if cf.Fingerprint != fingerprint {
		return nil, ErrMiss
	}
	return graph.New(cf.Tables, cf.Edges), nil
}
