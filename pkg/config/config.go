// Package config owns the per-project state directory (.csvg/): the
// config.json settings and schema file discovery. The directory is always
// passed explicitly; nothing here is process-global.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	DirName  = ".csvg"
	fileName = "config.json"
)

type Config struct {
	// OutputFile receives the merged result of graph join.
	OutputFile string `json:"output_file"`
	// OutputPath receives generated files (graph display output).
	OutputPath string `json:"output_path"`
	// SourcePath is where <table>.csv files are read from.
	SourcePath string `json:"source_path"`
	// Weights declares edge weights, keyed from.column->to.column;
	// undeclared edges weigh 1.
	Weights map[string]int `json:"weights,omitempty"`
}

func Default() Config {
	return Config{
		OutputFile: "output.csv",
		OutputPath: filepath.Join(DirName, "generated-files"),
		SourcePath: ".",
	}
}

// CSVPath is the CSV file backing a table.
func (cfg Config) CSVPath(tbl string) string {
	return filepath.Join(cfg.SourcePath, tbl+".csv")
}

// Dir is the project state directory under the current working directory.
func Dir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return filepath.Join(wd, DirName), nil
}

func Path(dir string) string {
	return filepath.Join(dir, fileName)
}

func Exists(dir string) bool {
	_, err := os.Stat(Path(dir))
	return err == nil
}

// EnsureDir creates the state directory and a default config file when
// either is missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !Exists(dir) {
		if err := Write(dir, Default()); err != nil {
			return err
		}
	}
	return nil
}

// Read loads the config file; a missing file means defaults.
func Read(dir string) (Config, error) {
	buf, err := os.ReadFile(Path(dir))
	if os.IsNotExist(err) {
		return Default(), nil
	} else if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(buf, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", Path(dir), err)
	}
	return cfg, nil
}

func Write(dir string, cfg Config) error {
	buf, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(Path(dir), append(buf, '\n'), 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// FindSchema returns the first .sql file in root, in name order.
func FindSchema(root string) (string, bool) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", false
	}

	var nams []string
	for _, ent := range entries {
		if !ent.IsDir() && strings.HasSuffix(ent.Name(), ".sql") {
			nams = append(nams, ent.Name())
		}
	}
	if len(nams) == 0 {
		return "", false
	}
	sort.Strings(nams)
	return filepath.Join(root, nams[0]), true
}

// RelPath trims the working directory prefix for display.
func RelPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
