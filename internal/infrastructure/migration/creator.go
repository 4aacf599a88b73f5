package migration

import (
	"cmp"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	upSuffix      = ".up.sql"
	downSuffix    = ".down.sql"
	versionDigits = 6
)

// Migration describes one versioned migration found in a source
type Migration struct {
	Version uint
	Name    string
	HasDown bool
}

// FileName returns the base file name shared by the up and down files
func (m Migration) FileName() string {
	return fmt.Sprintf("%0*d_%s", versionDigits, m.Version, m.Name)
}

// CreatedMigration is the pair of files written by CreateMigration
type CreatedMigration struct {
	Migration
	UpPath   string
	DownPath string
}

// CreateMigration writes an empty up/down pair numbered after the highest
// version already present in dir
func CreateMigration(dir, name, description string) (*CreatedMigration, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := ListMigrations(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	var next uint = 1
	if len(existing) > 0 {
		next = existing[len(existing)-1].Version + 1
	}

	created := &CreatedMigration{Migration: Migration{Version: next, Name: slug, HasDown: true}}
	created.UpPath = filepath.Join(dir, created.FileName()+upSuffix)
	created.DownPath = filepath.Join(dir, created.FileName()+downSuffix)

	header := fmt.Sprintf("-- %s\n-- Created: %s\n", description, time.Now().UTC().Format(time.RFC3339))
	if description == "" {
		header = fmt.Sprintf("-- Created: %s\n", time.Now().UTC().Format(time.RFC3339))
	}

	if err := os.WriteFile(created.UpPath, []byte(header+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := os.WriteFile(created.DownPath, []byte(header+"\n"), 0o644); err != nil {
		_ = os.Remove(created.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}
	return created, nil
}

// ListMigrations returns the migrations of fsys sorted by version. Files
// that do not follow the NNNNNN_name.{up,down}.sql convention are ignored.
func ListMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	byVersion := make(map[uint]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version, name, down, ok := parseFileName(entry.Name())
		if !ok {
			continue
		}
		m, found := byVersion[version]
		if !found {
			m = &Migration{Version: version, Name: name}
			byVersion[version] = m
		}
		if down {
			m.HasDown = true
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		migrations = append(migrations, *m)
	}
	slices.SortFunc(migrations, func(a, b Migration) int {
		return cmp.Compare(a.Version, b.Version)
	})
	return migrations, nil
}

func parseFileName(fileName string) (version uint, name string, down bool, ok bool) {
	base, isUp := strings.CutSuffix(fileName, upSuffix)
	if !isUp {
		base, down = strings.CutSuffix(fileName, downSuffix)
		if !down {
			return 0, "", false, false
		}
	}

	number, name, found := strings.Cut(base, "_")
	if !found || name == "" {
		return 0, "", false, false
	}
	v, err := strconv.ParseUint(number, 10, 64)
	if err != nil {
		return 0, "", false, false
	}
	return uint(v), name, down, true
}

// sanitizeName lowercases name and joins its alphanumeric runs with underscores
func sanitizeName(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	})

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		kept := strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				return r
			}
			return -1
		}, field)
		if kept != "" {
			parts = append(parts, kept)
		}
	}
	return strings.Join(parts, "_")
}
