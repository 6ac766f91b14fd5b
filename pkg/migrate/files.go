package migrate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/multierr"
)

const (
	versionLayout  = "20060102150405"
	upAnnotation   = "-- +goose Up"
	downAnnotation = "-- +goose Down"
)

var (
	migrationFileRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)
	slugStripRe     = regexp.MustCompile(`[^a-z0-9]+`)
)

const sqlTemplate = upAnnotation + `
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

` + downAnnotation + `
-- +goose StatementBegin
-- revert %[1]s
-- +goose StatementEnd
`

// CreateSQLMigration writes an empty goose migration <dir>/<version>_<slug>.sql and returns
// its path. The version is now in UTC; an existing file is never overwritten.
func CreateSQLMigration(dir, name string, now time.Time) (string, error) {
	if dir == "" {
		return "", errors.New("migration dir is required")
	}
	slug := slugify(name)
	if slug == "" {
		return "", fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	path := filepath.Join(dir, now.UTC().Format(versionLayout)+"_"+slug+".sql")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create migration: %w", err)
	}
	_, werr := fmt.Fprintf(f, sqlTemplate, slug)
	if err := multierr.Append(werr, f.Close()); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func slugify(name string) string {
	return strings.Trim(slugStripRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

// ValidateDir runs ValidateFS over an on-disk migrations directory.
func ValidateDir(dir string) error {
	if dir == "" {
		return errors.New("migration dir is required")
	}
	return ValidateFS(os.DirFS(dir))
}

// ValidateFS checks every .sql file at the root of fsys: the name must be
// <YYYYMMDDHHMMSS>_<slug>.sql with a real timestamp, versions must be unique, and the body
// must carry the Up annotation ahead of the Down annotation. All problems are reported.
func ValidateFS(fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	if len(names) == 0 {
		return errors.New("no migrations found")
	}
	sort.Strings(names)

	var problems error
	versions := make(map[string]string, len(names))
	for _, name := range names {
		version, err := migrationVersion(name)
		if err != nil {
			problems = multierr.Append(problems, err)
			continue
		}
		if prev, dup := versions[version]; dup {
			problems = multierr.Append(problems, fmt.Errorf("version %s used by %s and %s", version, prev, name))
			continue
		}
		versions[version] = name

		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			problems = multierr.Append(problems, fmt.Errorf("read %s: %w", name, err))
			continue
		}
		problems = multierr.Append(problems, checkAnnotations(name, string(body)))
	}
	return problems
}

func migrationVersion(name string) (string, error) {
	m := migrationFileRe.FindStringSubmatch(name)
	if m == nil {
		return "", fmt.Errorf("%s: expected <YYYYMMDDHHMMSS>_<name>.sql", name)
	}
	if _, err := time.Parse(versionLayout, m[1]); err != nil {
		return "", fmt.Errorf("%s: version is not a timestamp", name)
	}
	return m[1], nil
}

func checkAnnotations(name, body string) error {
	up := strings.Index(body, upAnnotation)
	down := strings.Index(body, downAnnotation)
	switch {
	case up < 0:
		return fmt.Errorf("%s: missing %q", name, upAnnotation)
	case down < 0:
		return fmt.Errorf("%s: missing %q", name, downAnnotation)
	case down < up:
		return fmt.Errorf("%s: %q must come before %q", name, upAnnotation, downAnnotation)
	}
	return nil
}
