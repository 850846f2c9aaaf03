package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// schemaFile is one embedded DDL file named <order>_<name>.sql.
type schemaFile struct {
	order int
	name  string
	sql   string
}

// createSchema runs the embedded DDL files in order on tx. The database is
// always new and empty, so there is no version table and nothing to upgrade.
func createSchema(ctx context.Context, tx *sql.Tx) error {
	files, err := schemaFiles()
	if err != nil {
		return err
	}

	for _, f := range files {
		if _, err := tx.ExecContext(ctx, f.sql); err != nil {
			return fmt.Errorf("failed to create schema %d_%s: %w", f.order, f.name, err)
		}
	}
	return nil
}

// schemaFiles returns the embedded DDL files sorted by their numeric prefix.
func schemaFiles() ([]schemaFile, error) {
	entries, err := schemaFS.ReadDir("schema")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory: %w", err)
	}

	files := make([]schemaFile, 0, len(entries))
	for _, entry := range entries {
		order, name, err := parseSchemaFilename(entry.Name())
		if err != nil {
			return nil, err
		}

		content, err := schemaFS.ReadFile("schema/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", entry.Name(), err)
		}
		files = append(files, schemaFile{order: order, name: name, sql: string(content)})
	}

	slices.SortFunc(files, func(a, b schemaFile) int { return a.order - b.order })
	for i := 1; i < len(files); i++ {
		if files[i].order == files[i-1].order {
			return nil, fmt.Errorf("duplicate schema order %d", files[i].order)
		}
	}

	return files, nil
}

func parseSchemaFilename(filename string) (int, string, error) {
	base, ok := strings.CutSuffix(filename, ".sql")
	if !ok {
		return 0, "", fmt.Errorf("invalid schema filename %q: expected '<order>_<name>.sql'", filename)
	}

	prefix, name, ok := strings.Cut(base, "_")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("invalid schema filename %q: expected '<order>_<name>.sql'", filename)
	}

	order, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("invalid schema order in %q: %w", filename, err)
	}

	return order, name, nil
}
