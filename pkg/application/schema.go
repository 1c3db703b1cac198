package application

import (
	"context"
	"embed"
	"io/fs"
	"sort"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SchemaManager collects per-module embedded schema files and applies them
// in registration order. Statements are idempotent (CREATE ... IF NOT
// EXISTS), so re-running at startup is safe.
type SchemaManager struct {
	pool    *pgxpool.Pool
	schemas []*embed.FS
}

func NewSchemaManager(pool *pgxpool.Pool) *SchemaManager {
	return &SchemaManager{pool: pool}
}

func (m *SchemaManager) RegisterSchema(fsys *embed.FS) {
	m.schemas = append(m.schemas, fsys)
}

func (m *SchemaManager) Apply(ctx context.Context) error {
	for _, fsys := range m.schemas {
		files, err := listSQLFiles(fsys)
		if err != nil {
			return err
		}
		for _, file := range files {
			contents, err := fsys.ReadFile(file)
			if err != nil {
				return gerrors.Wrapf(err, "read schema file %q", file)
			}
			if _, err := m.pool.Exec(ctx, string(contents)); err != nil {
				return gerrors.Wrapf(err, "apply schema file %q", file)
			}
		}
	}
	return nil
}

func listSQLFiles(fsys *embed.FS) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".sql") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
