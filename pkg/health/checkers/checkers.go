package checkers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const pingTimeout = time.Second

// StoreChecker пингует хранилище анализов.
type StoreChecker struct {
	name string
	ping func(ctx context.Context) error
}

func NewPostgresChecker(pool *pgxpool.Pool) *StoreChecker {
	return &StoreChecker{name: "postgres", ping: pool.Ping}
}

func NewSQLiteChecker(db *sql.DB) *StoreChecker {
	return &StoreChecker{name: "sqlite", ping: db.PingContext}
}

func (c *StoreChecker) Name() string { return c.name }

func (c *StoreChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return c.ping(ctx)
}

// UploadDirChecker проверяет, что каталог загрузок существует и доступен на запись.
type UploadDirChecker struct {
	dir string
}

func NewUploadDirChecker(dir string) *UploadDirChecker {
	return &UploadDirChecker{dir: dir}
}

func (c *UploadDirChecker) Name() string { return "uploads" }

func (c *UploadDirChecker) Check(_ context.Context) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(c.dir, ".ready-*")
	if err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
