package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-Intent-Graph/intent/contract"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type Config struct {
	DSN         string        `split_words:"true"`
	DialTimeout time.Duration `split_words:"true" default:"5s"`
}

// Enabled reports whether a snapshot database is configured.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.DSN) != ""
}

// Store persists graph snapshots in PostgreSQL.
type Store struct {
	db *bun.DB
}

var _ contractx.GraphSink = (*Store)(nil)

func Open(ctx context.Context, cfg Config) (*Store, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%w: postgres dsn is required", contractx.ErrValidation)
	}
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithDialTimeout(timeout),
	))
	db := bun.NewDB(sqldb, pgdialect.New())

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := NewWithDB(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func NewWithDB(db *bun.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the snapshot tables when they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	models := []any{
		(*runRow)(nil),
		(*phraseNodeRow)(nil),
		(*replyEdgeRow)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

// Save writes a run and its graph in one transaction.
func (s *Store) Save(ctx context.Context, snap contractx.Snapshot) error {
	if s == nil || s.db == nil {
		return errors.New("nil snapshot store")
	}
	run, nodes, edges := toRows(snap)

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&run).Exec(ctx); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		if len(nodes) > 0 {
			if _, err := tx.NewInsert().Model(&nodes).Exec(ctx); err != nil {
				return fmt.Errorf("insert phrase nodes: %w", err)
			}
		}
		if len(edges) > 0 {
			if _, err := tx.NewInsert().Model(&edges).Exec(ctx); err != nil {
				return fmt.Errorf("insert reply edges: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save snapshot run_id=%s: %w", snap.RunID, err)
	}

	zerolog.Ctx(ctx).Info().
		Int("nodes", run.NodeCount).
		Int("edges", run.EdgeCount).
		Msg("graph snapshot stored")
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
