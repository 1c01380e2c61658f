package database

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error { return r.scan(dest...) }

type stubTx struct {
	pgx.Tx
	execs      []string
	execErr    error
	committed  bool
	rolledBack bool
}

func (t *stubTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execs = append(t.execs, strings.TrimSpace(sql))
	return pgconn.CommandTag{}, t.execErr
}

func (t *stubTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *stubTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type stubMigrator struct {
	applied map[int]bool
	txs     []*stubTx
	execErr error
}

func (m *stubMigrator) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *stubMigrator) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	version := args[0].(int)
	return stubRow{scan: func(dest ...any) error {
		*dest[0].(*bool) = m.applied[version]
		return nil
	}}
}

func (m *stubMigrator) Begin(ctx context.Context) (pgx.Tx, error) {
	tx := &stubTx{execErr: m.execErr}
	m.txs = append(m.txs, tx)
	return tx, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0002_reviews.sql": {Data: []byte("CREATE TABLE reviews ();")},
		"m/0001_init.sql":    {Data: []byte("CREATE TABLE users ();")},
		"m/README.md":        {Data: []byte("notes")},
	}

	got, err := loadMigrations(fsys, "m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Migration{
		{Version: 1, Name: "0001_init.sql", SQL: "CREATE TABLE users ();"},
		{Version: 2, Name: "0002_reviews.sql", SQL: "CREATE TABLE reviews ();"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("migrations mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMigrations_Invalid(t *testing.T) {
	tests := map[string]fstest.MapFS{
		"no prefix":   {"m/init.sql": {Data: []byte("")}},
		"bad version": {"m/abc_init.sql": {Data: []byte("")}},
		"duplicate": {
			"m/0001_a.sql": {Data: []byte("")},
			"m/1_b.sql":    {Data: []byte("")},
		},
	}

	for name, fsys := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := loadMigrations(fsys, "m"); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	migrations, err := Migrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) == 0 || migrations[0].Version != 1 {
		t.Fatalf("expected the initial migration first, got %+v", migrations)
	}
	for _, table := range []string{"users", "profiles", "properties", "reviews", "contact_inquiries"} {
		if !strings.Contains(migrations[0].SQL, "CREATE TABLE IF NOT EXISTS "+table+" ") {
			t.Fatalf("initial migration does not create %s", table)
		}
	}
}

func TestApply_SkipsRecordedVersions(t *testing.T) {
	db := &stubMigrator{applied: map[int]bool{1: true}}
	migrations := []Migration{
		{Version: 1, Name: "0001_init.sql", SQL: "CREATE TABLE users ();"},
		{Version: 2, Name: "0002_reviews.sql", SQL: "CREATE TABLE reviews ();"},
	}

	if err := apply(context.Background(), db, migrations, discardLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(db.txs) != 1 {
		t.Fatalf("expected one transaction, got %d", len(db.txs))
	}
	tx := db.txs[0]
	if !tx.committed || len(tx.execs) != 2 || tx.execs[0] != "CREATE TABLE reviews ();" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
}

func TestApply_RollsBackFailedMigration(t *testing.T) {
	db := &stubMigrator{applied: map[int]bool{}, execErr: errors.New("syntax error")}
	err := apply(context.Background(), db, []Migration{{Version: 1, Name: "0001_init.sql", SQL: "CREAT TABLE"}}, discardLogger())
	if err == nil {
		t.Fatalf("expected error")
	}
	if tx := db.txs[0]; tx.committed || !tx.rolledBack {
		t.Fatalf("expected rollback, got %+v", tx)
	}
}
