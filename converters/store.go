package converters

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/darianmavgo/mktable/converters/common"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// ErrorTable receives skipped input lines when ImportOptions.LogErrors is set.
const ErrorTable = "_mktable_errors"

const createErrorTableSQL = `CREATE TABLE IF NOT EXISTS _mktable_errors (
	run_id TEXT,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
	table_name TEXT,
	line INTEGER,
	message TEXT,
	row_data TEXT
)`

const insertErrorSQL = `INSERT INTO _mktable_errors (run_id, table_name, line, message, row_data) VALUES (?, ?, ?, ?, ?)`

// tableLocks serializes loads of the same table within the process.
var tableLocks sync.Map // map[string]*sync.Mutex

func lockTable(dbPath, table string) func() {
	v, _ := tableLocks.LoadOrStore(dbPath+"\x00"+table, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Store is an open SQLite database file.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens (creating if needed) the database at path.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, common.WrapError(common.KindStoreUnavailable, fmt.Errorf("failed to resolve database path: %w", err))
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, common.WrapError(common.KindStoreUnavailable, fmt.Errorf("failed to create database directory: %w", err))
	}

	db, err := sql.Open("sqlite", abs+"?_pragma=busy_timeout(5000)&_txlock=immediate")
	if err != nil {
		return nil, common.WrapError(common.KindStoreUnavailable, fmt.Errorf("failed to open database: %w", err))
	}
	// One connection: the transaction and its statements share it.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, common.WrapError(common.KindStoreUnavailable, fmt.Errorf("failed to open database: %w", err))
	}
	return &Store{db: db, path: abs}, nil
}

// Path returns the absolute database path.
func (s *Store) Path() string {
	return s.path
}

// DB exposes the underlying handle for read-only callers.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load is one fully prepared table: validated identifiers, declared types and
// rows that are exactly len(Columns) wide.
type Load struct {
	Table   string
	Columns []string
	Types   []string
	Rows    [][]any
	Skipped []*common.LineError
}

// ReplaceTable drops and recreates l.Table, inserts every row and introspects
// the result in a single transaction. Loads of the same table in this process
// are serialized, so the summary always describes the rows just written.
func (s *Store) ReplaceTable(ctx context.Context, l *Load, opts *ImportOptions) (*TableSummary, error) {
	if err := common.ValidateIdentifier(l.Table, common.KindTable); err != nil {
		return nil, err
	}
	for _, c := range l.Columns {
		if err := common.ValidateIdentifier(c, common.KindColumn); err != nil {
			return nil, err
		}
	}
	opts = opts.withDefaults()

	unlock := lockTable(s.path, l.Table)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, common.GenDropTableSQL(l.Table)); err != nil {
		return nil, storeError("drop table "+l.Table, err)
	}
	if _, err := tx.ExecContext(ctx, common.GenCreateTableSQLWithTypes(l.Table, l.Columns, l.Types)); err != nil {
		return nil, storeError("create table "+l.Table, err)
	}
	if opts.Verbose {
		log.Printf("[MKTABLE] Created table %s with columns: %v", l.Table, l.Columns)
	}

	if err := insertRows(ctx, tx, l, opts.BatchSize); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	if opts.LogErrors && len(l.Skipped) > 0 {
		if err := logSkipped(ctx, tx, runID, l); err != nil {
			return nil, err
		}
	}

	summary, err := Introspect(ctx, tx, l.Table, opts.SampleSize)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, storeError("commit table "+l.Table, err)
	}

	summary.RunID = runID
	summary.Skipped = l.Skipped
	summary.SkippedLines = len(l.Skipped)
	if opts.Verbose {
		log.Printf("[MKTABLE] Finished table %s, total rows: %d", l.Table, summary.RowCount)
	}
	return summary, nil
}

// Describe re-derives the summary of an existing table.
func (s *Store) Describe(ctx context.Context, table string, sampleSize int) (*TableSummary, error) {
	if err := common.ValidateIdentifier(table, common.KindTable); err != nil {
		return nil, err
	}
	unlock := lockTable(s.path, table)
	defer unlock()
	return Introspect(ctx, s.db, table, sampleSize)
}

func insertRows(ctx context.Context, tx *sql.Tx, l *Load, batchSize int) error {
	width := len(l.Columns)
	perStmt := common.RowsPerStatement(width, batchSize)

	var full *sql.Stmt
	defer func() {
		if full != nil {
			full.Close()
		}
	}()

	args := make([]any, 0, perStmt*width)
	for start := 0; start < len(l.Rows); start += perStmt {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+perStmt, len(l.Rows))
		chunk := l.Rows[start:end]

		args = args[:0]
		for _, row := range chunk {
			args = append(args, fitRow(row, width)...)
		}

		if len(chunk) == perStmt {
			if full == nil {
				query, err := common.GenInsertStmt(l.Table, l.Columns, perStmt)
				if err != nil {
					return common.WrapError(common.KindInternal, err)
				}
				if full, err = tx.PrepareContext(ctx, query); err != nil {
					return storeError("prepare insert for table "+l.Table, err)
				}
			}
			if _, err := full.ExecContext(ctx, args...); err != nil {
				return storeError("insert rows in table "+l.Table, err)
			}
			continue
		}

		query, err := common.GenInsertStmt(l.Table, l.Columns, len(chunk))
		if err != nil {
			return common.WrapError(common.KindInternal, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return storeError("insert rows in table "+l.Table, err)
		}
	}
	return nil
}

// fitRow pads a short row with NULL and truncates a long one.
func fitRow(row []any, width int) []any {
	switch {
	case len(row) == width:
		return row
	case len(row) > width:
		return row[:width]
	}
	padded := make([]any, width)
	copy(padded, row)
	return padded
}

func logSkipped(ctx context.Context, tx *sql.Tx, runID string, l *Load) error {
	if _, err := tx.ExecContext(ctx, createErrorTableSQL); err != nil {
		return storeError("create error log table", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertErrorSQL)
	if err != nil {
		return storeError("prepare log statement", err)
	}
	defer stmt.Close()

	for _, le := range l.Skipped {
		if _, err := stmt.ExecContext(ctx, runID, l.Table, le.Line, le.Err.Error(), le.Raw); err != nil {
			return storeError("log skipped line", err)
		}
	}
	return nil
}
