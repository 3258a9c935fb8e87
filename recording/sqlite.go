// Package recording stores per-access simulation logs in SQLite databases.
package recording

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/sim"
)

// DefaultBatchSize is the number of buffered accesses that triggers a flush.
const DefaultBatchSize = 100000

type accessRow struct {
	seq      uint64
	op       string
	address  uint64
	size     uint8
	index    int
	kind     string
	hit      bool
	eviction bool
}

// SQLiteRecorder is a sim.Sink that writes every cache access into a SQLite
// database, one row per access.
type SQLiteRecorder struct {
	*sql.DB
	insert *sql.Stmt

	dbName string
	runID  string

	rows      []accessRow
	seq       uint64
	BatchSize int

	closed bool
}

// NewSQLiteRecorder creates <name>.sqlite3 and prepares it for recording.
// An empty name picks a unique one. Existing files are never overwritten.
func NewSQLiteRecorder(name string) (*SQLiteRecorder, error) {
	r := &SQLiteRecorder{
		dbName:    name,
		runID:     xid.New().String(),
		BatchSize: DefaultBatchSize,
	}

	if err := r.createDatabase(); err != nil {
		return nil, err
	}

	if err := r.createTables(); err != nil {
		_ = r.DB.Close()
		return nil, err
	}

	stmt, err := r.Prepare(`
		INSERT INTO access
			(run_id, seq, op, address, size, access_index, kind, hit, eviction)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = r.DB.Close()
		return nil, fmt.Errorf("failed to prepare access insert: %w", err)
	}
	r.insert = stmt

	atexit.Register(func() { _ = r.Close() })

	return r, nil
}

// Filename returns the database file the recorder writes to.
func (r *SQLiteRecorder) Filename() string {
	return r.dbName + ".sqlite3"
}

// RunID identifies the rows written by this recorder.
func (r *SQLiteRecorder) RunID() string {
	return r.runID
}

func (r *SQLiteRecorder) createDatabase() error {
	if r.dbName == "" {
		r.dbName = "cachesim_" + xid.New().String()
	}

	filename := r.Filename()
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	dsn, err := fileDSN(filename, nil)
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", filename, err)
	}

	r.DB = db

	return nil
}

// fileDSN builds a SQLite URI for filename, escaping characters such as '?'
// and '#' that would otherwise be read as URI delimiters.
func fileDSN(filename string, query url.Values) (string, error) {
	path, err := filepath.Abs(filename)
	if err != nil {
		return "", fmt.Errorf("failed to resolve database path %s: %w",
			filename, err)
	}

	dsn := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(path),
		RawQuery: query.Encode(),
	}

	return dsn.String(), nil
}

func (r *SQLiteRecorder) createTables() error {
	statements := []string{
		`CREATE TABLE run
		(
			run_id     VARCHAR(20) NOT NULL PRIMARY KEY,
			set_bits   INTEGER     NOT NULL,
			lines      INTEGER     NOT NULL,
			block_bits INTEGER     NOT NULL,
			backend    VARCHAR(20) NOT NULL
		)`,
		`CREATE TABLE access
		(
			run_id       VARCHAR(20) NOT NULL,
			seq          INTEGER     NOT NULL,
			op           VARCHAR(1)  NOT NULL,
			address      INTEGER     NOT NULL,
			size         INTEGER     NOT NULL,
			access_index INTEGER     NOT NULL,
			kind         VARCHAR(5)  NOT NULL,
			hit          INTEGER     NOT NULL,
			eviction     INTEGER     NOT NULL
		)`,
		`CREATE INDEX access_run_id_index ON access (run_id)`,
	}

	for _, stmt := range statements {
		if _, err := r.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return nil
}

// WriteRun stores the geometry and backend of the run being recorded.
func (r *SQLiteRecorder) WriteRun(config cache.Config, backend cache.Backend) error {
	_, err := r.Exec(
		`INSERT INTO run (run_id, set_bits, lines, block_bits, backend)
		VALUES (?, ?, ?, ?, ?)`,
		r.runID,
		config.SetIndexBits,
		config.LinesPerSet,
		config.BlockOffsetBits,
		string(backend),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}

// Record buffers one row per access of the entry.
func (r *SQLiteRecorder) Record(entry sim.Entry) error {
	if r.closed {
		return fmt.Errorf("recorder for %s is closed", r.Filename())
	}

	r.seq++
	for i, access := range entry.Accesses {
		r.rows = append(r.rows, accessRow{
			seq:      r.seq,
			op:       entry.Record.Op.String(),
			address:  entry.Record.Address,
			size:     entry.Record.Size,
			index:    i,
			kind:     access.Kind.String(),
			hit:      access.Hit,
			eviction: access.Eviction,
		})
	}

	if len(r.rows) >= r.BatchSize {
		return r.Flush()
	}

	return nil
}

// Flush writes the buffered rows in a single transaction.
func (r *SQLiteRecorder) Flush() error {
	if len(r.rows) == 0 {
		return nil
	}

	tx, err := r.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt := tx.Stmt(r.insert)
	for _, row := range r.rows {
		_, err := stmt.Exec(
			r.runID,
			row.seq,
			row.op,
			int64(row.address),
			row.size,
			row.index,
			row.kind,
			row.hit,
			row.eviction,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert access %d: %w", row.seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit accesses: %w", err)
	}

	r.rows = r.rows[:0]

	return nil
}

// Close flushes pending rows and closes the database. Closing twice is a
// no-op.
func (r *SQLiteRecorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	flushErr := r.Flush()
	_ = r.insert.Close()
	closeErr := r.DB.Close()

	if flushErr != nil {
		return flushErr
	}

	return closeErr
}
