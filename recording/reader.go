package recording

import (
	"database/sql"
	"fmt"
	"net/url"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/trace"
)

// Run describes one recorded simulation.
type Run struct {
	ID      string
	Config  cache.Config
	Backend cache.Backend
}

// AccessRecord is one recorded cache access.
type AccessRecord struct {
	Seq    uint64
	Record trace.Record
	Index  int
	sim.Access
}

// SQLiteReader reads recordings back from a database file.
type SQLiteReader struct {
	*sql.DB

	filename string
}

// OpenSQLiteReader opens an existing recording.
func OpenSQLiteReader(filename string) (*SQLiteReader, error) {
	dsn, err := fileDSN(filename, url.Values{"mode": {"ro"}})
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", filename, err)
	}

	return &SQLiteReader{DB: db, filename: filename}, nil
}

// ListRuns returns the runs stored in the database.
func (r *SQLiteReader) ListRuns() ([]Run, error) {
	rows, err := r.Query(
		`SELECT run_id, set_bits, lines, block_bits, backend FROM run`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var (
			run     Run
			backend string
		)

		err := rows.Scan(
			&run.ID,
			&run.Config.SetIndexBits,
			&run.Config.LinesPerSet,
			&run.Config.BlockOffsetBits,
			&backend,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.Backend = cache.Backend(backend)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Stats totals the recorded accesses of a run. Record and instruction
// counts are not recoverable from access rows and are left zero.
func (r *SQLiteReader) Stats(runID string) (sim.Stats, error) {
	var stats sim.Stats

	err := r.QueryRow(`
		SELECT
			COALESCE(SUM(hit), 0),
			COALESCE(SUM(1 - hit), 0),
			COALESCE(SUM(eviction), 0),
			COALESCE(SUM(kind = 'read'), 0),
			COALESCE(SUM(kind = 'write'), 0)
		FROM access
		WHERE run_id = ?
	`, runID).Scan(
		&stats.Hits,
		&stats.Misses,
		&stats.Evictions,
		&stats.Reads,
		&stats.Writes,
	)
	if err != nil {
		return stats, fmt.Errorf("failed to total run %s: %w", runID, err)
	}

	return stats, nil
}

// ListAccesses returns the accesses of a run in trace order.
func (r *SQLiteReader) ListAccesses(runID string) ([]AccessRecord, error) {
	rows, err := r.Query(`
		SELECT seq, op, address, size, access_index, kind, hit, eviction
		FROM access
		WHERE run_id = ?
		ORDER BY seq, access_index
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accesses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accesses []AccessRecord
	for rows.Next() {
		var (
			a       AccessRecord
			op      string
			address int64
			kind    string
		)

		err := rows.Scan(
			&a.Seq, &op, &address, &a.Record.Size, &a.Index,
			&kind, &a.Hit, &a.Eviction,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan access: %w", err)
		}

		a.Record.Op, _ = trace.ParseOp(op)
		a.Record.Address = uint64(address)
		if kind == sim.Write.String() {
			a.Kind = sim.Write
		}

		accesses = append(accesses, a)
	}

	return accesses, rows.Err()
}
