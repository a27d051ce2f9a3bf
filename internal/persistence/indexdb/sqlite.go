package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"voxelmaze.ai/internal/catalogs"
	"voxelmaze.ai/internal/tuning"
)

type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropMaze   atomic.Uint64
	writeMaze  atomic.Uint64
	writeError atomic.Uint64
}

type reqKind int

const (
	reqMaze reqKind = iota + 1
)

type req struct {
	kind reqKind
	maze MazeRow
}

// MazeRow is one indexed generation.
type MazeRow struct {
	ID        string `json:"id"`
	Seed      int64  `json:"seed"`
	SizeX     int    `json:"size_x"`
	SizeY     int    `json:"size_y"`
	SizeZ     int    `json:"size_z"`
	Rooms     int    `json:"rooms"`
	Links     int    `json:"links"`
	Digs      int    `json:"digs"`
	Respawns  int    `json:"respawns"`
	Digest    string `json:"digest"`
	Path      string `json:"path"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
}

// Stats reports queue activity since open.
type Stats struct {
	DropMazeTotal   uint64 `json:"drop_maze_total"`
	WriteMazeTotal  uint64 `json:"write_maze_total"`
	WriteErrorTotal uint64 `json:"write_error_total"`
	QueueDepth      int    `json:"queue_depth"`
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS mazes (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			size_x INTEGER NOT NULL,
			size_y INTEGER NOT NULL,
			size_z INTEGER NOT NULL,
			rooms INTEGER NOT NULL,
			links INTEGER NOT NULL,
			digs INTEGER NOT NULL,
			respawns INTEGER NOT NULL,
			digest TEXT NOT NULL,
			path TEXT NOT NULL,
			source TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_mazes_created_at ON mazes(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_mazes_digest ON mazes(digest);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close drains queued rows and closes the database.
func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) Stats() Stats {
	return Stats{
		DropMazeTotal:   s.dropMaze.Load(),
		WriteMazeTotal:  s.writeMaze.Load(),
		WriteErrorTotal: s.writeError.Load(),
		QueueDepth:      len(s.ch),
	}
}

// RecordMaze queues r for insertion. Rows are dropped if the writer falls
// behind; snapshots and JSONL logs remain the source of truth.
func (s *SQLiteIndex) RecordMaze(r MazeRow) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- req{kind: reqMaze, maze: r}:
	default:
		s.dropMaze.Add(1)
	}
}

// UpsertCatalogs stores the block palette and the effective tuning.
func (s *SQLiteIndex) UpsertCatalogs(cats *catalogs.Catalogs, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	var rows []kv
	if b, _ := json.Marshal(cats.Blocks.Palette); len(b) > 0 {
		rows = append(rows, kv{name: "blocks_palette", digest: cats.Blocks.PaletteDigest, json: b})
	}
	{
		b, _ := json.Marshal(tune)
		sum := sha256.Sum256(b)
		rows = append(rows, kv{name: "tuning", digest: hex.EncodeToString(sum[:]), json: b})
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.name == "" || r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListMazes returns the most recent rows first.
func (s *SQLiteIndex) ListMazes(ctx context.Context, limit int) ([]MazeRow, error) {
	return ListMazes(ctx, s.db, limit)
}

// ListMazes queries db directly, for read-only tools opening the file themselves.
func ListMazes(ctx context.Context, db *sql.DB, limit int) ([]MazeRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx, `SELECT id,seed,size_x,size_y,size_z,rooms,links,digs,respawns,digest,path,source,created_at
		FROM mazes ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MazeRow
	for rows.Next() {
		var r MazeRow
		if err := rows.Scan(&r.ID, &r.Seed, &r.SizeX, &r.SizeY, &r.SizeZ, &r.Rooms, &r.Links, &r.Digs, &r.Respawns, &r.Digest, &r.Path, &r.Source, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertMaze, _ := s.db.Prepare(`INSERT OR REPLACE INTO mazes(id,seed,size_x,size_y,size_z,rooms,links,digs,respawns,digest,path,source,created_at) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	defer func() {
		if insertMaze != nil {
			_ = insertMaze.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 256
		commitMaxWait = time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		if err := tx.Commit(); err != nil {
			s.writeError.Add(1)
		}
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for {
		var (
			r  req
			ok bool
		)
		if tx == nil {
			r, ok = <-s.ch
		} else {
			// Commit an idle batch instead of holding it open until the next row.
			select {
			case r, ok = <-s.ch:
			case <-time.After(commitMaxWait):
				commit()
				continue
			}
		}
		if !ok {
			break
		}

		begin()
		if tx == nil {
			s.writeError.Add(1)
			continue
		}
		switch r.kind {
		case reqMaze:
			m := r.maze
			if insertMaze == nil {
				s.writeError.Add(1)
				continue
			}
			if _, err := tx.Stmt(insertMaze).Exec(
				m.ID, m.Seed,
				m.SizeX, m.SizeY, m.SizeZ,
				m.Rooms, m.Links, m.Digs, m.Respawns,
				m.Digest, m.Path, m.Source, m.CreatedAt,
			); err != nil {
				s.writeError.Add(1)
				rollback()
				continue
			}
			s.writeMaze.Add(1)
			opCount++
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	commit()
}
