package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/eds/internal/snapshot"
)

// ErrNotFound is returned when no snapshot exists under a name.
var ErrNotFound = errors.New("snapshot not found")

// ErrCorrupt is returned when a stored payload no longer matches its
// content hash.
var ErrCorrupt = errors.New("snapshot payload does not match its content hash")

// Snapshot is one stored row.
type Snapshot struct {
	Seq         int64  `json:"seq"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	ContentHash string `json:"content_hash"`
	Payload     []byte `json:"-"`
}

// bind rewrites ? placeholders for the store's dialect.
func (s *Store) bind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SaveSnapshot stores rec under name. Saving content that is already stored
// under name returns the existing row with inserted false.
func (s *Store) SaveSnapshot(ctx context.Context, name string, rec snapshot.RecordV4) (Snapshot, bool, error) {
	if name == "" {
		return Snapshot{}, false, fmt.Errorf("save snapshot: name is required")
	}
	payload, err := snapshot.Encode(rec)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot: %w", err)
	}
	hash, err := snapshot.Hash(rec)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot: %w", err)
	}

	res, err := s.db.ExecContext(ctx, s.bind(`
		INSERT INTO snapshots (name, version, content_hash, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name, content_hash) DO NOTHING
	`), name, snapshot.IDv4, hash, payload)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot: %w", err)
	}

	row := s.db.QueryRowContext(ctx, s.bind(`
		SELECT seq, name, version, content_hash, payload
		FROM snapshots
		WHERE name = ? AND content_hash = ?
	`), name, hash)
	snap, err := scanSnapshot(row)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("save snapshot: %w", err)
	}
	return snap, n > 0, nil
}

// LatestSnapshot returns the most recently saved row under name.
func (s *Store) LatestSnapshot(ctx context.Context, name string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, s.bind(`
		SELECT seq, name, version, content_hash, payload
		FROM snapshots
		WHERE name = ?
		ORDER BY seq DESC
		LIMIT 1
	`), name)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("latest snapshot %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("latest snapshot %q: %w", name, err)
	}
	return snap, nil
}

// LoadSnapshot decodes the latest row under name and checks its hash.
func (s *Store) LoadSnapshot(ctx context.Context, name string) (snapshot.RecordV4, Snapshot, error) {
	snap, err := s.LatestSnapshot(ctx, name)
	if err != nil {
		return snapshot.RecordV4{}, Snapshot{}, err
	}
	rec, err := Verify(snap)
	if err != nil {
		return snapshot.RecordV4{}, snap, err
	}
	return rec, snap, nil
}

// Verify decodes snap's payload and checks it against the stored hash.
func Verify(snap Snapshot) (snapshot.RecordV4, error) {
	rec, _, err := snapshot.Decode(snap.Payload)
	if err != nil {
		return snapshot.RecordV4{}, fmt.Errorf("snapshot %d: %w", snap.Seq, err)
	}
	hash, err := snapshot.Hash(rec)
	if err != nil {
		return snapshot.RecordV4{}, fmt.Errorf("snapshot %d: %w", snap.Seq, err)
	}
	if hash != snap.ContentHash {
		return snapshot.RecordV4{}, fmt.Errorf("snapshot %d: %w", snap.Seq, ErrCorrupt)
	}
	return rec, nil
}

// ListSnapshots returns rows in seq order without payloads. An empty name
// lists every name.
func (s *Store) ListSnapshots(ctx context.Context, name string) ([]Snapshot, error) {
	query := `SELECT seq, name, version, content_hash FROM snapshots`
	var args []any
	if name != "" {
		query += ` WHERE name = ?`
		args = append(args, name)
	}
	query += ` ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, s.bind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.Seq, &snap.Name, &snap.Version, &snap.ContentHash); err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

func scanSnapshot(row *sql.Row) (Snapshot, error) {
	var snap Snapshot
	err := row.Scan(&snap.Seq, &snap.Name, &snap.Version, &snap.ContentHash, &snap.Payload)
	return snap, err
}
