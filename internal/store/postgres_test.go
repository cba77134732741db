package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eds/internal/snapshot"
)

var snapshotColumns = []string{"seq", "name", "version", "content_hash", "payload"}

// openMockPostgres routes OpenPostgres to a sqlmock database.
func openMockPostgres(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	var gotDriver, gotDSN string
	orig := sqlOpen
	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		gotDriver, gotDSN = driver, dsn
		return db, nil
	}
	t.Cleanup(func() { sqlOpen = orig })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS snapshots").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_snapshots_name_seq").WillReturnResult(sqlmock.NewResult(0, 0))

	s, err := OpenPostgres(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "pgx", gotDriver)
	assert.Equal(t, defaultPostgresDSN, gotDSN)
	return s, mock
}

func TestPostgresSaveSnapshot(t *testing.T) {
	s, mock := openMockPostgres(t)
	ctx := context.Background()
	rec, _ := records(t)
	hash, err := snapshot.Hash(rec)
	require.NoError(t, err)
	payload, err := snapshot.Encode(rec)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO snapshots (name, version, content_hash, payload) VALUES ($1, $2, $3, $4)")).
		WithArgs("riverside", snapshot.IDv4, hash, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE name = $1 AND content_hash = $2")).
		WithArgs("riverside", hash).
		WillReturnRows(sqlmock.NewRows(snapshotColumns).AddRow(int64(7), "riverside", snapshot.IDv4, hash, payload))

	snap, inserted, err := s.SaveSnapshot(ctx, "riverside", rec)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, int64(7), snap.Seq)

	mock.ExpectClose()
	require.NoError(t, s.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLatestAndList(t *testing.T) {
	s, mock := openMockPostgres(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE name = $1 ORDER BY seq DESC LIMIT 1")).
		WithArgs("riverside").
		WillReturnRows(sqlmock.NewRows(snapshotColumns))
	_, err := s.LatestSnapshot(ctx, "riverside")
	assert.True(t, errors.Is(err, ErrNotFound))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT seq, name, version, content_hash FROM snapshots WHERE name = $1 ORDER BY seq ASC")).
		WithArgs("riverside").
		WillReturnRows(sqlmock.NewRows([]string{"seq", "name", "version", "content_hash"}).
			AddRow(int64(1), "riverside", snapshot.IDv4, "aa").
			AddRow(int64(3), "riverside", snapshot.IDv4, "bb"))
	list, err := s.ListSnapshots(ctx, "riverside")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bb", list[1].ContentHash)

	mock.ExpectQuery(regexp.QuoteMeta("FROM snapshots ORDER BY seq ASC")).
		WillReturnError(errors.New("connection reset"))
	_, err = s.ListSnapshots(ctx, "")
	assert.ErrorContains(t, err, "connection reset")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenPostgresDDLFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	orig := sqlOpen
	sqlOpen = func(string, string) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() { sqlOpen = orig })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS snapshots").WillReturnError(errors.New("permission denied"))
	mock.ExpectClose()

	_, err = OpenPostgres(context.Background(), "postgres://db/eds")
	assert.ErrorContains(t, err, "execute ddl")
	assert.NoError(t, mock.ExpectationsWereMet())
}
