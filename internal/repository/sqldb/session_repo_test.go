package sqldb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"eventtracks/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		driver  string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.UserSession
		wantErr error
	}{
		{
			name:   "found postgres",
			driver: DriverPostgres,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT value FROM kv_store WHERE key = \$1`).
					WithArgs(SessionKey).
					WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"id":"u1","name":"Ana"}`))
			},
			want: &domain.UserSession{ID: "u1", Name: "Ana"},
		},
		{
			name:   "found sqlite",
			driver: DriverSQLite,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT value FROM kv_store WHERE key = \?`).
					WithArgs(SessionKey).
					WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"id":"u2","name":"Luis","email":"l@x.io"}`))
			},
			want: &domain.UserSession{ID: "u2", Name: "Luis", Email: "l@x.io"},
		},
		{
			name:   "not found",
			driver: DriverPostgres,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT value FROM kv_store`).
					WithArgs(SessionKey).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:   "db error",
			driver: DriverPostgres,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT value FROM kv_store`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewSessionRepository(db, tt.driver)
			got, err := repo.Get(ctx)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_GetCorruptValue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT value FROM kv_store`).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`not json`))
	_, err = NewSessionRepository(db, DriverSQLite).Get(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionRepository_Store(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		session *domain.UserSession
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name:    "success",
			session: &domain.UserSession{ID: "u1", Name: "Ana"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO kv_store \(key, value\)\s+VALUES \(\$1, \$2\)\s+ON CONFLICT \(key\) DO UPDATE`).
					WithArgs(SessionKey, `{"id":"u1","name":"Ana"}`).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:    "db error",
			session: &domain.UserSession{ID: "u1"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO kv_store`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
		{
			name:    "nil session",
			session: nil,
			mock:    func(mock sqlmock.Sqlmock) {},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewSessionRepository(db, DriverPostgres).Store(ctx, tt.session)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_Clear(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM kv_store WHERE key = \$1`).
		WithArgs(SessionKey).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, NewSessionRepository(db, DriverPostgres).Clear(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "eventtracks.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, EnsureSchema(ctx, db))
	require.NoError(t, EnsureSchema(ctx, db))

	repo := NewSessionRepository(db, DriverSQLite)
	_, err = repo.Get(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Store(ctx, &domain.UserSession{ID: "u1", Name: "Ana"}))
	require.NoError(t, repo.Store(ctx, &domain.UserSession{ID: "u1", Name: "Ana María"}))
	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, &domain.UserSession{ID: "u1", Name: "Ana María"}, got)

	require.NoError(t, repo.Clear(ctx))
	_, err = repo.Get(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "x")
	require.Error(t, err)
}

func TestRebind(t *testing.T) {
	require.Equal(t, "a = $1 AND b = $2", rebind(DriverPostgres, "a = ? AND b = ?"))
	require.Equal(t, "a = ?", rebind(DriverSQLite, "a = ?"))
}
