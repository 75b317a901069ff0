package sqlx

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type user struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}

// newTestDB wraps a fresh sqlmock database and an in-memory span exporter.
// The postgres driver name gives sqlx a concrete bindvar style for named
// queries.
func newTestDB(t *testing.T, opts ...Option) (*DB, sqlmock.Sqlmock, *tracetest.InMemoryExporter) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	opts = append([]Option{WithTracerProvider(tp)}, opts...)
	return NewDB(mockDB, "postgres", opts...), mock, exporter
}

func spanNamed(t *testing.T, exporter *tracetest.InMemoryExporter, name string) tracetest.SpanStub {
	t.Helper()
	for _, span := range exporter.GetSpans() {
		if span.Name == name {
			return span
		}
	}
	t.Fatalf("no span named %q exported", name)
	return tracetest.SpanStub{}
}

func attrValue(t *testing.T, span tracetest.SpanStub, key string) (string, bool) {
	t.Helper()
	for _, kv := range span.Attributes {
		if string(kv.Key) == key {
			return kv.Value.AsString(), true
		}
	}
	return "", false
}

func TestNewDB(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want *config
	}{
		{
			name: "given identity options, then config reflects them",
			opts: []Option{
				WithDBSystem("postgresql"),
				WithDBName("testdb"),
				WithInstanceName("primary"),
			},
			want: &config{
				DBSystem:     "postgresql",
				DBName:       "testdb",
				InstanceName: "primary",
			},
		},
		{
			name: "given no options, then defaults used",
			opts: nil,
			want: &config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, _, err := sqlmock.New()
			require.NoError(t, err)
			defer mockDB.Close()

			db := NewDB(mockDB, "postgres", tt.opts...)
			require.NotNil(t, db)
			require.NotNil(t, db.cfg)

			assert.Equal(t, tt.want.DBSystem, db.cfg.DBSystem)
			assert.Equal(t, tt.want.DBName, db.cfg.DBName)
			assert.Equal(t, tt.want.InstanceName, db.cfg.InstanceName)
		})
	}
}

func TestOpen(t *testing.T) {
	t.Run("given an unregistered driver, then an error is returned", func(t *testing.T) {
		db, err := Open("no_such_driver", "dsn")
		require.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDB_GetContext(t *testing.T) {
	const query = "SELECT id, name FROM users WHERE id = $1"

	t.Run("given a matching row, then dest is filled and a span recorded", func(t *testing.T) {
		db, mock, exporter := newTestDB(t, WithDBSystem("postgresql"))

		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "alice"))

		var got user
		err := db.GetContext(context.Background(), &got, query, 1)
		require.NoError(t, err)
		assert.Equal(t, user{ID: 1, Name: "alice"}, got)
		require.NoError(t, mock.ExpectationsWereMet())

		span := spanNamed(t, exporter, methodGet)
		op, ok := attrValue(t, span, attrDBOperation)
		require.True(t, ok)
		assert.Equal(t, "SELECT", op)
		system, ok := attrValue(t, span, attrDBSystem)
		require.True(t, ok)
		assert.Equal(t, "postgresql", system)
		assert.Empty(t, span.Events)
	})

	t.Run("given no matching row, then ErrNoRows returned but not recorded", func(t *testing.T) {
		db, mock, exporter := newTestDB(t)

		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

		var got user
		err := db.GetContext(context.Background(), &got, query, 99)
		require.ErrorIs(t, err, sql.ErrNoRows)

		span := spanNamed(t, exporter, methodGet)
		assert.Empty(t, span.Events)
	})

	t.Run("given a database error, then it is returned verbatim and recorded", func(t *testing.T) {
		db, mock, exporter := newTestDB(t)

		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs(1).
			WillReturnError(assert.AnError)

		var got user
		err := db.GetContext(context.Background(), &got, query, 1)
		require.ErrorIs(t, err, assert.AnError)

		span := spanNamed(t, exporter, methodGet)
		require.Len(t, span.Events, 1)
		assert.Equal(t, "exception", span.Events[0].Name)
	})
}

func TestDB_SelectContext(t *testing.T) {
	const query = "SELECT id, name FROM users"

	db, mock, exporter := newTestDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "alice").
			AddRow(2, "bob"))

	var got []user
	err := db.SelectContext(context.Background(), &got, query)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	require.NoError(t, mock.ExpectationsWereMet())

	spanNamed(t, exporter, methodSelect)
}

func TestDB_NamedExecContext(t *testing.T) {
	db, mock, exporter := newTestDB(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (id, name) VALUES ($1, $2)")).
		WithArgs(3, "carol").
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := db.NamedExecContext(context.Background(),
		"INSERT INTO users (id, name) VALUES (:id, :name)",
		user{ID: 3, Name: "carol"})
	require.NoError(t, err)

	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	require.NoError(t, mock.ExpectationsWereMet())

	span := spanNamed(t, exporter, methodNamedExec)
	op, ok := attrValue(t, span, attrDBOperation)
	require.True(t, ok)
	assert.Equal(t, "INSERT", op)
}

func TestDB_ExecContext(t *testing.T) {
	t.Run("given query annotation, then statement attached to span", func(t *testing.T) {
		const query = "UPDATE users SET name = 'dave' WHERE id = 4"

		db, mock, exporter := newTestDB(t,
			WithQueryAnnotation(),
			WithQuerySanitizer(DefaultQuerySanitizer))

		mock.ExpectExec("UPDATE users SET").WillReturnResult(sqlmock.NewResult(0, 1))

		_, err := db.ExecContext(context.Background(), query)
		require.NoError(t, err)

		span := spanNamed(t, exporter, methodExec)
		stmt, ok := attrValue(t, span, attrDBStatement)
		require.True(t, ok)
		assert.Equal(t, "UPDATE users SET name = '?' WHERE id = ?", stmt)
	})

	t.Run("given no annotation option, then statement omitted", func(t *testing.T) {
		db, mock, exporter := newTestDB(t)

		mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 1))

		_, err := db.ExecContext(context.Background(), "DELETE FROM users WHERE id = 5")
		require.NoError(t, err)

		span := spanNamed(t, exporter, methodExec)
		_, ok := attrValue(t, span, attrDBStatement)
		assert.False(t, ok)
	})
}

func TestDB_QueryxContext(t *testing.T) {
	db, mock, exporter := newTestDB(t)

	mock.ExpectQuery("SELECT id, name FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "alice"))

	rows, err := db.QueryxContext(context.Background(), "SELECT id, name FROM users")
	require.NoError(t, err)

	var got user
	require.True(t, rows.Next())
	require.NoError(t, rows.StructScan(&got))
	require.NoError(t, rows.Close())

	assert.Equal(t, "alice", got.Name)
	spanNamed(t, exporter, methodQuery)
}

func TestDB_PingContext(t *testing.T) {
	db, _, exporter := newTestDB(t)

	require.NoError(t, db.PingContext(context.Background()))

	span := spanNamed(t, exporter, methodPing)
	_, ok := attrValue(t, span, attrDBOperation)
	assert.False(t, ok)
}

func TestDB_Unsafe(t *testing.T) {
	db, _, _ := newTestDB(t, WithDBName("testdb"))

	unsafe := db.Unsafe()
	require.NotNil(t, unsafe)
	assert.Same(t, db.cfg, unsafe.cfg)
}
