package sql

import (
	"context"
	"database/sql/driver"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/dbtrace-go/sql/mocks"
)

func TestNewTraceConn(t *testing.T) {
	t.Run("given conn and config, then creates wrapped connection with id", func(t *testing.T) {
		mockConn := mocks.NewDriverConn(t)
		cfg := newConfig(WithDBSystem("postgresql"))

		conn := newTraceConn(mockConn, cfg)

		require.NotNil(t, conn)
		assert.Equal(t, mockConn, conn.conn)
		assert.Equal(t, cfg, conn.cfg)
		assert.Equal(t, attrConnectionID, string(conn.connID.Key))
		assert.NotEmpty(t, conn.connID.Value.AsString())
	})
}

func TestTraceConn_PrepareContext(t *testing.T) {
	type args struct {
		query      string
		prepareErr error
	}

	tests := []struct {
		name    string
		args    args
		wantErr assert.ErrorAssertionFunc
	}{
		{
			name:    "given successful prepare, then returns wrapped statement",
			args:    args{query: "SELECT * FROM users WHERE id = ?"},
			wantErr: assert.NoError,
		},
		{
			name:    "given prepare error, then returns error",
			args:    args{query: "SELECT * FROM users WHERE id = ?", prepareErr: assert.AnError},
			wantErr: assert.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockConn := mocks.NewDriverConn(t)
			var mockStmt *mocks.DriverStmt
			if tt.args.prepareErr == nil {
				mockStmt = mocks.NewDriverStmt(t)
				mockConn.EXPECT().
					PrepareContext(mock.Anything, tt.args.query).
					Return(mockStmt, nil)
			} else {
				mockConn.EXPECT().
					PrepareContext(mock.Anything, tt.args.query).
					Return(nil, tt.args.prepareErr)
			}

			cfg, exporter := newTestConfig(t)
			conn := newTraceConn(mockConn, cfg)

			stmt, err := conn.PrepareContext(context.Background(), tt.args.query)

			tt.wantErr(t, err)
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, methodConnPrepare, spans[0].Name)

			if err == nil {
				require.IsType(t, &traceStmt{}, stmt)
				assert.Equal(t, tt.args.query, stmt.(*traceStmt).query)
			} else {
				assert.Same(t, tt.args.prepareErr, err)
				assert.Nil(t, stmt)
			}
		})
	}
}

func TestTraceConn_ExecContext(t *testing.T) {
	type args struct {
		query   string
		execErr error
	}

	tests := []struct {
		name    string
		args    args
		wantErr assert.ErrorAssertionFunc
	}{
		{
			name:    "given successful exec, then returns result and one span",
			args:    args{query: "DELETE FROM t"},
			wantErr: assert.NoError,
		},
		{
			name:    "given exec error, then records it and returns it unchanged",
			args:    args{query: "DELETE FROM t", execErr: assert.AnError},
			wantErr: assert.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockConn := mocks.NewDriverConn(t)
			var mockResult *mocks.DriverResult
			if tt.args.execErr == nil {
				mockResult = mocks.NewDriverResult(t)
				mockConn.EXPECT().
					ExecContext(mock.Anything, tt.args.query, mock.Anything).
					Return(mockResult, nil)
			} else {
				mockConn.EXPECT().
					ExecContext(mock.Anything, tt.args.query, mock.Anything).
					Return(nil, tt.args.execErr)
			}

			cfg, exporter := newTestConfig(t)
			conn := newTraceConn(mockConn, cfg)

			result, err := conn.ExecContext(context.Background(), tt.args.query, nil)

			tt.wantErr(t, err)
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, methodConnExec, spans[0].Name)

			if err == nil {
				assert.Equal(t, mockResult, result)
			} else {
				assert.Same(t, tt.args.execErr, err)
			}
		})
	}

	t.Run("given conn without ExecerContext, then returns ErrSkip and no span", func(t *testing.T) {
		cfg, exporter := newTestConfig(t)
		conn := newTraceConn(&basicConn{}, cfg)

		_, err := conn.ExecContext(context.Background(), "DELETE FROM t", nil)

		assert.Same(t, driver.ErrSkip, err)
		assert.Empty(t, exporter.GetSpans())
	})
}

func TestTraceConn_QueryContext(t *testing.T) {
	t.Run("given successful query, then returns wrapped rows", func(t *testing.T) {
		mockConn := mocks.NewDriverConn(t)
		mockRows := mocks.NewDriverRows(t)
		mockConn.EXPECT().
			QueryContext(mock.Anything, "SELECT * FROM users", mock.Anything).
			Return(mockRows, nil)

		cfg, exporter := newTestConfig(t)
		conn := newTraceConn(mockConn, cfg)

		rows, err := conn.QueryContext(context.Background(), "SELECT * FROM users", nil)

		require.NoError(t, err)
		require.IsType(t, &traceRows{}, rows)
		assert.Equal(t, driver.Rows(mockRows), rows.(*traceRows).rows)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, methodConnQuery, spans[0].Name)

		op, present := attrValue(t, spans[0], attrDBOperation)
		require.True(t, present)
		assert.Equal(t, "SELECT", op)
	})

	t.Run("given query error, then returns error unwrapped", func(t *testing.T) {
		mockConn := mocks.NewDriverConn(t)
		mockConn.EXPECT().
			QueryContext(mock.Anything, "SELECT 1", mock.Anything).
			Return(nil, assert.AnError)

		cfg, exporter := newTestConfig(t)
		conn := newTraceConn(mockConn, cfg)

		rows, err := conn.QueryContext(context.Background(), "SELECT 1", nil)

		assert.Same(t, assert.AnError, err)
		assert.Nil(t, rows)
		assert.Len(t, exporter.GetSpans(), 1)
	})

	t.Run("given conn without QueryerContext, then returns ErrSkip and no span", func(t *testing.T) {
		cfg, exporter := newTestConfig(t)
		conn := newTraceConn(&basicConn{}, cfg)

		_, err := conn.QueryContext(context.Background(), "SELECT 1", nil)

		assert.Same(t, driver.ErrSkip, err)
		assert.Empty(t, exporter.GetSpans())
	})
}

func TestTraceConn_BeginTx(t *testing.T) {
	t.Run("given successful begin, then returns wrapped tx", func(t *testing.T) {
		mockConn := mocks.NewDriverConn(t)
		mockTx := mocks.NewDriverTx(t)
		mockConn.EXPECT().
			BeginTx(mock.Anything, driver.TxOptions{}).
			Return(mockTx, nil)

		cfg, exporter := newTestConfig(t)
		conn := newTraceConn(mockConn, cfg)

		tx, err := conn.BeginTx(context.Background(), driver.TxOptions{})

		require.NoError(t, err)
		require.IsType(t, &traceTx{}, tx)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, methodConnBeginTx, spans[0].Name)
	})

	t.Run("given begin error, then returns error and one span", func(t *testing.T) {
		mockConn := mocks.NewDriverConn(t)
		mockConn.EXPECT().
			BeginTx(mock.Anything, driver.TxOptions{}).
			Return(nil, assert.AnError)

		cfg, exporter := newTestConfig(t)
		conn := newTraceConn(mockConn, cfg)

		tx, err := conn.BeginTx(context.Background(), driver.TxOptions{})

		assert.Same(t, assert.AnError, err)
		assert.Nil(t, tx)
		assert.Len(t, exporter.GetSpans(), 1)
	})
}

func TestTraceConn_Close(t *testing.T) {
	t.Run("given close, then delegate is closed under a tracked operation", func(t *testing.T) {
		mockConn := mocks.NewDriverConn(t)
		mockConn.EXPECT().Close().Return(nil)

		cfg, exporter := newTestConfig(t)
		conn := newTraceConn(mockConn, cfg)

		err := conn.Close()

		require.NoError(t, err)
		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, methodConnClose, spans[0].Name)
	})
}

func TestTraceConn_Ping(t *testing.T) {
	t.Run("given pinger delegate, then ping is tracked", func(t *testing.T) {
		mockConn := mocks.NewDriverConn(t)
		mockConn.EXPECT().Ping(mock.Anything).Return(nil)

		cfg, exporter := newTestConfig(t)
		conn := newTraceConn(mockConn, cfg)

		err := conn.Ping(context.Background())

		require.NoError(t, err)
		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, methodConnPing, spans[0].Name)
	})
}

func TestTraceConn_PassThrough(t *testing.T) {
	t.Run("given non-resetter conn, then ResetSession is a no-op without span", func(t *testing.T) {
		cfg, exporter := newTestConfig(t)
		conn := newTraceConn(&basicConn{}, cfg)

		assert.NoError(t, conn.ResetSession(context.Background()))
		assert.True(t, conn.IsValid())
		assert.Empty(t, exporter.GetSpans())
	})
}

// basicConn implements only driver.Conn, for exercising capability
// fallbacks.
type basicConn struct{}

func (*basicConn) Prepare(string) (driver.Stmt, error) { return nil, assert.AnError }
func (*basicConn) Close() error                        { return nil }
func (*basicConn) Begin() (driver.Tx, error)           { return nil, assert.AnError }
