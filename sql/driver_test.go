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

// testDriver is a simple driver that returns a fixed connection.
type testDriver struct {
	conn    driver.Conn
	openErr error
}

func (d *testDriver) Open(_ string) (driver.Conn, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	return d.conn, nil
}

func TestWrapDriver(t *testing.T) {
	type args struct {
		opts []Option
	}

	tests := []struct {
		name string
		args args
	}{
		{
			name: "given driver with options, then returns wrapped driver",
			args: args{opts: []Option{WithDBSystem("postgresql")}},
		},
		{
			name: "given driver without options, then returns wrapped driver",
			args: args{opts: nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockConn := mocks.NewDriverConn(t)
			mockDrv := &testDriver{conn: mockConn}

			wrapped := WrapDriver(mockDrv, tt.args.opts...)

			require.NotNil(t, wrapped)
			assert.Implements(t, (*driver.Driver)(nil), wrapped)
		})
	}
}

func TestWrapConn(t *testing.T) {
	t.Run("given raw conn, then returns wrapped conn", func(t *testing.T) {
		mockConn := mocks.NewDriverConn(t)

		wrapped := WrapConn(mockConn, WithDBSystem("postgresql"))

		require.NotNil(t, wrapped)
		assert.IsType(t, &traceConn{}, wrapped)
	})
}

func TestTraceDriver_Open(t *testing.T) {
	type args struct {
		dsn     string
		openErr error
	}

	tests := []struct {
		name    string
		args    args
		wantErr assert.ErrorAssertionFunc
	}{
		{
			name:    "given successful open, then returns wrapped connection",
			args:    args{dsn: "test-dsn"},
			wantErr: assert.NoError,
		},
		{
			name:    "given error on open, then returns error",
			args:    args{dsn: "test-dsn", openErr: assert.AnError},
			wantErr: assert.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mockConn *mocks.DriverConn
			if tt.args.openErr == nil {
				mockConn = mocks.NewDriverConn(t)
			}
			mockDrv := &testDriver{conn: mockConn, openErr: tt.args.openErr}

			cfg, exporter := newTestConfig(t, WithDBSystem("postgresql"))
			drv := &traceDriver{driver: mockDrv, cfg: cfg}

			conn, err := drv.Open(tt.args.dsn)

			tt.wantErr(t, err)

			// Opening a connection is itself a tracked roundtrip.
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, methodDriverOpen, spans[0].Name)

			if err == nil {
				require.NotNil(t, conn)
				assert.IsType(t, &traceConn{}, conn)
			} else {
				assert.Same(t, tt.args.openErr, err)
			}
		})
	}
}

func TestTraceDriver_OpenConnector(t *testing.T) {
	t.Run("given driver without DriverContext, then returns dsnConnector", func(t *testing.T) {
		mockConn := mocks.NewDriverConn(t)
		mockDrv := &testDriver{conn: mockConn}
		cfg := newConfig(WithDBSystem("postgresql"))
		drv := &traceDriver{driver: mockDrv, cfg: cfg}

		connector, err := drv.OpenConnector("test-dsn")

		require.NoError(t, err)
		require.NotNil(t, connector)
		assert.IsType(t, &dsnConnector{}, connector)
	})
}

func TestTraceConnector_Connect(t *testing.T) {
	t.Run("given connector, then connect is tracked and conn wrapped", func(t *testing.T) {
		mockConn := mocks.NewDriverConn(t)
		mockConnector := mocks.NewDriverConnector(t)
		mockConnector.EXPECT().Connect(mock.Anything).Return(mockConn, nil)

		cfg, exporter := newTestConfig(t)
		connector := &traceConnector{
			connector: mockConnector,
			driver:    &traceDriver{cfg: cfg},
			cfg:       cfg,
		}

		conn, err := connector.Connect(context.Background())

		require.NoError(t, err)
		assert.IsType(t, &traceConn{}, conn)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, methodConnectorConnect, spans[0].Name)
	})
}

func TestDsnConnector_Connect(t *testing.T) {
	type args struct {
		dsn     string
		openErr error
	}

	tests := []struct {
		name    string
		args    args
		wantErr assert.ErrorAssertionFunc
	}{
		{
			name:    "given valid dsn, then returns wrapped connection",
			args:    args{dsn: "test-dsn"},
			wantErr: assert.NoError,
		},
		{
			name:    "given error on connect, then returns error",
			args:    args{dsn: "test-dsn", openErr: assert.AnError},
			wantErr: assert.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mockConn *mocks.DriverConn
			if tt.args.openErr == nil {
				mockConn = mocks.NewDriverConn(t)
			}
			mockDrv := &testDriver{conn: mockConn, openErr: tt.args.openErr}
			cfg, _ := newTestConfig(t)

			connector := &dsnConnector{
				dsn:    tt.args.dsn,
				driver: &traceDriver{driver: mockDrv, cfg: cfg},
			}

			conn, err := connector.Connect(context.Background())

			tt.wantErr(t, err)
			if err == nil {
				assert.IsType(t, &traceConn{}, conn)
			}
			assert.Equal(t, connector.driver, connector.Driver())
		})
	}
}
