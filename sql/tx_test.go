package sql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/dbtrace-go/sql/mocks"
)

func TestTraceTx_Commit(t *testing.T) {
	type args struct {
		commitErr error
	}

	tests := []struct {
		name    string
		args    args
		wantErr assert.ErrorAssertionFunc
	}{
		{
			name:    "given successful commit, then one span and no error",
			args:    args{},
			wantErr: assert.NoError,
		},
		{
			name:    "given commit error, then error returned unchanged",
			args:    args{commitErr: assert.AnError},
			wantErr: assert.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTx := mocks.NewDriverTx(t)
			mockTx.EXPECT().Commit().Return(tt.args.commitErr)

			cfg, exporter := newTestConfig(t)
			tx := newTraceTx(mockTx, cfg, testConnID(), context.Background())

			err := tx.Commit()

			tt.wantErr(t, err)
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, methodTxCommit, spans[0].Name)

			if tt.args.commitErr != nil {
				assert.Same(t, tt.args.commitErr, err)
			}
		})
	}
}

func TestTraceTx_Rollback(t *testing.T) {
	t.Run("given rollback, then one span named for rollback", func(t *testing.T) {
		mockTx := mocks.NewDriverTx(t)
		mockTx.EXPECT().Rollback().Return(nil)

		cfg, exporter := newTestConfig(t)
		tx := newTraceTx(mockTx, cfg, testConnID(), context.Background())

		err := tx.Rollback()

		require.NoError(t, err)
		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, methodTxRollback, spans[0].Name)
	})
}
