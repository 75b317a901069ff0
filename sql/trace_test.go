package sql

import (
	"database/sql/driver"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractOperation(t *testing.T) {
	type args struct {
		query string
	}

	tests := []struct {
		name          string
		args          args
		wantOperation string
	}{
		{
			name:          "given SELECT query, then returns SELECT",
			args:          args{query: "SELECT * FROM users WHERE id = 1"},
			wantOperation: "SELECT",
		},
		{
			name:          "given lowercase insert, then returns uppercase INSERT",
			args:          args{query: "insert into users (name) values ('x')"},
			wantOperation: "INSERT",
		},
		{
			name:          "given query with leading whitespace, then returns operation",
			args:          args{query: "   DELETE FROM users"},
			wantOperation: "DELETE",
		},
		{
			name:          "given single word, then returns it uppercased",
			args:          args{query: "commit"},
			wantOperation: "COMMIT",
		},
		{
			name:          "given empty query, then returns empty string",
			args:          args{query: ""},
			wantOperation: "",
		},
		{
			name:          "given whitespace only, then returns empty string",
			args:          args{query: "   "},
			wantOperation: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractOperation(tt.args.query)
			assert.Equal(t, tt.wantOperation, got)
		})
	}
}

func TestDefaultQuerySanitizer(t *testing.T) {
	type args struct {
		query string
	}

	tests := []struct {
		name      string
		args      args
		wantQuery string
	}{
		{
			name:      "given numeric literal, then replaces with placeholder",
			args:      args{query: "SELECT * FROM users WHERE id = 123"},
			wantQuery: "SELECT * FROM users WHERE id = ?",
		},
		{
			name:      "given string literal, then replaces with quoted placeholder",
			args:      args{query: "SELECT * FROM users WHERE name = 'john'"},
			wantQuery: "SELECT * FROM users WHERE name = '?'",
		},
		{
			name:      "given hex literal, then replaces with placeholder",
			args:      args{query: "SELECT * FROM blobs WHERE tag = 0xDEADBEEF"},
			wantQuery: "SELECT * FROM blobs WHERE tag = ?",
		},
		{
			name:      "given float literal, then replaces with placeholder",
			args:      args{query: "SELECT * FROM orders WHERE total > 45.67"},
			wantQuery: "SELECT * FROM orders WHERE total > ?",
		},
		{
			name:      "given no literals, then query is unchanged",
			args:      args{query: "SELECT * FROM users"},
			wantQuery: "SELECT * FROM users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultQuerySanitizer(tt.args.query)
			assert.Equal(t, tt.wantQuery, got)
		})
	}
}

func TestArgsAttribute(t *testing.T) {
	t.Run("given arg recording disabled, then no attribute", func(t *testing.T) {
		cfg := newConfig()

		_, ok := cfg.argsAttribute([]driver.NamedValue{{Value: "x"}})

		assert.False(t, ok)
	})

	t.Run("given no args, then no attribute", func(t *testing.T) {
		cfg := newConfig(WithQueryArgs())

		_, ok := cfg.argsAttribute(nil)

		assert.False(t, ok)
	})

	t.Run("given arg recording enabled, then attribute is JSON-encoded values", func(t *testing.T) {
		cfg := newConfig(WithQueryArgs())

		attr, ok := cfg.argsAttribute([]driver.NamedValue{
			{Ordinal: 1, Value: "john"},
			{Ordinal: 2, Value: int64(42)},
		})

		require.True(t, ok)
		assert.Equal(t, attrStatementArgs, string(attr.Key))
		assert.JSONEq(t, `["john", 42]`, attr.Value.AsString())
	})
}
