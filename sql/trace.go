package sql

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"
)

// Span attribute keys, following the OpenTelemetry database semantic
// conventions where one exists.
const (
	attrDBSystem      = "db.system"
	attrDBName        = "db.name"
	attrDBInstance    = "db.instance"
	attrDBStatement   = "db.statement"
	attrDBOperation   = "db.operation"
	attrStatementArgs = "db.statement.args"
	attrConnectionID  = "db.connection.id"
)

// Regex patterns for query sanitization.
var (
	// stringLiteralRegex matches single-quoted strings, handling escaped quotes.
	stringLiteralRegex = regexp.MustCompile(`'(?:[^'\\]|\\.)*'`)

	// numericLiteralRegex matches integer and float literals.
	numericLiteralRegex = regexp.MustCompile(`\b\d+\.?\d*\b`)

	// hexLiteralRegex matches hex literals such as 0xDEADBEEF.
	hexLiteralRegex = regexp.MustCompile(`0[xX][0-9a-fA-F]+`)
)

// baseAttributes returns the attributes shared by every span and metric
// sample produced under this config.
func (cfg *config) baseAttributes() []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if cfg.DBSystem != "" {
		attrs = append(attrs, attribute.String(attrDBSystem, cfg.DBSystem))
	}
	if cfg.DBName != "" {
		attrs = append(attrs, attribute.String(attrDBName, cfg.DBName))
	}
	if cfg.InstanceName != "" {
		attrs = append(attrs, attribute.String(attrDBInstance, cfg.InstanceName))
	}
	return attrs
}

// operationAttributes returns the start attributes for one tracked operation.
// The query text is attached only when annotation is enabled, after passing
// through the configured sanitizer.
func (cfg *config) operationAttributes(name, query string) []attribute.KeyValue {
	attrs := cfg.baseAttributes()

	if cfg.AnnotateQuery && query != "" {
		sanitized := query
		if cfg.QuerySanitizer != nil {
			sanitized = cfg.QuerySanitizer(query)
		}
		attrs = append(attrs, attribute.String(attrDBStatement, sanitized))
	}

	if op := extractOperation(query); op != "" {
		attrs = append(attrs, attribute.String(attrDBOperation, op))
	}

	return attrs
}

// argsAttribute serializes bind arguments for span annotation.
// Returns false when arg recording is disabled or there is nothing to record.
func (cfg *config) argsAttribute(args []driver.NamedValue) (attribute.KeyValue, bool) {
	if !cfg.RecordArgs || len(args) == 0 {
		return attribute.KeyValue{}, false
	}

	values := make([]any, len(args))
	for i, a := range args {
		values[i] = a.Value
	}

	encoded, err := json.Marshal(values)
	if err != nil {
		// Driver values are not guaranteed to be JSON-encodable.
		return attribute.String(attrStatementArgs, fmt.Sprintf("%v", values)), true
	}
	return attribute.String(attrStatementArgs, string(encoded)), true
}

// extractOperation extracts the SQL operation (first word) from a query.
// Returns the uppercase operation name or the empty string for an empty
// query. Used for the db.operation attribute and metric labels.
//
// Example:
//
//	extractOperation("SELECT * FROM users") // returns "SELECT"
//	extractOperation("insert into users")   // returns "INSERT"
//	extractOperation("")                    // returns ""
func extractOperation(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}

	spaceIdx := strings.IndexAny(query, " \t\n\r")
	if spaceIdx == -1 {
		return strings.ToUpper(query)
	}

	return strings.ToUpper(query[:spaceIdx])
}

// DefaultQuerySanitizer is a basic query sanitizer that replaces literal
// values with placeholders so sensitive data does not end up in traces.
//
// What it sanitizes:
//   - String literals: 'john' → '?'
//   - Numeric literals: 123, 45.67 → ?
//   - Hex literals: 0xDEADBEEF → ?
//
// Example:
//
//	DefaultQuerySanitizer("SELECT * FROM users WHERE id = 123")
//	// returns "SELECT * FROM users WHERE id = ?"
//
// This is a regex-based implementation; for complex dialects consider a
// proper SQL parser.
func DefaultQuerySanitizer(query string) string {
	query = stringLiteralRegex.ReplaceAllString(query, "'?'")
	query = numericLiteralRegex.ReplaceAllString(query, "?")
	query = hexLiteralRegex.ReplaceAllString(query, "?")
	return query
}
