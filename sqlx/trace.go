package sqlx

import (
	"regexp"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// Span attribute keys, following OpenTelemetry semantic conventions for
// database clients.
const (
	attrDBSystem    = "db.system"
	attrDBName      = "db.name"
	attrDBInstance  = "db.instance"
	attrDBStatement = "db.statement"
	attrDBOperation = "db.operation"
)

// Pre-compiled literal patterns used by DefaultQuerySanitizer.
var (
	stringLiteralRegex  = regexp.MustCompile(`'(?:[^'\\]|\\.)*'`)
	numericLiteralRegex = regexp.MustCompile(`\b\d+\.?\d*\b`)
	hexLiteralRegex     = regexp.MustCompile(`0[xX][0-9a-fA-F]+`)
)

// baseAttributes returns the identity attributes shared by all spans and
// metric samples from this database handle.
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

// operationAttributes returns the attributes for one operation span.
// The SQL text is attached only when annotation is enabled and a sanitizer,
// if configured, has been applied.
func (cfg *config) operationAttributes(query string) []attribute.KeyValue {
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

// extractOperation extracts the SQL verb (first word) from a query.
// Returns the uppercase verb or an empty string for an empty query.
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

// DefaultQuerySanitizer replaces literal values in SQL text with placeholders
// so sensitive data does not end up in traces.
//
// What it sanitizes:
//   - String literals: 'john' → '?'
//   - Numeric literals: 123, 45.67 → ?
//   - Hex literals: 0xDEADBEEF → ?
func DefaultQuerySanitizer(query string) string {
	query = stringLiteralRegex.ReplaceAllString(query, "'?'")
	query = numericLiteralRegex.ReplaceAllString(query, "?")
	query = hexLiteralRegex.ReplaceAllString(query, "?")
	return query
}
