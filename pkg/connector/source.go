// pkg/connector/source.go
package connector

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/warebridge/hcat-ingress/pkg/coerce"
)

// SQLSource streams the rows of a query as source records. Rows are read
// lazily; the query runs on the first call to Next.
type SQLSource struct {
	db     *sqlx.DB
	query  string
	logger *zap.Logger

	keyColumn   string
	decimalCols map[string]bool
	dateCols    map[string]bool

	rows  *sqlx.Rows
	count int64
}

// NewSQLSource creates a source over the given query.
func NewSQLSource(db *sqlx.DB, query string, logger *zap.Logger) *SQLSource {
	return &SQLSource{
		db:          db,
		query:       query,
		logger:      logger,
		decimalCols: make(map[string]bool),
		dateCols:    make(map[string]bool),
	}
}

// WithKeyColumn names the column whose value keys each record. Without it,
// records are keyed by their ordinal position.
func (s *SQLSource) WithKeyColumn(name string) *SQLSource {
	s.keyColumn = strings.ToLower(name)
	return s
}

// WithDecimalColumns marks columns whose driver values should be parsed as
// arbitrary-precision decimals rather than text.
func (s *SQLSource) WithDecimalColumns(names ...string) *SQLSource {
	for _, n := range names {
		s.decimalCols[strings.ToLower(n)] = true
	}
	return s
}

// WithDateColumns marks columns whose driver values carry calendar dates
// rather than timestamps.
func (s *SQLSource) WithDateColumns(names ...string) *SQLSource {
	for _, n := range names {
		s.dateCols[strings.ToLower(n)] = true
	}
	return s
}

// Next returns the next keyed record, or io.EOF when the query is
// exhausted.
func (s *SQLSource) Next(ctx context.Context) (string, map[string]coerce.Value, error) {
	if s.rows == nil {
		rows, err := s.db.QueryxContext(ctx, s.query)
		if err != nil {
			return "", nil, fmt.Errorf("source query failed: %w", err)
		}
		s.rows = rows
	}

	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return "", nil, fmt.Errorf("source iteration failed: %w", err)
		}
		return "", nil, io.EOF
	}

	row := map[string]interface{}{}
	if err := s.rows.MapScan(row); err != nil {
		return "", nil, fmt.Errorf("scanning source row: %w", err)
	}

	rec := make(map[string]coerce.Value, len(row))
	key := ""
	for name, raw := range row {
		v, err := s.sourceValue(name, raw)
		if err != nil {
			return "", nil, fmt.Errorf("column %s: %w", name, err)
		}
		rec[name] = v
		if s.keyColumn != "" && strings.ToLower(name) == s.keyColumn {
			key = fmt.Sprintf("%v", raw)
		}
	}

	if key == "" {
		key = strconv.FormatInt(s.count, 10)
	}
	s.count++
	return key, rec, nil
}

// sourceValue maps database/sql driver output onto the closed source kinds.
func (s *SQLSource) sourceValue(column string, raw interface{}) (coerce.Value, error) {
	col := strings.ToLower(column)

	switch v := raw.(type) {
	case nil:
		return nil, nil
	case int64:
		return coerce.Int(v), nil
	case int32:
		return coerce.Int(int64(v)), nil
	case int:
		return coerce.Int(int64(v)), nil
	case float64:
		return coerce.Float(v), nil
	case float32:
		return coerce.Float(float64(v)), nil
	case bool:
		return coerce.Bool(v), nil
	case string:
		if s.decimalCols[col] {
			return coerce.NewDecimal(v)
		}
		return coerce.Text(v), nil
	case time.Time:
		if s.dateCols[col] {
			return coerce.Date(v), nil
		}
		return coerce.Timestamp(v), nil
	case []byte:
		// Drivers hand back NUMERIC and TEXT columns as raw bytes; the
		// column tags decide which ones carry decimals.
		if s.decimalCols[col] {
			return coerce.NewDecimal(string(v))
		}
		buf := make([]byte, len(v))
		copy(buf, v)
		return coerce.Bytes(buf), nil
	default:
		return nil, fmt.Errorf("unsupported driver value of type %T", raw)
	}
}

// Close releases the underlying row cursor.
func (s *SQLSource) Close() error {
	if s.rows == nil {
		return nil
	}
	s.logger.Debug("Closing source", zap.Int64("records", s.count))
	return s.rows.Close()
}
