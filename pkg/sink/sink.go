// pkg/sink/sink.go
package sink

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// RecordSink consumes converted records, keyed by their source key.
type RecordSink interface {
	Write(key string, rec map[string]interface{}) error
	Close() error
}

// JSONLSink writes one JSON object per record to an underlying writer.
// Byte-valued fields are base64-encoded by the JSON encoder.
type JSONLSink struct {
	buf     *bufio.Writer
	closer  io.Closer
	enc     *json.Encoder
	logger  *zap.Logger
	written int64
}

type jsonlLine struct {
	Key    string                 `json:"key"`
	Record map[string]interface{} `json:"record"`
}

// NewJSONLSink creates a sink over the given writer. The writer is closed
// with the sink if it implements io.Closer.
func NewJSONLSink(w io.Writer, logger *zap.Logger) *JSONLSink {
	buf := bufio.NewWriter(w)
	s := &JSONLSink{
		buf:    buf,
		enc:    json.NewEncoder(buf),
		logger: logger,
	}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Write emits one record as a JSON line.
func (s *JSONLSink) Write(key string, rec map[string]interface{}) error {
	if err := s.enc.Encode(jsonlLine{Key: key, Record: rec}); err != nil {
		return fmt.Errorf("encoding record %s: %w", key, err)
	}
	s.written++
	return nil
}

// Written returns the number of records emitted so far.
func (s *JSONLSink) Written() int64 {
	return s.written
}

// Close flushes buffered output and closes the underlying writer.
func (s *JSONLSink) Close() error {
	if err := s.buf.Flush(); err != nil {
		return fmt.Errorf("flushing sink: %w", err)
	}
	s.logger.Debug("Sink closed", zap.Int64("records", s.written))
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
