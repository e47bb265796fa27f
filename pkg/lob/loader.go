// pkg/lob/loader.go
package lob

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/warebridge/hcat-ingress/pkg/coerce"
)

// Loader materializes external large-object references from the job's
// object directory before records reach the converter. Payloads above the
// inline threshold are left external; their reference text then stands in
// for the content downstream.
type Loader struct {
	dir       string
	inlineMax int64 // 0 means materialize everything
	logger    *zap.Logger
}

// NewLoader creates a loader rooted at the given object directory.
func NewLoader(dir string, inlineMax int64, logger *zap.Logger) *Loader {
	return &Loader{
		dir:       dir,
		inlineMax: inlineMax,
		logger:    logger,
	}
}

// Resolve replaces external blob and clob values whose payloads fit the
// inline threshold with materialized content. The record is modified in
// place. Storage failures surface as wrapped I/O errors.
func (l *Loader) Resolve(rec map[string]coerce.Value) error {
	for name, v := range rec {
		switch lv := v.(type) {
		case coerce.Blob:
			if !lv.External() {
				continue
			}
			data, ok, err := l.read(lv.Ref)
			if err != nil {
				return fmt.Errorf("resolving blob field %s: %w", name, err)
			}
			if ok {
				rec[name] = coerce.Blob{Data: data}
			}
		case coerce.Clob:
			if !lv.External() {
				continue
			}
			data, ok, err := l.read(lv.Ref)
			if err != nil {
				return fmt.Errorf("resolving clob field %s: %w", name, err)
			}
			if ok {
				rec[name] = coerce.Clob{Data: string(data)}
			}
		}
	}
	return nil
}

// read loads a reference's payload, or reports ok=false when the payload
// exceeds the inline threshold and should stay external.
func (l *Loader) read(ref string) ([]byte, bool, error) {
	path := filepath.Join(l.dir, ref)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false, err
	}

	if l.inlineMax > 0 && info.Size() > l.inlineMax {
		l.logger.Debug("Leaving large object external",
			zap.String("ref", ref),
			zap.Int64("size", info.Size()),
			zap.Int64("inlineMax", l.inlineMax))
		return nil, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Close releases the loader. File-backed loading holds no open handles
// between records, so this is currently a no-op kept for lifecycle
// symmetry with the pipeline's other collaborators.
func (l *Loader) Close() error {
	return nil
}
