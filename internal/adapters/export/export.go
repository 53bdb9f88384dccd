// Package export writes reports in the JSON layout downstream tooling reads.
package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"review_demand/internal/domain"
)

//go:embed report.schema.json
var schemaJSON []byte

var ErrInvalidReport = errors.New("report does not match schema")

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiled() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return schema, schemaErr
}

// Encode writes rep as 2-space indented JSON. Non-ASCII text is written as is.
func Encode(w io.Writer, rep domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// Validate checks doc against the report schema.
func Validate(doc []byte) error {
	s, err := compiled()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !res.Valid() {
		errs := make([]string, len(res.Errors()))
		for i, desc := range res.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrInvalidReport, strings.Join(errs, "; "))
	}
	return nil
}

// WriteFile encodes and validates rep, then writes it to path, creating parent
// directories.
func WriteFile(path string, rep domain.Report) error {
	var buf bytes.Buffer
	if err := Encode(&buf, rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := Validate(buf.Bytes()); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
