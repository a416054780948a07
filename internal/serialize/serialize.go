// Package serialize shapes request bodies and response fields shared by
// every resource.
package serialize

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin/binding"
	"github.com/samber/lo"
)

var ErrInvalidBody = errors.New("invalid request body")

// Options controls how a request body is read. Read-only fields may appear in
// the body but are dropped before decoding.
type Options struct {
	ReadOnlyFields []string
}

func ReadOnly(fields ...string) Options {
	return Options{ReadOnlyFields: fields}
}

func (o Options) IsReadOnly(field string) bool {
	return lo.Contains(o.ReadOnlyFields, field)
}

// Bind decodes a JSON object from body into dst, validates it with gin's
// `binding` tags and returns the read-only fields that were present and ignored.
// dst may declare read-only fields; they keep their zero value.
func Bind(body io.Reader, dst any, opts Options) ([]string, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			raw = map[string]json.RawMessage{}
		} else {
			return nil, fmt.Errorf("%w: expected a JSON object: %w", ErrInvalidBody, err)
		}
	}

	var ignored []string
	for key := range raw {
		if opts.IsReadOnly(key) {
			ignored = append(ignored, key)
			delete(raw, key)
		}
	}

	filtered, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(filtered, dst); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	if binding.Validator != nil {
		if err := binding.Validator.ValidateStruct(dst); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
		}
	}
	slices.Sort(ignored)
	return ignored, nil
}

// NaturalTime renders t relative to now, e.g. "3 minutes ago".
func NaturalTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}
