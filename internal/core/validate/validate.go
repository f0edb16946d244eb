// Package validate collects parameter problems for tool requests.
//
// A Validator gathers every hard error and soft warning of a request in one
// pass, so the caller can report all of them at once instead of failing on
// the first. Errors wrap domain.ErrInvalidInput; warnings are advisories the
// caller passes on with the results.
package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

// Validator accumulates errors and warnings.
type Validator struct {
	errs     []error
	warnings []string
}

// New returns an empty validator.
func New() *Validator {
	return &Validator{}
}

// Errorf records a hard error.
func (v *Validator) Errorf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

// Warnf records a warning.
func (v *Validator) Warnf(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

// Err returns the recorded errors joined and wrapping domain.ErrInvalidInput,
// or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(v.errs...))
}

// Warnings returns the recorded warnings.
func (v *Validator) Warnings() []string {
	return v.warnings
}

// Required trims value and records an error when it is blank.
func (v *Validator) Required(field, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		v.Errorf("%s is required", field)
	}
	return value
}

// Page validates a 1-based page request. Zero values take defaults; an
// oversized page size is clamped with a warning. Pages starting beyond
// domain.MaxOffset are rejected.
func (v *Validator) Page(page, pageSize int) domain.PageRequest {
	if page < 0 {
		v.Errorf("page must be at least 1, got %d", page)
	}
	if pageSize < 0 {
		v.Errorf("page_size must be at least 1, got %d", pageSize)
	}
	if pageSize > domain.MaxPageSize {
		v.Warnf("page_size %d exceeds the maximum of %d; using %d", pageSize, domain.MaxPageSize, domain.MaxPageSize)
	}
	req := domain.PageRequest{Page: max(page, 0), PageSize: max(pageSize, 0)}.Normalise()
	if last := domain.LastPage(req.PageSize); page > last {
		v.Errorf("page %d is out of range; with page_size %d the last page is %d", page, req.PageSize, last)
	}
	return req
}

// List splits a comma-separated value, dropping blank entries.
func List(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// OneOf parses a comma-separated list whose entries must match, ignoring
// case, one of allowed. Matches are returned in their canonical spelling.
func OneOf[E ~string](v *Validator, field, raw string, allowed []E) []E {
	var out []E
	for _, entry := range List(raw) {
		found := false
		for _, a := range allowed {
			if strings.EqualFold(entry, string(a)) {
				out = append(out, a)
				found = true
				break
			}
		}
		if !found {
			v.Errorf("%s: invalid value %q, must be one of %s", field, entry, join(allowed))
		}
	}
	return out
}

// One parses a single value that must be one of allowed, or fallback
// when raw is blank.
func One[E ~string](v *Validator, field, raw string, allowed []E, fallback E) E {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	if strings.Contains(raw, ",") {
		v.Errorf("%s accepts a single value, got %q", field, raw)
		return fallback
	}
	if vals := OneOf(v, field, raw, allowed); len(vals) == 1 {
		return vals[0]
	}
	return fallback
}

// Severities parses a comma-separated severity list.
func (v *Validator) Severities(field, raw string) []domain.Severity {
	return OneOf(v, field, raw, domain.AllSeverities())
}

// Statuses parses a comma-separated vulnerability status list.
func (v *Validator) Statuses(field, raw string) []domain.VulnerabilityStatus {
	return OneOf(v, field, raw, domain.AllStatuses())
}

// Environments parses a comma-separated environment list.
func (v *Validator) Environments(field, raw string) []domain.Environment {
	return OneOf(v, field, raw, domain.AllEnvironments())
}

// Date parses YYYY-MM-DD, RFC 3339 or epoch milliseconds. A bare date
// resolves to the start of the day, or its last instant when endOfDay is set.
func (v *Validator) Date(field, raw string, endOfDay bool) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Millisecond)
		}
		return &t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil && ms >= 0 {
		t := time.UnixMilli(ms).UTC()
		return &t
	}

	v.Errorf("%s: invalid date %q, use YYYY-MM-DD, RFC 3339 or epoch milliseconds", field, raw)
	return nil
}

// DateRange records an error when after is later than before.
func (v *Validator) DateRange(afterField string, after *time.Time, beforeField string, before *time.Time) {
	if after != nil && before != nil && after.After(*before) {
		v.Errorf("%s must not be later than %s", afterField, beforeField)
	}
}

// DependsOn records an error when value is set without its required field.
func (v *Validator) DependsOn(field, value, requiredField, required string) {
	if strings.TrimSpace(value) != "" && strings.TrimSpace(required) == "" {
		v.Errorf("%s requires %s", field, requiredField)
	}
}

// Conflicts records an error when both flags of a mutually exclusive pair
// are set.
func (v *Validator) Conflicts(field string, set bool, otherField string, otherSet bool) {
	if set && otherSet {
		v.Errorf("%s cannot be combined with %s", field, otherField)
	}
}

func join[E ~string](values []E) string {
	parts := make([]string, len(values))
	for i, val := range values {
		parts[i] = string(val)
	}
	return strings.Join(parts, ", ")
}
