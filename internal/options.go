package internal

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

const (
	DefaultExtension    = "prproj"
	DefaultMaxFileSize  = 100 * 1024 * 1024
	DefaultSnippetChars = 120
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SearchConfig is resolved once before the scan and never re-read mid-scan.
type SearchConfig struct {
	SearchText string
	Roots      []string `validate:"min=1,dive,required"`
	RootSource string
	Threads    int `validate:"gte=0"`
	// Extensions are lower-case, without the leading dot.
	Extensions  []string `validate:"min=1,dive,required"`
	ExcludeDirs []string `validate:"dive,required"`
	FollowLinks bool
	// MaxFileSize in bytes; 0 disables the ceiling.
	MaxFileSize int64 `validate:"gte=0"`
	// MaxDepth limits candidates to N levels below a root; 0 is unlimited.
	MaxDepth     int `validate:"gte=0"`
	ListAssets   bool
	ShowSnippets bool
	SnippetChars int `validate:"gte=0"`
}

// ConfigError is the only error class that aborts a run before scanning.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "invalid configuration: " + e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// Prepare normalizes list fields and fills defaults.
func (c *SearchConfig) Prepare() {
	c.SearchText = strings.TrimSpace(c.SearchText)
	c.Extensions = normalizeExtensions(c.Extensions)
	if len(c.Extensions) == 0 {
		c.Extensions = []string{DefaultExtension}
	}
	c.ExcludeDirs = trimAll(c.ExcludeDirs)
	if c.Threads <= 0 {
		c.Threads = runtime.GOMAXPROCS(0)
	}
	if c.SnippetChars <= 0 {
		c.SnippetChars = DefaultSnippetChars
	}
}

// Validate checks invariants and reports every problem at once.
func (c *SearchConfig) Validate() error {
	var result *multierror.Error
	if c.SearchText == "" && !c.ListAssets {
		result = multierror.Append(result, errors.New("search text cannot be empty"))
	}
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				rule := fe.Tag()
				if fe.Param() != "" {
					rule += "=" + fe.Param()
				}
				result = multierror.Append(result, fmt.Errorf("%s: failed %q rule", fe.Namespace(), rule))
			}
		} else {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return &ConfigError{Err: err}
	}
	return nil
}

// normalizeExtensions accepts "prproj", ".PRPROJ" or "prproj, xml".
func normalizeExtensions(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, ext := range in {
		for _, v := range strings.Split(ext, ",") {
			v = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(v), "."))
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, v := range strings.Split(s, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func toSet(s []string) map[string]struct{} {
	m := make(map[string]struct{}, len(s))
	for _, x := range s {
		m[strings.ToLower(x)] = struct{}{}
	}
	return m
}
