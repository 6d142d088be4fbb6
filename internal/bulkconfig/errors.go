package bulkconfig

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for bulkconfig operations.
var ErrUnsupportedVersion = errors.New("unsupported config version")

// ValidationErrors holds every validation failure found in one Config.
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func (e *ValidationErrors) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

func (e *ValidationErrors) HasErrors() bool { return len(e.Errors) > 0 }

// FieldError reports an invalid value for a specific config field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s (%s): %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Validate checks structural constraints Load's yaml.Unmarshal can't
// express on its own: temp_dir must be set and absolute.
func Validate(cfg *Config) *ValidationErrors {
	errs := &ValidationErrors{}

	if cfg.TempDir == "" {
		errs.Add(&FieldError{Field: "temp_dir", Value: "", Err: errors.New("must not be empty")})
	} else if cfg.TempDir[0] != '/' {
		errs.Add(&FieldError{Field: "temp_dir", Value: cfg.TempDir, Err: errors.New("must be an absolute path")})
	}

	return errs
}
