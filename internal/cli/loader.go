package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/ocdg/internal/ocdg"
	"github.com/roach88/ocdg/internal/ocel"
)

// Error codes reported by CLI commands. Load failures reuse the loader's
// codes (E004-E009).
const (
	ErrCodeGeneric     = ocel.ErrCodeGeneric
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeIntegrity   = "E010" // Log violates referential integrity
	ErrCodeRelations   = "E011" // Unknown relation name
	ErrCodeDatabase    = "E012" // Database open/read/write error
	ErrCodeNotFound    = ocel.ErrCodeNotFound
)

// loadLog reads an event log file. Errors come back as *ocel.LoadError.
func loadLog(path string) (*ocel.Log, error) {
	log, err := ocel.Load(path)
	if err != nil {
		var loadErr *ocel.LoadError
		if errors.As(err, &loadErr) {
			return nil, loadErr
		}
		return nil, &ocel.LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}
	return log, nil
}

// errorCode picks the reported code for err.
func errorCode(err error) (string, string) {
	var loadErr *ocel.LoadError
	if errors.As(err, &loadErr) {
		if loadErr.Pos.IsValid() {
			return loadErr.Code, fmt.Sprintf("%s:%d:%d: %s",
				loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column(), loadErr.Message)
		}
		return loadErr.Code, loadErr.Message
	}
	var integrityErr *ocdg.IntegrityError
	if errors.As(err, &integrityErr) {
		return ErrCodeIntegrity, integrityErr.Error()
	}
	return ErrCodeGeneric, err.Error()
}

// outputError writes err through the formatter and returns an *ExitError with
// the given exit code.
func outputError(formatter *OutputFormatter, exitCode int, err error) error {
	code, message := errorCode(err)
	_ = formatter.Error(code, message, nil)
	return WrapExitError(exitCode, code, err)
}

// outputCodedError writes a message under an explicit code.
func outputCodedError(formatter *OutputFormatter, exitCode int, code, message string, err error) error {
	_ = formatter.Error(code, message, nil)
	return WrapExitError(exitCode, fmt.Sprintf("%s: %s", code, message), err)
}

// newFormatter builds the formatter for a command. Verbose logs go to stderr
// to avoid corrupting JSON.
func newFormatter(opts *RootOptions, w, errW io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    w,
		ErrWriter: errW,
		Verbose:   opts.Verbose,
	}
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
