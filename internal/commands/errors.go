package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-unicms/internal/fixtures"
	"github.com/goliatone/go-unicms/internal/records"
)

const (
	codeValidation     = "UNICMS_COMMAND_VALIDATION_FAILED"
	codeInvalidContent = "UNICMS_COMMAND_CONTENT_INVALID"
	codeCanceled       = "UNICMS_COMMAND_CANCELED"
	codeTimeout        = "UNICMS_COMMAND_TIMEOUT"
	codeContext        = "UNICMS_COMMAND_CONTEXT_ERROR"
	codeFailed         = "UNICMS_COMMAND_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(codeValidation)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command canceled").
			WithTextCode(codeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command deadline exceeded").
			WithTextCode(codeTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(codeContext)
	}
}

// wrapExecuteError tags content that failed schema or fixture checks as a
// validation error and everything else as a command failure.
func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if records.IsValidationError(err) || errors.Is(err, fixtures.ErrDocumentInvalid) {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "command content invalid").
			WithTextCode(codeInvalidContent)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").
		WithTextCode(codeFailed)
}
