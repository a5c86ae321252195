package errors

import (
	"fmt"

	apperrors "github.com/burakmert236/firstblood/common/errors"
)

// LoadExportError keeps the loader's code when it already classified the
// failure and marks anything else as a read error.
func LoadExportError(source string, err error) *apperrors.AppError {
	code := apperrors.CodeExportReadError
	if apperrors.HasCode(err, apperrors.CodeMalformedInput) {
		code = apperrors.CodeMalformedInput
	}
	return apperrors.Wrap(err, code, fmt.Sprintf("failed to load export %s", source))
}

func ReportSinkError(sink string, err error) *apperrors.AppError {
	return apperrors.Wrap(err, apperrors.CodeOutputWriteError,
		fmt.Sprintf("failed to write report to %s", sink))
}

func ExtractError(source string, err error) *apperrors.AppError {
	return apperrors.Wrap(err, apperrors.CodeExportReadError,
		fmt.Sprintf("failed to extract %s", source))
}
