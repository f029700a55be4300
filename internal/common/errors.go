package common

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the extractor and the summarizer gateway.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrDecode            = errors.New("decode error")
	ErrOCR               = errors.New("ocr error")
	ErrAuth              = errors.New("auth error")
	ErrService           = errors.New("service error")
	ErrEmptyInput        = errors.New("empty input")
	ErrInvalidArgument   = errors.New("invalid argument")
)

// Stable error codes, one per kind.
const (
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeDecode            = "DECODE_ERROR"
	CodeOCR               = "OCR_ERROR"
	CodeAuth              = "AUTH_ERROR"
	CodeService           = "SERVICE_ERROR"
	CodeEmptyInput        = "EMPTY_INPUT"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeInternal          = "INTERNAL"
)

var kindByCode = map[string]error{
	CodeUnsupportedFormat: ErrUnsupportedFormat,
	CodeDecode:            ErrDecode,
	CodeOCR:               ErrOCR,
	CodeAuth:              ErrAuth,
	CodeService:           ErrService,
	CodeEmptyInput:        ErrEmptyInput,
	CodeInvalidArgument:   ErrInvalidArgument,
}

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Kind    error
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes both the kind sentinel and the underlying cause to errors.Is/As.
func (e *AppError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

// NewAppError builds an AppError; the kind is derived from code.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Kind:    kindByCode[code],
		Cause:   cause,
	}
}

func UnsupportedFormatError(format string, args ...any) error {
	return NewAppError(CodeUnsupportedFormat, fmt.Sprintf(format, args...), nil)
}

func DecodeError(message string, cause error) error {
	return NewAppError(CodeDecode, message, cause)
}

func OCRError(message string, cause error) error {
	return NewAppError(CodeOCR, message, cause)
}

func AuthError(message string, cause error) error {
	return NewAppError(CodeAuth, message, cause)
}

func ServiceError(message string, cause error) error {
	return NewAppError(CodeService, message, cause)
}

func EmptyInputError(message string) error {
	return NewAppError(CodeEmptyInput, message, nil)
}

func InvalidArgumentError(message string) error {
	return NewAppError(CodeInvalidArgument, message, nil)
}

// KindOf returns the error code carried by err, or CodeInternal for
// errors outside the taxonomy.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	for code, kind := range kindByCode {
		if errors.Is(err, kind) {
			return code
		}
	}
	return CodeInternal
}

// MessageOf returns the human-readable part of err without the code prefix.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Cause != nil {
			return fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
		}
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
