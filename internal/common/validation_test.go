package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	v := NewValidator().
		Field("path", "  ", Required).
		Field("format", "xlsx", OneOf("image", "pdf", "docx")).
		Field("password", "ok", MaxLength(128)).
		Field("file", int64(2048), MaxBytes(1024))

	assert.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 3)
	err := v.Err()
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "'path'")
	assert.Contains(t, err.Error(), "must be one of image, pdf, docx")
	assert.Contains(t, err.Error(), "exceeds the 1024 byte limit")
}

func TestValidatorPasses(t *testing.T) {
	v := NewValidator().
		Field("format", "", OneOf("image")).
		Field("format", "PDF", OneOf("image", "pdf")).
		Field("data", []byte("x"), Required, MaxBytes(10))

	assert.False(t, v.HasErrors())
	assert.NoError(t, v.Err())
	assert.Empty(t, v.ErrorMessage())
}
