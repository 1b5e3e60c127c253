package errors

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io/fs"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndAccessors(t *testing.T) {
	err := New(CodeNotFound, "supplier data file not found").WithDetails(map[string]string{"code": "S001"})

	assert.Equal(t, CodeNotFound, err.Code())
	assert.Equal(t, "supplier data file not found", err.Message())
	assert.Equal(t, "NOT_FOUND: supplier data file not found", err.Error())
	assert.NotNil(t, err.Details())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("disk full")
	err := Wrap(CodeInternal, cause, "could not persist orders")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, CodeInternal, err.Code())

	// Wrapping nil degrades to a plain coded error.
	assert.NoError(t, Wrap(CodeInternal, nil, "x").Unwrap())
}

func TestAsFindsCodedErrorInChain(t *testing.T) {
	inner := New(CodeValidation, "order file is not valid JSON")
	wrapped := fmt.Errorf("loading orders: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeValidation, typed.Code())

	assert.Nil(t, As(stdErrors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestMetadataFor(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, MetadataFor(tc.code).HTTPStatus, string(tc.code))
	}

	// Unknown codes fall back to internal-error metadata.
	assert.Equal(t, http.StatusInternalServerError, MetadataFor(Code("BOGUS")).HTTPStatus)
}

func TestDumpFileError(t *testing.T) {
	cause := &fs.PathError{Op: "open", Path: "/data/S001.json", Err: fs.ErrNotExist}
	dump := Dump(Wrap(CodeNotFound, cause, "loading order file"))

	assert.Equal(t, CodeNotFound, dump.Code)
	assert.Equal(t, "open", dump.FileOp)
	assert.Equal(t, "/data/S001.json", dump.FilePath)
	assert.NotEmpty(t, dump.Chain)
}

func TestDumpJSONError(t *testing.T) {
	var target []map[string]any
	jsonErr := json.Unmarshal([]byte(`[{"ProductCode":`), &target)
	require.Error(t, jsonErr)

	dump := Dump(Wrap(CodeValidation, jsonErr, "order file is not valid JSON"))

	assert.Equal(t, CodeValidation, dump.Code)
	assert.NotZero(t, dump.JSONOffset)
	assert.NotEmpty(t, dump.JSONDetail)
}

func TestDumpNil(t *testing.T) {
	assert.Equal(t, ErrorDump{}, Dump(nil))
}
