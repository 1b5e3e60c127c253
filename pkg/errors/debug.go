package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	FileOp     string `json:"file_op,omitempty"`
	FilePath   string `json:"file_path,omitempty"`
	JSONOffset int64  `json:"json_offset,omitempty"`
	JSONDetail string `json:"json_detail,omitempty"`
}

// Dump flattens an error chain into loggable fields, surfacing file-path and
// JSON decode context when the failure came from the flat-file layer.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		d.FileOp = pathErr.Op
		d.FilePath = pathErr.Path
		return d
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		d.JSONOffset = syntaxErr.Offset
		d.JSONDetail = syntaxErr.Error()
		return d
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		d.JSONOffset = typeErr.Offset
		d.JSONDetail = fmt.Sprintf("cannot decode %s into %s field %s", typeErr.Value, typeErr.Type, typeErr.Field)
		return d
	}

	return d
}
