package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/docsum/constants"
	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/core/extract"
)

// readDocument loads path into an InputDocument. An explicit format wins
// over the file extension.
func readDocument(path, formatFlag, password string, maxBytes int64) (extract.InputDocument, error) {
	format := constants.ParseFormat(formatFlag)
	if formatFlag != "" && format == "" {
		return extract.InputDocument{}, common.UnsupportedFormatError("format %q is not supported (want image, pdf or docx)", formatFlag)
	}
	if format == "" {
		format = constants.FormatFromFilename(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return extract.InputDocument{}, common.InvalidArgumentError(fmt.Sprintf("cannot read %s: %v", path, err))
	}
	if err := common.NewValidator().Field("file", info.Size(), common.MaxBytes(maxBytes)).Err(); err != nil {
		return extract.InputDocument{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return extract.InputDocument{}, common.InvalidArgumentError(fmt.Sprintf("cannot read %s: %v", path, err))
	}
	return extract.InputDocument{
		Data:     data,
		Format:   format,
		Filename: filepath.Base(path),
		Password: password,
	}, nil
}
