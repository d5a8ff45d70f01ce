package target

import (
	"fmt"

	"github.com/mxcd/verparse/internal/configuration"
)

// UnsupportedTargetTypeError is returned when an unsupported target type is encountered
type UnsupportedTargetTypeError struct {
	Type configuration.TargetType
}

func (e *UnsupportedTargetTypeError) Error() string {
	return fmt.Sprintf("unsupported target type: %s", e.Type)
}

// FileNotFoundError is returned when a target file is not found
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("target file not found: %s", e.Path)
}

// YamlFieldNotFoundError is returned when a yaml path matches no node in any
// document of the file
type YamlFieldNotFoundError struct {
	Path string
	File string
	Err  error
}

func (e *YamlFieldNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("yaml path '%s' not found in file %s: %v", e.Path, e.File, e.Err)
	}
	return fmt.Sprintf("yaml path '%s' not found in file %s", e.Path, e.File)
}

func (e *YamlFieldNotFoundError) Unwrap() error {
	return e.Err
}

// InvalidFileFormatError is returned when a target file has an invalid format
type InvalidFileFormatError struct {
	File   string
	Reason string
}

func (e *InvalidFileFormatError) Error() string {
	return fmt.Sprintf("invalid file format '%s': %s", e.File, e.Reason)
}
