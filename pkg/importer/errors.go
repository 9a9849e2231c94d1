package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

var ErrInvalidFileType = errors.New("tipo de arquivo inválido")
var ErrTooFewLines = errors.New("o arquivo CSV deve ter pelo menos um cabeçalho e uma linha de dados")
var ErrEmptyDocument = errors.New("o arquivo JSON está vazio")
var ErrMalformedDocument = errors.New("erro ao processar o arquivo JSON")

type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "colunas faltando: " + strings.Join(e.Columns, ", ")
}

type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "campos faltando: " + strings.Join(e.Fields, ", ")
}

// IsValidationError reports whether err rejects an upload before anything is stored.
func IsValidationError(err error) bool {
	var missingColumns *MissingColumnsError
	var missingFields *MissingFieldsError
	return errors.Is(err, ErrInvalidFileType) ||
		errors.Is(err, ErrTooFewLines) ||
		errors.Is(err, ErrEmptyDocument) ||
		errors.Is(err, ErrMalformedDocument) ||
		errors.As(err, &missingColumns) ||
		errors.As(err, &missingFields)
}

// Extension returns the lower-cased extension of filename, including the dot.
func Extension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// CheckExtension fails with ErrInvalidFileType unless filename ends with one of allowed.
func CheckExtension(filename string, allowed ...string) error {
	if slices.Contains(allowed, Extension(filename)) {
		return nil
	}
	return fmt.Errorf("%w: selecione um arquivo %s", ErrInvalidFileType, strings.Join(allowed, ", "))
}
