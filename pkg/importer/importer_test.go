package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "commas", line: "a,b,c", want: []string{"a", "b", "c"}},
		{name: "semicolons", line: "a;b;c", want: []string{"a", "b", "c"}},
		{name: "mixed separators", line: "a,b;c", want: []string{"a", "b", "c"}},
		{name: "quoted separators are literal", line: `"1.234,56";"x; y",z`, want: []string{"1.234,56", "x; y", "z"}},
		{name: "values are trimmed", line: " a , b ", want: []string{"a", "b"}},
		{name: "trailing empty field", line: "a,", want: []string{"a", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLine(tt.line))
		})
	}
}

func TestParseDelimited(t *testing.T) {
	t.Run("should build rows keyed by lower-cased header", func(t *testing.T) {
		// given
		text := "Numero; Descricao ;Valor\r\n\r\n2024NE0001;Papel;\"1.234,56\"\n2024NE0002;Toner\n"

		// when
		rows, err := ParseDelimited(text, []string{"numero", "VALOR"})

		// then
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, Row{"numero": "2024NE0001", "descricao": "Papel", "valor": "1.234,56"}, rows[0])
		assert.Equal(t, "", rows[1]["valor"])
	})

	t.Run("should reject a document without data lines", func(t *testing.T) {
		_, err := ParseDelimited("numero,valor\n\n  \n", []string{"numero"})

		assert.ErrorIs(t, err, ErrTooFewLines)
		assert.True(t, IsValidationError(err))
	})

	t.Run("should name every missing column", func(t *testing.T) {
		// when
		_, err := ParseDelimited("numero,valor\n1,2", []string{"numero", "dimensao", "status"})

		// then
		var missing *MissingColumnsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"dimensao", "status"}, missing.Columns)
		assert.Contains(t, err.Error(), "dimensao")
		assert.True(t, IsValidationError(err))
	})

	t.Run("should ignore a byte order mark", func(t *testing.T) {
		rows, err := ParseDelimited("\ufeffnumero\n1", []string{"numero"})

		require.NoError(t, err)
		assert.Equal(t, "1", rows[0]["numero"])
	})
}

func TestParseStructured(t *testing.T) {
	t.Run("should normalize keys and coerce values", func(t *testing.T) {
		// given
		data := []byte(`[{"Dimensão":"GO","Valor Total":"500,00","Ativo":true,"Quantidade":3,"Nota":null,"Tags":["a"]}]`)

		// when
		rows, err := ParseStructured(data, []string{"valortotal", "dimensão"})

		// then
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "GO", rows[0]["dimensao"])
		assert.Equal(t, "500,00", rows[0]["valortotal"])
		assert.Equal(t, "true", rows[0]["ativo"])
		assert.Equal(t, "3", rows[0]["quantidade"])
		assert.Equal(t, "", rows[0]["nota"])
		assert.Equal(t, `["a"]`, rows[0]["tags"])
	})

	t.Run("should accept a single object", func(t *testing.T) {
		rows, err := ParseStructured([]byte(`{"atividade":"Curso","valor":1250.5}`), nil)

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "1250.5", rows[0]["valor"])
	})

	t.Run("should reject an empty array", func(t *testing.T) {
		_, err := ParseStructured([]byte(`[]`), nil)

		assert.ErrorIs(t, err, ErrEmptyDocument)
	})

	t.Run("should reject malformed documents", func(t *testing.T) {
		_, err := ParseStructured([]byte(`{"atividade":`), nil)

		assert.ErrorIs(t, err, ErrMalformedDocument)
		assert.True(t, IsValidationError(err))
	})

	t.Run("should only check the first row for expected fields", func(t *testing.T) {
		// given
		data := []byte(`[{"atividade":"A","dimensao":"GO"},{"atividade":"B"}]`)

		// when
		rows, err := ParseStructured(data, []string{"Atividade", "Dimensão"})

		// then
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("should name missing fields", func(t *testing.T) {
		_, err := ParseStructured([]byte(`[{"atividade":"A"}]`), []string{"atividade", "Origem Recurso"})

		var missing *MissingFieldsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"Origem Recurso"}, missing.Fields)
	})
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "valortotal", NormalizeKey("  Valor Total "))
	assert.Equal(t, "dimensao", NormalizeKey("Dimensão"))
	assert.Equal(t, "descricaodaacao", NormalizeKey("Descrição da Ação"))
	assert.Equal(t, "natureza de despesa", Fold(" Natureza de Despesa "))
}

func TestDecodeText(t *testing.T) {
	t.Run("should keep utf-8 text", func(t *testing.T) {
		assert.Equal(t, "descrição", DecodeText([]byte("descrição")))
	})

	t.Run("should decode windows-1252 text", func(t *testing.T) {
		// "descrição" in windows-1252
		data := []byte{'d', 'e', 's', 'c', 'r', 'i', 0xe7, 0xe3, 'o'}

		assert.Equal(t, "descrição", DecodeText(data))
	})
}

func TestCheckExtension(t *testing.T) {
	assert.NoError(t, CheckExtension("planilha.CSV", ".csv"))
	assert.NoError(t, CheckExtension("razao.xlsx", ".xlsx", ".xls", ".csv"))

	err := CheckExtension("dados.txt", ".csv")
	assert.ErrorIs(t, err, ErrInvalidFileType)
	assert.True(t, IsValidationError(err))
}

func TestFirst(t *testing.T) {
	row := Row{"origem": " F1 ", "origemrecurso": "  "}

	assert.Equal(t, "F1", First(row, "origemrecurso", "origem"))
	assert.Equal(t, "", First(row, "missing"))
}

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{name: "day first with slashes", text: "15/03/2024", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "day first with dashes", text: "05-11-2023", want: time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC)},
		{name: "year first", text: "2024-03-15", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "two digit year", text: "15/03/24", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "timestamp", text: "2024-03-15T10:30:00Z", want: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{name: "empty", text: "", want: now},
		{name: "invalid day", text: "31/02/2024", want: now},
		{name: "garbage", text: "ontem", want: now},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDate(tt.text, now))
		})
	}
}
