package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ParseStructured reads a JSON object or an array of objects. Keys are normalized
// with NormalizeKey and values are coerced to strings. Only the first row is
// checked for expectedFields.
func ParseStructured(data []byte, expectedFields []string) ([]Row, error) {
	data = bytes.TrimPrefix(bytes.TrimSpace(data), []byte("\ufeff"))

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var objects []map[string]any
	if len(data) > 0 && data[0] == '[' {
		if err := decoder.Decode(&objects); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
	} else {
		var object map[string]any
		if err := decoder.Decode(&object); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		objects = []map[string]any{object}
	}
	if len(objects) == 0 {
		return nil, ErrEmptyDocument
	}

	rows := make([]Row, 0, len(objects))
	for _, object := range objects {
		row := make(Row, len(object))
		for key, value := range object {
			row[NormalizeKey(key)] = stringify(value)
		}
		rows = append(rows, row)
	}

	var missing []string
	for _, field := range expectedFields {
		if _, ok := rows[0][NormalizeKey(field)]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}
	return rows, nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return v.String()
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	}
}
