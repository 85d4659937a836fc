package source

import "strings"

// DecodeTSVLine splits one tab-separated line into a Row, unescaping each
// field. Escape rules: \n, \r, \t become a single space, \\ a literal
// backslash, and any other escaped character is taken literally.
func DecodeTSVLine(line string) Row {
	cols := strings.Split(line, "\t")
	row := make(Row, len(cols))

	for i, col := range cols {
		row[i] = unescapeTSVField(col)
	}

	return row
}

func unescapeTSVField(value string) string {
	if !strings.ContainsRune(value, '\\') {
		return value
	}

	var b strings.Builder
	b.Grow(len(value))

	for i := 0; i < len(value); i++ {
		if value[i] != '\\' || i+1 >= len(value) {
			b.WriteByte(value[i])
			continue
		}

		i++

		switch value[i] {
		case 'n', 'r', 't':
			b.WriteByte(' ')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte(value[i])
		}
	}

	return b.String()
}
