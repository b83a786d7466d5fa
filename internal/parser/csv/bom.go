package csv

import "strings"

// utf8BOM is the byte order mark some export tools prepend to the first cell.
const utf8BOM = "\uFEFF"

// StripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
// Other cells are never affected; a BOM only ever appears at stream start.
func StripHeaderBOM(header []string) []string {
	if len(header) == 0 {
		return header
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	return header
}
