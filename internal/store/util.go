package store

import "strings"

const utf8BOM = "\uFEFF"

func trimBOM(s string) string {
	return strings.TrimPrefix(s, utf8BOM)
}

func trimSpace(s string) string {
	return strings.TrimSpace(s)
}
