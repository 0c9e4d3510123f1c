package world

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

const byteOrderMark = "\uFEFF"

// DecodeScript converts script bytes in the named encoding (any WHATWG
// label such as "utf-8", "windows-1252" or "shift_jis") to UTF-8
func DecodeScript(data []byte, encoding string) (string, error) {
	if encoding == "" {
		encoding = "utf-8"
	}

	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return "", fmt.Errorf("unknown script encoding %q: %w", encoding, err)
	}

	reader := transform.NewReader(bytes.NewReader(data), enc.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to decode script as %s: %w", encoding, err)
	}
	return strings.TrimPrefix(string(decoded), byteOrderMark), nil
}
