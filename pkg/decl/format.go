package decl

import (
	"bytes"
	"encoding/json"
	"path"
	"strings"
)

// Format names a declaration document syntax.
type Format string

const (
	FormatAuto Format = ""
	FormatDSL  Format = "dsl"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// DetectFormat picks a format from the source extension, falling back to
// sniffing the payload.
func DetectFormat(src Source, raw []byte) Format {
	if src != nil {
		switch strings.ToLower(path.Ext(src.Location())) {
		case ".decl", ".dup":
			return FormatDSL
		case ".yaml", ".yml":
			return FormatYAML
		case ".json":
			return FormatJSON
		}
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed) {
		return FormatJSON
	}
	for _, line := range strings.Split(string(trimmed), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "declarations:") {
			return FormatYAML
		}
	}
	return FormatDSL
}
