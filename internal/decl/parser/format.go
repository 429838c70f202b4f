package parser

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-declgen/pkg/model"
)

// Format renders a spec as DSL text. Parsing the result yields the same
// package, imports, blocks and variants.
func Format(spec model.Spec) string {
	var b strings.Builder

	if spec.Package != "" {
		b.WriteString(keywordPackage + " " + spec.Package + "\n\n")
	}

	switch len(spec.Imports) {
	case 0:
	case 1:
		b.WriteString(keywordImport + " " + strconv.Quote(spec.Imports[0]) + "\n\n")
	default:
		b.WriteString(keywordImport + " (\n")
		for _, path := range spec.Imports {
			b.WriteString("\t" + strconv.Quote(path) + "\n")
		}
		b.WriteString(")\n\n")
	}

	for i, block := range spec.Blocks {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(keywordDuplicate + " " + block.Name + " ")
		for _, name := range block.Template.Placeholders {
			b.WriteString("[" + name + "]")
		}
		b.WriteString(";\n")
		for _, variant := range block.Variants {
			b.WriteString("\t" + variant.String() + ";\n")
		}
		b.WriteString("{\n")
		if block.Template.Body != "" {
			for _, line := range strings.Split(block.Template.Body, "\n") {
				if strings.TrimSpace(line) != "" {
					b.WriteString("\t" + line)
				}
				b.WriteByte('\n')
			}
		}
		b.WriteString("}\n")
	}
	return b.String()
}
