package view

import (
	"strings"

	"github.com/nfrund/stylelens/internal/view/dto/studio"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Label turns an option value such as "inverted-triangle" into "Inverted Triangle".
func Label(value string) string {
	return titleCaser.String(strings.ReplaceAll(value, "-", " "))
}

// Options builds select options from raw values.
func Options(values []string) []studio.Option {
	opts := make([]studio.Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, studio.Option{Value: v, Label: Label(v)})
	}
	return opts
}
