// Package locales embeds the translation catalogs shipped with the binary.
package locales

import "embed"

//go:embed *.yaml
var FS embed.FS
