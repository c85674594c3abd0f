// Package refdata embeds the default airport, airline and aircraft datasets.
package refdata

import "embed"

//go:embed *.json
var FS embed.FS
