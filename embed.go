package fittrack

import "embed"

// SeedFS contains the global food and exercise catalogs.
// Load them with "fitctl seed foods" and "fitctl seed exercises".
//
//go:embed seed/*.json
var SeedFS embed.FS
