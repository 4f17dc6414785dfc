// Package web embeds the HTML templates of the shop and the speedrun tracker.
package web

import "embed"

// Templates holds every page under templates/.
//
//go:embed templates
var Templates embed.FS
