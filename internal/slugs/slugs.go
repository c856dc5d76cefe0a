// Package slugs provides the filesystem-safe filename slugification used
// when a wikilink rename derives a destination path from a new target
// name typed by the user.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// ComponentSlug converts s to a URL- and filesystem-safe slug suitable
// for use as a single path component. A trailing ".md" is stripped
// before slugging, since callers reattach the destination's extension
// separately.
func ComponentSlug(s string) string {
	s = strings.TrimSuffix(s, ".md")
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(s, " ", "-"))
	}
	return slugged
}
