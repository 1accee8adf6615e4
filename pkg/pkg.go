//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// version is the raw content of the VERSION file.
//
//go:embed VERSION
var version string

// Version is the semantic version of the tmpl module embedded at build time.
// It is printed by the CLI's --version flag.
var Version = strings.TrimSpace(version)

const (
	// Name is the command identifier. It appears in help text and in the
	// default configuration and cache paths.
	Name = "tmpl"
	// Description is a short summary used in help output.
	Description = "Token-tree template expander"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
