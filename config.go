package resxsweep

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Placeholder is the token a reference format replaces with a resource key.
const Placeholder = "%"

// Defaults used when the corresponding setting is empty.
const (
	DefaultExtensions       = ".cs,.xaml"
	DefaultReferenceFormats = "AppResources.%"
)

// MatchMode selects how a reference-format expansion is located in a file.
type MatchMode int

const (
	// MatchSubstring treats any occurrence of the expansion as a reference.
	// A short key whose expansion is a prefix of a longer key's expansion
	// is therefore counted as used whenever the longer key is.
	MatchSubstring MatchMode = iota
	// MatchWord additionally requires that the occurrence is not directly
	// preceded or followed by an identifier character.
	MatchWord
)

func (m MatchMode) String() string {
	switch m {
	case MatchWord:
		return "word"
	default:
		return "substring"
	}
}

// ParseMatchMode parses "substring" or "word". The empty string means
// MatchSubstring.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "substring":
		return MatchSubstring, nil
	case "word":
		return MatchWord, nil
	}
	return MatchSubstring, &ParseError{Msg: fmt.Sprintf("unknown match mode %q (want substring|word)", s)}
}

// ScanConfig is the immutable configuration of one scan.
type ScanConfig struct {
	ProjectRoot  string
	ManifestPath string

	// Extensions lists the file suffixes to scan, each starting with ".".
	Extensions []string
	// ReferenceFormats are templates containing exactly one Placeholder.
	ReferenceFormats []string
	// ExcludePrefixes drop keys that start with any of them before scanning.
	ExcludePrefixes []string
	// SkipDirs are doublestar patterns, relative to ProjectRoot, for paths
	// the file enumerator does not descend into or list.
	SkipDirs []string
	// ProjectExtensions are the project file extensions looked for in
	// ProjectRoot when deleting. Empty means ".csproj".
	ProjectExtensions []string

	Match MatchMode
}

// ParseScanConfig builds a ScanConfig from the comma-separated settings
// surface. Empty extension and format settings fall back to the defaults.
func ParseScanConfig(projectRoot, manifestPath, extensions, referenceFormats, excludePrefixes string) ScanConfig {
	if strings.TrimSpace(extensions) == "" {
		extensions = DefaultExtensions
	}
	if strings.TrimSpace(referenceFormats) == "" {
		referenceFormats = DefaultReferenceFormats
	}
	return ScanConfig{
		ProjectRoot:      projectRoot,
		ManifestPath:     manifestPath,
		Extensions:       SplitList(extensions),
		ReferenceFormats: SplitList(referenceFormats),
		ExcludePrefixes:  SplitList(excludePrefixes),
	}.Normalize()
}

// SplitList splits a comma-separated list, trimming entries and dropping
// empty ones.
func SplitList(s string) []string {
	return normalizeList(strings.Split(s, ","))
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// cleanExtension makes sure an extension starts with a dot.
func cleanExtension(ext string) string {
	if strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// Normalize returns a copy with every list trimmed, empty entries dropped
// and extensions dot-prefixed.
func (c ScanConfig) Normalize() ScanConfig {
	c.Extensions = normalizeList(c.Extensions)
	for i, ext := range c.Extensions {
		c.Extensions[i] = cleanExtension(ext)
	}
	c.ProjectExtensions = normalizeList(c.ProjectExtensions)
	for i, ext := range c.ProjectExtensions {
		c.ProjectExtensions[i] = cleanExtension(ext)
	}
	c.ReferenceFormats = normalizeList(c.ReferenceFormats)
	c.ExcludePrefixes = normalizeList(c.ExcludePrefixes)
	c.SkipDirs = normalizeList(c.SkipDirs)
	return c
}

// Validate checks a normalized configuration.
func (c ScanConfig) Validate() error {
	if strings.TrimSpace(c.ProjectRoot) == "" {
		return &ParseError{Msg: "project root is required"}
	}
	if strings.TrimSpace(c.ManifestPath) == "" {
		return &ParseError{Msg: "resource file is required"}
	}
	if len(c.Extensions) == 0 {
		return &ParseError{Msg: "at least one file extension is required"}
	}
	if len(c.ReferenceFormats) == 0 {
		return &ParseError{Msg: "at least one reference format is required"}
	}
	for _, f := range c.ReferenceFormats {
		if n := strings.Count(f, Placeholder); n != 1 {
			return &ParseError{Msg: fmt.Sprintf("reference format %q must contain exactly one %q placeholder, found %d", f, Placeholder, n)}
		}
	}
	for _, p := range c.SkipDirs {
		if !doublestar.ValidatePattern(p) {
			return &ParseError{Msg: fmt.Sprintf("invalid skip pattern %q", p)}
		}
	}
	return nil
}
