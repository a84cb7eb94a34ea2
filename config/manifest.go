// Package config loads a parol project manifest: a TOML file naming one or
// more PAR grammar sources and the build options that apply to them. Its
// header-sniffing load strategy is grounded on the teacher's internal/tqw
// package, which reads a TOML resource's [format]/[type] table before
// committing to a full unmarshal of the rest of the file.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/parolgo/parol/icterr"
)

// DefaultMaxK is the lookahead ceiling a manifest gets when it doesn't set
// max_k itself, matching lookahead.MaxK (spec.md §4.4).
const DefaultMaxK = 10

// expectedFormat and expectedType are the only [info] values Load accepts,
// the same fixed-string check the teacher applies to its own "TUNA" format
// marker before trusting the rest of a resource file.
const (
	expectedFormat = "PAROL"
	expectedType   = "MANIFEST"
)

// Info is the header every manifest must carry, read in isolation before
// the rest of the file is parsed. It plays the role the teacher's FileInfo
// plays for its own TOML resources: a cheap, early check that the file is
// what it claims to be.
type Info struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// Manifest is a parol project description: the grammar sources it builds
// and the options that apply while building them.
type Manifest struct {
	Info Info `toml:"info"`

	// Grammars lists the PAR source files this project builds, in build
	// order. Relative paths are resolved against the manifest's own
	// directory by the caller, not by this package.
	Grammars []string `toml:"grammars"`

	// MaxK overrides DefaultMaxK. Zero means "not set": ResolvedMaxK
	// substitutes the default rather than asking a grammar to converge at
	// k=0.
	MaxK int `toml:"max_k"`

	// ShareCache is the manifest's share_cache flag, naming whether a single
	// analysis.Cache (and the FIRST(k) sets it memoizes) is reused across
	// every grammar named in Grammars. Load only records it; nothing else in
	// this module reads it.
	ShareCache bool `toml:"share_cache"`
}

// ResolvedMaxK returns m.MaxK if set, else DefaultMaxK.
func (m *Manifest) ResolvedMaxK() int {
	if m.MaxK <= 0 {
		return DefaultMaxK
	}
	return m.MaxK
}

// ScanInfo reads just the [info] table out of data, the same partial-parse
// trick the teacher's ScanFileInfo uses: decode only the header, without
// paying for (or choking on) whatever the rest of the document contains.
//
// TOML has no notion of "read this table and stop", so the header is
// isolated textually: everything up to the first line that opens a
// different top-level table is kept, the rest discarded before decoding.
func ScanInfo(data []byte) (Info, error) {
	header := isolateTable(string(data), "info")

	var info Info
	if _, err := toml.Decode(header, &info); err != nil {
		return Info{}, icterr.Wrap(icterr.CodeInvalidManifest, err, "malformed manifest header")
	}
	return info, nil
}

// isolateTable extracts the named top-level table (and anything before the
// first top-level table, in case the fields are bare) from a TOML document,
// dropping every other top-level table so it can be decoded on its own.
func isolateTable(doc, table string) string {
	lines := strings.Split(doc, "\n")
	var out []string
	inTarget := true
	header := "[" + table + "]"
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			inTarget = trimmed == header
			if !inTarget {
				continue
			}
		}
		if inTarget {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Load decodes a manifest from data, rejecting it outright if the [info]
// header doesn't match the expected format/type markers -- the same
// fail-fast check the teacher runs before trusting a ".tuna" resource body.
func Load(data []byte) (*Manifest, error) {
	info, err := ScanInfo(data)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(info.Format, expectedFormat) {
		return nil, icterr.New(icterr.CodeInvalidManifest, "unrecognized manifest format %q, want %q", info.Format, expectedFormat)
	}
	if !strings.EqualFold(info.Type, expectedType) {
		return nil, icterr.New(icterr.CodeInvalidManifest, "unrecognized manifest type %q, want %q", info.Type, expectedType)
	}

	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, icterr.Wrap(icterr.CodeInvalidManifest, err, "malformed manifest")
	}
	if len(m.Grammars) == 0 {
		return nil, icterr.New(icterr.CodeInvalidManifest, "manifest names no grammar files")
	}
	if m.MaxK < 0 {
		return nil, icterr.New(icterr.CodeInvalidManifest, "max_k must not be negative, got %d", m.MaxK)
	}

	return &m, nil
}

// String renders a short human summary, useful in CLI output and logs.
func (m *Manifest) String() string {
	return fmt.Sprintf("Manifest{grammars=%v, max_k=%d, share_cache=%v}", m.Grammars, m.ResolvedMaxK(), m.ShareCache)
}
