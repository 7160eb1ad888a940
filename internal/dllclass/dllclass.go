// Package dllclass classifies bare DLL names as OS-provided ("system"),
// API-set virtual DLLs, or neither.
package dllclass

import (
	"regexp"
	"strings"
)

// system is the allow-list of OS-provided libraries. It is an expandable
// policy table, not a hard contract: implementations may extend it, but
// must never shrink it below the non-negotiable minimum covered by
// TestIsSystemMinimumSet.
var system = map[string]struct{}{
	"kernel32":   {},
	"ntdll":      {},
	"user32":     {},
	"gdi32":      {},
	"advapi32":   {},
	"ole32":      {},
	"oleaut32":   {},
	"shell32":    {},
	"shlwapi":    {},
	"comctl32":   {},
	"comdlg32":   {},
	"winspool":   {},
	"version":    {},
	"cfgmgr32":   {},
	"kernelbase": {},
	"win32u":     {},
	"rpcrt4":     {},
	"userenv":    {},
	"setupapi":   {},
	"iphlpapi":   {},
	"ws2_32":     {},
	"wsock32":    {},
	"dnsapi":     {},
	"crypt32":    {},
	"bcrypt":     {},
	"ncrypt":     {},
	"imm32":      {},
	"usp10":      {},
	"opengl32":   {},
	"gdiplus":    {},
	"msimg32":    {},
	"msvfw32":    {},
	"winmm":      {},
	"hid":        {},
	"d3d11":      {},
	"dxgi":       {},
	"dwmapi":     {},
	"mf":         {},
	"mfplat":     {},
	"mfreadwrite": {},
	"avicap32":   {},
	"msvcrt":     {},
}

// apiSet matches the API-set grammar: an "api-" or "ext-" prefix,
// alphanumerics/hyphens, a literal "l", then an unprefixed decimal
// group followed by exactly two dash-separated decimal groups, with an
// optional ".dll" suffix and no further tokens.
var apiSet = regexp.MustCompile(`^(?:api|ext)-[a-z0-9-]*l[0-9]+(?:-[0-9]+){2}(?:\.dll)?$`)

// stripSuffix lower-cases name and removes a trailing ".dll" or ".drv".
func stripSuffix(name string) string {
	name = strings.ToLower(name)
	name = strings.TrimSuffix(name, ".dll")
	name = strings.TrimSuffix(name, ".drv")
	return name
}

// IsSystem reports whether name (case-insensitive, with an optional
// ".dll"/".drv" suffix) names an OS-provided library.
func IsSystem(name string) bool {
	_, ok := system[stripSuffix(name)]
	return ok
}

// IsAPISet reports whether name matches the API-set virtual DLL grammar.
func IsAPISet(name string) bool {
	return apiSet.MatchString(strings.ToLower(name))
}
