// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// componentSeparator joins components in the serialized form. It is a
// control character (U+001F UNIT SEPARATOR), so it can never appear
// inside a validated component.
const componentSeparator = "\x1f"

// RelativePath is a sanitized, platform-independent member path. It
// is the only way a path enters or leaves an archive.
//
// Invariants: at least one component; every component is valid UTF-8,
// is not blank, contains no backslash, no Unicode control character,
// and no Unicode separator other than U+0020 SPACE; every component is
// NFC-normalized.
//
// Construction resolves ".." lexically by dropping the previous
// component. A ".." with nothing left to drop is ignored rather than
// rejected, so "../../a" is "a".
type RelativePath struct {
	inner string
}

// NewRelativePath sanitizes a host filesystem path. Root, volume, "."
// and empty components are dropped; ".." pops. It fails with
// ErrEmptyPath when nothing remains and ErrInvalidPath when a
// component fails validation.
func NewRelativePath(path string) (RelativePath, error) {
	path = path[len(filepath.VolumeName(path)):]

	var components []string
	for _, component := range strings.FieldsFunc(path, isHostSeparator) {
		switch component {
		case ".":
		case "..":
			if len(components) > 0 {
				components = components[:len(components)-1]
			}
		default:
			if err := checkComponent(component); err != nil {
				return RelativePath{}, err
			}
			components = append(components, norm.NFC.String(component))
		}
	}

	if len(components) == 0 {
		return RelativePath{}, pathError(ErrEmptyPath, "%q has no components", path)
	}
	return RelativePath{inner: strings.Join(components, componentSeparator)}, nil
}

// RelativePathFromBytes parses the serialized form read from an
// archive. The bytes are converted back to a host path and run through
// full construction, so an archive cannot carry an unsanitized path.
func RelativePathFromBytes(data []byte) (RelativePath, error) {
	if !utf8.Valid(data) {
		return RelativePath{}, pathError(ErrInvalidPath, "stored path is not valid UTF-8")
	}
	hostPath := strings.ReplaceAll(string(data), componentSeparator, string(filepath.Separator))
	return NewRelativePath(hostPath)
}

// Bytes returns the serialized form: components joined by 0x1F.
func (path RelativePath) Bytes() []byte {
	return []byte(path.inner)
}

// Components returns the path components in order.
func (path RelativePath) Components() []string {
	if path.inner == "" {
		return nil
	}
	return strings.Split(path.inner, componentSeparator)
}

// IsZero reports whether path is the zero value (never a valid
// constructed path).
func (path RelativePath) IsZero() bool {
	return path.inner == ""
}

// String renders the path with the host separator.
func (path RelativePath) String() string {
	return strings.ReplaceAll(path.inner, componentSeparator, string(filepath.Separator))
}

// Join places the path under directory. Because components never
// contain "..", separators, or a volume, the result always stays
// inside directory.
func (path RelativePath) Join(directory string) string {
	return filepath.Join(directory, path.String())
}

func isHostSeparator(r rune) bool {
	return r < utf8.RuneSelf && os.IsPathSeparator(uint8(r))
}

func checkComponent(component string) error {
	if !utf8.ValidString(component) {
		return pathError(ErrInvalidPath, "component %q is not valid UTF-8", component)
	}
	if strings.TrimSpace(component) == "" {
		return pathError(ErrInvalidPath, "component %q is blank", component)
	}
	for _, r := range component {
		if r == '\\' || unicode.Is(unicode.Cc, r) || (unicode.Is(unicode.Z, r) && r != ' ') {
			return pathError(ErrInvalidPath, "component %q contains %U", component, r)
		}
	}
	return nil
}
