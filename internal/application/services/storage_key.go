package services

import (
	"fmt"
	"mime"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxStoredNameLen = 100

var reservedNames = map[string]struct{}{
	"con": {}, "prn": {}, "aux": {}, "nul": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {}, "com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {}, "lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

// storageKey builds a unique blob key:
// "sheets/YYYY/MM/DD/<owner-hex>/<ts-nanosec>-<rand>/<safe-name>.<ext>"
func storageKey(originalName, contentType string, ownerID uuid.UUID, now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf(
		"sheets/%04d/%02d/%02d/%s/%s-%s/%s",
		now.Year(), int(now.Month()), now.Day(),
		strings.ReplaceAll(ownerID.String(), "-", ""),
		now.Format("20060102T150405.000000000Z"),
		uuid.NewString()[:8],
		safeFileName(originalName, contentType),
	)
}

// displayName strips any client supplied directory from an upload name.
func displayName(original string) string {
	s := path.Base(strings.TrimSpace(strings.ReplaceAll(original, "\\", "/")))
	if s == "." || s == ".." || s == "/" || s == "" {
		return "file"
	}
	return s
}

// safeFileName reduces a name to lowercase ASCII [a-z0-9-] plus a short extension.
func safeFileName(original, contentType string) string {
	s := displayName(original)

	// drop accents: "résumé" -> "resume"
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}

	ext := strings.ToLower(path.Ext(s))
	base := slug(strings.TrimSuffix(s, path.Ext(s)))

	if ext == "" || slug(ext[1:]) != ext[1:] {
		ext = ".bin"
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	if base == "" {
		base = "file"
	}
	if _, bad := reservedNames[base]; bad {
		base = "_" + base
	}
	if max := maxStoredNameLen - len(ext); len(base) > max {
		base = strings.TrimRight(base[:max], "-")
	}

	return base + ext
}

// slug keeps ASCII letters and digits; every other run of separators becomes one '-'.
func slug(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	dash := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z':
			b.WriteRune(r)
			dash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			dash = false
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
