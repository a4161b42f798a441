// Package resolve maps content file paths to the language they represent and
// to the root identity shared by all language variants of one logical document.
//
// Naming scheme: "page.md" is the default-language variant, "page.fr.md" the
// French one. Both resolve to the root path "page.md" — the path the document
// would have in the folder's default language, whether or not that exact file
// exists on disk.
package resolve

import (
	"path/filepath"
	"strings"
)

// Extension is the content file extension appended to root paths.
const Extension = ".md"

// Language returns the language code encoded in the file name: the last
// period-delimited segment of the extension-stripped base name. Names without
// such a segment resolve to defaultLang. The returned code is not validated
// here; callers reject files whose code fails language validation.
func Language(path, defaultLang string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if i := strings.LastIndex(base, "."); i >= 0 {
		return base[i+1:]
	}
	return defaultLang
}

// RootPath returns the canonical root identity for path given its resolved
// language. Default-language files are their own root. Other variants strip
// exactly one trailing language segment and re-append Extension.
func RootPath(path, lang, defaultLang string) string {
	if lang == defaultLang {
		return path
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	return filepath.Join(filepath.Dir(path), base+Extension)
}
