// Package validator walks governed folders, groups content files into logical
// documents across languages, and applies each folder's rule set.
//
// Validation is fail-fast: the first fatal condition is returned as an error
// and aborts the remaining traversal. Warnings go to the reporting sink and
// never alter control flow. All state, including the per-folder duplicate
// table, lives for a single run.
package validator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperjump/tadasu/internal/frontmatter"
	"github.com/hyperjump/tadasu/internal/langid"
	"github.com/hyperjump/tadasu/internal/report"
	"github.com/hyperjump/tadasu/internal/resolve"
	"github.com/hyperjump/tadasu/internal/rules"
)

// LanguageVariant is one physical file representing one logical document in
// one language. Immutable once created.
type LanguageVariant struct {
	Language  string
	Path      string
	RawHeader string
	Header    frontmatter.Root
	Body      string
}

// Document is one logical content unit: a page and all its translations,
// identified by the root path it would have in the folder's default language.
type Document struct {
	RootPath string
	Variants map[string]*LanguageVariant
	// Languages preserves variant discovery order for deterministic traversal.
	Languages []string
}

// add inserts a variant. A second file resolving to the same language silently
// overwrites the earlier one; the map keeps last-scanned-wins semantics.
func (d *Document) add(v *LanguageVariant) {
	if _, ok := d.Variants[v.Language]; !ok {
		d.Languages = append(d.Languages, v.Language)
	}
	d.Variants[v.Language] = v
}

// Folder is one governed directory: its rule set and its document index.
type Folder struct {
	Path      string
	Rules     *rules.RuleSet
	Documents map[string]*Document
	// Roots preserves document discovery order.
	Roots []string
}

func (f *Folder) document(rootPath string) *Document {
	doc, ok := f.Documents[rootPath]
	if !ok {
		doc = &Document{RootPath: rootPath, Variants: make(map[string]*LanguageVariant)}
		f.Documents[rootPath] = doc
		f.Roots = append(f.Roots, rootPath)
	}
	return doc
}

// scanFolder lists the folder's content files (one directory level, *.md),
// skips ignored names, and builds the document index. Files whose resolved
// language fails validation are fatal.
func scanFolder(dir string, rs *rules.RuleSet, rep report.Reporter) (*Folder, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+resolve.Extension))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	folder := &Folder{
		Path:      dir,
		Rules:     rs,
		Documents: make(map[string]*Document),
	}
	for _, path := range matches {
		base := filepath.Base(path)
		if rs.IsIgnored(base) {
			rep.Info(dir, path, "ignoring file")
			continue
		}
		lang := resolve.Language(path, rs.DefaultLanguage)
		if err := langid.Validate(lang, rs.Languages); err != nil {
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		variant, err := readVariant(path, lang)
		if err != nil {
			return nil, err
		}
		rootPath := resolve.RootPath(path, lang, rs.DefaultLanguage)
		folder.document(rootPath).add(variant)
	}
	return folder, nil
}

func readVariant(path, lang string) (*LanguageVariant, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	rawHeader, body, err := frontmatter.Split(string(content))
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", path, err)
	}
	header, err := frontmatter.Parse(rawHeader)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &LanguageVariant{
		Language:  lang,
		Path:      path,
		RawHeader: rawHeader,
		Header:    header,
		Body:      body,
	}, nil
}
