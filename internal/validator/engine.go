package validator

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/tadasu/internal/langid"
	"github.com/hyperjump/tadasu/internal/report"
	"github.com/hyperjump/tadasu/internal/rules"
	"github.com/hyperjump/tadasu/internal/site"
	"github.com/hyperjump/tadasu/internal/spellcheck"
)

// duplicateTable tracks header key -> value -> originating file path within
// one folder, so the first collision is detected. Owned by a single folder
// validation and discarded afterwards.
type duplicateTable map[string]map[string]string

// record returns the path previously holding (key, value), or stores path.
func (t duplicateTable) record(key, value, path string) (string, bool) {
	values, ok := t[key]
	if !ok {
		values = make(map[string]string)
		t[key] = values
	}
	if prev, ok := values[value]; ok {
		return prev, true
	}
	values[value] = path
	return "", false
}

// Engine validates a content tree against its per-folder rule sets.
type Engine struct {
	logger     *zap.Logger // optional; when set, logs debug events
	newChecker spellcheck.Factory
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a logger for debug output (folders scanned, documents checked).
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithSpellCheckFactory sets the factory used to initialise the remote
// spell-check capability for folders that enable it.
func WithSpellCheckFactory(f spellcheck.Factory) Option {
	return func(e *Engine) { e.newChecker = f }
}

// New creates a validation engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run performs a full validation of root and returns the run record. The
// run's status is the single pass/fail outcome; its findings are everything
// reported before the outcome was reached.
func (e *Engine) Run(ctx context.Context, root string) *report.Run {
	rec := report.NewRecorder(e.logger)
	run := &report.Run{
		ID:        uuid.New().String(),
		Root:      root,
		StartedAt: time.Now(),
		Status:    report.StatusPassed,
	}
	if abs, err := filepath.Abs(root); err == nil {
		run.Root = abs
	}
	if err := e.Check(ctx, root, rec); err != nil {
		rec.Fatal(err.Error())
		run.Status = report.StatusFailed
		run.Message = err.Error()
	}
	run.FinishedAt = time.Now()
	run.Findings = rec.Findings()
	return run
}

// Check validates the whole tree under root: site config, folder discovery,
// then per-folder structure and content validation in discovery order.
// The first fatal condition aborts and is returned.
func (e *Engine) Check(ctx context.Context, root string, rep report.Reporter) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	siteCfg, err := site.Load(absRoot)
	if err != nil {
		return err
	}
	dirs, err := rules.Discover(absRoot)
	if err != nil {
		return err
	}
	if e.logger != nil {
		e.logger.Debug("validating content tree",
			zap.String("root", absRoot),
			zap.String("site", siteCfg.Title),
			zap.Int("folders", len(dirs)))
	}
	for _, dir := range dirs {
		siteDefault := ""
		if dir == absRoot {
			siteDefault = siteCfg.DefaultLanguage
		}
		if err := e.checkFolder(ctx, dir, siteDefault, rep); err != nil {
			return err
		}
	}
	return nil
}

// CheckFolder validates a single governed folder. Used by watch mode to
// re-validate the folder a changed file belongs to.
func (e *Engine) CheckFolder(ctx context.Context, dir string, rep report.Reporter) error {
	return e.checkFolder(ctx, dir, "", rep)
}

func (e *Engine) checkFolder(ctx context.Context, dir, siteDefault string, rep report.Reporter) error {
	rs, err := rules.Load(filepath.Join(dir, rules.FileName))
	if err != nil {
		return err
	}
	folder, err := scanFolder(dir, rs, rep)
	if err != nil {
		return err
	}
	if e.logger != nil {
		e.logger.Debug("folder scanned",
			zap.String("path", dir),
			zap.Int("documents", len(folder.Roots)))
	}
	if err := e.validateFolder(folder, siteDefault, rep); err != nil {
		return err
	}
	return e.validateFolderContent(ctx, folder, rep)
}

// validateFolder checks folder-level structure: emptiness, language
// declarations, the required-list language invariant, and per-document
// language completeness. A declared language without a physical file is
// fatal when enforcement is on.
func (e *Engine) validateFolder(folder *Folder, siteDefault string, rep report.Reporter) error {
	rs := folder.Rules
	if len(folder.Roots) == 0 {
		rep.Warn(folder.Path, "", "folder has no documents")
	}
	if !rs.EnforceLanguages {
		return nil
	}

	if err := langid.Validate(rs.DefaultLanguage, rs.Languages); err != nil {
		return fmt.Errorf("folder %s: default language: %w", folder.Path, err)
	}
	for _, lang := range rs.Languages {
		if err := langid.Validate(lang, rs.Languages); err != nil {
			return fmt.Errorf("folder %s: %w", folder.Path, err)
		}
	}
	if siteDefault != "" {
		if err := langid.Validate(siteDefault, rs.Languages); err != nil {
			return fmt.Errorf("folder %s: site default language: %w", folder.Path, err)
		}
	}

	// Required-list language scopes must equal the valid-language set in both
	// directions; a language missing on either side is a configuration error.
	for _, key := range rs.ListKeys() {
		scope := rs.RequiredLists[key]
		for _, lang := range rs.Languages {
			if _, ok := scope[lang]; !ok {
				return fmt.Errorf("folder %s: required list %q has no entry for language %q", folder.Path, key, lang)
			}
		}
		scopeLangs := make([]string, 0, len(scope))
		for lang := range scope {
			scopeLangs = append(scopeLangs, lang)
		}
		sort.Strings(scopeLangs)
		for _, lang := range scopeLangs {
			if !rs.HasLanguage(lang) {
				return fmt.Errorf("folder %s: required list %q references unknown language %q", folder.Path, key, lang)
			}
		}
	}

	for _, rootPath := range folder.Roots {
		doc := folder.Documents[rootPath]
		for _, lang := range rs.Languages {
			if _, ok := doc.Variants[lang]; !ok {
				return fmt.Errorf("document %s is missing its %q language variant", rootPath, lang)
			}
		}
	}
	return nil
}

// validateFolderContent validates every language variant of every document,
// in discovery order, folding results into the folder's duplicate table.
func (e *Engine) validateFolderContent(ctx context.Context, folder *Folder, rep report.Reporter) error {
	rs := folder.Rules

	var checker spellcheck.Checker
	if rs.SpellCheck.Enabled {
		if e.newChecker == nil {
			return fmt.Errorf("folder %s enables spell check but no checker is configured", folder.Path)
		}
		var err error
		checker, err = e.newChecker(rs.SpellCheck)
		if err != nil {
			return fmt.Errorf("folder %s: initialise spell check: %w", folder.Path, err)
		}
	}

	dup := make(duplicateTable)
	for _, rootPath := range folder.Roots {
		doc := folder.Documents[rootPath]
		for _, lang := range doc.Languages {
			v := doc.Variants[lang]
			if err := e.validateContent(ctx, rs, v, dup, checker); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateContent applies the per-variant checks: required headers, required
// lists, slug format, duplicate-tracked headers, and body language or remote
// spell check (mutually exclusive by configuration).
func (e *Engine) validateContent(ctx context.Context, rs *rules.RuleSet, v *LanguageVariant, dup duplicateTable, checker spellcheck.Checker) error {
	for _, key := range rs.RequiredHeaders {
		if rs.IsListKey(key) {
			if len(v.Header.GetList(key)) == 0 {
				return fmt.Errorf("required header %q is missing or empty in %s", key, v.Path)
			}
			continue
		}
		if v.Header.GetString(key) == "" {
			return fmt.Errorf("required header %q is missing or empty in %s", key, v.Path)
		}
	}

	for _, key := range rs.ListKeys() {
		items := v.Header.GetList(key)
		if len(items) == 0 {
			return fmt.Errorf("required list %q is empty in %s", key, v.Path)
		}
		allowed, ok := rs.RequiredLists[key][v.Language]
		if !ok {
			return fmt.Errorf("required list %q has no allowed values for language %q (%s)", key, v.Language, v.Path)
		}
		for _, item := range items {
			if !containsValue(allowed, item) {
				return fmt.Errorf("%s: value %q is not allowed for list %q in language %q", v.Path, item, key, v.Language)
			}
		}
	}

	if v.Header.Contains("slug") {
		slug := v.Header.GetString("slug")
		if !rs.MatchSlug(slug) {
			return fmt.Errorf("slug %q in %s does not match pattern %q", slug, v.Path, rs.SlugPattern)
		}
	}

	for _, key := range rs.DuplicateHeaders {
		if !v.Header.Contains(key) {
			continue
		}
		value := v.Header.GetString(key)
		if prev, collided := dup.record(key, value, v.Path); collided && prev != v.Path {
			return fmt.Errorf("duplicate value %q for header %q: first seen in %s, again in %s", value, key, prev, v.Path)
		}
	}

	if checker != nil {
		if err := checker.Check(ctx, v.Body, v.Language); err != nil {
			return fmt.Errorf("check %s: %w", v.Path, err)
		}
	} else if rs.VerifyBodyLanguage {
		detected := langid.DetectCode(v.Body)
		if !langid.Matches(detected, v.Language) {
			return fmt.Errorf("body of %s reads as language %q but is declared %q", v.Path, detected, v.Language)
		}
	}
	return nil
}

func containsValue(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
