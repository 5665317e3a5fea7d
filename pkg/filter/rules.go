package filter

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// IgnoreRule is a folder pattern split into lower-cased path segments.
type IgnoreRule struct {
	Line     string   // Original pattern line.
	Segments []string // Normalized segments, never empty.
}

// RuleSet holds one snapshot of the allow, ignore and include lists.
type RuleSet struct {
	Extensions map[string]struct{} // Lower-cased extensions with leading dot.
	Ignore     []IgnoreRule
	Include    []string // Lower-cased, slash-separated path suffixes.
}

// RuleSetProvider hands out rule sets. Every Reload returns a fresh snapshot
// so edits to the backing lists take effect on the next filtering pass.
type RuleSetProvider interface {
	Reload() *RuleSet
}

// NewRuleSet parses raw allow, ignore and include lines into a RuleSet.
func NewRuleSet(allow, ignore, include []string) *RuleSet {
	return &RuleSet{
		Extensions: ParseExtensions(allow),
		Ignore:     ParseIgnoreRules(ignore),
		Include:    ParseIncludeRules(include),
	}
}

// ParseExtensions keeps lines that start with a dot and lower-cases them.
func ParseExtensions(lines []string) map[string]struct{} {
	exts := make(map[string]struct{})
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !strings.HasPrefix(trimmed, ".") {
			continue
		}
		exts[strings.ToLower(trimmed)] = struct{}{}
	}
	return exts
}

// ParseIgnoreRules normalizes folder patterns such as "bin" or "wwwroot/vendor".
func ParseIgnoreRules(lines []string) []IgnoreRule {
	var rules []IgnoreRule
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		segments := splitSegments(strings.ToLower(trimmed))
		if len(segments) == 0 {
			continue
		}
		rules = append(rules, IgnoreRule{Line: trimmed, Segments: segments})
	}
	return rules
}

// ParseIncludeRules normalizes path suffixes, skipping blanks and '#' comments.
func ParseIncludeRules(lines []string) []string {
	var rules []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		rule := strings.ToLower(strings.Trim(toSlash(trimmed), "/"))
		if rule == "" {
			continue
		}
		rules = append(rules, rule)
	}
	return rules
}

// Allowed reports whether the extension of path is in the allow-list.
func (rs *RuleSet) Allowed(path string) bool {
	_, ok := rs.Extensions[strings.ToLower(extension(path))]
	return ok
}

// Ignored reports whether any segment run of the absolute path matches an ignore rule.
func (rs *RuleSet) Ignored(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	segments := splitSegments(strings.ToLower(absolute(path)))
	for _, rule := range rs.Ignore {
		if len(rule.Segments) == 1 {
			if slices.Contains(segments, rule.Segments[0]) {
				return true
			}
			continue
		}
		if containsRun(segments, rule.Segments) {
			return true
		}
	}
	return false
}

// Included reports whether the absolute path ends with one of the include suffixes.
func (rs *RuleSet) Included(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	normalized := strings.ToLower(toSlash(absolute(path)))
	for _, rule := range rs.Include {
		if strings.HasSuffix(normalized, "/"+rule) {
			return true
		}
	}
	return false
}

// Accepts applies the composed policy: the extension must be allowed, and an
// include rule overrides an ignore rule.
func (rs *RuleSet) Accepts(path string) bool {
	return rs.Allowed(path) && (rs.Included(path) || !rs.Ignored(path))
}

// StaticProvider always returns the same rules.
type StaticProvider struct {
	Rules *RuleSet
}

// Reload returns the static rules, or an empty set when none were given.
func (p StaticProvider) Reload() *RuleSet {
	if p.Rules == nil {
		return NewRuleSet(nil, nil, nil)
	}
	return p.Rules
}

// FileProvider reads the three lists from line-delimited text files on every Reload.
type FileProvider struct {
	AllowFile   string
	IgnoreFile  string
	IncludeFile string
	logger      *zap.Logger
}

// NewFileProvider creates a FileProvider. A nil logger disables logging.
func NewFileProvider(allowFile, ignoreFile, includeFile string, logger *zap.Logger) *FileProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileProvider{
		AllowFile:   allowFile,
		IgnoreFile:  ignoreFile,
		IncludeFile: includeFile,
		logger:      logger,
	}
}

// Reload reads all three files. An unreadable file yields an empty list for that pass.
func (p *FileProvider) Reload() *RuleSet {
	rs := NewRuleSet(p.readLines(p.AllowFile), p.readLines(p.IgnoreFile), p.readLines(p.IncludeFile))
	p.logger.Debug("Reloaded rule set",
		zap.Int("extensions", len(rs.Extensions)),
		zap.Int("ignoreRules", len(rs.Ignore)),
		zap.Int("includeRules", len(rs.Include)))
	return rs
}

func (p *FileProvider) readLines(path string) []string {
	if path == "" {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		p.logger.Warn("Failed to read rule file, treating it as empty", zap.String("filePath", path), zap.Error(err))
		return nil
	}
	return strings.Split(string(content), "\n")
}

// extension returns the substring from the last dot of the final segment.
func extension(path string) string {
	base := path
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		base = path[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		return base[i:]
	}
	return ""
}

func splitSegments(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' })
}

// containsRun reports whether needle occurs as a contiguous run inside haystack.
func containsRun(haystack, needle []string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if slices.Equal(haystack[i:i+len(needle)], needle) {
			return true
		}
	}
	return false
}

func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func toSlash(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}
