package infographic

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// LocalFile is one (path, content) pair fed to BuildLocal.
type LocalFile struct {
	Path    string
	Content string
}

// BuildLocal synthesizes a minimal one-level document from a flat file list.
// It is pure and always succeeds; used when no generator is available.
func BuildLocal(projectName string, files []LocalFile) *Document {
	name := strings.TrimSpace(projectName)
	if name == "" {
		name = "Local Project"
	}

	fileNodes := make([]*Node, 0, len(files))
	for i, f := range files {
		p := strings.TrimSpace(f.Path)
		fileNodes = append(fileNodes, &Node{
			ID:      fmt.Sprintf("file-%d", i),
			Variant: VariantFile,
			Label:   path.Base(p),
			File: &FileMeta{
				FilePath:  p,
				Language:  LanguageForPath(p),
				LineCount: len(strings.Split(f.Content, "\n")),
			},
		})
	}

	root := &Node{
		ID:      "root",
		Variant: VariantRepo,
		Label:   name,
		Children: []*Node{
			{
				ID:       "phase-source-files",
				Variant:  VariantPhase,
				Label:    "Source Files",
				Phase:    &PhaseMeta{PhaseID: "source-files"},
				Children: fileNodes,
			},
		},
	}

	return &Document{
		FormatVersion: FormatVersion,
		SchemaName:    SchemaName,
		SourceLocator: "local://" + name,
		DisplayName:   name,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Root:          root,
	}
}

var languageByExt = map[string]string{
	".c":     "C",
	".cc":    "C++",
	".cpp":   "C++",
	".cs":    "C#",
	".css":   "CSS",
	".dart":  "Dart",
	".go":    "Go",
	".h":     "C Header",
	".html":  "HTML",
	".java":  "Java",
	".js":    "JavaScript",
	".json":  "JSON",
	".kt":    "Kotlin",
	".md":    "Markdown",
	".php":   "PHP",
	".py":    "Python",
	".rb":    "Ruby",
	".rs":    "Rust",
	".scala": "Scala",
	".sh":    "Shell",
	".sql":   "SQL",
	".swift": "Swift",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".yaml":  "YAML",
	".yml":   "YAML",
}

// LanguageForPath maps a file extension to a display language. Unknown
// extensions fall back to the uppercased extension, or "Unknown" when the
// path has none.
func LanguageForPath(p string) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(p)))
	if lang, ok := languageByExt[ext]; ok {
		return lang
	}
	trimmed := strings.TrimPrefix(ext, ".")
	if trimmed == "" {
		return "Unknown"
	}
	return strings.ToUpper(trimmed)
}
