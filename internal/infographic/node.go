package infographic

// Variant discriminates which metadata block on a Node is semantically primary.
type Variant string

const (
	VariantRepo      Variant = "repo"
	VariantPhase     Variant = "phase"
	VariantStep      Variant = "step"
	VariantFile      Variant = "file"
	VariantFunction  Variant = "function"
	VariantCodeBlock Variant = "code_block"

	// VariantUnknown is assigned when the wire value is missing or unrecognized.
	// The node still carries id/label/children so the rest of the tree renders.
	VariantUnknown Variant = "unknown"
)

var knownVariants = map[Variant]bool{
	VariantRepo:      true,
	VariantPhase:     true,
	VariantStep:      true,
	VariantFile:      true,
	VariantFunction:  true,
	VariantCodeBlock: true,
}

// KnownVariant reports whether s is one of the six wire variants.
func KnownVariant(s string) bool {
	return knownVariants[Variant(s)]
}

// VisualHint carries presentation-only hints. It has no behavioral weight.
type VisualHint struct {
	Icon     string `json:"icon,omitempty"`
	ColorHex string `json:"color,omitempty"`
	Badge    string `json:"badge,omitempty"`
}

type PhaseMeta struct {
	PhaseID string `json:"phaseId,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

type StepMeta struct {
	SourceNodeIDs []string `json:"sourceNodeIds,omitempty"`
	TargetNodeIDs []string `json:"targetNodeIds,omitempty"`
	ProcessScript string   `json:"processScript,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

type FileMeta struct {
	FilePath  string `json:"filePath,omitempty"`
	Language  string `json:"language,omitempty"`
	SourceURL string `json:"sourceUrl,omitempty"`
	LineCount int    `json:"lineCount,omitempty"`
}

type FunctionMeta struct {
	Signature string `json:"signature,omitempty"`
	LineStart int    `json:"lineStart,omitempty"`
	LineEnd   int    `json:"lineEnd,omitempty"`
	Docstring string `json:"docstring,omitempty"`
	SourceURL string `json:"sourceUrl,omitempty"`
}

type CodeAnnotation struct {
	Line    int    `json:"line"`
	Comment string `json:"comment,omitempty"`
}

type CodeMeta struct {
	Code        string           `json:"code,omitempty"`
	Language    string           `json:"language,omitempty"`
	SourceURL   string           `json:"sourceUrl,omitempty"`
	FilePath    string           `json:"filePath,omitempty"`
	LineStart   int              `json:"lineStart,omitempty"`
	LineEnd     int              `json:"lineEnd,omitempty"`
	Annotations []CodeAnnotation `json:"annotations,omitempty"`
}

// Connection is an explicit data-flow edge independent of the parent/child tree.
// TargetID is not validated to exist; dangling references render as plain labels.
type Connection struct {
	TargetID   string `json:"targetId"`
	Label      string `json:"label,omitempty"`
	IsOutgoing bool   `json:"isOutgoing"`
}

// Node is one entry in the recursive tree. Metadata blocks are pointers so
// absence on the wire stays absence in memory; the renderer prefers the block
// matching Variant when several are populated.
type Node struct {
	ID          string        `json:"id"`
	Variant     Variant       `json:"type"`
	Label       string        `json:"label"`
	Description string        `json:"description,omitempty"`
	Hint        *VisualHint   `json:"visualHint,omitempty"`
	Phase       *PhaseMeta    `json:"phase,omitempty"`
	Step        *StepMeta     `json:"step,omitempty"`
	File        *FileMeta     `json:"file,omitempty"`
	Function    *FunctionMeta `json:"function,omitempty"`
	Code        *CodeMeta     `json:"code,omitempty"`
	Connections []Connection  `json:"connections,omitempty"`
	Children    []*Node       `json:"children,omitempty"`
}

// Walk visits n and every descendant in depth-first preorder using an explicit
// stack, so generator-produced depth never translates into call-stack growth.
func (n *Node) Walk(visit func(*Node)) {
	if n == nil || visit == nil {
		return
	}
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == nil {
			continue
		}
		visit(cur)
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
}

// CountNodes returns the number of nodes reachable from n, itself included.
func (n *Node) CountNodes() int {
	total := 0
	n.Walk(func(*Node) { total++ })
	return total
}
