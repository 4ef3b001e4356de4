package view

import (
	"strings"

	"repograph/internal/infographic"
)

// Row is one visible line of the rendered tree. Rendering is a pure function
// of (document, state); it never mutates either.
type Row struct {
	Node     *infographic.Node
	Depth    int
	Expanded bool
	// CodeLines is populated only for an expanded code_block node, whose code
	// display takes precedence over recursing into children.
	CodeLines []string
}

// Flatten walks the tree depth-first with an explicit stack and returns the
// rows a viewer should draw. A node's header always appears; its children
// appear iff the node is expanded. An expanded code_block emits its code
// lines and suppresses structural recursion even when children are present.
func Flatten(doc *infographic.Document, st *ExpandState) []Row {
	if doc == nil || doc.Root == nil {
		return nil
	}

	type frame struct {
		node  *infographic.Node
		depth int
	}
	rows := make([]Row, 0, 32)
	stack := []frame{{node: doc.Root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.node
		if n == nil {
			continue
		}

		row := Row{Node: n, Depth: f.depth, Expanded: st.IsExpanded(n.ID)}
		if !row.Expanded {
			rows = append(rows, row)
			continue
		}
		if n.Variant == infographic.VariantCodeBlock {
			row.CodeLines = codeLines(n)
			rows = append(rows, row)
			continue
		}
		rows = append(rows, row)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: n.Children[i], depth: f.depth + 1})
		}
	}
	return rows
}

func codeLines(n *infographic.Node) []string {
	if n == nil || n.Code == nil || n.Code.Code == "" {
		return nil
	}
	return strings.Split(n.Code.Code, "\n")
}

// RenderText renders the visible tree as a box-drawing outline:
//
//	acme/widgets
//	└── [repo] acme/widgets
//	    ├── [phase] Ingestion
//	    └── [phase] Analysis
//
// Collapsed subtrees are hidden, matching Flatten's visibility rule.
func RenderText(doc *infographic.Document, st *ExpandState) string {
	if doc == nil || doc.Root == nil {
		return ""
	}

	type frame struct {
		node   *infographic.Node
		prefix string
		isLast bool
	}

	var sb strings.Builder
	if strings.TrimSpace(doc.DisplayName) != "" {
		sb.WriteString(doc.DisplayName)
		sb.WriteString("\n")
	}

	stack := []frame{{node: doc.Root, isLast: true}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.node
		if n == nil {
			continue
		}

		connector := "├── "
		childIndent := "│   "
		if f.isLast {
			connector = "└── "
			childIndent = "    "
		}
		sb.WriteString(f.prefix)
		sb.WriteString(connector)
		sb.WriteString(headerLine(n))
		sb.WriteString("\n")

		if !st.IsExpanded(n.ID) {
			continue
		}
		childPrefix := f.prefix + childIndent

		if n.Variant == infographic.VariantCodeBlock {
			for _, line := range codeLines(n) {
				sb.WriteString(childPrefix)
				sb.WriteString(line)
				sb.WriteString("\n")
			}
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				node:   n.Children[i],
				prefix: childPrefix,
				isLast: i == len(n.Children)-1,
			})
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// headerLine formats a node header, preferring the metadata block that
// matches the variant when several are populated.
func headerLine(n *infographic.Node) string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(string(n.Variant))
	sb.WriteString("] ")
	sb.WriteString(n.Label)

	switch n.Variant {
	case infographic.VariantFile:
		if n.File != nil && n.File.FilePath != "" {
			sb.WriteString(" (")
			sb.WriteString(n.File.FilePath)
			sb.WriteString(")")
		}
	case infographic.VariantFunction:
		if n.Function != nil && n.Function.Signature != "" {
			sb.WriteString(" ")
			sb.WriteString(n.Function.Signature)
		}
	case infographic.VariantPhase:
		if n.Phase != nil && n.Phase.Purpose != "" {
			sb.WriteString(" - ")
			sb.WriteString(n.Phase.Purpose)
		}
	}

	if n.Hint != nil && n.Hint.Badge != "" {
		sb.WriteString(" [")
		sb.WriteString(n.Hint.Badge)
		sb.WriteString("]")
	}
	return sb.String()
}
