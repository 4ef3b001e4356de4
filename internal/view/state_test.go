package view

import (
	"fmt"
	"testing"

	"repograph/internal/infographic"
)

func deepDoc(depth int) *infographic.Document {
	leaf := &infographic.Node{ID: "leaf", Variant: infographic.VariantCodeBlock, Label: "bottom"}
	cur := leaf
	for i := depth - 1; i >= 0; i-- {
		cur = &infographic.Node{
			ID:       fmt.Sprintf("n%d", i),
			Variant:  infographic.VariantPhase,
			Label:    fmt.Sprintf("L%d", i),
			Children: []*infographic.Node{cur},
		}
	}
	root := &infographic.Node{
		ID:       "root",
		Variant:  infographic.VariantRepo,
		Label:    "deep",
		Children: []*infographic.Node{cur},
	}
	return &infographic.Document{DisplayName: "deep", Root: root}
}

func TestToggle_Idempotence(t *testing.T) {
	st := NewExpandState()
	if st.IsExpanded("a") {
		t.Fatal("fresh state should be collapsed")
	}
	st.Toggle("a")
	if !st.IsExpanded("a") {
		t.Fatal("first toggle should expand")
	}
	st.Toggle("a")
	if st.IsExpanded("a") {
		t.Fatal("second toggle should collapse")
	}
	if st.Len() != 0 {
		t.Fatalf("expected empty set, got %d", st.Len())
	}
}

func TestExpandAll_CoversEveryNodeBeyondNominalDepth(t *testing.T) {
	doc := deepDoc(50)
	st := NewExpandState()
	st.ExpandAll(doc)
	for _, id := range doc.NodeIDs() {
		if !st.IsExpanded(id) {
			t.Fatalf("node %s should be expanded", id)
		}
	}
	// Leaves are included; that is a harmless no-op for rendering.
	if !st.IsExpanded("leaf") {
		t.Fatal("leaf should be expanded")
	}
}

func TestCollapseAll_ClearsAnyPriorState(t *testing.T) {
	doc := deepDoc(10)
	st := NewExpandState()
	st.Toggle("n3")
	st.ExpandAll(doc)
	st.Toggle("n5") // collapse one in between
	st.CollapseAll()
	for _, id := range doc.NodeIDs() {
		if st.IsExpanded(id) {
			t.Fatalf("node %s should be collapsed after CollapseAll", id)
		}
	}
}

func TestToggle_StaleIDIsNoOp(t *testing.T) {
	doc := deepDoc(3)
	st := NewExpandState()
	st.Toggle("ghost-from-previous-document")

	rows := Flatten(doc, st)
	if len(rows) != 1 {
		t.Fatalf("stale toggle must not affect rendering: got %d rows", len(rows))
	}
	if rows[0].Node.ID != "root" {
		t.Fatalf("expected collapsed root only, got %s", rows[0].Node.ID)
	}
}

func TestFlatten_CollapsedChildrenHidden(t *testing.T) {
	doc := deepDoc(5)
	st := NewExpandState()
	st.Toggle("root")
	st.Toggle("n0")

	rows := Flatten(doc, st)
	// root + n0 + n1 (n1 collapsed, so nothing below it)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[2].Node.ID != "n1" || rows[2].Expanded {
		t.Fatalf("n1 should be visible but collapsed")
	}
}

func TestFlatten_CodeBlockPrecedence(t *testing.T) {
	code := &infographic.Node{
		ID:      "cb",
		Variant: infographic.VariantCodeBlock,
		Label:   "snippet",
		Code:    &infographic.CodeMeta{Code: "line one\nline two"},
		// Children on a code_block are legal; code display still wins.
		Children: []*infographic.Node{
			{ID: "hidden", Variant: infographic.VariantFile, Label: "never shown"},
		},
	}
	doc := &infographic.Document{
		Root: &infographic.Node{
			ID: "root", Variant: infographic.VariantRepo, Label: "r",
			Children: []*infographic.Node{code},
		},
	}
	st := NewExpandState()
	st.ExpandAll(doc)

	rows := Flatten(doc, st)
	for _, row := range rows {
		if row.Node.ID == "hidden" {
			t.Fatal("expanded code_block must not recurse into children")
		}
		if row.Node.ID == "cb" {
			if len(row.CodeLines) != 2 || row.CodeLines[1] != "line two" {
				t.Fatalf("unexpected code lines: %v", row.CodeLines)
			}
		}
	}
}

func TestFlatten_SiblingOrderPreserved(t *testing.T) {
	root := &infographic.Node{ID: "root", Variant: infographic.VariantRepo, Label: "r"}
	for i := 0; i < 5; i++ {
		root.Children = append(root.Children, &infographic.Node{
			ID:      fmt.Sprintf("c%d", i),
			Variant: infographic.VariantPhase,
			Label:   fmt.Sprintf("child %d", i),
		})
	}
	doc := &infographic.Document{Root: root}
	st := NewExpandState()
	st.Toggle("root")

	rows := Flatten(doc, st)
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}
	for i, row := range rows[1:] {
		want := fmt.Sprintf("c%d", i)
		if row.Node.ID != want {
			t.Fatalf("row %d: expected %s, got %s", i+1, want, row.Node.ID)
		}
	}
}

func TestRenderText_OutlineShape(t *testing.T) {
	doc := deepDoc(2)
	st := NewExpandState()
	st.ExpandAll(doc)

	out := RenderText(doc, st)
	wantLines := []string{
		"deep",
		"└── [repo] deep",
		"    └── [phase] L0",
		"        └── [phase] L1",
		"            └── [code_block] bottom",
	}
	got := out
	for _, line := range wantLines {
		if !containsLine(got, line) {
			t.Fatalf("output missing line %q:\n%s", line, out)
		}
	}
}

func TestRenderText_CollapsedRootShowsHeaderOnly(t *testing.T) {
	doc := deepDoc(4)
	st := NewExpandState()
	out := RenderText(doc, st)
	if containsLine(out, "    └── [phase] L0") {
		t.Fatalf("collapsed root must hide children:\n%s", out)
	}
}

func containsLine(s, line string) bool {
	for _, l := range splitLines(s) {
		if l == line {
			return true
		}
	}
	return false
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
