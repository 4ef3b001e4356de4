package infographic

import (
	"repograph/internal/util/jsonutil"
)

// SchemaName is the constant schema discriminator stamped on documents this
// package produces. The decoder does not enforce it on input.
const SchemaName = "interactive-infographic"

// FormatVersion is informational only; it is never checked against a
// compatibility table.
const FormatVersion = "2.0"

// Document is the top-level decoded infographic. It is immutable once loaded;
// view state lives in the view package, keyed by node id.
type Document struct {
	FormatVersion    string `json:"formatVersion"`
	SchemaName       string `json:"schemaName"`
	SourceLocator    string `json:"sourceLocator"`
	DisplayName      string `json:"displayName"`
	Summary          string `json:"summary,omitempty"`
	PipelineOverview string `json:"pipelineOverview,omitempty"`
	GeneratedAt      string `json:"generatedAt"`
	Root             *Node  `json:"root"`
}

// Encode serializes the document without HTML escaping, so code snippets with
// <, > and & survive a round trip byte-comparable.
func (d *Document) Encode() ([]byte, error) {
	return jsonutil.MarshalNoEscape(d)
}

// EncodeIndent is Encode with indentation, for files meant to be read by people.
func (d *Document) EncodeIndent() ([]byte, error) {
	return jsonutil.MarshalNoEscapeIndent(d, "", "  ")
}

// NodeIDs returns every node id reachable from the root in preorder.
// Duplicate ids appear as many times as they occur.
func (d *Document) NodeIDs() []string {
	if d == nil || d.Root == nil {
		return nil
	}
	ids := make([]string, 0, 32)
	d.Root.Walk(func(n *Node) { ids = append(ids, n.ID) })
	return ids
}

// FindNode returns the first node with the given id in preorder, or nil.
func (d *Document) FindNode(id string) *Node {
	if d == nil || d.Root == nil {
		return nil
	}
	var found *Node
	d.Root.Walk(func(n *Node) {
		if found == nil && n.ID == id {
			found = n
		}
	})
	return found
}
