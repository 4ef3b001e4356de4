package infographic

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"repograph/internal/util/jsonutil"
)

// DecodeError reports an unrecoverable document-level decode failure.
// Node-level failures below the root never produce a DecodeError; they are
// absorbed into the Report instead.
type DecodeError struct {
	Detail string
	Err    error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "infographic: decode error"
	}
	if e.Err != nil {
		return fmt.Sprintf("infographic: %s: %v", e.Detail, e.Err)
	}
	return "infographic: " + e.Detail
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DroppedNode records a child that failed its own decode and was omitted
// from the tree.
type DroppedNode struct {
	Path   string
	Reason string
}

// Report collects partial-data conditions observed while decoding. A non-empty
// report does not make the decode a failure.
type Report struct {
	Dropped      []DroppedNode
	DuplicateIDs []string
}

// Decode parses raw bytes into a Document. Optional fields may be absent, null,
// or of coercible shape; a malformed child node is dropped rather than failing
// the whole document.
func Decode(data []byte) (*Document, error) {
	doc, _, err := DecodeWithReport(data)
	return doc, err
}

// DecodeWithReport is Decode plus the partial-data report.
func DecodeWithReport(data []byte) (*Document, *Report, error) {
	var head struct {
		FormatVersion    string          `json:"formatVersion"`
		SchemaName       string          `json:"schemaName"`
		SourceLocator    string          `json:"sourceLocator"`
		DisplayName      string          `json:"displayName"`
		Summary          string          `json:"summary"`
		PipelineOverview string          `json:"pipelineOverview"`
		GeneratedAt      string          `json:"generatedAt"`
		Root             json.RawMessage `json:"root"`
	}
	if err := jsonutil.Unmarshal(data, &head); err != nil {
		return nil, nil, &DecodeError{Detail: "body is not a JSON document object", Err: err}
	}
	if isAbsent(head.Root) {
		return nil, nil, &DecodeError{Detail: "document has no root node"}
	}

	report := &Report{}
	root, err := decodeTree(head.Root, report)
	if err != nil {
		return nil, nil, err
	}

	seen := map[string]bool{}
	root.Walk(func(n *Node) {
		if seen[n.ID] {
			report.DuplicateIDs = append(report.DuplicateIDs, n.ID)
			return
		}
		seen[n.ID] = true
	})

	doc := &Document{
		FormatVersion:    head.FormatVersion,
		SchemaName:       head.SchemaName,
		SourceLocator:    head.SourceLocator,
		DisplayName:      head.DisplayName,
		Summary:          head.Summary,
		PipelineOverview: head.PipelineOverview,
		GeneratedAt:      head.GeneratedAt,
		Root:             root,
	}
	return doc, report, nil
}

// decodeTree builds the node tree iteratively with a work queue so tree depth
// is never bounded by Go call-stack limits. Sibling order is preserved because
// each frame appends to its parent before its own children are enqueued.
func decodeTree(rawRoot json.RawMessage, report *Report) (*Node, error) {
	type frame struct {
		raw    json.RawMessage
		path   string
		parent *Node
	}

	var root *Node
	queue := []frame{{raw: rawRoot, path: "root"}}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		n, kids, err := decodeOne(f.raw, f.parent == nil)
		if err != nil {
			if be, ok := err.(*badChildrenError); ok {
				return nil, &DecodeError{Detail: fmt.Sprintf("%s: %s", f.path, be.reason)}
			}
			if f.parent == nil {
				return nil, &DecodeError{Detail: "root: " + err.Error()}
			}
			report.Dropped = append(report.Dropped, DroppedNode{Path: f.path, Reason: err.Error()})
			continue
		}

		if f.parent == nil {
			root = n
		} else {
			f.parent.Children = append(f.parent.Children, n)
		}
		for i, kid := range kids {
			queue = append(queue, frame{
				raw:    kid,
				path:   fmt.Sprintf("%s.children[%d]", f.path, i),
				parent: n,
			})
		}
	}
	return root, nil
}

// badChildrenError marks a children field that is present but not an array.
// Unlike a malformed child element this always escalates to a document failure.
type badChildrenError struct{ reason string }

func (e *badChildrenError) Error() string { return e.reason }

func decodeOne(raw json.RawMessage, isRoot bool) (*Node, []json.RawMessage, error) {
	var aux struct {
		ID          string          `json:"id"`
		Type        *string         `json:"type"`
		Variant     *string         `json:"variant"`
		Label       *string         `json:"label"`
		Description any             `json:"description"`
		Hint        *VisualHint     `json:"visualHint"`
		Phase       *PhaseMeta      `json:"phase"`
		Step        *StepMeta       `json:"step"`
		File        *FileMeta       `json:"file"`
		Function    *FunctionMeta   `json:"function"`
		Code        *CodeMeta       `json:"code"`
		Connections json.RawMessage `json:"connections"`
		Children    json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(raw, &aux); err != nil {
		return nil, nil, fmt.Errorf("not a node object")
	}
	if strings.TrimSpace(aux.ID) == "" {
		return nil, nil, fmt.Errorf("node has no id")
	}
	if aux.Label == nil {
		return nil, nil, fmt.Errorf("node %q has no label", aux.ID)
	}

	wire := aux.Type
	if wire == nil {
		wire = aux.Variant
	}
	if isRoot && wire == nil {
		return nil, nil, fmt.Errorf("node %q has no type", aux.ID)
	}
	variant := VariantUnknown
	if wire != nil && KnownVariant(strings.TrimSpace(*wire)) {
		variant = Variant(strings.TrimSpace(*wire))
	}

	var kids []json.RawMessage
	if !isAbsent(aux.Children) {
		if err := json.Unmarshal(aux.Children, &kids); err != nil {
			return nil, nil, &badChildrenError{reason: "children is not an array"}
		}
	}

	n := &Node{
		ID:          strings.TrimSpace(aux.ID),
		Variant:     variant,
		Label:       *aux.Label,
		Description: coerceString(aux.Description),
		Hint:        aux.Hint,
		Phase:       aux.Phase,
		Step:        aux.Step,
		File:        aux.File,
		Function:    aux.Function,
		Code:        aux.Code,
		Connections: decodeConnections(aux.Connections),
	}
	return n, kids, nil
}

// decodeConnections parses the connections array element by element; a
// malformed edge is skipped, never fatal.
func decodeConnections(raw json.RawMessage) []Connection {
	if isAbsent(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var out []Connection
	for _, item := range items {
		var aux struct {
			TargetID   string `json:"targetId"`
			Label      string `json:"label"`
			IsOutgoing any    `json:"isOutgoing"`
		}
		if err := json.Unmarshal(item, &aux); err != nil {
			continue
		}
		if strings.TrimSpace(aux.TargetID) == "" {
			continue
		}
		out = append(out, Connection{
			TargetID:   strings.TrimSpace(aux.TargetID),
			Label:      aux.Label,
			IsOutgoing: coerceBool(aux.IsOutgoing),
		})
	}
	return out
}

func isAbsent(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

// ---------------------------------------------------------------------------
// permissive metadata decoding
//
// The producer is an LLM: numeric fields arrive as numbers, quoted numbers, or
// garbage. A malformed metadata block degrades to its zero value instead of
// failing the node.
// ---------------------------------------------------------------------------

func (h *VisualHint) UnmarshalJSON(data []byte) error {
	var aux struct {
		Icon     any `json:"icon"`
		ColorHex any `json:"color"`
		Badge    any `json:"badge"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		*h = VisualHint{}
		return nil
	}
	h.Icon = coerceString(aux.Icon)
	h.ColorHex = coerceString(aux.ColorHex)
	h.Badge = coerceString(aux.Badge)
	return nil
}

func (m *PhaseMeta) UnmarshalJSON(data []byte) error {
	var aux struct {
		PhaseID any `json:"phaseId"`
		Purpose any `json:"purpose"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		*m = PhaseMeta{}
		return nil
	}
	m.PhaseID = coerceString(aux.PhaseID)
	m.Purpose = coerceString(aux.Purpose)
	return nil
}

func (m *StepMeta) UnmarshalJSON(data []byte) error {
	var aux struct {
		SourceNodeIDs any `json:"sourceNodeIds"`
		TargetNodeIDs any `json:"targetNodeIds"`
		ProcessScript any `json:"processScript"`
		Notes         any `json:"notes"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		*m = StepMeta{}
		return nil
	}
	m.SourceNodeIDs = coerceStringList(aux.SourceNodeIDs)
	m.TargetNodeIDs = coerceStringList(aux.TargetNodeIDs)
	m.ProcessScript = coerceString(aux.ProcessScript)
	m.Notes = coerceString(aux.Notes)
	return nil
}

func (m *FileMeta) UnmarshalJSON(data []byte) error {
	var aux struct {
		FilePath  string `json:"filePath"`
		Language  string `json:"language"`
		SourceURL string `json:"sourceUrl"`
		LineCount any    `json:"lineCount"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		*m = FileMeta{}
		return nil
	}
	m.FilePath = aux.FilePath
	m.Language = aux.Language
	m.SourceURL = aux.SourceURL
	m.LineCount = coerceInt(aux.LineCount)
	return nil
}

func (m *FunctionMeta) UnmarshalJSON(data []byte) error {
	var aux struct {
		Signature string `json:"signature"`
		LineStart any    `json:"lineStart"`
		LineEnd   any    `json:"lineEnd"`
		Docstring string `json:"docstring"`
		SourceURL string `json:"sourceUrl"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		*m = FunctionMeta{}
		return nil
	}
	m.Signature = aux.Signature
	m.LineStart = coerceInt(aux.LineStart)
	m.LineEnd = coerceInt(aux.LineEnd)
	m.Docstring = aux.Docstring
	m.SourceURL = aux.SourceURL
	return nil
}

func (m *CodeMeta) UnmarshalJSON(data []byte) error {
	var aux struct {
		Code        string            `json:"code"`
		Language    string            `json:"language"`
		SourceURL   string            `json:"sourceUrl"`
		FilePath    string            `json:"filePath"`
		LineStart   any               `json:"lineStart"`
		LineEnd     any               `json:"lineEnd"`
		Annotations []json.RawMessage `json:"annotations"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		*m = CodeMeta{}
		return nil
	}
	m.Code = aux.Code
	m.Language = aux.Language
	m.SourceURL = aux.SourceURL
	m.FilePath = aux.FilePath
	m.LineStart = coerceInt(aux.LineStart)
	m.LineEnd = coerceInt(aux.LineEnd)
	m.Annotations = nil
	for _, raw := range aux.Annotations {
		var a struct {
			Line    any    `json:"line"`
			Comment string `json:"comment"`
		}
		if err := json.Unmarshal(raw, &a); err != nil {
			continue
		}
		m.Annotations = append(m.Annotations, CodeAnnotation{
			Line:    coerceInt(a.Line),
			Comment: a.Comment,
		})
	}
	return nil
}

func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// coerceStringList accepts an array of strings or a single bare string.
func coerceStringList(v any) []string {
	switch t := v.(type) {
	case []any:
		var out []string
		for _, item := range t {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []string{t}
	default:
		return nil
	}
}

func coerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(t))
		return b
	case float64:
		return t != 0
	default:
		return false
	}
}

func coerceInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case json.Number:
		n, _ := t.Int64()
		return int(n)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(t))
		return n
	default:
		return 0
	}
}
