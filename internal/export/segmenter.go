// Package export plans how a rendered report is split into height-bounded
// image export segments. The caller measures the rendered document and hands
// over a flattened sequence of group-level nodes; the plan decides where to
// cut so that no atomic group is torn across two artifacts.
package export

import "math"

// NodeKind identifies what a measured node represents in the document.
type NodeKind string

const (
	KindHeader  NodeKind = "header"
	KindError   NodeKind = "error-section"
	KindGroup   NodeKind = "group"
	KindSection NodeKind = "section"
	KindFooter  NodeKind = "footer"
)

// Node is one measured region of the rendered document. Offsets are in the
// document's coordinate space and are expected to be non-decreasing in
// document order; violations are clamped, not rejected.
type Node struct {
	Kind    NodeKind `json:"kind"`
	GroupID string   `json:"group_id,omitempty"`
	Top     float64  `json:"top"`
	Bottom  float64  `json:"bottom"`
}

// Segment is one export artifact's slice of the document, the half-open
// offset range [Start, End).
type Segment struct {
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	IncludesHeader bool    `json:"includes_header"`
}

// Height returns the segment's extent.
func (s Segment) Height() float64 {
	return s.End - s.Start
}

// Plan walks the measured nodes once, in document order, and greedily packs
// them into segments no taller than budget. The first segment always carries
// the header region. A cut only ever lands between nodes, so a group that was
// flattened to a single node can never be split; a single group taller than
// the budget simply yields one over-budget segment.
//
// The walk degrades gracefully on malformed geometry: offsets are clamped so
// a segment never runs backwards, and no input causes an error. The plan is
// deterministic, so re-exporting an unchanged document cuts at the same
// offsets.
func Plan(nodes []Node, budget, headerHeight float64) []Segment {
	headerHeight = math.Max(0, headerHeight)

	if len(nodes) == 0 {
		return []Segment{{Start: 0, End: headerHeight, IncludesHeader: true}}
	}

	var segments []Segment
	current := Segment{Start: 0, IncludesHeader: true}
	prevBottom := headerHeight
	nodesInSegment := 0

	for _, node := range nodes {
		bottom := math.Max(node.Bottom, prevBottom)
		potential := bottom - current.Start

		if potential > budget && nodesInSegment > 0 {
			current.End = prevBottom
			segments = append(segments, current)

			current = Segment{Start: prevBottom}
			nodesInSegment = 0
		}

		current.End = bottom
		prevBottom = bottom
		nodesInSegment++
	}

	// The final segment absorbs whatever document height follows the last
	// node (trailing margins, the footer's border).
	current.End = math.Max(prevBottom, headerHeight)
	segments = append(segments, current)

	return segments
}

// TotalHeight reports the document extent a plan covers.
func TotalHeight(segments []Segment) float64 {
	if len(segments) == 0 {
		return 0
	}
	return segments[len(segments)-1].End
}
