package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Op tags one diff segment.
type Op string

const (
	OpEqual   Op = "equal"
	OpInsert  Op = "insert"
	OpDelete  Op = "delete"
	OpReplace Op = "replace"
)

// Segment is one tagged slice pair of the line-level comparison. Left and
// Right hold the raw line slices (separators preserved); the index pairs
// are half-open line ranges into the split inputs.
type Segment struct {
	Op         Op
	Left       []string
	Right      []string
	LeftStart  int
	LeftEnd    int
	RightStart int
	RightEnd   int
}

// Compare computes a line-based diff of left and right using the greedy
// longest-matching-block heuristic (Python difflib's opcode sequence). Ties
// favor the earliest match in left. Concatenating the Left slices of all
// equal/delete/replace segments reproduces left exactly, and likewise the
// Right slices of equal/insert/replace segments reproduce right.
func Compare(left, right string) []Segment {
	a := splitLines(left)
	b := splitLines(right)

	matcher := difflib.NewMatcher(a, b)

	var segments []Segment
	for _, oc := range matcher.GetOpCodes() {
		seg := Segment{
			Op:         opFromTag(oc.Tag),
			LeftStart:  oc.I1,
			LeftEnd:    oc.I2,
			RightStart: oc.J1,
			RightEnd:   oc.J2,
		}
		if oc.I2 > oc.I1 {
			seg.Left = a[oc.I1:oc.I2]
		}
		if oc.J2 > oc.J1 {
			seg.Right = b[oc.J1:oc.J2]
		}
		segments = append(segments, seg)
	}
	return segments
}

func opFromTag(tag byte) Op {
	switch tag {
	case 'e':
		return OpEqual
	case 'i':
		return OpInsert
	case 'd':
		return OpDelete
	default:
		return OpReplace
	}
}

// splitLines keeps line terminators attached so joining the slices gives
// back the input byte for byte. An absent input is an empty string.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Reconstruct joins one side of the segment sequence back into a document.
func Reconstruct(segments []Segment, side Side) string {
	var sb strings.Builder
	for _, seg := range segments {
		switch side {
		case SideLeft:
			for _, line := range seg.Left {
				sb.WriteString(line)
			}
		case SideRight:
			for _, line := range seg.Right {
				sb.WriteString(line)
			}
		}
	}
	return sb.String()
}

type Side int

const (
	SideLeft Side = iota
	SideRight
)
