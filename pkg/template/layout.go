package template

import (
	"strings"
	"unicode/utf8"

	"github.com/aretw0/flowboard/pkg/domain"
)

// Geometry constants, in canvas pixels.
const (
	MinWidth       = 220.0
	MaxWidth       = 600.0
	WidthThreshold = 30 // characters before the node starts to widen
	CharWidth      = 6.0

	LineHeight    = 20.0
	MinTextHeight = 60.0
	ChromeHeight  = 80.0 // header + padding
	PerVariable   = 18.0
	MinHeight     = MinTextHeight + ChromeHeight
	MaxHeight     = 1200.0

	HandleTop    = 50.0 // first usable y below the header
	HandleBottom = 40.0 // reserved below the last handle
)

// OutputHandle is the local name of the single source handle of text nodes.
const OutputHandle = "output"

// VariablePrefix prefixes the local handle name of every extracted variable.
const VariablePrefix = "var-"

// Size is a node's derived width and height.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Measure derives the node size from its text: width follows the longest line,
// height follows the line count plus an allowance per extracted variable.
func Measure(text string) Size {
	lines := strings.Split(text, "\n")
	longest := 0
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > longest {
			longest = n
		}
	}

	width := MinWidth + float64(max(0, longest-WidthThreshold))*CharWidth

	textHeight := max(MinTextHeight, float64(len(lines))*LineHeight)
	height := textHeight + ChromeHeight + float64(len(Extract(text)))*PerVariable

	return Size{
		Width:  clamp(width, MinWidth, MaxWidth),
		Height: clamp(height, MinHeight, MaxHeight),
	}
}

// Handles derives the full handle list of a text-bearing node: one target per variable,
// spread evenly between HandleTop and HandleBottom in extraction order, followed by a single
// source handle at vertical center.
func Handles(nodeID, text string) []domain.Handle {
	vars := Extract(text)
	size := Measure(text)

	avail := size.Height - HandleTop - HandleBottom
	step := 0.0
	if len(vars) > 0 {
		step = avail / float64(len(vars)+1)
	}

	handles := make([]domain.Handle, 0, len(vars)+1)
	for i, v := range vars {
		name := VariablePrefix + v
		handles = append(handles, domain.Handle{
			Kind:     domain.HandleTarget,
			NodeID:   nodeID,
			ID:       domain.HandleID(nodeID, name),
			Name:     name,
			Position: domain.PositionLeft,
			Offset:   domain.Offset{Pixels: HandleTop + step*float64(i+1)},
		})
	}
	handles = append(handles, domain.Handle{
		Kind:     domain.HandleSource,
		NodeID:   nodeID,
		ID:       domain.HandleID(nodeID, OutputHandle),
		Name:     OutputHandle,
		Position: domain.PositionRight,
		Offset:   domain.Offset{Pixels: size.Height / 2},
	})
	return handles
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
