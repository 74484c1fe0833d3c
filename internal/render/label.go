package render

import "github.com/rivo/uniseg"

// TruncateLabel shortens a key label to at most max grapheme clusters,
// appending an ellipsis when anything was cut. Counting graphemes rather
// than bytes keeps combined emoji and CJK labels from being split
// mid-cluster.
func TruncateLabel(label string, max int) string {
	if max <= 0 {
		return ""
	}
	if uniseg.GraphemeClusterCount(label) <= max {
		return label
	}

	g := uniseg.NewGraphemes(label)
	kept := 0
	end := 0
	for g.Next() && kept < max-1 {
		_, end = g.Positions()
		kept++
	}
	return label[:end] + "…"
}
