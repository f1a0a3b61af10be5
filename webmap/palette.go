package webmap

import (
	"fmt"
	"sort"

	"github.com/mtoralba/geovista/geotab"
)

// Palette is a fixed ordered color table sampled evenly over however many
// categories a layer needs.
type Palette []string

// Tab10 and Tab20 are the matplotlib categorical palettes the original
// notebooks used for points and polygons respectively.
var (
	Tab10 = Palette{
		"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
		"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
	}
	Tab20 = Palette{
		"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
		"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
		"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
		"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
	}
)

// Sample returns n colors spread evenly across the palette. For n above the
// palette size the table wraps around.
func (p Palette) Sample(n int) []string {
	if n <= 0 || len(p) == 0 {
		return nil
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		if n <= len(p) {
			out[i] = p[i*len(p)/n]
		} else {
			out[i] = p[i%len(p)]
		}
	}
	return out
}

// colorsFor builds the call-scoped category→color lookup over the distinct
// values of a column. Assignment is by position in sorted-unique order, so
// the same data always gets the same colors.
func colorsFor(p Palette, s *geotab.Set, column string) map[string]string {
	seen := make(map[string]struct{})
	keys := make([]string, 0)
	for i := range s.Features {
		v, ok := s.Attr(i, column)
		if !ok || v == nil {
			continue
		}
		key := fmt.Sprint(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	colors := p.Sample(len(keys))
	lookup := make(map[string]string, len(keys))
	for i, key := range keys {
		lookup[key] = colors[i]
	}
	return lookup
}
