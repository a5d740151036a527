package flatten

import (
	"sort"
	"strings"
)

// SummarizedRoute holds the fastest alternatives that ride the same sequence of lines.
type SummarizedRoute struct {
	Lines string // e.g. "146 > 2호선", "" for walk-only
	Paths []TransitPath
}

// SummarizePaths sorts paths by total duration and groups them by the lines
// they ride, keeping at most maxPerRoute paths per group.
func SummarizePaths(paths []TransitPath, maxPerRoute int) []SummarizedRoute {
	sorted := make([]TransitPath, len(paths))
	copy(sorted, paths)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Duration < sorted[j].Duration
	})

	routeMap := make(map[string]*SummarizedRoute)
	var routeKeys []string // first appearance, which is fastest-first now

	for _, p := range sorted {
		key := LineSequence(p)
		if _, exists := routeMap[key]; !exists {
			routeMap[key] = &SummarizedRoute{Lines: key}
			routeKeys = append(routeKeys, key)
		}

		if len(routeMap[key].Paths) < maxPerRoute {
			routeMap[key].Paths = append(routeMap[key].Paths, p)
		}
	}

	var result []SummarizedRoute
	for _, key := range routeKeys {
		result = append(result, *routeMap[key])
	}

	return result
}

// LineSequence joins the line names of the non-walking legs of a path.
func LineSequence(p TransitPath) string {
	var lines []string
	for _, l := range p.Legs {
		if l.Line != nil {
			lines = append(lines, *l.Line)
		}
	}
	return strings.Join(lines, " > ")
}
