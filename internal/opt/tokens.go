package opt

import (
	"strconv"
	"strings"
)

// Tokens renders the solution as the space-separated depot-delimited
// token stream the CLI prints: each non-empty route is wrapped in
// depot (0) markers, and consecutive routes share their boundary 0s.
func (s *Solution) Tokens() string {
	var b strings.Builder
	wrote := false
	for _, route := range s.Routes {
		if len(route.Stops) == 0 {
			continue
		}
		if !wrote {
			b.WriteString("0")
			wrote = true
		}
		for _, c := range route.Stops {
			b.WriteByte(' ')
			b.WriteString(strconv.Itoa(c))
		}
		b.WriteString(" 0")
	}
	return b.String()
}
