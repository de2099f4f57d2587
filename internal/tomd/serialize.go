package tomd

import "strings"

// indentUnit is the per-depth indentation prefix.
const indentUnit = "\t"

// Serialize flattens a fragment tree into the final document. A fragment
// with content emits one indented line; empty-content fragments emit
// nothing themselves but their children still serialize, one level deeper.
// Serialize is a pure function of its input.
func Serialize(frags []Fragment) string {
	var sb strings.Builder
	writeFragments(&sb, frags, 0)
	return sb.String()
}

func writeFragments(sb *strings.Builder, frags []Fragment, depth int) {
	for _, f := range frags {
		if f.Content != "" {
			for i := 0; i < depth; i++ {
				sb.WriteString(indentUnit)
			}
			sb.WriteString(f.Content)
			sb.WriteByte('\n')
		}
		writeFragments(sb, f.Children, depth+1)
	}
}
