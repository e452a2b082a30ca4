package harness

import (
	"io"
	"strings"

	"github.com/valyala/quicktemplate"
)

// WriteMarkdown renders traces as markdown tables, one section per engine.
func WriteMarkdown(w io.Writer, traces ...*Trace) {
	qw := quicktemplate.AcquireWriter(w)
	defer quicktemplate.ReleaseWriter(qw)
	n := qw.N()

	for i, t := range traces {
		if i > 0 {
			n.S("\n")
		}
		n.S("## ")
		n.S(t.Scenario)
		n.S(" (")
		n.S(t.Engine)
		n.S(")\n\n")
		n.S("| seq | kind | event |\n")
		n.S("|---:|---|---|\n")
		for _, e := range t.Events {
			n.S("| ")
			n.D(e.Seq)
			n.S(" | ")
			n.S(string(e.Kind))
			n.S(" | `")
			n.S(escapeCell(e.Detail()))
			n.S("` |\n")
		}
		n.S("\ndigest `")
		n.S(t.Digest())
		n.S("`\n")
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
