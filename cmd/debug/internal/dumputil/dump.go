// Package dumputil provides output helpers for cssdump debug tool. It
// operates on parsed stylesheets and produces tree dumps, selector
// classification reports and rewritten stylesheets.
package dumputil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"anyhover/css"
	"anyhover/hover"
	"anyhover/utils/debug"
)

// Selector classes reported by SelectorsReport.
const (
	classHover    = "hover"
	classExcluded = "excluded"
	classPlain    = "plain"
)

// TreeReport returns node tree of the stylesheet followed by its summary.
func TreeReport(root *css.Root) string {
	return css.Dump(root) + "\n" + css.Summarize(root).String() + "\n"
}

// SelectorsReport lists every style rule with classification of its
// selectors as the rewriter sees them.
func SelectorsReport(root *css.Root, rw *hover.Rewriter, maxDepth int) (string, int) {
	tw := debug.NewTreeWriter()
	rules := css.Rules(root)
	for i, rule := range rules {
		tw.Line(0, "rule %d: %q", i+1, rule.Selector)
		if hover.InsideHoverMedia(rule, maxDepth) {
			tw.Line(1, "inside hover media query")
		}
		for _, sel := range rule.Selectors() {
			tw.Node(1, classify(rw, sel), sel)
		}
	}
	return tw.String(), len(rules)
}

func classify(rw *hover.Rewriter, selector string) string {
	switch {
	case rw.IsHover(selector):
		return classHover
	case hover.HasHoverPseudo(selector):
		return classExcluded
	}
	return classPlain
}

// RewriteReport rewrites the stylesheet in place and returns resulting
// tree with statistics.
func RewriteReport(root *css.Root, rw *hover.Rewriter) (string, hover.Stats) {
	st := rw.Once(root)
	tw := debug.NewTreeWriter()
	tw.Line(0, "query: %s", rw.Query())
	tw.Line(0, "rules: %d wrapped: %d split: %d nested: %d excluded: %d", st.Rules, st.Wrapped, st.Split, st.Nested, st.Excluded)
	return tw.String() + "\n" + TreeReport(root), st
}

// OutputPath returns name of the output file for inPath with suffix replacing
// extension. Without outDir output goes next to input.
func OutputPath(inPath, outDir, suffix string) string {
	base := filepath.Base(inPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	dir := filepath.Dir(inPath)
	if outDir != "" {
		dir = outDir
	}
	return filepath.Join(dir, stem+suffix)
}

// WriteOutput writes data to the output file refusing to replace existing
// one unless overwrite is set. Name of the written file is reported to log.
func WriteOutput(log io.Writer, inPath, outDir, suffix string, data []byte, overwrite bool) error {
	outPath := OutputPath(inPath, outDir, suffix)

	if _, err := os.Stat(outPath); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s (use -overwrite)", outPath)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(log, "wrote %s\n", outPath)
	return nil
}
