// cssdump parses a stylesheet and writes reports showing how hover rules
// would be rewritten: node tree of the input, classification of every
// selector and the rewritten stylesheet with its tree.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"anyhover/cmd/debug/internal/dumputil"
	"anyhover/css"
	"anyhover/hover"
)

func main() {
	all := flag.Bool("all", false, "enable all dump flags (-tree, -selectors, -rewrite)")
	tree := flag.Bool("tree", false, "dump parsed node tree into <file>-tree.txt")
	selectors := flag.Bool("selectors", false, "dump selector classification into <file>-selectors.txt")
	rewrite := flag.Bool("rewrite", false, "dump rewritten tree into <file>-rewrite.txt and result into <file>-rewrite.css")
	feature := flag.String("media-feature", hover.MediaFeatureAnyHover.String(), "media feature for generated queries")
	nested := flag.Bool("nested", false, "wrap rules already inside hover media query")
	overwrite := flag.Bool("overwrite", false, "overwrite existing output")
	verbose := flag.Bool("v", false, "log parser and rewriter details to stderr")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: cssdump [-all] [-tree] [-selectors] [-rewrite] [-media-feature name] [-nested] [-overwrite] [-v] <file.css|-> [outdir]\n\n")
		fmt.Fprintf(os.Stderr, "Reads stylesheet (\"-\" for STDIN) and produces debug reports.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		os.Exit(2)
	}

	if *all {
		*tree = true
		*selectors = true
		*rewrite = true
	}

	if !*tree && !*selectors && !*rewrite {
		flag.Usage()
		os.Exit(2)
	}

	defer func(startedAt time.Time) {
		fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", time.Since(startedAt))
	}(time.Now())

	inPath := flag.Arg(0)
	outDir := ""
	if flag.NArg() == 2 {
		outDir = flag.Arg(1)
	}

	var (
		b   []byte
		err error
	)
	if inPath == "-" {
		inPath = "stdin.css"
		if outDir == "" {
			outDir = "."
		}
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(inPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", inPath, err)
		os.Exit(1)
	}

	log := zap.NewNop()
	if *verbose {
		if log, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(os.Stderr, "prepare log: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = log.Sync() }()
	}

	mf, err := hover.ParseMediaFeature(*feature)
	if err != nil {
		fmt.Fprintf(os.Stderr, "media feature: %v\n", err)
		os.Exit(2)
	}
	opts := hover.Options{MediaFeature: mf, TransformNestedMedia: *nested, MaxAncestorDepth: hover.DefaultAncestorDepth}
	rw := hover.New(opts, log)

	root, err := css.NewParser(log).Parse(b, inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", inPath, err)
		os.Exit(1)
	}

	if *tree {
		if err := dumputil.WriteOutput(os.Stderr, inPath, outDir, "-tree.txt", []byte(dumputil.TreeReport(root)), *overwrite); err != nil {
			fmt.Fprintf(os.Stderr, "dump tree: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(css.Summarize(root))
	}

	if *selectors {
		report, count := dumputil.SelectorsReport(root, rw, opts.MaxAncestorDepth)
		if err := dumputil.WriteOutput(os.Stderr, inPath, outDir, "-selectors.txt", []byte(report), *overwrite); err != nil {
			fmt.Fprintf(os.Stderr, "dump selectors: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("rules: %d\n", count)
	}

	// rewrite goes last, it changes the tree
	if *rewrite {
		report, st := dumputil.RewriteReport(root, rw)
		if err := dumputil.WriteOutput(os.Stderr, inPath, outDir, "-rewrite.txt", []byte(report), *overwrite); err != nil {
			fmt.Fprintf(os.Stderr, "dump rewrite: %v\n", err)
			os.Exit(1)
		}
		if err := dumputil.WriteOutput(os.Stderr, inPath, outDir, "-rewrite.css", []byte(root.String()), *overwrite); err != nil {
			fmt.Fprintf(os.Stderr, "write result: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrapped: %d split: %d nested: %d excluded: %d\n", st.Wrapped, st.Split, st.Nested, st.Excluded)
	}
}
