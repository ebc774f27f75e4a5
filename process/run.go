// Package process implements "process" subcommand: it finds stylesheets in
// files, directories and zip archives and rewrites their hover rules.
package process

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"anyhover/archive"
	"anyhover/config"
	"anyhover/css"
	"anyhover/hover"
	"anyhover/state"
)

// StdStream used as SOURCE or DESTINATION selects stdin or stdout.
const StdStream = "-"

// stdinName is used to name output when source is stdin.
const stdinName = "stdin" + cssExt

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("process")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src != StdStream {
		if src, err = filepath.Abs(src); err != nil {
			return err
		}
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst != StdStream {
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if err := applyFlags(cmd, env, log); err != nil {
		return err
	}

	rw, err := env.NewRewriter()
	if err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.String("query", rw.Query()))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	p := newProcessor(env, rw, dst, log)
	return p.run(ctx, src)
}

// applyFlags puts command line overrides on top of configuration.
func applyFlags(cmd *cli.Command, env *state.LocalEnv, log *zap.Logger) error {
	tc := &env.Cfg.Transform

	if cmd.IsSet("media-feature") {
		f, err := hover.ParseMediaFeature(cmd.String("media-feature"))
		if err != nil {
			return err
		}
		tc.MediaFeature = f
	}
	if cmd.IsSet("nested") {
		tc.TransformNestedMedia = cmd.Bool("nested")
	}
	for _, l := range cmd.StringSlice("exclude") {
		tc.ExcludeSelectors = append(tc.ExcludeSelectors, config.ExcludeConfig{Literal: l})
	}
	for _, p := range cmd.StringSlice("exclude-pattern") {
		tc.ExcludeSelectors = append(tc.ExcludeSelectors, config.ExcludeConfig{Pattern: p})
	}

	env.Overwrite = env.Cfg.Output.Overwrite || cmd.Bool("overwrite")
	env.NoDirs = cmd.Bool("nodirs")

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	if cp := cmd.String("force-zip-cp"); len(cp) > 0 {
		enc, err := ianaindex.IANA.Encoding(cp)
		if err != nil || enc == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			env.CodePage = enc
			n, _ := ianaindex.IANA.Name(enc)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}
	return nil
}

// processor keeps state of a single "process" run.
type processor struct {
	env    *state.LocalEnv
	log    *zap.Logger
	parser *css.Parser
	rw     *hover.Rewriter
	dst    string
	count  int
	failed error
}

func newProcessor(env *state.LocalEnv, rw *hover.Rewriter, dst string, log *zap.Logger) *processor {
	return &processor{
		env:    env,
		log:    log,
		parser: css.NewParser(log),
		rw:     rw,
		dst:    dst,
	}
}

// run determines the input type (stdin, directory, archive, or single file)
// and processes accordingly. Failures of individual stylesheets do not stop
// processing, they are combined in returned error.
func (p *processor) run(ctx context.Context, src string) error {
	if src == StdStream {
		r, err := detectReader(p.env.Stdin)
		if err != nil {
			return fmt.Errorf("unable to read stdin: %w", err)
		}
		p.handle(ctx, r, stdinName)
		return p.failed
	}

	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := p.processDir(ctx, head); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		arc, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if arc {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := p.processArchive(ctx, head, tail, ""); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		sheet, enc, err := isStylesheetFile(head)
		if err != nil {
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if sheet && len(tail) == 0 {
			p.processFile(ctx, head, filepath.Base(head), enc)
			break
		}
		return fmt.Errorf("input was not recognized as stylesheet (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	if p.count == 0 {
		p.log.Warn("No stylesheets found", zap.String("source", src))
	}
	return p.failed
}

// processDir walks directory tree finding stylesheets and archives and
// processes them in natural order of their paths.
func (p *processor) processDir(ctx context.Context, dir string) error {
	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			p.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if info.Mode().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Sort(natural.StringSlice(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		arc, err := isArchiveFile(path)
		if err != nil {
			p.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		if arc {
			// each archive gets its own output directory named after it
			pathOut := filepath.Join(filepath.Dir(rel), strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel)))
			if err := p.processArchive(ctx, path, "", pathOut); err != nil {
				p.fail(fmt.Errorf("unable to process archive (%s): %w", path, err))
			}
			continue
		}

		sheet, enc, err := isStylesheetFile(path)
		if err != nil {
			p.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if !sheet {
			p.log.Debug("Skipping file, not recognized as stylesheet or archive", zap.String("file", path))
			continue
		}
		p.processFile(ctx, path, rel, enc)
	}
	return nil
}

// processArchive walks all files inside archive, finds stylesheets under
// "pathIn" and processes them. "pathOut" is prepended to output names.
func (p *processor) processArchive(ctx context.Context, path, pathIn, pathOut string) error {
	return archive.Walk(ctx, path, filepath.ToSlash(pathIn), func(arc string, f *zip.File) error {
		sheet, enc, err := isStylesheetInArchive(f)
		if err != nil {
			p.log.Warn("Skipping file in archive",
				zap.String("archive", arc), zap.String("path", f.Name), zap.Error(err))
			return nil
		}
		if !sheet {
			p.log.Debug("Skipping file, not recognized as stylesheet", zap.String("archive", arc), zap.String("file", f.Name))
			return nil
		}

		r, err := f.Open()
		if err != nil {
			p.fail(fmt.Errorf("unable to open file in archive (%s: %s): %w", arc, f.Name, err))
			return nil
		}
		defer r.Close()

		name := f.Name
		if cp := p.env.CodePage; cp != nil && f.NonUTF8 {
			// forcing zip file name encoding
			if n, err := cp.NewDecoder().String(name); err == nil {
				name = n
			} else {
				n, _ = ianaindex.IANA.Name(cp)
				p.log.Warn("Unable to convert archive name from specified encoding",
					zap.String("charset", n), zap.String("path", name), zap.Error(err))
			}
		}
		p.handle(ctx, selectReader(r, enc), filepath.Join(pathOut, filepath.FromSlash(name)))
		return nil
	})
}

func (p *processor) processFile(ctx context.Context, path, src string, enc srcEncoding) {
	file, err := os.Open(path)
	if err != nil {
		p.fail(fmt.Errorf("unable to open file (%s): %w", path, err))
		return
	}
	defer file.Close()

	if err := p.env.Rpt.StoreCopy(fmt.Sprintf("sources/%d-%s", p.count+1, config.CleanFileName(filepath.Base(path))), path); err != nil {
		p.log.Warn("Unable to put source into report", zap.String("file", path), zap.Error(err))
	}
	p.handle(ctx, selectReader(file, enc), src)
}

func (p *processor) fail(err error) {
	p.log.Error("Unable to process stylesheet", zap.Error(err))
	p.failed = multierr.Append(p.failed, err)
}
