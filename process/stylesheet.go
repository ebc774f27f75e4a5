package process

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"

	"anyhover/config"
	"anyhover/css"
	"anyhover/hover"
)

// handle processes a single stylesheet recording failure if any.
func (p *processor) handle(ctx context.Context, r io.Reader, src string) {
	p.count++
	if err := p.processStylesheet(ctx, r, src); err != nil {
		p.fail(fmt.Errorf("%s: %w", src, err))
	}
}

// processStylesheet rewrites single stylesheet. "src" is part of the source
// path (always including file name) relative to the original path: base name
// for a file given directly, relative path for files in directories and
// archives.
func (p *processor) processStylesheet(ctx context.Context, r io.Reader, src string) (rerr error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		outputName string
		st         hover.Stats
	)

	p.log.Debug("Stylesheet processing starting", zap.String("from", src))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			p.log.Error("Stylesheet processing ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("from", src), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("processing panic: %v", r)
		} else if rerr == nil {
			p.log.Info("Stylesheet processed",
				zap.String("from", src), zap.String("to", outputName), zap.Duration("elapsed", time.Since(start)),
				zap.Int("rules", st.Rules), zap.Int("wrapped", st.Wrapped), zap.Int("split", st.Split), zap.Int("nested", st.Nested), zap.Int("excluded", st.Excluded))
		}
	}(time.Now())

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("unable to read stylesheet: %w", err)
	}

	root, err := p.parser.Parse(data, src)
	if err != nil {
		return fmt.Errorf("unable to parse stylesheet: %w", err)
	}
	p.log.Debug("Stylesheet parsed", zap.String("from", src), zap.Stringer("summary", css.Summarize(root)))

	reportName := fmt.Sprintf("stylesheets/%d-%s", p.count, config.CleanFileName(filepath.Base(src)))
	if p.env.Rpt != nil {
		p.env.Rpt.StoreData(reportName+"-before.txt", []byte(css.Dump(root)))
	}

	st = p.rw.Once(root)

	if p.env.Rpt != nil {
		p.env.Rpt.StoreData(reportName+"-after.txt", []byte(css.Dump(root)))
	}

	if p.dst == StdStream {
		outputName = "STDOUT"
		if _, err := root.WriteTo(p.env.Stdout); err != nil {
			return fmt.Errorf("unable to write result: %w", err)
		}
		return nil
	}

	outputName = p.outputPath(src)
	if err := p.prepareOutput(outputName); err != nil {
		return err
	}
	if err := os.WriteFile(outputName, []byte(root.String()), 0644); err != nil {
		return fmt.Errorf("unable to write result: %w", err)
	}

	// Store result for debugging
	p.env.Rpt.Store(reportName, outputName)
	return nil
}

// outputPath returns name of the resulting file. Source directory structure
// is kept unless NoDirs requested, configured extension is inserted before
// ".css".
func (p *processor) outputPath(src string) string {
	dir := p.dst
	if !p.env.NoDirs {
		dir = filepath.Join(p.dst, filepath.Dir(src))
	}
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	name := config.CleanFileName(strings.TrimSuffix(base, ext))
	if ext == "" {
		ext = cssExt
	}
	return filepath.Join(dir, name+p.env.Cfg.Output.Extension+ext)
}

// prepareOutput checks if output file already exists and makes sure its
// directory is there.
func (p *processor) prepareOutput(name string) error {
	_, err := os.Stat(name)
	switch {
	case err == nil:
		if !p.env.Overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		p.log.Warn("Overwriting existing file", zap.String("file", name))
		return nil
	case !os.IsNotExist(err):
		return err
	}
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}
