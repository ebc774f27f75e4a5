package hover_test

import (
	"fmt"
	"strings"
	"testing"

	"anyhover/css"
	"anyhover/hover"
)

func generate(n int, chunk func(sb *strings.Builder, i int)) []byte {
	var sb strings.Builder
	for i := range n {
		chunk(&sb, i)
	}
	return []byte(sb.String())
}

func benchmarkRewrite(b *testing.B, data []byte, opts hover.Options) {
	p := css.NewParser(nil)
	rw := hover.New(opts, nil)

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for b.Loop() {
		root, err := p.Parse(data)
		if err != nil {
			b.Fatalf("Parse failed: %v", err)
		}
		rw.Once(root)
		_ = root.String()
	}
}

func BenchmarkSmall(b *testing.B) {
	data := []byte(`
    a { color: blue; }
    a:hover { color: red; }
    .button:hover { background: green; }
    .container .item:hover { border: 1px solid; }
  `)
	benchmarkRewrite(b, data, hover.Options{})
}

func BenchmarkMedium(b *testing.B) {
	data := generate(100, func(sb *strings.Builder, i int) {
		fmt.Fprintf(sb, `
      .item-%[1]d { padding: 10px; }
      .item-%[1]d:hover { background: #f0f0f0; }
      .container-%[1]d .button:hover { color: blue; }
      @media (min-width: 768px) {
        .responsive-%[1]d:hover { transform: scale(1.1); }
      }
`, i)
	})
	benchmarkRewrite(b, data, hover.Options{})
}

func BenchmarkLarge(b *testing.B) {
	data := generate(500, func(sb *strings.Builder, i int) {
		fmt.Fprintf(sb, `
      .item-%[1]d { padding: 10px; }
      .item-%[1]d:hover { background: #f0f0f0; }
      #header-%[1]d .nav:hover .dropdown { display: block; }
      .container-%[1]d .button:hover { color: blue; }
      @media (min-width: 768px) {
        .responsive-%[1]d:hover { transform: scale(1.1); }
      }
      .complex-%[1]d:hover::after { content: "→"; }
`, i)
	})
	benchmarkRewrite(b, data, hover.Options{})
}

func excludeData() []byte {
	return generate(100, func(sb *strings.Builder, i int) {
		fmt.Fprintf(sb, `
      .exclude-%[1]d:hover { color: red; }
      .normal-%[1]d:hover { color: blue; }
`, i)
	})
}

func BenchmarkExcluded(b *testing.B) {
	var exclude []hover.Matcher
	for i := range 50 {
		exclude = append(exclude, hover.Literal(fmt.Sprintf(".exclude-%d:hover", i)))
	}
	benchmarkRewrite(b, excludeData(), hover.Options{ExcludeSelectors: exclude})
}

func BenchmarkExcludedPattern(b *testing.B) {
	exclude := []hover.Matcher{hover.MustPattern(`^\.exclude-([0-9]|[1-4][0-9]):hover$`)}
	benchmarkRewrite(b, excludeData(), hover.Options{ExcludeSelectors: exclude})
}

func BenchmarkNotExcluded(b *testing.B) {
	benchmarkRewrite(b, excludeData(), hover.Options{})
}

func nestedData() []byte {
	return generate(100, func(sb *strings.Builder, i int) {
		fmt.Fprintf(sb, `
      @media (min-width: 768px) {
        .item-%d:hover { background: #f0f0f0; }
      }
`, i)
	})
}

func BenchmarkNestedMedia(b *testing.B) {
	benchmarkRewrite(b, nestedData(), hover.Options{})
}

func BenchmarkNestedMediaTransform(b *testing.B) {
	benchmarkRewrite(b, nestedData(), hover.Options{TransformNestedMedia: true})
}
