package processor_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/glesirok/patternmatcher/pkg/config"
	"github.com/glesirok/patternmatcher/pkg/input"
	"github.com/glesirok/patternmatcher/pkg/processor"
)

type brokenWriter struct{ writes int }

func (w *brokenWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("broken pipe")
}

var _ = Describe("Processor", func() {
	var (
		tempDir    string
		inputPath  string
		outputPath string
		stdout     *bytes.Buffer
		stderr     *bytes.Buffer
		cfg        *config.Config
	)

	writeInput := func(name, content string) {
		inputPath = filepath.Join(tempDir, name)
		Expect(os.WriteFile(inputPath, []byte(content), 0644)).To(Succeed())
	}

	readOutput := func() []string {
		data, err := os.ReadFile(outputPath)
		Expect(err).NotTo(HaveOccurred())
		return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	}

	run := func() (*processor.Summary, error) {
		p := processor.NewProcessor(cfg, stdout, stderr)
		return p.Run(context.Background(), inputPath, outputPath)
	}

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()
		outputPath = filepath.Join(tempDir, "output.txt")
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
		cfg = config.Default()
	})

	Describe("counted input", func() {
		BeforeEach(func() {
			writeInput("input.txt", "2\na,b,c\na,*,d\n3\na/b/c\na/x/d\na/b/d\n")
		})

		It("writes one line per path in input order", func() {
			summary, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(readOutput()).To(Equal([]string{"a,b,c", "a,*,d", "NO MATCH"}))
			Expect(*summary).To(Equal(processor.Summary{Patterns: 2, Paths: 3, Matched: 2}))
		})

		It("echoes results to stdout", func() {
			_, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(stdout.String()).To(Equal("a,b,c\na,*,d\nNO MATCH\n"))
		})

		It("stays quiet when echo is off", func() {
			cfg.Echo = false
			_, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(stdout.String()).To(BeEmpty())
		})

		It("dumps the tree to stderr when asked", func() {
			cfg.DumpTree = true
			_, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(stderr.String()).To(ContainSubstring("pattern tree:"))
			Expect(stderr.String()).To(ContainSubstring("a\n  b\n    c\n      <end>\n  *\n    d\n"))
		})

		Context("with parallel workers", func() {
			BeforeEach(func() {
				var b strings.Builder
				b.WriteString("3\na,b\na,b,c\n*,q\n400\n")
				for i := 0; i < 100; i++ {
					b.WriteString("a/b\na/b/c\na/b/d\nz/q\n")
				}
				writeInput("input.txt", b.String())
				cfg.Workers = 6
				cfg.Echo = false
			})

			It("keeps output in input order", func() {
				summary, err := run()
				Expect(err).NotTo(HaveOccurred())
				Expect(summary.Matched).To(Equal(300))

				lines := readOutput()
				Expect(lines).To(HaveLen(400))
				want := []string{"a,b", "a,b,c", "NO MATCH", "*,q"}
				for i, line := range lines {
					Expect(line).To(Equal(want[i%4]), "line %d", i)
				}
			})
		})
	})

	Describe("structured input", func() {
		It("reads YAML documents", func() {
			writeInput("input.yaml", "patterns: [\"a,b\", \"*,b\"]\npaths: [a/b, x/b, x/c]\n")
			_, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(readOutput()).To(Equal([]string{"a,b", "*,b", "NO MATCH"}))
		})

		It("reads JSON documents", func() {
			writeInput("input.json", `{"patterns": ["a,b", "a,b,c"], "paths": ["a/b", "a/b/c", "a/b/d"]}`)
			_, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(readOutput()).To(Equal([]string{"a,b", "a,b,c", "NO MATCH"}))
		})
	})

	Describe("errors", func() {
		It("reports a missing input file without creating output", func() {
			inputPath = filepath.Join(tempDir, "missing.txt")
			_, err := run()
			Expect(err).To(MatchError(input.ErrInputNotFound))
			Expect(outputPath).NotTo(BeAnExistingFile())
		})

		It("reports a bad count line without creating output", func() {
			writeInput("input.txt", "1\na\nmany\na\n")
			_, err := run()
			Expect(err).To(MatchError(input.ErrInputParse))
			Expect(outputPath).NotTo(BeAnExistingFile())
		})

		It("reports an output file that cannot be flushed", func() {
			if runtime.GOOS != "linux" {
				Skip("needs /dev/full")
			}
			if _, err := os.Stat("/dev/full"); err != nil {
				Skip("/dev/full is not available")
			}

			writeInput("input.txt", "1\na\n2\na\nb\n")
			outputPath = "/dev/full"
			summary, err := run()
			Expect(err).To(MatchError(processor.ErrOutputClose))
			Expect(summary).NotTo(BeNil())
			Expect(summary.Paths).To(Equal(2))
			Expect(summary.Matched).To(Equal(1))
		})

		It("keeps writing the output file when echoing fails", func() {
			writeInput("input.txt", "1\na\n3\na\nb\na\n")
			broken := &brokenWriter{}
			p := processor.NewProcessor(cfg, broken, stderr)

			_, err := p.Run(context.Background(), inputPath, outputPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(readOutput()).To(Equal([]string{"a", "NO MATCH", "a"}))
			Expect(broken.writes).To(Equal(1))
			Expect(strings.Count(stderr.String(), "stopped echoing results")).To(Equal(1))
			Expect(stderr.String()).To(ContainSubstring("broken pipe"))
		})

		It("reports an output file that cannot be opened", func() {
			writeInput("input.txt", "1\na\n1\na\n")
			outputPath = filepath.Join(tempDir, "no-such-dir", "out.txt")
			summary, err := run()
			Expect(err).To(MatchError(processor.ErrOutputOpen))
			Expect(summary.Paths).To(Equal(1))
		})
	})

	It("warns when no patterns are declared", func() {
		writeInput("input.txt", "0\n2\na\nb\n")
		summary, err := run()
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Matched).To(BeZero())
		Expect(readOutput()).To(Equal([]string{"NO MATCH", "NO MATCH"}))
		Expect(stderr.String()).To(ContainSubstring("no patterns declared"))
	})

	It("writes an empty file when there are no paths", func() {
		writeInput("input.txt", "1\na\n0\n")
		_, err := run()
		Expect(err).NotTo(HaveOccurred())
		data, err := os.ReadFile(outputPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(BeEmpty())
	})
})
