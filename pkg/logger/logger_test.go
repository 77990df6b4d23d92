package logger_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/AISHITA-10/ai-resume-screener/pkg/logger"
)

var _ = Describe("Logger", func() {
	It("writes structured output to the given writer", func() {
		var buf bytes.Buffer
		l := logger.NewLoggerWithWriters(false, &buf)
		l.Info("indexing started", zap.String("doc", "alice.txt"))

		output := buf.String()
		Expect(output).To(ContainSubstring("indexing started"))
		Expect(output).To(ContainSubstring("alice.txt"))
	})

	It("suppresses debug output by default", func() {
		var buf bytes.Buffer
		l := logger.NewLoggerWithWriters(false, &buf)
		l.Debug("noisy detail")

		Expect(buf.String()).NotTo(ContainSubstring("noisy detail"))
	})

	It("emits debug output when enabled", func() {
		var buf bytes.Buffer
		l := logger.NewLoggerWithWriters(true, &buf)
		l.Debug("noisy detail")

		Expect(buf.String()).To(ContainSubstring("noisy detail"))
	})

	It("fans out to multiple writers", func() {
		var a, b bytes.Buffer
		l := logger.NewLoggerWithWriters(false, &a, &b)
		l.Info("hello")

		Expect(a.String()).To(ContainSubstring("hello"))
		Expect(b.String()).To(ContainSubstring("hello"))
	})

	It("provides a no-op logger", func() {
		Expect(logger.Nop()).NotTo(BeNil())
	})
})
