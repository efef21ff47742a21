package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/frahmantamala/clinic-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("Logger", func() {
	It("should write JSON in production at info level", func() {
		var buf bytes.Buffer
		logger.InitWithOptions(logger.Options{Env: "production", Output: &buf})

		logger.LoggerWrapper().Debug("hidden")
		logger.LoggerWrapper().Info("shown", "patient_id", 7)

		Expect(buf.String()).NotTo(ContainSubstring("hidden"))
		Expect(buf.String()).To(ContainSubstring(`"msg":"shown"`))
		Expect(buf.String()).To(ContainSubstring(`"patient_id":7`))
	})

	It("should honour an explicit level and format", func() {
		var buf bytes.Buffer
		logger.InitWithOptions(logger.Options{Env: "production", Level: "warn", Format: "text", Output: &buf})

		logger.LoggerWrapper().Info("quiet")
		logger.LoggerWrapper().Warn("loud")

		Expect(buf.String()).NotTo(ContainSubstring("quiet"))
		Expect(buf.String()).To(ContainSubstring("msg=loud"))
	})

	It("should carry fields on the request logger", func() {
		var buf bytes.Buffer
		base := slog.New(slog.NewTextHandler(&buf, nil))

		ctx := logger.Into(context.Background(), base)
		ctx = logger.With(ctx, "trace_id", "abc")
		ctx = logger.With(ctx, "user_id", 3)
		logger.From(ctx).Info("request")

		Expect(buf.String()).To(ContainSubstring("trace_id=abc"))
		Expect(buf.String()).To(ContainSubstring("user_id=3"))
	})

	It("should fall back to the process logger", func() {
		Expect(logger.From(context.Background())).To(Equal(logger.LoggerWrapper()))
		ctx := context.Background()
		Expect(logger.Into(ctx, nil)).To(Equal(ctx))
	})
})
