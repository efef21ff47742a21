package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/frahmantamala/clinic-management/internal/core/events"
	"github.com/frahmantamala/clinic-management/internal/core/metrics"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var (
		bus *events.EventBus
		ctx context.Context
		log *slog.Logger
	)

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
		bus = events.NewEventBus(log)
		ctx = context.Background()
	})

	It("should deliver synchronously to every handler", func() {
		var calls int32
		bus.Subscribe(events.EventTypePermissionGranted, func(ctx context.Context, e events.Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})
		bus.Subscribe(events.EventTypePermissionGranted, func(ctx context.Context, e events.Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})

		err := bus.PublishSync(ctx, events.NewPermissionGrantedEvent("user", 1, "view_patients", 9, true))
		Expect(err).NotTo(HaveOccurred())
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(2)))
	})

	It("should stop at the first failing handler in sync mode", func() {
		bus.Subscribe(events.EventTypePermissionRevoked, func(ctx context.Context, e events.Event) error {
			return errors.New("boom")
		})

		err := bus.PublishSync(ctx, events.NewPermissionRevokedEvent("role", 2, "manage_staff", 9, true))
		Expect(err).To(MatchError(ContainSubstring("boom")))
	})

	It("should deliver asynchronously on Publish", func() {
		var calls int32
		bus.Subscribe(events.EventTypePermissionGranted, func(ctx context.Context, e events.Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})

		Expect(bus.Publish(ctx, events.NewPermissionGrantedEvent("staff", 3, "view_staff", 9, true))).To(Succeed())
		Eventually(func() int32 { return atomic.LoadInt32(&calls) }, time.Second).Should(Equal(int32(1)))
	})

	It("should ignore events nobody listens to", func() {
		Expect(bus.PublishSync(ctx, events.NewPermissionGrantedEvent("user", 1, "x", 1, false))).To(Succeed())
	})

	Describe("AuditSubscriber", func() {
		BeforeEach(func() {
			events.NewAuditSubscriber(log).Register(bus)
		})

		It("should count effective grants", func() {
			counter := metrics.PermissionChanges("grant", "position")
			before := testutil.ToFloat64(counter)

			Expect(bus.PublishSync(ctx, events.NewPermissionGrantedEvent("position", 4, "record_vital_signs", 1, true))).To(Succeed())
			Expect(testutil.ToFloat64(counter) - before).To(Equal(1.0))
		})

		It("should not count no-op changes", func() {
			counter := metrics.PermissionChanges("revoke", "user")
			before := testutil.ToFloat64(counter)

			Expect(bus.PublishSync(ctx, events.NewPermissionRevokedEvent("user", 4, "view_reports", 1, false))).To(Succeed())
			Expect(testutil.ToFloat64(counter)).To(Equal(before))
		})
	})
})
