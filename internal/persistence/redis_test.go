package persistence_test

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-admin/internal/config"
	"github.com/spec-kit/employee-admin/internal/controller/form"
	"github.com/spec-kit/employee-admin/internal/persistence"
)

const lockKey = "employee-admin:submit:employee-form:edit:5"

var _ = Describe("Redis", func() {
	var (
		ctx context.Context
		mr  *miniredis.Miniredis
		rdb *persistence.Redis
	)

	BeforeEach(func() {
		ctx = context.Background()
		mr = miniredis.RunT(GinkgoT())
		rdb = persistence.NewRedis(config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
		DeferCleanup(rdb.Close)
	})

	It("answers readiness pings", func() {
		Expect(rdb.Ping(ctx)).To(Succeed())

		down := persistence.NewRedis(config.RedisConfig{Addr: "127.0.0.1:1"}, zap.NewNop())
		defer down.Close()
		Expect(down.Ping(ctx)).To(HaveOccurred())
	})

	It("reports an unconfigured client", func() {
		var missing *persistence.Redis
		Expect(missing.Ping(ctx)).To(HaveOccurred())
	})

	Describe("SubmitLock", func() {
		var lock *persistence.SubmitLock

		BeforeEach(func() {
			lock = persistence.NewSubmitLock(rdb, 30*time.Second, zap.NewNop())
		})

		It("acquires a free key with a token and a ttl", func() {
			unlock, err := lock.TryLock(ctx, "employee-form:edit:5")
			Expect(err).NotTo(HaveOccurred())
			Expect(unlock).NotTo(BeNil())

			Expect(mr.Exists(lockKey)).To(BeTrue())
			token, err := mr.Get(lockKey)
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())
			Expect(mr.TTL(lockKey)).To(Equal(30 * time.Second))
		})

		It("refuses a second holder of the same key", func() {
			_, err := lock.TryLock(ctx, "employee-form:edit:5")
			Expect(err).NotTo(HaveOccurred())

			_, err = lock.TryLock(ctx, "employee-form:edit:5")
			Expect(err).To(MatchError(form.ErrSubmitInProgress))

			_, err = lock.TryLock(ctx, "employee-form:edit:6")
			Expect(err).NotTo(HaveOccurred())
		})

		It("frees the key on release", func() {
			unlock, err := lock.TryLock(ctx, "employee-form:edit:5")
			Expect(err).NotTo(HaveOccurred())

			unlock()
			Expect(mr.Exists(lockKey)).To(BeFalse())

			_, err = lock.TryLock(ctx, "employee-form:edit:5")
			Expect(err).NotTo(HaveOccurred())
		})

		It("expires a lock whose holder never releases it", func() {
			_, err := lock.TryLock(ctx, "employee-form:edit:5")
			Expect(err).NotTo(HaveOccurred())

			mr.FastForward(31 * time.Second)
			Expect(mr.Exists(lockKey)).To(BeFalse())

			_, err = lock.TryLock(ctx, "employee-form:edit:5")
			Expect(err).NotTo(HaveOccurred())
		})

		It("does not let a stale holder release a newer holder's lock", func() {
			staleUnlock, err := lock.TryLock(ctx, "employee-form:edit:5")
			Expect(err).NotTo(HaveOccurred())

			mr.FastForward(31 * time.Second)
			_, err = lock.TryLock(ctx, "employee-form:edit:5")
			Expect(err).NotTo(HaveOccurred())
			current, err := mr.Get(lockKey)
			Expect(err).NotTo(HaveOccurred())

			staleUnlock()
			Expect(mr.Exists(lockKey)).To(BeTrue())
			after, err := mr.Get(lockKey)
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(Equal(current))

			_, err = lock.TryLock(ctx, "employee-form:edit:5")
			Expect(err).To(MatchError(form.ErrSubmitInProgress))
		})
	})
})
