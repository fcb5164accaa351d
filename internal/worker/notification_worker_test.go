package worker_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spec-kit/employee-admin/internal/config"
	"github.com/spec-kit/employee-admin/internal/domain"
	"github.com/spec-kit/employee-admin/internal/events"
	"github.com/spec-kit/employee-admin/internal/service"
	"github.com/spec-kit/employee-admin/internal/worker"
)

var _ = Describe("NotificationWorker", func() {
	var (
		received   chan map[string]any
		status     int
		server     *httptest.Server
		dispatcher events.Dispatcher
	)

	BeforeEach(func() {
		received = make(chan map[string]any, 8)
		status = http.StatusAccepted
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			received <- body
			w.WriteHeader(status)
		}))
		DeferCleanup(server.Close)
		dispatcher = events.NewInMemoryDispatcher()
	})

	start := func(url string, queue int) *worker.NotificationWorker {
		svc := service.NewNotificationService(nil, config.NotificationConfig{WebhookURL: url})
		w := worker.StartNotificationWorker(context.Background(), dispatcher, svc, nil, queue)
		DeferCleanup(w.Stop)
		return w
	}

	saved := func(eventType events.EventType) events.Event {
		id := int64(7)
		return events.Event{
			ID:        "evt-1",
			Type:      eventType,
			Actor:     events.Actor{Subject: "maria"},
			Timestamp: time.Now().UTC(),
			Payload: events.NewEmployeeSavedPayload(domain.Employee{
				ID: &id, Name: "Ana", Department: &domain.Department{ID: 2, Name: "HR"},
			}),
		}
	}

	It("posts saved employees to the webhook asynchronously", func() {
		start(server.URL, 0)

		Expect(dispatcher.Publish(context.Background(), saved(events.EventEmployeeUpdated))).To(Succeed())

		var body map[string]any
		Eventually(received).Should(Receive(&body))
		Expect(body).To(HaveKeyWithValue("id", "evt-1"))
		Expect(body).To(HaveKeyWithValue("type", "employee_updated"))
		Expect(body["payload"]).To(HaveKeyWithValue("department_id", BeNumerically("==", 2)))
	})

	It("keeps going after a failed delivery", func() {
		status = http.StatusInternalServerError
		start(server.URL, 0)

		Expect(dispatcher.Publish(context.Background(), saved(events.EventEmployeeCreated))).To(Succeed())
		Eventually(received).Should(Receive())

		status = http.StatusOK
		Expect(dispatcher.Publish(context.Background(), saved(events.EventEmployeeCreated))).To(Succeed())
		Eventually(received).Should(Receive())
	})

	It("only logs when no webhook is configured", func() {
		start("", 0)
		Expect(dispatcher.Publish(context.Background(), saved(events.EventEmployeeCreated))).To(Succeed())
		Consistently(received, 100*time.Millisecond).ShouldNot(Receive())
	})

	It("ignores events after stop", func() {
		w := start(server.URL, 0)
		w.Stop()

		Expect(dispatcher.Publish(context.Background(), saved(events.EventEmployeeCreated))).To(Succeed())
		Consistently(received, 100*time.Millisecond).ShouldNot(Receive())
	})
})

var _ = Describe("NotificationService", func() {
	It("reports webhook failures", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", http.StatusBadGateway)
		}))
		defer server.Close()

		svc := service.NewNotificationService(nil, config.NotificationConfig{WebhookURL: server.URL})
		Expect(svc.Enabled()).To(BeTrue())
		err := svc.Deliver(context.Background(), events.Event{ID: "evt-2", Type: events.EventEmployeeCreated})
		Expect(err).To(MatchError(ContainSubstring("status 502")))
	})
})
