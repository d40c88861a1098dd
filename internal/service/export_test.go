package service_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bizledger/report-exporter/internal/queue"
	"github.com/bizledger/report-exporter/internal/report/types"
	"github.com/bizledger/report-exporter/internal/service"
	"github.com/bizledger/report-exporter/internal/store"
	"github.com/bizledger/report-exporter/internal/store/model"
)

var _ = Describe("export service", func() {
	var (
		s   store.Store
		q   *queue.Queue
		svc *service.ExportService
		ctx context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		s = store.NewMemoryStore()
		q = queue.New(10)
		svc = service.NewExportService(s, q)
	})

	Context("enqueue", func() {
		It("accepts a report name synonym and returns a queued handle", func() {
			handle, err := svc.Enqueue(ctx, "sales", service.ExportRequest{Format: "csv"}, service.RequestMeta{})
			Expect(err).To(BeNil())
			Expect(handle.Status).To(Equal(service.StatusQueued))
			Expect(handle.TaskID).ToNot(Equal(uuid.Nil))
			Expect(handle.FileURI).To(BeNil())
			Expect(handle.Message).To(BeNil())

			job, err := s.Job().Find(ctx, handle.TaskID)
			Expect(err).To(BeNil())
			Expect(job.Type).To(Equal(types.ReportTypeSalesStat))
			Expect(job.Format).To(Equal(types.FormatCSV))
			Expect(job.Status).To(Equal(model.JobStatusQueued))
		})

		It("submits the job id to the worker queue", func() {
			handle, err := svc.Enqueue(ctx, "inventory", service.ExportRequest{}, service.RequestMeta{})
			Expect(err).To(BeNil())

			id, err := q.Dequeue(ctx)
			Expect(err).To(BeNil())
			Expect(id).To(Equal(handle.TaskID))
		})

		It("rejects an unknown report name", func() {
			handle, err := svc.Enqueue(ctx, "payroll", service.ExportRequest{}, service.RequestMeta{})
			Expect(handle).To(BeNil())
			Expect(err).To(BeAssignableToTypeOf(&service.ErrUnknownReportName{}))
		})

		It("rejects an unknown export format", func() {
			handle, err := svc.Enqueue(ctx, "sales", service.ExportRequest{Format: "docx"}, service.RequestMeta{})
			Expect(handle).To(BeNil())
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidExportFormat{}))
		})

		It("defaults to pdf when no format is given", func() {
			handle, err := svc.Enqueue(ctx, "po", service.ExportRequest{}, service.RequestMeta{})
			Expect(err).To(BeNil())

			job, err := s.Job().Find(ctx, handle.TaskID)
			Expect(err).To(BeNil())
			Expect(job.Format).To(Equal(types.FormatPDF))
		})

		It("persists only whitelisted parameters", func() {
			handle, err := svc.Enqueue(ctx, "sales", service.ExportRequest{
				Format: "csv",
				Params: map[string]any{
					"customerId": "C-1",
					"from":       "2024-01-01",
					"hack":       "1; DROP TABLE export_jobs",
				},
			}, service.RequestMeta{})
			Expect(err).To(BeNil())

			job, err := s.Job().Find(ctx, handle.TaskID)
			Expect(err).To(BeNil())

			var stored map[string]any
			Expect(json.Unmarshal(job.Parameters, &stored)).To(Succeed())
			Expect(stored).To(HaveKeyWithValue("customerId", "C-1"))
			Expect(stored).To(HaveKey("range"))
			Expect(stored).ToNot(HaveKey("hack"))
		})

		It("records audit metadata on the job", func() {
			meta := service.RequestMeta{
				CreatedBy:     "alice",
				ClientIP:      "203.0.113.9",
				UserAgent:     "curl/8.5",
				CorrelationID: "req-123",
			}
			handle, err := svc.Enqueue(ctx, "invoice", service.ExportRequest{}, meta)
			Expect(err).To(BeNil())

			job, err := s.Job().Find(ctx, handle.TaskID)
			Expect(err).To(BeNil())
			Expect(job.CreatedBy).To(Equal("alice"))
			Expect(job.ClientIP).To(Equal("203.0.113.9"))
			Expect(job.UserAgent).To(Equal("curl/8.5"))
			Expect(job.CorrelationID).To(Equal("req-123"))
		})

		It("keeps the job durably queued when the buffer is full", func() {
			full := queue.New(1)
			svcFull := service.NewExportService(s, full)
			Expect(full.Enqueue(uuid.New())).To(BeTrue())

			handle, err := svcFull.Enqueue(ctx, "sales", service.ExportRequest{}, service.RequestMeta{})
			Expect(err).To(BeNil())
			Expect(handle.Status).To(Equal(service.StatusQueued))

			job, err := s.Job().Find(ctx, handle.TaskID)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(model.JobStatusQueued))
		})
	})

	Context("snapshots", func() {
		It("lists recorded snapshots newest first", func() {
			Expect(s.Snapshot().Create(ctx, &model.Snapshot{
				ReportType:   types.ReportTypeSalesStat,
				Parameters:   []byte(`{"groupBy":"month"}`),
				ParamsHash:   model.HashParameters([]byte(`{"groupBy":"month"}`)),
				FileLocation: "file:///exports/a.csv",
				CreatedAt:    time.Now().UTC().Add(-time.Minute),
			})).To(Succeed())
			Expect(s.Snapshot().Create(ctx, &model.Snapshot{
				ReportType:   types.ReportTypeInventory,
				FileLocation: "file:///exports/b.xlsx",
				CreatedAt:    time.Now().UTC(),
			})).To(Succeed())

			views, err := svc.ListSnapshots(ctx, service.SnapshotListOptions{})
			Expect(err).To(BeNil())
			Expect(views).To(HaveLen(2))
			Expect(views[0].FileURI).To(Equal("file:///exports/b.xlsx"))
			Expect(views[1].ReportType).To(Equal(types.ReportTypeSalesStat))
			Expect(views[1].ParamsHash).ToNot(BeEmpty())
		})

		It("restricts the listing to the requested report name", func() {
			Expect(s.Snapshot().Create(ctx, &model.Snapshot{
				ReportType:   types.ReportTypeSalesStat,
				FileLocation: "file:///exports/a.csv",
			})).To(Succeed())
			Expect(s.Snapshot().Create(ctx, &model.Snapshot{
				ReportType:   types.ReportTypeInventory,
				FileLocation: "file:///exports/b.xlsx",
			})).To(Succeed())

			views, err := svc.ListSnapshots(ctx, service.SnapshotListOptions{ReportName: "stock"})
			Expect(err).To(BeNil())
			Expect(views).To(HaveLen(1))
			Expect(views[0].ReportType).To(Equal(types.ReportTypeInventory))
		})

		It("rejects an unknown report name filter", func() {
			views, err := svc.ListSnapshots(ctx, service.SnapshotListOptions{ReportName: "payroll"})
			Expect(views).To(BeNil())
			Expect(err).To(BeAssignableToTypeOf(&service.ErrUnknownReportName{}))
		})

		It("returns an empty list when nothing was exported", func() {
			views, err := svc.ListSnapshots(ctx, service.SnapshotListOptions{Limit: 10})
			Expect(err).To(BeNil())
			Expect(views).To(BeEmpty())
		})
	})

	Context("status", func() {
		It("returns nil for an unknown id", func() {
			handle, err := svc.GetStatus(ctx, uuid.New())
			Expect(err).To(BeNil())
			Expect(handle).To(BeNil())
		})

		It("maps a queued job to queued", func() {
			created, err := svc.Enqueue(ctx, "sales", service.ExportRequest{}, service.RequestMeta{})
			Expect(err).To(BeNil())

			handle, err := svc.GetStatus(ctx, created.TaskID)
			Expect(err).To(BeNil())
			Expect(handle.Status).To(Equal(service.StatusQueued))
		})

		It("maps terminal job records onto the client vocabulary", func() {
			created, err := svc.Enqueue(ctx, "sales", service.ExportRequest{}, service.RequestMeta{})
			Expect(err).To(BeNil())

			job, err := s.Job().Find(ctx, created.TaskID)
			Expect(err).To(BeNil())

			completed := time.Now().UTC()
			location := "file:///exports/salesstat.csv"
			job.Status = model.JobStatusSucceeded
			job.FileLocation = &location
			job.CompletedAt = &completed
			Expect(s.Job().Update(ctx, job)).To(Succeed())

			handle, err := svc.GetStatus(ctx, created.TaskID)
			Expect(err).To(BeNil())
			Expect(handle.Status).To(Equal(service.StatusCompleted))
			Expect(*handle.FileURI).To(Equal(location))
			Expect(handle.FinishedAt).ToNot(BeNil())

			message := "render blew up"
			job.Status = model.JobStatusFailed
			job.FileLocation = nil
			job.ErrorMessage = &message
			Expect(s.Job().Update(ctx, job)).To(Succeed())

			handle, err = svc.GetStatus(ctx, created.TaskID)
			Expect(err).To(BeNil())
			Expect(handle.Status).To(Equal(service.StatusFailed))
			Expect(handle.FileURI).To(BeNil())
			Expect(*handle.Message).To(Equal(message))

			job.Status = model.JobStatusRunning
			Expect(s.Job().Update(ctx, job)).To(Succeed())

			handle, err = svc.GetStatus(ctx, created.TaskID)
			Expect(err).To(BeNil())
			Expect(handle.Status).To(Equal(service.StatusRunning))
		})
	})
})
