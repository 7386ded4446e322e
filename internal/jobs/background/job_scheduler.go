package background

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"rentalcv/internal/caching"
	"rentalcv/internal/repositories"
	"rentalcv/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the recurring background jobs: outbox delivery,
// compliance-log retention, and expired-invitation notification.
type JobScheduler struct {
	scheduler       gocron.Scheduler
	notificationSvc services.NotificationService
	complianceSvc   services.ComplianceService
	tenancyRepo     repositories.TenancyRepository
	cacheSvc        caching.CacheService
	outboxBatchSize int
	jobs            map[string]gocron.Job
	mu              sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(
	notificationSvc services.NotificationService,
	complianceSvc services.ComplianceService,
	tenancyRepo repositories.TenancyRepository,
	cacheSvc caching.CacheService,
	outboxBatchSize int,
) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:       scheduler,
		notificationSvc: notificationSvc,
		complianceSvc:   complianceSvc,
		tenancyRepo:     tenancyRepo,
		cacheSvc:        cacheSvc,
		outboxBatchSize: outboxBatchSize,
		jobs:            make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Outbox delivery - every minute
	outboxJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(js.deliverPendingNotifications, context.Background()),
		gocron.WithName("notification-outbox"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create outbox job: %v", err)
	} else {
		js.jobs["outbox"] = outboxJob
	}

	// Compliance retention sweep - daily
	retentionJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.archiveExpiredComplianceLogs, context.Background()),
		gocron.WithName("compliance-retention"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create compliance retention job: %v", err)
	} else {
		js.jobs["compliance-retention"] = retentionJob
	}

	// Expired invitation notification - hourly
	expiredJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.notifyExpiredInvitations, context.Background()),
		gocron.WithName("expired-invitations"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create expired invitation job: %v", err)
	} else {
		js.jobs["expired-invitations"] = expiredJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

func (js *JobScheduler) deliverPendingNotifications(ctx context.Context) {
	if err := js.notificationSvc.ProcessPending(ctx, js.outboxBatchSize); err != nil {
		log.Printf("Outbox delivery run failed: %v", err)
	}
}

func (js *JobScheduler) archiveExpiredComplianceLogs(ctx context.Context) {
	if _, err := js.complianceSvc.ArchiveExpired(ctx); err != nil {
		log.Printf("Compliance retention sweep failed: %v", err)
	}
}

// notifyExpiredInvitations emails the invitee once per expired invitation.
// Statuses are never mutated here; expiry is enforced lazily at token use.
func (js *JobScheduler) notifyExpiredInvitations(ctx context.Context) {
	expired, err := js.tenancyRepo.ListExpiredInvitations(ctx, time.Now(), js.outboxBatchSize)
	if err != nil {
		log.Printf("Expired invitation scan failed: %v", err)
		return
	}

	for _, tenancy := range expired {
		if tenancy.Invitation == nil {
			continue
		}

		// Dedup flag so hourly runs notify each expiry only once.
		flagKey := "invite_expired_notified:" + tenancy.ID.String()
		if _, err := js.cacheSvc.GetString(ctx, flagKey); err == nil {
			continue
		}

		subject := "Your tenancy invitation has expired"
		body := fmt.Sprintf("Hi %s, the invitation to verify a tenancy on RentalCV has expired. Ask the other party to resend it if you still want to proceed.", tenancy.Invitation.InviteeName)
		if err := js.notificationSvc.EnqueueEmail(ctx, tenancy.Invitation.InviteeEmail, subject, body); err != nil {
			log.Printf("Failed to enqueue expiry notice for tenancy %s: %v", tenancy.ID, err)
			continue
		}

		if err := js.cacheSvc.SetString(ctx, flagKey, "1", 30*24*time.Hour); err != nil {
			log.Printf("Failed to set expiry-notice flag for tenancy %s: %v", tenancy.ID, err)
		}
	}
}
