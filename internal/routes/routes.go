package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/juriscal/consult-scheduler/internal/audit"
	"github.com/juriscal/consult-scheduler/internal/config"
	"github.com/juriscal/consult-scheduler/internal/events"
	"github.com/juriscal/consult-scheduler/internal/handlers"
	infraRepo "github.com/juriscal/consult-scheduler/internal/infra/repository"
	"github.com/juriscal/consult-scheduler/internal/middleware"
	"github.com/juriscal/consult-scheduler/internal/notify"
	"github.com/juriscal/consult-scheduler/internal/payments"
	ucAvailability "github.com/juriscal/consult-scheduler/internal/usecase/availability"
	ucBooking "github.com/juriscal/consult-scheduler/internal/usecase/booking"
)

// Deps is everything the route layer wires together.
type Deps struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Log   *zap.Logger
	Redis *redis.Client
}

// Engine exposes the wired pieces the horizon-refresh job reuses, so the
// cron path and the HTTP path share one wiring.
type Engine struct {
	Apply *ucAvailability.ApplyTemplate
	Repo  *infraRepo.ScheduleGormRepository
}

func RegisterRoutes(r *gin.Engine, d Deps) *Engine {

	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(d.DB)

	auditLogger := audit.New(d.DB)
	auditDispatcher := audit.NewDispatcher(auditLogger, d.Log)

	publisher := events.NewPublisher(d.Redis, d.Log)
	notifier := notify.NewLogSender(d.Log)

	var refunds payments.RefundSignaler
	if d.Cfg.MercadoPagoToken != "" {
		mp, err := payments.NewMercadoPagoSignaler(d.Cfg.MercadoPagoToken, d.Log)
		if err != nil {
			d.Log.Warn("mercadopago init failed, refund intents will be logged only", zap.Error(err))
			refunds = payments.NewNoopSignaler(d.Log)
		} else {
			refunds = mp
		}
	} else {
		refunds = payments.NewNoopSignaler(d.Log)
	}

	// ======================================================
	// USE CASES — AVAILABILITY
	// ======================================================
	listEffectiveUC := ucAvailability.NewListEffectiveAvailability(scheduleRepo)
	listSlotsUC := ucAvailability.NewListBookableSlots(scheduleRepo)
	applyTemplateUC := ucAvailability.NewApplyTemplate(scheduleRepo, auditDispatcher, publisher)
	upsertTemplateUC := ucAvailability.NewUpsertWeeklyTemplate(scheduleRepo, auditDispatcher, applyTemplateUC)
	addBlockUC := ucAvailability.NewAddBlock(scheduleRepo, auditDispatcher, publisher)
	deleteBlockUC := ucAvailability.NewDeleteBlock(scheduleRepo, auditDispatcher, publisher)
	addExceptionsUC := ucAvailability.NewAddExceptions(scheduleRepo, auditDispatcher, publisher)
	removeExceptionUC := ucAvailability.NewRemoveException(scheduleRepo, auditDispatcher, publisher)

	// ======================================================
	// USE CASES — BOOKING
	// ======================================================
	claimUC := ucBooking.NewClaimSlot(scheduleRepo, auditDispatcher, publisher, d.Cfg.ClaimTimeout)
	confirmUC := ucBooking.NewConfirmConsultation(scheduleRepo, auditDispatcher, notifier)
	completeUC := ucBooking.NewCompleteConsultation(scheduleRepo, auditDispatcher)
	cancelUC := ucBooking.NewCancelConsultation(scheduleRepo, auditDispatcher, publisher, notifier, refunds)
	rescheduleUC := ucBooking.NewRescheduleConsultation(scheduleRepo, auditDispatcher, publisher, notifier, d.Cfg.ClaimTimeout)
	listConsultationsUC := ucBooking.NewListConsultations(scheduleRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	availabilityHandler := handlers.NewAvailabilityHandler(
		listEffectiveUC,
		listSlotsUC,
		upsertTemplateUC,
		addBlockUC,
		deleteBlockUC,
		addExceptionsUC,
		removeExceptionUC,
	)

	bookingHandler := handlers.NewBookingHandler(
		claimUC,
		confirmUC,
		completeUC,
		cancelUC,
		rescheduleUC,
		listConsultationsUC,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		lawyers := api.Group("/lawyers/:id")
		{
			lawyers.GET("/availability", availabilityHandler.ListEffective)
			lawyers.GET("/slots", availabilityHandler.ListSlots)

			lawyers.PUT("/weekly-template", availabilityHandler.UpsertTemplate)

			lawyers.POST("/availability/manual", availabilityHandler.AddBlock)
			lawyers.DELETE("/availability/:blockId", availabilityHandler.DeleteBlock)

			lawyers.POST("/exceptions", availabilityHandler.AddExceptions)
			lawyers.DELETE("/exceptions/:exceptionId", availabilityHandler.RemoveException)

			lawyers.GET("/consultations", bookingHandler.ListByDate)
		}

		api.POST("/slots/:slotId/claim", bookingHandler.Claim)

		consultations := api.Group("/consultations/:id")
		{
			consultations.PATCH("/confirm", bookingHandler.Confirm)
			consultations.PATCH("/complete", bookingHandler.Complete)
			consultations.PATCH("/cancel", bookingHandler.Cancel)
			consultations.PATCH("/reschedule", bookingHandler.Reschedule)
		}
	}

	return &Engine{
		Apply: applyTemplateUC,
		Repo:  scheduleRepo,
	}
}
