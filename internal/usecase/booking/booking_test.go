package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domain "github.com/juriscal/consult-scheduler/internal/domain/schedule"
	"github.com/juriscal/consult-scheduler/internal/infra/repository"
	"github.com/juriscal/consult-scheduler/internal/models"
	"github.com/juriscal/consult-scheduler/internal/notify"
	"github.com/juriscal/consult-scheduler/internal/schederr"
)

type fakeSender struct {
	msgs []notify.Message
	fail bool
}

func (f *fakeSender) Send(_ context.Context, msg notify.Message) error {
	if f.fail {
		return errors.New("delivery channel down")
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

type fakeRefunds struct {
	consultations []string
	fail          bool
}

func (f *fakeRefunds) SignalRefund(_ context.Context, consultationID, _ string, _ float64) error {
	if f.fail {
		return errors.New("gateway timeout")
	}
	f.consultations = append(f.consultations, consultationID)
	return nil
}

type testEnv struct {
	db     *gorm.DB
	repo   *repository.ScheduleGormRepository
	lawyer *models.Lawyer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Lawyer{},
		&models.WeeklyTemplateBlock{},
		&models.DateAvailabilityBlock{},
		&models.AvailabilityException{},
		&models.TimeSlot{},
		&models.Consultation{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	lawyer := &models.Lawyer{Name: "Ada Vance", Timezone: "UTC"}
	if err := db.Create(lawyer).Error; err != nil {
		t.Fatalf("seed lawyer: %v", err)
	}

	return &testEnv{
		db:     db,
		repo:   repository.NewScheduleGormRepository(db),
		lawyer: lawyer,
	}
}

func (e *testEnv) seedSlot(t *testing.T, date string, startMin int) *models.TimeSlot {
	t.Helper()

	slot := &models.TimeSlot{
		LawyerID: e.lawyer.ID,
		Date:     date,
		StartMin: startMin,
		EndMin:   startMin + 30,
	}
	if err := e.db.Create(slot).Error; err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	return slot
}

func (e *testEnv) claim(t *testing.T, slotID, clientID, paymentID string) *models.Consultation {
	t.Helper()

	uc := NewClaimSlot(e.repo, nil, nil, time.Second)
	cons, err := uc.Execute(context.Background(), ClaimSlotInput{
		SlotID:    slotID,
		ClientID:  clientID,
		Amount:    150,
		PaymentID: paymentID,
	})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	return cons
}

// --------------------------------------------------
// Claim
// --------------------------------------------------

func TestClaimSlot(t *testing.T) {
	env := newTestEnv(t)
	slot := env.seedSlot(t, "2026-01-05", 540)

	cons := env.claim(t, slot.ID, "client-1", "pay-42")

	if cons.Status != string(domain.StatusPending) {
		t.Fatalf("status = %q", cons.Status)
	}
	if cons.PaymentStatus != models.PaymentPaid {
		t.Fatalf("prepaid claim must be marked paid, got %q", cons.PaymentStatus)
	}

	booked, _ := env.repo.GetSlot(context.Background(), slot.ID)
	if !booked.IsBooked {
		t.Fatal("slot not booked")
	}
}

func TestClaimSlotUnpaid(t *testing.T) {
	env := newTestEnv(t)
	slot := env.seedSlot(t, "2026-01-05", 540)

	cons := env.claim(t, slot.ID, "client-1", "")
	if cons.PaymentStatus != models.PaymentUnpaid {
		t.Fatalf("payment status = %q", cons.PaymentStatus)
	}
}

func TestClaimSlotRequiresClient(t *testing.T) {
	env := newTestEnv(t)
	slot := env.seedSlot(t, "2026-01-05", 540)

	uc := NewClaimSlot(env.repo, nil, nil, time.Second)
	_, err := uc.Execute(context.Background(), ClaimSlotInput{SlotID: slot.ID})
	if !schederr.IsCode(err, schederr.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClaimSlotTaken(t *testing.T) {
	env := newTestEnv(t)
	slot := env.seedSlot(t, "2026-01-05", 540)
	env.claim(t, slot.ID, "client-1", "")

	uc := NewClaimSlot(env.repo, nil, nil, time.Second)
	_, err := uc.Execute(context.Background(), ClaimSlotInput{
		SlotID:   slot.ID,
		ClientID: "client-2",
	})
	if !schederr.IsCode(err, schederr.CodeSlotAlreadyBooked) {
		t.Fatalf("expected slot_already_booked, got %v", err)
	}
}

// --------------------------------------------------
// Lifecycle
// --------------------------------------------------

func TestConfirmConsultation(t *testing.T) {
	env := newTestEnv(t)
	slot := env.seedSlot(t, "2026-01-05", 540)
	cons := env.claim(t, slot.ID, "client-1", "")

	sender := &fakeSender{}
	uc := NewConfirmConsultation(env.repo, nil, sender)

	confirmed, warnings, err := uc.Execute(context.Background(), cons.ID, env.lawyer.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if confirmed.Status != string(domain.StatusConfirmed) {
		t.Fatalf("status = %q", confirmed.Status)
	}
	if len(sender.msgs) != 1 || sender.msgs[0].Type != notify.TypeConfirmation {
		t.Fatalf("expected one confirmation message, got %v", sender.msgs)
	}
	if sender.msgs[0].StartTime != "09:00" {
		t.Fatalf("message start time = %q", sender.msgs[0].StartTime)
	}
}

func TestConfirmNotificationFailureIsWarning(t *testing.T) {
	env := newTestEnv(t)
	slot := env.seedSlot(t, "2026-01-05", 540)
	cons := env.claim(t, slot.ID, "client-1", "")

	uc := NewConfirmConsultation(env.repo, nil, &fakeSender{fail: true})
	_, warnings, err := uc.Execute(context.Background(), cons.ID, env.lawyer.ID)
	if err != nil {
		t.Fatalf("delivery failure must not fail the confirm: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}

	stored, _ := env.repo.GetConsultation(context.Background(), cons.ID)
	if stored.Status != string(domain.StatusConfirmed) {
		t.Fatalf("confirm was rolled back: %q", stored.Status)
	}
}

func TestCompleteRequiresConfirmed(t *testing.T) {
	env := newTestEnv(t)
	slot := env.seedSlot(t, "2026-01-05", 540)
	cons := env.claim(t, slot.ID, "client-1", "")

	uc := NewCompleteConsultation(env.repo, nil)
	if _, err := uc.Execute(context.Background(), cons.ID, env.lawyer.ID); !schederr.IsCode(err, schederr.CodeInvalidState) {
		t.Fatalf("expected invalid_state for a pending consultation, got %v", err)
	}

	confirm := NewConfirmConsultation(env.repo, nil, &fakeSender{})
	if _, _, err := confirm.Execute(context.Background(), cons.ID, env.lawyer.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	done, err := uc.Execute(context.Background(), cons.ID, env.lawyer.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != string(domain.StatusCompleted) || done.CompletedAt == nil {
		t.Fatalf("not completed: %+v", done)
	}
}

// --------------------------------------------------
// Cancel
// --------------------------------------------------

func TestCancelReleasesSlotAndSignalsRefund(t *testing.T) {
	env := newTestEnv(t)
	slot := env.seedSlot(t, "2026-01-05", 540)
	cons := env.claim(t, slot.ID, "client-1", "pay-42")

	sender := &fakeSender{}
	refunds := &fakeRefunds{}
	uc := NewCancelConsultation(env.repo, nil, nil, sender, refunds)

	cancelled, warnings, err := uc.Execute(context.Background(), cons.ID, "client-1")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if cancelled.Status != string(domain.StatusCancelled) {
		t.Fatalf("status = %q", cancelled.Status)
	}
	if cancelled.PaymentStatus != models.PaymentRefundPending {
		t.Fatalf("payment status = %q", cancelled.PaymentStatus)
	}

	freed, _ := env.repo.GetSlot(context.Background(), slot.ID)
	if freed.IsBooked || freed.ConsultationID != nil {
		t.Fatalf("slot not released: %+v", freed)
	}

	if len(refunds.consultations) != 1 || refunds.consultations[0] != cons.ID {
		t.Fatalf("refund not signaled: %v", refunds.consultations)
	}
	if len(sender.msgs) != 1 || sender.msgs[0].Type != notify.TypeCancellation {
		t.Fatalf("expected one cancellation message, got %v", sender.msgs)
	}
}

func TestCancelUnpaidSkipsRefund(t *testing.T) {
	env := newTestEnv(t)
	slot := env.seedSlot(t, "2026-01-05", 540)
	cons := env.claim(t, slot.ID, "client-1", "")

	refunds := &fakeRefunds{}
	uc := NewCancelConsultation(env.repo, nil, nil, &fakeSender{}, refunds)

	if _, _, err := uc.Execute(context.Background(), cons.ID, "client-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if len(refunds.consultations) != 0 {
		t.Fatalf("unpaid cancel must not signal a refund: %v", refunds.consultations)
	}
}

func TestCancelCollaboratorFailuresAreWarnings(t *testing.T) {
	env := newTestEnv(t)
	slot := env.seedSlot(t, "2026-01-05", 540)
	cons := env.claim(t, slot.ID, "client-1", "pay-42")

	uc := NewCancelConsultation(
		env.repo, nil, nil,
		&fakeSender{fail: true},
		&fakeRefunds{fail: true},
	)

	_, warnings, err := uc.Execute(context.Background(), cons.ID, "client-1")
	if err != nil {
		t.Fatalf("collaborator failures must not fail the cancel: %v", err)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}

	// The cancellation itself stands.
	stored, _ := env.repo.GetConsultation(context.Background(), cons.ID)
	if stored.Status != string(domain.StatusCancelled) {
		t.Fatalf("status = %q", stored.Status)
	}
	freed, _ := env.repo.GetSlot(context.Background(), slot.ID)
	if freed.IsBooked {
		t.Fatal("slot still booked")
	}
}

func TestCancelTerminalConsultationRejected(t *testing.T) {
	env := newTestEnv(t)
	slot := env.seedSlot(t, "2026-01-05", 540)
	cons := env.claim(t, slot.ID, "client-1", "")

	uc := NewCancelConsultation(env.repo, nil, nil, &fakeSender{}, &fakeRefunds{})
	if _, _, err := uc.Execute(context.Background(), cons.ID, "client-1"); err != nil {
		t.Fatalf("first cancel: %v", err)
	}

	_, _, err := uc.Execute(context.Background(), cons.ID, "client-1")
	if !schederr.IsCode(err, schederr.CodeInvalidState) {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

// --------------------------------------------------
// Reschedule
// --------------------------------------------------

func TestRescheduleMovesBooking(t *testing.T) {
	env := newTestEnv(t)
	oldSlot := env.seedSlot(t, "2026-01-05", 540)
	newSlot := env.seedSlot(t, "2026-01-06", 600)
	cons := env.claim(t, oldSlot.ID, "client-1", "")

	sender := &fakeSender{}
	uc := NewRescheduleConsultation(env.repo, nil, nil, sender, time.Second)

	moved, warnings, err := uc.Execute(context.Background(), cons.ID, newSlot.ID, "client-1")
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if moved.SlotID != newSlot.ID {
		t.Fatalf("consultation points at %s", moved.SlotID)
	}

	released, _ := env.repo.GetSlot(context.Background(), oldSlot.ID)
	if released.IsBooked {
		t.Fatal("old slot still booked")
	}
	claimed, _ := env.repo.GetSlot(context.Background(), newSlot.ID)
	if !claimed.IsBooked {
		t.Fatal("new slot not booked")
	}

	// Client and lawyer each get a message carrying both times.
	if len(sender.msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(sender.msgs))
	}
	for _, msg := range sender.msgs {
		if msg.Type != notify.TypeReschedule {
			t.Fatalf("message type = %q", msg.Type)
		}
		if msg.OldDate != "2026-01-05" || msg.Date != "2026-01-06" {
			t.Fatalf("message missing old/new dates: %+v", msg)
		}
	}
}

func TestRescheduleRejectsSameSlot(t *testing.T) {
	env := newTestEnv(t)
	slot := env.seedSlot(t, "2026-01-05", 540)
	cons := env.claim(t, slot.ID, "client-1", "")

	uc := NewRescheduleConsultation(env.repo, nil, nil, &fakeSender{}, time.Second)
	_, _, err := uc.Execute(context.Background(), cons.ID, slot.ID, "client-1")

	var re *schederr.RescheduleError
	if !errors.As(err, &re) {
		t.Fatalf("expected reschedule error, got %v", err)
	}
}

func TestRescheduleRejectsCrossLawyerSlot(t *testing.T) {
	env := newTestEnv(t)
	slot := env.seedSlot(t, "2026-01-05", 540)
	cons := env.claim(t, slot.ID, "client-1", "")

	other := &models.Lawyer{Name: "Brook Chen", Timezone: "UTC"}
	if err := env.db.Create(other).Error; err != nil {
		t.Fatalf("seed second lawyer: %v", err)
	}
	foreign := &models.TimeSlot{
		LawyerID: other.ID, Date: "2026-01-06", StartMin: 600, EndMin: 630,
	}
	if err := env.db.Create(foreign).Error; err != nil {
		t.Fatalf("seed foreign slot: %v", err)
	}

	uc := NewRescheduleConsultation(env.repo, nil, nil, &fakeSender{}, time.Second)
	_, _, err := uc.Execute(context.Background(), cons.ID, foreign.ID, "client-1")

	var re *schederr.RescheduleError
	if !errors.As(err, &re) {
		t.Fatalf("expected reschedule error, got %v", err)
	}
}

func TestRescheduleBookedTargetLeavesBookingInPlace(t *testing.T) {
	env := newTestEnv(t)
	oldSlot := env.seedSlot(t, "2026-01-05", 540)
	target := env.seedSlot(t, "2026-01-06", 600)
	cons := env.claim(t, oldSlot.ID, "client-1", "")
	env.claim(t, target.ID, "client-2", "")

	uc := NewRescheduleConsultation(env.repo, nil, nil, &fakeSender{}, time.Second)
	_, _, err := uc.Execute(context.Background(), cons.ID, target.ID, "client-1")

	var re *schederr.RescheduleError
	if !errors.As(err, &re) {
		t.Fatalf("expected reschedule error, got %v", err)
	}

	still, _ := env.repo.GetSlot(context.Background(), oldSlot.ID)
	if !still.IsBooked {
		t.Fatal("failed reschedule released the old slot")
	}
	unmoved, _ := env.repo.GetConsultation(context.Background(), cons.ID)
	if unmoved.SlotID != oldSlot.ID {
		t.Fatalf("consultation moved anyway: %s", unmoved.SlotID)
	}
}

func TestRescheduleTerminalRejected(t *testing.T) {
	env := newTestEnv(t)
	slot := env.seedSlot(t, "2026-01-05", 540)
	newSlot := env.seedSlot(t, "2026-01-06", 600)
	cons := env.claim(t, slot.ID, "client-1", "")

	cancel := NewCancelConsultation(env.repo, nil, nil, &fakeSender{}, &fakeRefunds{})
	if _, _, err := cancel.Execute(context.Background(), cons.ID, "client-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	uc := NewRescheduleConsultation(env.repo, nil, nil, &fakeSender{}, time.Second)
	_, _, err := uc.Execute(context.Background(), cons.ID, newSlot.ID, "client-1")
	if !schederr.IsCode(err, schederr.CodeInvalidState) {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func TestListConsultationsByDateAndMonth(t *testing.T) {
	env := newTestEnv(t)
	jan := env.seedSlot(t, "2026-01-05", 540)
	feb := env.seedSlot(t, "2026-02-10", 600)
	env.claim(t, jan.ID, "client-1", "")
	env.claim(t, feb.ID, "client-2", "")

	uc := NewListConsultations(env.repo)
	ctx := context.Background()

	byDate, err := uc.ByDate(ctx, env.lawyer.ID, "2026-01-05")
	if err != nil {
		t.Fatalf("by date: %v", err)
	}
	if len(byDate) != 1 || byDate[0].StartTime != "09:00" {
		t.Fatalf("wrong day view: %+v", byDate)
	}

	byMonth, err := uc.ByMonth(ctx, env.lawyer.ID, 2026, 2)
	if err != nil {
		t.Fatalf("by month: %v", err)
	}
	if len(byMonth) != 1 || byMonth[0].ClientID != "client-2" {
		t.Fatalf("wrong month view: %+v", byMonth)
	}
}
