package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/juriscal/consult-scheduler/internal/httperr"
	"github.com/juriscal/consult-scheduler/internal/httpresp"
	ucBooking "github.com/juriscal/consult-scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	claim      *ucBooking.ClaimSlot
	confirm    *ucBooking.ConfirmConsultation
	complete   *ucBooking.CompleteConsultation
	cancel     *ucBooking.CancelConsultation
	reschedule *ucBooking.RescheduleConsultation
	list       *ucBooking.ListConsultations
}

func NewBookingHandler(
	claim *ucBooking.ClaimSlot,
	confirm *ucBooking.ConfirmConsultation,
	complete *ucBooking.CompleteConsultation,
	cancel *ucBooking.CancelConsultation,
	reschedule *ucBooking.RescheduleConsultation,
	list *ucBooking.ListConsultations,
) *BookingHandler {
	return &BookingHandler{
		claim:      claim,
		confirm:    confirm,
		complete:   complete,
		cancel:     cancel,
		reschedule: reschedule,
		list:       list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ClaimSlotRequest struct {
	ClientID  string  `json:"client_id" binding:"required"`
	Amount    float64 `json:"amount"`
	PaymentID string  `json:"payment_id"`
}

type RescheduleRequest struct {
	NewSlotID string `json:"new_slot_id" binding:"required"`
	ActorID   string `json:"actor_id"`
}

type ActorRequest struct {
	ActorID string `json:"actor_id"`
}

// ======================================================
// CLAIM
// ======================================================

func (h *BookingHandler) Claim(c *gin.Context) {
	var req ClaimSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	cons, err := h.claim.Execute(c.Request.Context(), ucBooking.ClaimSlotInput{
		SlotID:    c.Param("slotId"),
		ClientID:  req.ClientID,
		Amount:    req.Amount,
		PaymentID: req.PaymentID,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, cons)
}

// ======================================================
// STATUS TRANSITIONS
// ======================================================

func (h *BookingHandler) Confirm(c *gin.Context) {
	var req ActorRequest
	_ = c.ShouldBindJSON(&req)

	cons, warnings, err := h.confirm.Execute(c.Request.Context(), c.Param("id"), req.ActorID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OKWithWarnings(c, cons, warnings)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	var req ActorRequest
	_ = c.ShouldBindJSON(&req)

	cons, err := h.complete.Execute(c.Request.Context(), c.Param("id"), req.ActorID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, cons)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	var req ActorRequest
	_ = c.ShouldBindJSON(&req)

	cons, warnings, err := h.cancel.Execute(c.Request.Context(), c.Param("id"), req.ActorID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OKWithWarnings(c, cons, warnings)
}

func (h *BookingHandler) Reschedule(c *gin.Context) {
	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	cons, warnings, err := h.reschedule.Execute(
		c.Request.Context(), c.Param("id"), req.NewSlotID, req.ActorID,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OKWithWarnings(c, cons, warnings)
}

// ======================================================
// LIST
// ======================================================

func (h *BookingHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr != "" {
		cons, err := h.list.ByDate(c.Request.Context(), c.Param("id"), dateStr)
		if err != nil {
			httperr.FromError(c, err)
			return
		}
		httpresp.List(c, cons)
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Valid date or year/month is required.")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Month must be 1..12.")
		return
	}

	cons, err := h.list.ByMonth(c.Request.Context(), c.Param("id"), year, month)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, cons)
}
