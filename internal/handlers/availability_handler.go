package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/juriscal/consult-scheduler/internal/httperr"
	"github.com/juriscal/consult-scheduler/internal/httpresp"
	"github.com/juriscal/consult-scheduler/internal/models"
	ucAvailability "github.com/juriscal/consult-scheduler/internal/usecase/availability"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	listEffective  *ucAvailability.ListEffectiveAvailability
	listSlots      *ucAvailability.ListBookableSlots
	upsertTemplate *ucAvailability.UpsertWeeklyTemplate
	addBlock       *ucAvailability.AddBlock
	deleteBlock    *ucAvailability.DeleteBlock
	addExceptions  *ucAvailability.AddExceptions
	removeExcept   *ucAvailability.RemoveException
}

func NewAvailabilityHandler(
	listEffective *ucAvailability.ListEffectiveAvailability,
	listSlots *ucAvailability.ListBookableSlots,
	upsertTemplate *ucAvailability.UpsertWeeklyTemplate,
	addBlock *ucAvailability.AddBlock,
	deleteBlock *ucAvailability.DeleteBlock,
	addExceptions *ucAvailability.AddExceptions,
	removeExcept *ucAvailability.RemoveException,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		listEffective:  listEffective,
		listSlots:      listSlots,
		upsertTemplate: upsertTemplate,
		addBlock:       addBlock,
		deleteBlock:    deleteBlock,
		addExceptions:  addExceptions,
		removeExcept:   removeExcept,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UpsertTemplateRequest struct {
	Blocks []ucAvailability.TemplateBlockInput `json:"blocks" binding:"required"`
}

type AddBlockRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Source    string `json:"source"`
}

type AddExceptionsRequest struct {
	Dates  []string `json:"dates" binding:"required"`
	Reason string   `json:"reason"`
}

// ======================================================
// READS
// ======================================================

func (h *AvailabilityHandler) ListEffective(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	blocks, err := h.listEffective.Execute(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, blocks)
}

func (h *AvailabilityHandler) ListSlots(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	slots, err := h.listSlots.Execute(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, slots)
}

// ======================================================
// TEMPLATE
// ======================================================

func (h *AvailabilityHandler) UpsertTemplate(c *gin.Context) {
	var req UpsertTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if err := h.upsertTemplate.Execute(c.Request.Context(), c.Param("id"), req.Blocks); err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"status": "ok"})
}

// ======================================================
// BLOCKS
// ======================================================

func (h *AvailabilityHandler) AddBlock(c *gin.Context) {
	var req AddBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	source := req.Source
	if source == "" {
		source = models.SourceManual
	}

	block, err := h.addBlock.Execute(c.Request.Context(), ucAvailability.AddBlockInput{
		LawyerID:  c.Param("id"),
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Source:    source,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, block)
}

func (h *AvailabilityHandler) DeleteBlock(c *gin.Context) {
	err := h.deleteBlock.Execute(c.Request.Context(), c.Param("id"), c.Param("blockId"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"status": "ok"})
}

// ======================================================
// EXCEPTIONS
// ======================================================

func (h *AvailabilityHandler) AddExceptions(c *gin.Context) {
	var req AddExceptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	exceptions, err := h.addExceptions.Execute(
		c.Request.Context(), c.Param("id"), req.Dates, req.Reason,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, exceptions)
}

func (h *AvailabilityHandler) RemoveException(c *gin.Context) {
	err := h.removeExcept.Execute(c.Request.Context(), c.Param("id"), c.Param("exceptionId"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"status": "ok"})
}

// ======================================================
// HELPERS
// ======================================================

func dateRange(c *gin.Context) (string, string, bool) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		httperr.BadRequest(c, "missing_range", "from and to query params are required.")
		return "", "", false
	}
	return from, to, true
}
