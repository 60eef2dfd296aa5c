package handler

import (
	"company-data-manager/internal/usecase/record"
	"company-data-manager/pkg/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type RecordHandler struct {
	service *record.Service
}

func NewRecordHandler(service *record.Service) *RecordHandler {
	return &RecordHandler{service: service}
}

func (h *RecordHandler) RegisterManagerRoutes(router *gin.RouterGroup) {
	records := router.Group("/records")
	{
		records.GET("", h.ListRecords)
		records.POST("", h.AddRecord)
		records.GET("/statistics", h.GetStatistics)
		records.GET("/:id", h.GetRecord)
		records.PUT("/:id", h.UpdateRecord)
		records.DELETE("/:id", h.DeleteRecord)
	}
}

func (h *RecordHandler) AddRecord(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req record.AddRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	req.Email = utils.SanitizeEmail(req.Email)
	req.Phone = utils.SanitizePhone(req.Phone)

	created, err := h.service.AddRecord(c.Request.Context(), actor, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Record created successfully", created)
}

func (h *RecordHandler) GetRecord(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	recordID, ok := idParam(c, "id")
	if !ok {
		return
	}

	rec, err := h.service.GetRecord(c.Request.Context(), actor, recordID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Record retrieved successfully", rec)
}

// ListRecords filters by department, status and role; search matches name,
// department, position and email.
func (h *RecordHandler) ListRecords(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req record.RecordFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadBody(c)
		return
	}

	records, err := h.service.ListRecords(c.Request.Context(), actor, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Records retrieved successfully", records)
}

func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	recordID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req record.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	if req.Email != nil {
		email := utils.SanitizeEmail(*req.Email)
		req.Email = &email
	}
	if req.Phone != nil {
		phone := utils.SanitizePhone(*req.Phone)
		req.Phone = &phone
	}

	updated, err := h.service.UpdateRecord(c.Request.Context(), actor, recordID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Record updated successfully", updated)
}

func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	recordID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteRecord(c.Request.Context(), actor, recordID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Record deleted successfully", nil)
}

func (h *RecordHandler) GetStatistics(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	stats, err := h.service.GetStatistics(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Statistics retrieved successfully", stats)
}
