package handler

import (
	"company-data-manager/internal/usecase/leave"
	"company-data-manager/pkg/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type LeaveHandler struct {
	service *leave.Service
}

func NewLeaveHandler(service *leave.Service) *LeaveHandler {
	return &LeaveHandler{service: service}
}

func (h *LeaveHandler) RegisterRoutes(router *gin.RouterGroup) {
	leaves := router.Group("/leave-requests")
	{
		leaves.POST("", h.SubmitLeave)
		leaves.GET("/mine", h.ListMine)
		leaves.GET("/:id/attachment", h.DownloadAttachment)
	}
}

func (h *LeaveHandler) RegisterManagerRoutes(router *gin.RouterGroup) {
	leaves := router.Group("/leave-requests")
	{
		leaves.GET("", h.ListAll)
		leaves.PUT("/:id/resolve", h.ResolveLeave)
	}
}

// SubmitLeave accepts JSON, or a multipart form with an optional
// "attachment" file.
func (h *LeaveHandler) SubmitLeave(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req leave.SubmitLeaveRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadBody(c)
		return
	}

	name, file, err := formFile(c, "attachment")
	if err != nil {
		respondBadBody(c)
		return
	}
	var attachment *leave.Attachment
	if file != nil {
		defer file.Close()
		attachment = &leave.Attachment{Name: name, Reader: file}
	}

	submitted, err := h.service.SubmitLeave(c.Request.Context(), actor, &req, attachment)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Leave request submitted successfully", submitted)
}

func (h *LeaveHandler) ListMine(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	requests, err := h.service.ListMine(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Leave requests retrieved successfully", requests)
}

func (h *LeaveHandler) ListAll(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	requests, err := h.service.ListAll(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Leave requests retrieved successfully", requests)
}

func (h *LeaveHandler) ResolveLeave(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req leave.ResolveLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	resolved, err := h.service.ResolveLeave(c.Request.Context(), actor, requestID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Leave request resolved successfully", resolved)
}

func (h *LeaveHandler) DownloadAttachment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}

	f, contentType, name, err := h.service.OpenAttachment(c.Request.Context(), actor, requestID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	serveFile(c, f, contentType, name)
}
