package handler

import (
	"company-data-manager/internal/usecase/message"
	"company-data-manager/pkg/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	service *message.Service
}

func NewMessageHandler(service *message.Service) *MessageHandler {
	return &MessageHandler{service: service}
}

func (h *MessageHandler) RegisterRoutes(router *gin.RouterGroup) {
	messages := router.Group("/messages")
	{
		messages.GET("", h.List)
		messages.POST("", h.Send)
		messages.GET("/unread-count", h.UnreadCount)
		messages.GET("/recipients", h.ListRecipients)
		messages.PUT("/:id/read", h.MarkRead)
	}
}

func (h *MessageHandler) Send(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req message.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	sent, err := h.service.Send(c.Request.Context(), actor, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Message sent successfully", sent)
}

func (h *MessageHandler) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	messages, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Messages retrieved successfully", messages)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	messageID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), actor, messageID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Message marked as read", nil)
}

func (h *MessageHandler) UnreadCount(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Unread count retrieved successfully", count)
}

func (h *MessageHandler) ListRecipients(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	recipients, err := h.service.ListRecipients(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Recipients retrieved successfully", recipients)
}
