package handler

import (
	"company-data-manager/internal/usecase/cargorequest"
	"company-data-manager/pkg/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CargoRequestHandler struct {
	service *cargorequest.Service
}

func NewCargoRequestHandler(service *cargorequest.Service) *CargoRequestHandler {
	return &CargoRequestHandler{service: service}
}

func (h *CargoRequestHandler) RegisterClientRoutes(router *gin.RouterGroup) {
	requests := router.Group("/cargo-requests")
	{
		requests.POST("", h.Submit)
		requests.GET("/mine", h.ListMine)
	}
}

func (h *CargoRequestHandler) RegisterStaffRoutes(router *gin.RouterGroup) {
	requests := router.Group("/cargo-requests")
	{
		requests.GET("", h.ListAll)
		requests.PUT("/:id/resolve", h.Resolve)
	}
}

func (h *CargoRequestHandler) Submit(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req cargorequest.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	submitted, err := h.service.Submit(c.Request.Context(), actor, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Cargo request submitted successfully", submitted)
}

func (h *CargoRequestHandler) ListMine(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	requests, err := h.service.ListMine(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Cargo requests retrieved successfully", requests)
}

func (h *CargoRequestHandler) ListAll(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	requests, err := h.service.ListAll(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Cargo requests retrieved successfully", requests)
}

func (h *CargoRequestHandler) Resolve(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req cargorequest.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	resolved, err := h.service.Resolve(c.Request.Context(), actor, requestID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Cargo request resolved successfully", resolved)
}
