package handler

import (
	"company-data-manager/internal/usecase/shipment"
	"company-data-manager/pkg/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ShipmentHandler struct {
	service *shipment.Service
}

func NewShipmentHandler(service *shipment.Service) *ShipmentHandler {
	return &ShipmentHandler{service: service}
}

// RegisterRoutes mounts the read routes; clients only ever see their own
// shipments.
func (h *ShipmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	shipments := router.Group("/shipments")
	{
		shipments.GET("", h.ListShipments)
		shipments.GET("/:id", h.GetShipment)
		shipments.GET("/:id/cargo-items", h.ListCargoItems)
		shipments.GET("/:id/tracking", h.ListTrackingUpdates)
		shipments.GET("/:id/documents", h.ListDocuments)
		shipments.GET("/:id/documents/:documentId", h.DownloadDocument)
	}
}

func (h *ShipmentHandler) RegisterStaffRoutes(router *gin.RouterGroup) {
	shipments := router.Group("/shipments")
	{
		shipments.POST("", h.CreateShipment)
		shipments.PUT("/:id", h.UpdateShipment)
		shipments.DELETE("/:id", h.DeleteShipment)
		shipments.PUT("/:id/status", h.UpdateStatus)
		shipments.PUT("/:id/customs", h.SetCustomsCleared)
		shipments.POST("/:id/cargo-items", h.AddCargoItem)
		shipments.POST("/:id/tracking", h.AddTrackingUpdate)
		shipments.POST("/:id/documents", h.UploadDocument)
	}

	items := router.Group("/cargo-items")
	{
		items.PUT("/:id", h.UpdateCargoItem)
		items.DELETE("/:id", h.DeleteCargoItem)
	}
}

func (h *ShipmentHandler) RegisterManagerRoutes(router *gin.RouterGroup) {
	router.GET("/shipment-statistics", h.GetStatistics)
}

func (h *ShipmentHandler) CreateShipment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req shipment.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	created, err := h.service.CreateShipment(c.Request.Context(), actor, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Shipment created successfully", created)
}

func (h *ShipmentHandler) GetShipment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	shipmentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.service.GetShipment(c.Request.Context(), actor, shipmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shipment retrieved successfully", detail)
}

func (h *ShipmentHandler) ListShipments(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req shipment.ShipmentFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadBody(c)
		return
	}

	shipments, err := h.service.ListShipments(c.Request.Context(), actor, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shipments retrieved successfully", shipments)
}

func (h *ShipmentHandler) UpdateShipment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	shipmentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req shipment.UpdateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	updated, err := h.service.UpdateShipment(c.Request.Context(), actor, shipmentID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shipment updated successfully", updated)
}

func (h *ShipmentHandler) DeleteShipment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	shipmentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteShipment(c.Request.Context(), actor, shipmentID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shipment deleted successfully", nil)
}

func (h *ShipmentHandler) UpdateStatus(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	shipmentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req shipment.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), actor, shipmentID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shipment status updated successfully", updated)
}

func (h *ShipmentHandler) SetCustomsCleared(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	shipmentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req shipment.CustomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	updated, err := h.service.SetCustomsCleared(c.Request.Context(), actor, shipmentID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Customs clearance updated successfully", updated)
}

func (h *ShipmentHandler) GetStatistics(c *gin.Context) {
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

func (h *ShipmentHandler) AddCargoItem(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	shipmentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req shipment.CargoItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	item, err := h.service.AddCargoItem(c.Request.Context(), actor, shipmentID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Cargo item added successfully", item)
}

func (h *ShipmentHandler) UpdateCargoItem(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	itemID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req shipment.CargoItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	item, err := h.service.UpdateCargoItem(c.Request.Context(), actor, itemID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Cargo item updated successfully", item)
}

func (h *ShipmentHandler) DeleteCargoItem(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	itemID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCargoItem(c.Request.Context(), actor, itemID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Cargo item deleted successfully", nil)
}

func (h *ShipmentHandler) ListCargoItems(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	shipmentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	items, err := h.service.ListCargoItems(c.Request.Context(), actor, shipmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Cargo items retrieved successfully", items)
}

func (h *ShipmentHandler) AddTrackingUpdate(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	shipmentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req shipment.TrackingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	update, err := h.service.AddTrackingUpdate(c.Request.Context(), actor, shipmentID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Tracking update added successfully", update)
}

func (h *ShipmentHandler) ListTrackingUpdates(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	shipmentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	updates, err := h.service.ListTrackingUpdates(c.Request.Context(), actor, shipmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Tracking updates retrieved successfully", updates)
}

// UploadDocument expects a multipart form with a "file" field.
func (h *ShipmentHandler) UploadDocument(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	shipmentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req shipment.DocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadBody(c)
		return
	}

	name, file, err := formFile(c, "file")
	if err != nil {
		respondBadBody(c)
		return
	}
	var upload *shipment.Upload
	if file != nil {
		defer file.Close()
		upload = &shipment.Upload{Name: name, Reader: file}
	}

	doc, err := h.service.UploadDocument(c.Request.Context(), actor, shipmentID, &req, upload)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Document uploaded successfully", doc)
}

func (h *ShipmentHandler) ListDocuments(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	shipmentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	docs, err := h.service.ListDocuments(c.Request.Context(), actor, shipmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Documents retrieved successfully", docs)
}

func (h *ShipmentHandler) DownloadDocument(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	shipmentID, ok := idParam(c, "id")
	if !ok {
		return
	}
	documentID, ok := idParam(c, "documentId")
	if !ok {
		return
	}

	f, contentType, name, err := h.service.OpenDocument(c.Request.Context(), actor, shipmentID, documentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	serveFile(c, f, contentType, name)
}
