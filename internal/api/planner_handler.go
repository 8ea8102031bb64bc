// internal/api/planner_handler.go
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/planner"
	"peakform/coaching-app/internal/service"
)

// PlannerHandler exposes the muscle plan builder: editor sessions, action
// dispatch, explicit saves and template CRUD.
type PlannerHandler struct {
	plannerService service.PlannerService
}

// NewPlannerHandler creates a new PlannerHandler.
func NewPlannerHandler(plannerService service.PlannerService) *PlannerHandler {
	return &PlannerHandler{plannerService: plannerService}
}

// --- DTOs ---

type OpenSessionRequest struct {
	TemplateID string `json:"templateId,omitempty"` // empty = new plan
}

type OpenSessionResponse struct {
	SessionID string           `json:"sessionId"`
	Document  planner.Document `json:"document"`
}

// ActionRequest is the wire shape of one edit intent. Type selects the
// action; the remaining fields are read per type. Unknown types are a 400.
type ActionRequest struct {
	Type        string `json:"type" binding:"required"`
	Day         int    `json:"day"`
	SlotID      string `json:"slotId"`
	MuscleID    string `json:"muscleId"`
	Sets        int    `json:"sets"`
	RepMin      int    `json:"repMin"`
	RepMax      int    `json:"repMax"`
	From        int    `json:"from"`
	To          int    `json:"to"`
	ToDay       int    `json:"toDay"`
	ToIndex     int    `json:"toIndex"`
	FromDay     int    `json:"fromDay"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadPresetRequest struct {
	PresetID string `json:"presetId" binding:"required"`
}

type SaveAsPresetRequest struct {
	Name string `json:"name"`
}

type SaveAsPresetResponse struct {
	PresetID string `json:"presetId"`
}

type ExportResponse struct {
	URL string `json:"url"`
}

// decodeAction maps an ActionRequest onto a planner action. Save-lifecycle
// transitions are deliberately not decodable: they belong to the service.
func decodeAction(req ActionRequest) (planner.Action, error) {
	switch req.Type {
	case "ADD_MUSCLE":
		return planner.AddMuscle{Day: req.Day, MuscleID: req.MuscleID, Sets: req.Sets}, nil
	case "REMOVE_MUSCLE":
		return planner.RemoveSlot{SlotID: req.SlotID}, nil
	case "SET_SETS":
		return planner.SetSets{SlotID: req.SlotID, Sets: req.Sets}, nil
	case "SET_REPS":
		return planner.SetReps{SlotID: req.SlotID, RepMin: req.RepMin, RepMax: req.RepMax}, nil
	case "SET_ALL_SETS_FOR_MUSCLE":
		return planner.SetAllSetsForMuscle{MuscleID: req.MuscleID, Sets: req.Sets}, nil
	case "REORDER":
		return planner.Reorder{Day: req.Day, From: req.From, To: req.To}, nil
	case "MOVE_MUSCLE":
		return planner.MoveSlot{SlotID: req.SlotID, ToDay: req.ToDay, ToIndex: req.ToIndex}, nil
	case "PASTE_DAY":
		return planner.PasteDay{FromDay: req.FromDay, ToDay: req.ToDay}, nil
	case "CLEAR_ALL":
		return planner.ClearAll{}, nil
	case "SET_NAME":
		return planner.SetName{Name: req.Name}, nil
	case "SET_DESCRIPTION":
		return planner.SetDescription{Description: req.Description}, nil
	case "SELECT_DAY":
		return planner.SelectDay{Day: req.Day}, nil
	case "UNDO":
		return planner.Undo{}, nil
	case "REDO":
		return planner.Redo{}, nil
	}
	return nil, fmt.Errorf("unknown action type %q", req.Type)
}

// --- Handler Methods ---

// OpenSession starts an editor session on a new or existing plan.
func (h *PlannerHandler) OpenSession(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}

	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	sessionID, doc, err := h.plannerService.OpenSession(c.Request.Context(), trainerID, req.TemplateID)
	if err != nil {
		h.mapPlannerError(c, err, "Failed to open editor session.")
		return
	}
	c.JSON(http.StatusCreated, OpenSessionResponse{SessionID: sessionID, Document: doc})
}

// GetSession returns the current document state of a session.
func (h *PlannerHandler) GetSession(c *gin.Context) {
	doc, err := h.plannerService.SessionState(c.Param("id"))
	if err != nil {
		h.mapPlannerError(c, err, "Failed to read editor session.")
		return
	}
	c.JSON(http.StatusOK, doc)
}

// CloseSession ends an editor session, discarding unsaved edits.
func (h *PlannerHandler) CloseSession(c *gin.Context) {
	if err := h.plannerService.CloseSession(c.Param("id")); err != nil {
		h.mapPlannerError(c, err, "Failed to close editor session.")
		return
	}
	c.Status(http.StatusNoContent)
}

// DispatchAction applies one edit action (or undo/redo) to a session and
// returns the new document state.
func (h *PlannerHandler) DispatchAction(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	action, err := decodeAction(req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.plannerService.Dispatch(c.Param("id"), action)
	if err != nil {
		h.mapPlannerError(c, err, "Failed to apply action.")
		return
	}
	c.JSON(http.StatusOK, doc)
}

// LoadPreset copies a stored preset's slots into the session's working plan.
func (h *PlannerHandler) LoadPreset(c *gin.Context) {
	var req LoadPresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	doc, err := h.plannerService.LoadPresetIntoSession(c.Request.Context(), c.Param("id"), req.PresetID)
	if err != nil {
		h.mapPlannerError(c, err, "Failed to load preset.")
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Save persists the working plan immediately.
func (h *PlannerHandler) Save(c *gin.Context) {
	doc, err := h.plannerService.Save(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.mapPlannerError(c, err, "Failed to save plan.")
		return
	}
	c.JSON(http.StatusOK, doc)
}

// SaveAsPreset snapshots the working plan into a new preset record.
func (h *PlannerHandler) SaveAsPreset(c *gin.Context) {
	var req SaveAsPresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	presetID, err := h.plannerService.SaveAsPreset(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		h.mapPlannerError(c, err, "Failed to save preset.")
		return
	}
	c.JSON(http.StatusCreated, SaveAsPresetResponse{PresetID: presetID})
}

// Export uploads a JSON snapshot of the working plan and returns a
// short-lived download URL.
func (h *PlannerHandler) Export(c *gin.Context) {
	url, err := h.plannerService.ExportSnapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.mapPlannerError(c, err, "Failed to export plan snapshot.")
		return
	}
	c.JSON(http.StatusOK, ExportResponse{URL: url})
}

// ListTemplates returns the trainer's plans (?presets=true for presets).
func (h *PlannerHandler) ListTemplates(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}
	presets := c.Query("presets") == "true"

	tpls, err := h.plannerService.ListTemplates(c.Request.Context(), trainerID, presets)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list plan templates.")
		return
	}
	if tpls == nil {
		tpls = []domain.PlanTemplate{} // return empty JSON array, not null
	}
	c.JSON(http.StatusOK, tpls)
}

// DeleteTemplate removes one of the trainer's templates or presets.
func (h *PlannerHandler) DeleteTemplate(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}

	if err := h.plannerService.DeleteTemplate(c.Request.Context(), trainerID, c.Param("id")); err != nil {
		h.mapPlannerError(c, err, "Failed to delete plan template.")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Helpers ---

// trainerIDFromContext resolves the authenticated trainer's ObjectID,
// aborting the request itself on failure.
func trainerIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return primitive.NilObjectID, false
	}
	trainerID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format in token.")
		return primitive.NilObjectID, false
	}
	return trainerID, true
}

// mapPlannerError maps service errors to HTTP status codes.
func (h *PlannerHandler) mapPlannerError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrTemplateNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrTemplateAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrSaveInFlight):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
