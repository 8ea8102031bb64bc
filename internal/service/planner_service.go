package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/planner"
	"peakform/coaching-app/internal/repository"
	"peakform/coaching-app/internal/storage"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound      = errors.New("editor session not found")
	ErrTemplateNotFound     = errors.New("plan template not found")
	ErrTemplateAccessDenied = errors.New("access denied to this plan template")
	ErrSaveInFlight         = errors.New("a save is already in flight for this plan")
)

// persistTimeout bounds every persistence gateway call so a hung network
// cannot leave the editor stuck in the saving state.
const persistTimeout = 15 * time.Second

// PlannerService hosts server-side muscle plan editor sessions. Each session
// owns one planner.Session plus its autosave controller; the service is the
// only writer of plan_templates records.
type PlannerService interface {
	// Session lifecycle
	OpenSession(ctx context.Context, trainerID primitive.ObjectID, templateID string) (string, planner.Document, error)
	CloseSession(sessionID string) error
	SessionState(sessionID string) (planner.Document, error)

	// Editing
	Dispatch(sessionID string, action planner.Action) (planner.Document, error)
	LoadPresetIntoSession(ctx context.Context, sessionID, presetID string) (planner.Document, error)

	// Explicit persistence
	Save(ctx context.Context, sessionID string) (planner.Document, error)
	SaveAsPreset(ctx context.Context, sessionID, name string) (string, error)
	ExportSnapshot(ctx context.Context, sessionID string) (string, error)

	// Template CRUD
	ListTemplates(ctx context.Context, trainerID primitive.ObjectID, presets bool) ([]domain.PlanTemplate, error)
	DeleteTemplate(ctx context.Context, trainerID primitive.ObjectID, templateID string) error
}

// editSession binds a planner session to its owner and background saver.
type editSession struct {
	trainerID primitive.ObjectID
	session   *planner.Session
	autosave  *planner.Autosave
}

// plannerService implements the PlannerService interface.
type plannerService struct {
	templateRepo repository.PlanTemplateRepository
	fileStorage  storage.FileStorage

	autosaveOpts []planner.AutosaveOption

	mu       sync.RWMutex
	sessions map[string]*editSession
}

// NewPlannerService creates a new planner service. The autosave options are
// passed through to every session's controller (config supplies the
// debounce and save timeout).
func NewPlannerService(
	templateRepo repository.PlanTemplateRepository,
	fileStorage storage.FileStorage,
	autosaveOpts ...planner.AutosaveOption,
) PlannerService {
	return &plannerService{
		templateRepo: templateRepo,
		fileStorage:  fileStorage,
		autosaveOpts: autosaveOpts,
		sessions:     make(map[string]*editSession),
	}
}

// === Session lifecycle ===

// OpenSession starts an editor session, either on a fresh plan (empty
// templateID) or on a loaded template owned by the trainer. The returned id
// keys every subsequent call.
func (s *plannerService) OpenSession(ctx context.Context, trainerID primitive.ObjectID, templateID string) (string, planner.Document, error) {
	if trainerID == primitive.NilObjectID {
		return "", planner.Document{}, errors.New("trainer ID is required")
	}

	doc := planner.NewDocument()
	if templateID != "" {
		tpl, err := s.getOwnedTemplate(ctx, trainerID, templateID)
		if err != nil {
			return "", planner.Document{}, err
		}
		doc = planner.DocumentFromTemplate(tpl)
	}

	sess := planner.NewSession(doc)
	auto := planner.NewAutosave(sess, s.updateFunc(trainerID), s.autosaveOpts...)

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &editSession{trainerID: trainerID, session: sess, autosave: auto}
	s.mu.Unlock()

	return id, doc, nil
}

// CloseSession stops the session's autosave and releases it. Unsaved edits
// are dropped, mirroring the editor being navigated away from.
func (s *plannerService) CloseSession(sessionID string) error {
	s.mu.Lock()
	es, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	es.autosave.Stop()
	return nil
}

// SessionState returns the current document of a session.
func (s *plannerService) SessionState(sessionID string) (planner.Document, error) {
	es, err := s.get(sessionID)
	if err != nil {
		return planner.Document{}, err
	}
	return es.session.State(), nil
}

// === Editing ===

// Dispatch applies one action (including Undo/Redo/SelectDay) to the
// session and returns the resulting document.
func (s *plannerService) Dispatch(sessionID string, action planner.Action) (planner.Document, error) {
	es, err := s.get(sessionID)
	if err != nil {
		return planner.Document{}, err
	}
	return es.session.Dispatch(action), nil
}

// LoadPresetIntoSession copies a preset's slots into the working plan. The
// session keeps its own TemplateID: applying a preset edits the current
// plan rather than switching the editor onto the preset record.
func (s *plannerService) LoadPresetIntoSession(ctx context.Context, sessionID, presetID string) (planner.Document, error) {
	es, err := s.get(sessionID)
	if err != nil {
		return planner.Document{}, err
	}
	preset, err := s.getOwnedTemplate(ctx, es.trainerID, presetID)
	if err != nil {
		return planner.Document{}, err
	}
	return es.session.Dispatch(planner.LoadPreset{
		Slots: planner.HydrateSlots(preset.Slots),
		Name:  preset.Name,
	}), nil
}

// === Explicit persistence ===

// Save persists the working plan now, bypassing the autosave debounce. The
// first save creates the record and pins the allocated id on the document;
// later saves overwrite it. Concurrent explicit saves are a caller error.
func (s *plannerService) Save(ctx context.Context, sessionID string) (planner.Document, error) {
	es, err := s.get(sessionID)
	if err != nil {
		return planner.Document{}, err
	}
	doc := es.session.State()
	if doc.Saving {
		return doc, ErrSaveInFlight
	}
	doc = es.session.Dispatch(planner.MarkSaving{})

	pctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	if doc.TemplateID == "" {
		tpl := recordFromDocument(es.trainerID, doc, false)
		id, err := s.templateRepo.Create(pctx, tpl)
		if err != nil {
			es.session.Dispatch(planner.MarkSaveError{})
			return es.session.State(), err
		}
		return es.session.Dispatch(planner.MarkSaved{TemplateID: id.Hex()}), nil
	}

	oid, err := primitive.ObjectIDFromHex(doc.TemplateID)
	if err != nil {
		es.session.Dispatch(planner.MarkSaveError{})
		return es.session.State(), err
	}
	tpl := recordFromDocument(es.trainerID, doc, false)
	tpl.ID = oid
	if err := s.templateRepo.Update(pctx, tpl); err != nil {
		es.session.Dispatch(planner.MarkSaveError{})
		return es.session.State(), err
	}
	return es.session.Dispatch(planner.MarkSaved{TemplateID: doc.TemplateID}), nil
}

// SaveAsPreset snapshots the working plan into a new preset record and
// returns the preset's id. The working document's TemplateID and dirty flag
// are deliberately untouched: the trainer keeps editing their copy instead
// of being silently redirected onto the preset.
func (s *plannerService) SaveAsPreset(ctx context.Context, sessionID, name string) (string, error) {
	es, err := s.get(sessionID)
	if err != nil {
		return "", err
	}
	doc := es.session.State()
	if doc.Saving {
		return "", ErrSaveInFlight
	}
	doc = es.session.Dispatch(planner.MarkSaving{})

	if name == "" {
		name = doc.Name
	}
	tpl := recordFromDocument(es.trainerID, doc, true)
	tpl.Name = name

	pctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	id, err := s.templateRepo.Create(pctx, tpl)
	if err != nil {
		es.session.Dispatch(planner.MarkSaveError{})
		return "", err
	}
	es.session.Dispatch(planner.MarkPresetSaved{})
	return id.Hex(), nil
}

// ExportSnapshot uploads a JSON snapshot of the current document to object
// storage and returns a short-lived download URL for sharing.
func (s *plannerService) ExportSnapshot(ctx context.Context, sessionID string) (string, error) {
	es, err := s.get(sessionID)
	if err != nil {
		return "", err
	}
	doc := es.session.State()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("plan-exports/%s/%s.json", es.trainerID.Hex(), uuid.NewString())
	if err := s.fileStorage.UploadObject(ctx, key, "application/json", data); err != nil {
		return "", err
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, key, storage.DefaultPresignedURLExpiry)
}

// === Template CRUD ===

// ListTemplates returns the trainer's working plans or presets.
func (s *plannerService) ListTemplates(ctx context.Context, trainerID primitive.ObjectID, presets bool) ([]domain.PlanTemplate, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	pctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	return s.templateRepo.GetByTrainerID(pctx, trainerID, presets)
}

// DeleteTemplate removes one of the trainer's templates or presets.
func (s *plannerService) DeleteTemplate(ctx context.Context, trainerID primitive.ObjectID, templateID string) error {
	oid, err := primitive.ObjectIDFromHex(templateID)
	if err != nil {
		return ErrTemplateNotFound
	}
	pctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	err = s.templateRepo.Delete(pctx, oid, trainerID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTemplateNotFound
	}
	return err
}

// === Helpers ===

func (s *plannerService) get(sessionID string) (*editSession, error) {
	s.mu.RLock()
	es, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return es, nil
}

// getOwnedTemplate fetches a template and enforces trainer ownership.
func (s *plannerService) getOwnedTemplate(ctx context.Context, trainerID primitive.ObjectID, templateID string) (*domain.PlanTemplate, error) {
	oid, err := primitive.ObjectIDFromHex(templateID)
	if err != nil {
		return nil, ErrTemplateNotFound
	}
	pctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	tpl, err := s.templateRepo.GetByID(pctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if tpl.TrainerID != trainerID {
		return nil, ErrTemplateAccessDenied
	}
	return tpl, nil
}

// updateFunc builds the autosave persistence hook for one trainer's
// sessions. Autosave only ever updates an existing record; it never
// creates one.
func (s *plannerService) updateFunc(trainerID primitive.ObjectID) planner.UpdateFunc {
	return func(ctx context.Context, doc planner.Document) error {
		oid, err := primitive.ObjectIDFromHex(doc.TemplateID)
		if err != nil {
			return err
		}
		tpl := recordFromDocument(trainerID, doc, false)
		tpl.ID = oid
		return s.templateRepo.Update(ctx, tpl)
	}
}

// recordFromDocument converts the in-memory document to its persisted shape.
func recordFromDocument(trainerID primitive.ObjectID, doc planner.Document, isPreset bool) *domain.PlanTemplate {
	return &domain.PlanTemplate{
		TrainerID:   trainerID,
		Name:        doc.Name,
		Description: doc.Description,
		IsPreset:    isPreset,
		Slots:       planner.RecordSlots(doc.Slots),
	}
}
