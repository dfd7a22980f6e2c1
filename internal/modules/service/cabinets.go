package service

import (
	"context"

	"github.com/netfield-io/sitesurvey/internal/infra/storage"
	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"go.uber.org/zap"
)

// maxCabinets bounds number_of_cabinets; the per-cabinet image category
// space is sized to this.
const maxCabinets = 20

var outdoorCabinetsPatchable = []string{"number_of_cabinets", "cabinets"}

// NewOutdoorCabinetsService builds the module that owns the authoritative
// cabinet count. Lowering the count deactivates per-cabinet images tied to
// the removed indices.
func NewOutdoorCabinetsService(
	r repo.FormRepo[model.OutdoorCabinets, *model.OutdoorCabinets],
	images repo.ImageRepo[model.OutdoorCabinetImage, *model.OutdoorCabinetImage],
	store *storage.Store,
	events *Events,
	log *zap.Logger,
) FormService[model.OutdoorCabinets, *model.OutdoorCabinets] {
	return NewGenericFormService(r, events, log, FormHooks[model.OutdoorCabinets, *model.OutdoorCabinets]{
		Label:  "outdoor cabinets",
		Module: "outdoor_cabinets",
		Default: func(sessionID string) *model.OutdoorCabinets {
			return &model.OutdoorCabinets{SessionID: sessionID, NumberOfCabinets: 1}
		},
		Validate: func(rec *model.OutdoorCabinets) error {
			if rec.NumberOfCabinets < 1 || rec.NumberOfCabinets > maxCabinets {
				return NewValidation("number_of_cabinets must be between 1 and %d", maxCabinets)
			}
			return validateEntries("cabinets", rec.Cabinets.Data())
		},
		PreparePatch: func(_ context.Context, _ string, fields map[string]any) error {
			restrictPatch(fields, outdoorCabinetsPatchable)
			if err := coercePatchInts(fields, "number_of_cabinets"); err != nil {
				return err
			}
			if n, ok := fields["number_of_cabinets"].(int); ok && (n < 1 || n > maxCabinets) {
				return NewValidation("number_of_cabinets must be between 1 and %d", maxCabinets)
			}
			return encodePatchJSONB[model.CabinetEntry](fields, "cabinets")
		},
		AfterWrite: func(ctx context.Context, old, cur *model.OutdoorCabinets) {
			if old == nil || cur.NumberOfCabinets >= old.NumberOfCabinets {
				return
			}
			deactivateImagesFromIndex(ctx, images, store, log,
				cur.SessionID, cur.NumberOfCabinets, "outdoor cabinet")
		},
	})
}

// deactivateImagesFromIndex soft-deletes active images whose entity_index no
// longer exists after a count shrink and removes their files. Best-effort:
// failures are logged, never surfaced to the write that triggered them.
func deactivateImagesFromIndex[T any, PT interface {
	*T
	repo.ImageRecord
}](ctx context.Context, images repo.ImageRepo[T, PT], store *storage.Store, log *zap.Logger,
	sessionID string, minIndex int, label string,
) {
	touched, err := images.DeactivateFromIndex(ctx, sessionID, minIndex)
	if err != nil {
		log.Warn("deactivate shrunk images failed",
			zap.String("module", label), zap.String("session_id", sessionID),
			zap.Int("min_index", minIndex), zap.Error(err))
		return
	}
	for i := range touched {
		meta := PT(&touched[i]).Meta()
		if err := store.Remove(meta.Category, meta.StoredName); err != nil {
			log.Warn("remove shrunk image file failed",
				zap.String("module", label), zap.String("stored_name", meta.StoredName), zap.Error(err))
		}
	}
}
