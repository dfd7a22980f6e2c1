package service

import (
	"context"

	"github.com/netfield-io/sitesurvey/internal/infra/storage"
	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/repo"
	"go.uber.org/zap"
)

// maxAntennas bounds antenna_count and with it the valid entity_index range
// for antenna configuration images.
const maxAntennas = 24

var antennaConfigPatchable = []string{"antenna_count", "antennas"}

// NewAntennaConfigService builds the existing-antenna module. antenna_count
// drives the per-antenna image index space; shrinking it deactivates images
// tied to removed indices. number_of_cabinets is cached from
// outdoor_cabinets like the other derived-count modules.
func NewAntennaConfigService(
	r repo.FormRepo[model.AntennaConfiguration, *model.AntennaConfiguration],
	counts repo.CabinetCountSource,
	images repo.ImageRepo[model.AntennaConfigurationImage, *model.AntennaConfigurationImage],
	store *storage.Store,
	events *Events,
	log *zap.Logger,
) FormService[model.AntennaConfiguration, *model.AntennaConfiguration] {
	return NewGenericFormService(r, events, log, FormHooks[model.AntennaConfiguration, *model.AntennaConfiguration]{
		Label:  "antenna configuration",
		Module: "antenna_configuration",
		Default: func(sessionID string) *model.AntennaConfiguration {
			return &model.AntennaConfiguration{SessionID: sessionID, NumberOfCabinets: 1}
		},
		Validate: func(rec *model.AntennaConfiguration) error {
			if rec.AntennaCount < 0 || rec.AntennaCount > maxAntennas {
				return NewValidation("antenna_count must be between 0 and %d", maxAntennas)
			}
			return validateEntries("antennas", rec.Antennas.Data())
		},
		Normalize: func(ctx context.Context, rec *model.AntennaConfiguration) error {
			return syncCabinetCount(ctx, counts, rec.SessionID, &rec.NumberOfCabinets)
		},
		PreparePatch: func(ctx context.Context, sessionID string, fields map[string]any) error {
			restrictPatch(fields, antennaConfigPatchable)
			if err := coercePatchInts(fields, "antenna_count"); err != nil {
				return err
			}
			if n, ok := fields["antenna_count"].(int); ok && (n < 0 || n > maxAntennas) {
				return NewValidation("antenna_count must be between 0 and %d", maxAntennas)
			}
			if err := encodePatchJSONB[model.AntennaEntry](fields, "antennas"); err != nil {
				return err
			}
			return syncCabinetCountField(ctx, counts, sessionID, fields)
		},
		AfterWrite: func(ctx context.Context, old, cur *model.AntennaConfiguration) {
			if old == nil || cur.AntennaCount >= old.AntennaCount {
				return
			}
			deactivateImagesFromIndex(ctx, images, store, log,
				cur.SessionID, cur.AntennaCount, "antenna configuration")
		},
	})
}
