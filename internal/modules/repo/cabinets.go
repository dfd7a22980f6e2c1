package repo

import (
	"context"
	"errors"

	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"gorm.io/gorm"
)

// CabinetCountSource provides the authoritative cabinet count for the
// derived-count sync: modules that cache number_of_cabinets refetch it here
// on every write. Absent rows default to 1.
type CabinetCountSource interface {
	CabinetCount(ctx context.Context, sessionID string) (int, error)
}

type cabinetCountSource struct {
	db *gorm.DB
}

func NewCabinetCountSource(db *gorm.DB) CabinetCountSource {
	return &cabinetCountSource{db: db}
}

func (s *cabinetCountSource) CabinetCount(ctx context.Context, sessionID string) (int, error) {
	var row struct {
		NumberOfCabinets int
	}
	err := s.db.WithContext(ctx).Model(&model.OutdoorCabinets{}).
		Select("number_of_cabinets").
		Where("session_id = ?", sessionID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	if row.NumberOfCabinets < 1 {
		return 1, nil
	}
	return row.NumberOfCabinets, nil
}
