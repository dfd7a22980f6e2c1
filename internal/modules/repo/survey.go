package repo

import (
	"context"
	"errors"

	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SurveyRepo interface {
	Create(ctx context.Context, s *model.Survey) error
	Get(ctx context.Context, sessionID string) (*model.Survey, error)
	Exists(ctx context.Context, sessionID string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]model.Survey, int64, error)
	// Delete removes the survey row. Tables with a declared foreign key
	// cascade in the database; the repeated modules without one are cleaned
	// up here, in the same transaction.
	Delete(ctx context.Context, sessionID string) error
}

type surveyRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewSurveyRepo(db *gorm.DB, log *zap.Logger) SurveyRepo {
	return &surveyRepo{db: db, log: log}
}

func (r *surveyRepo) Create(ctx context.Context, s *model.Survey) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *surveyRepo) Get(ctx context.Context, sessionID string) (*model.Survey, error) {
	var s model.Survey
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *surveyRepo) Exists(ctx context.Context, sessionID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Survey{}).
		Where("session_id = ?", sessionID).
		Count(&n).Error
	return n > 0, err
}

func (r *surveyRepo) List(ctx context.Context, limit, offset int) ([]model.Survey, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Survey{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []model.Survey
	err := r.db.WithContext(ctx).
		Order("created_at DESC, session_id DESC").
		Limit(limit).Offset(offset).
		Find(&items).Error
	return items, total, err
}

func (r *surveyRepo) Delete(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var survey model.Survey
		if err := tx.Where("session_id = ?", sessionID).First(&survey).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Repeated modules carry no DB foreign key (historical index-count
		// limit); delete their rows explicitly so they do not orphan.
		for _, m := range []any{&model.RadioUnit{}, &model.NewAntenna{}, &model.FPFH{}} {
			if err := tx.Where("session_id = ?", sessionID).Delete(m).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&survey).Error; err != nil {
			return err
		}

		r.log.Info("survey deleted", zap.String("session_id", sessionID))
		return nil
	})
}
