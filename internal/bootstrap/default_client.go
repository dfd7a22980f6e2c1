package bootstrap

import (
	"context"

	"github.com/netfield-io/sitesurvey/internal/config"
	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/pkg/secrets"
	"github.com/netfield-io/sitesurvey/internal/pkg/tokens"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnsureDefaultClientExists creates or realigns the default API client from
// the configured bearer token when the service starts. Without a token and
// pepper in the config nothing is seeded.
func EnsureDefaultClientExists(ctx context.Context, db *gorm.DB, cfg *config.Config, log *zap.Logger) error {
	secret := cfg.Auth.ApiBearerToken
	pepper := cfg.Auth.SecretPepper

	if secret == "" || pepper == "" {
		return nil
	}

	lookup := tokens.HMAC256Hex(pepper, secret)

	var defaultClient model.ApiClient
	err := db.WithContext(ctx).
		Where("configs @> ?", `{"__default_init_client__": true}`).
		First(&defaultClient).Error

	switch err {
	case nil:
		// Default client exists; realign its secret with the config.
		phc, err := secrets.HashSecret(secret, pepper)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"secret_key_hmac":     lookup,
			"secret_key_hash_phc": phc,
		}

		if uErr := db.WithContext(ctx).Model(&defaultClient).Updates(updates).Error; uErr != nil {
			return uErr
		}
		log.Sugar().Infow("default api client exists", "client", defaultClient.ID)
		return nil

	case gorm.ErrRecordNotFound:
		phc, err := secrets.HashSecret(secret, pepper)
		if err != nil {
			return err
		}

		newClient := model.ApiClient{
			Name:             "default",
			SecretKeyHMAC:    lookup,
			SecretKeyHashPHC: phc,
			Configs: datatypes.JSONMap{
				"__default_init_client__": true,
			},
		}
		if cErr := db.WithContext(ctx).Create(&newClient).Error; cErr != nil {
			return cErr
		}
		log.Sugar().Infow("default api client created", "client", newClient.ID)
		return nil

	default:
		return err
	}
}
