package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/netfield-io/sitesurvey/internal/config"
	"github.com/netfield-io/sitesurvey/internal/modules/model"
	"github.com/netfield-io/sitesurvey/internal/modules/serializer"
	"github.com/netfield-io/sitesurvey/internal/pkg/secrets"
	"github.com/netfield-io/sitesurvey/internal/pkg/tokens"
)

// ClientAuth authenticates requests with API client bearer tokens. The token
// secret is looked up by its HMAC and, when enabled, verified against the
// stored argon2 hash. The matched client lands in the gin context and its id
// is attached to the current span for telemetry filtering.
func ClientAuth(cfg *config.Config, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx, authSpan := otel.Tracer("middleware").Start(ctx, "client_auth",
			trace.WithAttributes(attribute.String("middleware", "client_auth")))

		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			authSpan.SetAttributes(attribute.Bool("authenticated", false))
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")

		secret, ok := tokens.ParseToken(raw, cfg.Auth.BearerTokenPrefix)
		if !ok {
			authSpan.SetAttributes(attribute.Bool("authenticated", false))
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		lookup := tokens.HMAC256Hex(cfg.Auth.SecretPepper, secret)

		var client model.ApiClient
		if err := db.WithContext(ctx).Where(&model.ApiClient{SecretKeyHMAC: lookup}).First(&client).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				authSpan.SetAttributes(attribute.Bool("authenticated", false))
				authSpan.End()
				c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
				return
			}
			authSpan.RecordError(err)
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusInternalServerError, serializer.DBErr("", err))
			return
		}

		if cfg.Auth.EnableArgon2Verification {
			_, verifySpan := otel.Tracer("middleware").Start(ctx, "client_auth.verify_secret")
			pass, err := secrets.VerifySecret(secret, cfg.Auth.SecretPepper, client.SecretKeyHashPHC)
			verifySpan.End()
			if err != nil || !pass {
				authSpan.SetAttributes(
					attribute.String("client_id", client.ID.String()),
					attribute.Bool("authenticated", false),
				)
				authSpan.End()
				c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
				return
			}
		}

		rootSpan := trace.SpanFromContext(c.Request.Context())
		if rootSpan.SpanContext().IsValid() {
			rootSpan.SetAttributes(attribute.String("client_id", client.ID.String()))
		}

		authSpan.SetAttributes(
			attribute.String("client_id", client.ID.String()),
			attribute.Bool("authenticated", true),
		)
		authSpan.End()

		c.Set("api_client", &client)
		c.Next()
	}
}
