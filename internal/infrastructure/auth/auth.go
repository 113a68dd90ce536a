package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"jan-server/services/chat-api/internal/config"
)

const (
	contextKeyToken   = "auth_token"
	contextKeySubject = "auth_subject"
)

// Validator validates JWTs using JWKS.
type Validator struct {
	enabled  bool
	issuer   string
	audience string
	log      zerolog.Logger
	jwks     *keyfunc.JWKS
}

// NewValidator initializes JWKS fetching when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	log = log.With().Str("component", "auth").Logger()
	if !cfg.AuthEnabled {
		return &Validator{log: log}, nil
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error().Err(err).Msg("jwks refresh error")
		},
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, options)
	if err != nil {
		return nil, err
	}

	return newValidator(jwks, cfg.AuthIssuer, cfg.AuthAudience, log), nil
}

func newValidator(jwks *keyfunc.JWKS, issuer, audience string, log zerolog.Logger) *Validator {
	return &Validator{
		enabled:  true,
		issuer:   strings.TrimSpace(issuer),
		audience: strings.TrimSpace(audience),
		log:      log,
		jwks:     jwks,
	}
}

// Middleware enforces JWT auth when enabled.
func (v *Validator) Middleware() gin.HandlerFunc {
	if v == nil || !v.enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		opts := []jwt.ParserOption{
			jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
		}
		if v.issuer != "" {
			opts = append(opts, jwt.WithIssuer(v.issuer))
		}
		if v.audience != "" {
			opts = append(opts, jwt.WithAudience(v.audience))
		}

		token, err := jwt.Parse(tokenString, v.jwks.Keyfunc, opts...)
		if err != nil || !token.Valid {
			v.log.Debug().Err(err).Msg("token rejected")
			abortUnauthorized(c, "invalid token")
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			abortUnauthorized(c, "invalid token subject")
			return
		}

		c.Set(contextKeyToken, token)
		c.Set(contextKeySubject, subject)
		c.Next()
	}
}

// Enabled reports whether requests must carry a token.
func (v *Validator) Enabled() bool {
	return v != nil && v.enabled
}

// Ready indicates if the validator is prepared.
func (v *Validator) Ready() bool {
	if v == nil || !v.enabled {
		return true
	}
	return v.jwks != nil
}

// Subject returns the authenticated subject set by Middleware, if any.
func Subject(c *gin.Context) string {
	return c.GetString(contextKeySubject)
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": message,
	})
}
