package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pagocadm-web/redimi-loyalty/internal/config"
)

const VendorIDKey = "vendor_id"

// VendorClaims carries the acting vendor's identity.
type VendorClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SignToken issues a session token for a vendor.
func SignToken(cfg *config.Config, vendorID uuid.UUID, username string) (string, error) {
	claims := VendorClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   vendorID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.Server.TokenTTL)),
			Issuer:    "redimi-loyalty",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Server.JWTSecret))
}

// VendorAuth resolves the acting vendor from the Authorization header and
// stores its id in the request locals. Every tenant-scoped route sits behind
// it; the services trust the vendor id they are handed.
func VendorAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer token",
			})
		}

		claims := &VendorClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.Server.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		vendorID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token subject",
			})
		}

		c.Locals(VendorIDKey, vendorID)
		return c.Next()
	}
}

// GetVendorID returns the authenticated vendor id, or uuid.Nil when the
// request never passed VendorAuth.
func GetVendorID(c *fiber.Ctx) uuid.UUID {
	if id, ok := c.Locals(VendorIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
