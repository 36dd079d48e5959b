package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
)

// AuthHandler emite tokens en desarrollo. La gestión de usuarios vive fuera de este servicio.
type AuthHandler struct {
	secret     string
	issuer     string
	expMinutes int
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(secret, issuer string, expMinutes int) *AuthHandler {
	return &AuthHandler{secret: secret, issuer: issuer, expMinutes: expMinutes}
}

// Token godoc
// @Summary      Emitir token de desarrollo
// @Description  Solo se registra con APP_ENV=development.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TokenRequest  true  "user_id y role"
// @Success      200   {object}  dto.Envelope
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/token [post]
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var in dto.TokenRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	tok, err := pkgjwt.Generate(h.secret, in.UserID, in.Role, h.issuer, h.expMinutes)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, dto.TokenResponse{Token: tok, ExpiresIn: h.expMinutes * 60}, "")
}
