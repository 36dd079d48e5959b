package dto

// TokenRequest solicitud de token de desarrollo.
type TokenRequest struct {
	UserID string `json:"user_id" validate:"required,max=100"`
	Role   string `json:"role" validate:"required,oneof=admin bodeguero auditor"`
}

// TokenResponse token firmado y su vigencia en segundos.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
