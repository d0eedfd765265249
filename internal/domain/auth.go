package domain

// LoginRequest carries the admin password for POST /v1/auth/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse returns the signed access token.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}
