package auth

import "context"

// AuthService is glue around the core: code+PIN login for field devices.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (LoginResponse, error)
}
