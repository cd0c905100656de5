package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/auth"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/personnel"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	personnel.PersonRepository
	jwt.Service
}

func NewAuthService(personRepository personnel.PersonRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		PersonRepository: personRepository,
		Service:          jwtService,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	person, err := a.PersonRepository.GetByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, personnel.ErrPersonNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get person by code: %w", err)
	}

	// An inactive person fails the same way a wrong code does.
	if !person.Active {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(person.PINHash), []byte(req.PIN)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(person)
}

// Refresh implements auth.AuthService.
func (a *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.LoginResponse, error) {
	token, err := jwtauth.VerifyToken(a.JWTAuth(), refreshToken)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "refresh" {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	if a.IsTokenRevoked(refreshToken) {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	personID, ok := claims["person_id"].(string)
	if !ok {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}
	accountID, ok := claims["account_id"].(string)
	if !ok {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	person, err := a.PersonRepository.GetByID(ctx, personID, accountID)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}
	if !person.Active {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	// Refresh tokens rotate: the presented token is dead after one use.
	a.RevokeToken(refreshToken)

	return a.issueTokens(person)
}

func (a *AuthServiceImpl) issueTokens(person personnel.Person) (auth.LoginResponse, error) {
	var resp auth.LoginResponse
	var err error

	resp.AccessToken, resp.AccessTokenExpiresAt, err = a.GenerateAccessToken(person.ID, person.AccountID, person.Role)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	resp.RefreshToken, resp.RefreshTokenExpiresAt, err = a.GenerateRefreshToken(person.ID, person.AccountID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	resp.PersonID = person.ID
	resp.PersonName = person.FullName
	resp.Role = string(person.Role)
	return resp, nil
}
