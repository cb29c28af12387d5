// Package auth implementa el login del administrador único de la API.
// No hay registro ni tabla de usuarios: las credenciales del admin viven en
// la configuración (email + hash bcrypt) y el acceso se materializa en un JWT.
package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cashflow-api/internal/application/dto"
	"github.com/jhoicas/cashflow-api/internal/domain"
	"github.com/jhoicas/cashflow-api/pkg/jwt"
)

// adminUserID sujeto fijo del token: hay un solo usuario posible.
const adminUserID = "admin"

// AdminConfig credenciales del administrador, tomadas de la configuración.
type AdminConfig struct {
	Email        string
	PasswordHash string // hash bcrypt, nunca la password en claro
}

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase caso de uso de autenticación: login del admin.
type AuthUseCase struct {
	admin  AdminConfig
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(admin AdminConfig, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{admin: admin, jwtCfg: jwtCfg}
}

// Login verifica email/password contra las credenciales configuradas y genera
// el JWT. Devuelve domain.ErrUnauthorized ante cualquier credencial inválida,
// sin distinguir si falló el email o la password.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(in.Email), []byte(uc.admin.Email)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(uc.admin.PasswordHash), []byte(in.Password)) == nil
	if !emailOK || !passOK {
		return nil, domain.ErrUnauthorized
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, adminUserID, "admin", uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
	}, nil
}
