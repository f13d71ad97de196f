package identity

import (
	"context"
	"database/sql"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wwi/backend/internal/domain/shared"
	"github.com/wwi/backend/internal/infrastructure/config"
	"github.com/wwi/backend/internal/infrastructure/persistence"
)

// ProcRunner executes a stored procedure against the pool of the given branch
type ProcRunner interface {
	QueryProc(ctx context.Context, sucursal, proc string, args ...sql.NamedArg) (persistence.ResultSets, error)
}

// AuthService validates credentials against the branch database and issues
// login tokens
type AuthService struct {
	db       ProcRunner
	registry *persistence.Registry
	jwt      config.JWTConfig
	now      func() time.Time
}

// NewAuthService creates an auth service
func NewAuthService(db ProcRunner, registry *persistence.Registry, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{db: db, registry: registry, jwt: jwtCfg, now: time.Now}
}

// LoginInput carries the credentials and the branch to log into
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Tenant   string `json:"tenant" binding:"required,sucursal"`
}

// LoginResult carries the authenticated user row and the issued token
type LoginResult struct {
	User  persistence.Row `json:"user"`
	Token string          `json:"token"`
}

// Login validates the credentials against the branch named in the input and
// returns the user row plus a signed token scoped to that branch
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	desc, err := s.registry.Lookup(in.Tenant)
	if err != nil {
		return nil, err
	}
	sets, err := s.db.QueryProc(ctx, desc.Key, "sp_loginUsuario",
		sql.Named("username", in.Username),
		sql.Named("password", in.Password),
	)
	if err != nil {
		return nil, err
	}
	user := sets.Set(0).First()
	if user == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidCredentials, "Usuario o contraseña incorrectos")
	}
	token, err := s.issueToken(in.Username, desc.Key)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token}, nil
}

func (s *AuthService) issueToken(username, sucursal string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      username,
		"sucursal": sucursal,
		"iss":      s.jwt.Issuer,
		"iat":      now.Unix(),
		"exp":      now.Add(s.jwt.Expiration).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwt.Secret))
}

// TenantOption describes one branch a user can log into
type TenantOption struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Database string `json:"database"`
}

// Tenants lists the configured branches in stable key order
func (s *AuthService) Tenants() []TenantOption {
	keys := s.registry.Keys()
	opts := make([]TenantOption, 0, len(keys))
	for _, key := range keys {
		desc, err := s.registry.Lookup(key)
		if err != nil {
			continue
		}
		opts = append(opts, TenantOption{Key: desc.Key, Name: desc.Name, Database: desc.Database})
	}
	return opts
}
