package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mkrishnan-dev/orderhub-backend/internal/suppliers"
	"github.com/mkrishnan-dev/orderhub-backend/internal/users"
	pkgAuth "github.com/mkrishnan-dev/orderhub-backend/pkg/auth"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/auth/session"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/config"
	pkgerrors "github.com/mkrishnan-dev/orderhub-backend/pkg/errors"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
	Logout(ctx context.Context, accessID string) error
}

type userRepository interface {
	FindByUsername(ctx context.Context, username string) (*users.User, error)
}

type supplierDirectory interface {
	FindForStore(ctx context.Context, code, storeName string) (*suppliers.Supplier, error)
}

type storeResolver interface {
	ResolveName(ctx context.Context, name string) string
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	users        userRepository
	suppliers    supplierDirectory
	catalog      storeResolver
	session      sessionManager
	jwtCfg       config.JWTConfig
	defaultStore string
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SupplierDir    supplierDirectory
	StoreCatalog   storeResolver
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	DefaultStore   string
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SupplierDir == nil {
		return nil, fmt.Errorf("supplier directory is required")
	}
	if params.StoreCatalog == nil {
		return nil, fmt.Errorf("store catalog is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:        params.UserRepo,
		suppliers:    params.SupplierDir,
		catalog:      params.StoreCatalog,
		session:      params.SessionManager,
		jwtCfg:       params.JWTConfig,
		defaultStore: strings.TrimSpace(params.DefaultStore),
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	codes := user.SupplierCodes()
	if len(codes) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	requestedStore := strings.TrimSpace(req.StoreName)
	if requestedStore == "" {
		requestedStore = s.defaultStore
	}
	storeName := s.catalog.ResolveName(ctx, requestedStore)

	supplierName := strings.TrimSpace(user.SupplierName)
	gstNumber := strings.TrimSpace(user.GSTNumber)
	if supplierName == "" || gstNumber == "" {
		contact, err := s.suppliers.FindForStore(ctx, codes[0], storeName)
		if err != nil && !errors.Is(err, suppliers.ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup supplier")
		}
		if contact != nil {
			if supplierName == "" {
				supplierName = contact.SupplierName
			}
			if gstNumber == "" {
				gstNumber = contact.GSTNumber
			}
		}
	}

	accessID := session.NewAccessID()
	tokenPayload := pkgAuth.AccessTokenPayload{
		Username:      user.Username,
		SupplierCodes: codes,
		SupplierName:  supplierName,
		GSTNumber:     gstNumber,
		StoreName:     storeName,
		JTI:           accessID,
	}
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), tokenPayload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		Username:      user.Username,
		SupplierCodes: codes,
		SupplierName:  supplierName,
		GSTNumber:     gstNumber,
		StoreName:     storeName,
	}, nil
}

// Refresh rotates the refresh session keyed by the old token's jti and mints
// a fresh access token carrying the same supplier context.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}

	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	tokenPayload := pkgAuth.AccessTokenPayload{
		Username:      claims.Username,
		SupplierCodes: claims.SupplierCodes,
		SupplierName:  claims.SupplierName,
		GSTNumber:     claims.GSTNumber,
		StoreName:     claims.StoreName,
		JTI:           newAccessID,
	}
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), tokenPayload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return nil
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, username, password string) (*users.User, error) {
	input := strings.TrimSpace(username)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByUsername(ctx, input)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}
