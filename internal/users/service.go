package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nvalenzo/threadhaus-backend/internal/gateway"
	"github.com/nvalenzo/threadhaus-backend/pkg/auth"
	"github.com/nvalenzo/threadhaus-backend/pkg/auth/session"
	"github.com/nvalenzo/threadhaus-backend/pkg/config"
	"github.com/nvalenzo/threadhaus-backend/pkg/enums"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/nvalenzo/threadhaus-backend/pkg/logger"
)

// Service fronts the hosted identity API with locally issued access tokens,
// and manages the user's profile document and address book.
type Service interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Register(ctx context.Context, email, password string, displayName *string) (*Session, error)
	FederatedLogin(ctx context.Context, provider, idToken string) (*Session, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*Session, error)
	Logout(ctx context.Context, jti string) error

	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*Profile, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]Address, error)
	UpsertAddress(ctx context.Context, userID uuid.UUID, address Address) (*Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
}

// UpdateProfileInput holds optional profile field changes.
type UpdateProfileInput struct {
	DisplayName *string
	Phone       *string
	PhotoURL    *string
}

type identityGateway interface {
	SignIn(ctx context.Context, email, password string) (*gateway.IdentityUser, error)
	SignUp(ctx context.Context, email, password string, displayName *string) (*gateway.IdentityUser, error)
	FederatedSignIn(ctx context.Context, provider, idToken string) (*gateway.IdentityUser, error)
	GetUserProfile(ctx context.Context, uid string) (*gateway.ProfileDoc, error)
	PutUserProfile(ctx context.Context, doc gateway.ProfileDoc) error
	ListAddresses(ctx context.Context, uid string) ([]gateway.AddressDoc, error)
	PutAddress(ctx context.Context, uid string, doc gateway.AddressDoc) error
	DeleteAddress(ctx context.Context, uid, addressID string) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	identity identityGateway
	sessions sessionManager
	jwtCfg   config.JWTConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewService constructs the users service.
func NewService(identity identityGateway, sessions sessionManager, jwtCfg config.JWTConfig, log *logger.Logger) (Service, error) {
	if identity == nil {
		return nil, fmt.Errorf("identity gateway required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		identity: identity,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		log:      log,
		now:      time.Now,
	}, nil
}

// Login authenticates against the identity API and issues a token pair.
func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.openSession(ctx, user)
}

// Register creates the identity account, seeds the profile document, and
// issues a token pair.
func (s *service) Register(ctx context.Context, email, password string, displayName *string) (*Session, error) {
	user, err := s.identity.SignUp(ctx, email, password, displayName)
	if err != nil {
		return nil, err
	}
	return s.openSession(ctx, user)
}

// FederatedLogin exchanges a provider token and issues a token pair.
func (s *service) FederatedLogin(ctx context.Context, provider, idToken string) (*Session, error) {
	user, err := s.identity.FederatedSignIn(ctx, provider, idToken)
	if err != nil {
		return nil, err
	}
	return s.openSession(ctx, user)
}

// Refresh rotates the refresh token and mints a new access token. The old
// access token may be expired; only its signature and jti are inspected.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "parse access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "rotate session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	access, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID:   claims.UserID,
		SellerID: claims.SellerID,
		Role:     claims.Role,
		JTI:      newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	profile, err := s.loadProfile(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: access, RefreshToken: newRefresh, User: *profile}, nil
}

// Logout revokes the refresh session tied to the access token's jti.
func (s *service) Logout(ctx context.Context, jti string) error {
	if strings.TrimSpace(jti) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token id is required")
	}
	if err := s.sessions.Revoke(ctx, jti); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// GetProfile reads the user's profile document.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return s.loadProfile(ctx, userID)
}

// UpdateProfile applies optional field changes and writes the document back.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*Profile, error) {
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.DisplayName != nil {
		profile.DisplayName = input.DisplayName
	}
	if input.Phone != nil {
		profile.Phone = input.Phone
	}
	if input.PhotoURL != nil {
		profile.PhotoURL = input.PhotoURL
	}
	if err := s.identity.PutUserProfile(ctx, toProfileDoc(*profile)); err != nil {
		return nil, err
	}
	return profile, nil
}

// ListAddresses reads the user's address book.
func (s *service) ListAddresses(ctx context.Context, userID uuid.UUID) ([]Address, error) {
	docs, err := s.identity.ListAddresses(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	out := make([]Address, 0, len(docs))
	for _, doc := range docs {
		addr, err := fromAddressDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

// UpsertAddress validates and writes one address document.
func (s *service) UpsertAddress(ctx context.Context, userID uuid.UUID, address Address) (*Address, error) {
	if strings.TrimSpace(address.Line1) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line1 is required")
	}
	if strings.TrimSpace(address.City) == "" || strings.TrimSpace(address.Country) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "city and country are required")
	}
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	if err := s.identity.PutAddress(ctx, userID.String(), toAddressDoc(address)); err != nil {
		return nil, err
	}
	return &address, nil
}

// DeleteAddress removes one address document.
func (s *service) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	return s.identity.DeleteAddress(ctx, userID.String(), addressID.String())
}

// openSession loads (or seeds) the profile document and issues a token pair.
func (s *service) openSession(ctx context.Context, user *gateway.IdentityUser) (*Session, error) {
	userID, err := uuid.Parse(user.UID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse identity uid")
	}

	profile, err := s.loadOrSeedProfile(ctx, userID, user)
	if err != nil {
		return nil, err
	}

	jti := session.NewAccessID()
	refresh, err := s.sessions.Generate(ctx, jti)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	access, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID:   profile.ID,
		SellerID: profile.SellerID,
		Role:     profile.Role,
		JTI:      jti,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	ctx = s.log.WithUserID(ctx, profile.ID.String())
	s.log.Info(ctx, "session opened")
	return &Session{AccessToken: access, RefreshToken: refresh, User: *profile}, nil
}

func (s *service) loadProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	doc, err := s.identity.GetUserProfile(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	profile, err := fromProfileDoc(*doc)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// loadOrSeedProfile returns the stored profile, creating a shopper profile
// on first sign-in.
func (s *service) loadOrSeedProfile(ctx context.Context, userID uuid.UUID, user *gateway.IdentityUser) (*Profile, error) {
	profile, err := s.loadProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		return nil, err
	}

	seeded := Profile{
		ID:    userID,
		Email: user.Email,
		Role:  enums.UserRoleShopper,
	}
	if user.DisplayName != "" {
		name := user.DisplayName
		seeded.DisplayName = &name
	}
	if err := s.identity.PutUserProfile(ctx, toProfileDoc(seeded)); err != nil {
		return nil, err
	}
	return &seeded, nil
}
