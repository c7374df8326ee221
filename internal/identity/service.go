// Package identity maps authenticated principals to application user records
// and holds the shared session state every other component reads.
package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/falahalshidi/shrfa-app/internal/auth"
	"github.com/falahalshidi/shrfa-app/internal/logger"
	"github.com/falahalshidi/shrfa-app/internal/models"
)

// FallbackName is used when neither metadata nor email yields a display name.
const FallbackName = "مستخدم"

// State is the session lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAnonymous
	StateResolved
)

type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error
	PromoteAdmin(ctx context.Context, id string) error
}

type Service struct {
	store      ProfileStore
	provider   auth.Provider
	adminEmail string
	logger     *logger.Logger

	mu      sync.Mutex
	state   State
	current *models.User
}

// NewService wires the resolver to the auth provider's session-change events
// so shared state stays current across sign-in and sign-out.
func NewService(store ProfileStore, provider auth.Provider, adminEmail string, log *logger.Logger) *Service {
	s := &Service{
		store:      store,
		provider:   provider,
		adminEmail: adminEmail,
		logger:     log,
		state:      StateUninitialized,
	}
	if provider != nil {
		provider.OnSessionChange(func(p *auth.Principal) {
			if _, err := s.Resolve(context.Background(), p); err != nil {
				log.Error("IDENTITY", fmt.Sprintf("session change resolution failed: %v", err))
			}
		})
	}
	return s
}

// ResolveSession asks the provider for the current session and resolves it.
// A nil user with nil error means "not authenticated", never an error state.
func (s *Service) ResolveSession(ctx context.Context) (*models.User, error) {
	s.setState(StateLoading)

	principal, err := s.provider.Session(ctx)
	if err != nil {
		// Leave the session unresolved; callers treat nil as signed out.
		s.logger.Error("IDENTITY", fmt.Sprintf("session lookup failed: %v", err))
		return nil, nil
	}

	return s.Resolve(ctx, principal)
}

// Resolve maps a principal to an application user, creating the profile on
// first sign-in and applying the admin precedence policy: stored flag, else
// metadata flag, else admin-email match. Promotion is upgrade-only.
func (s *Service) Resolve(ctx context.Context, principal *auth.Principal) (*models.User, error) {
	if principal == nil {
		s.clear()
		return nil, nil
	}

	profile, err := s.store.GetProfile(ctx, principal.ID)
	if err != nil {
		s.logger.Error("IDENTITY", fmt.Sprintf("profile lookup failed for %s: %v", principal.ID, err))
		return nil, nil
	}

	if profile == nil {
		profile = s.newProfile(principal)
		if err := s.store.UpsertProfile(ctx, profile); err != nil {
			s.logger.Error("IDENTITY", fmt.Sprintf("profile creation failed for %s: %v", principal.ID, err))
			return nil, nil
		}
		s.logger.LogAuth("PROFILE_CREATED", principal.ID)
	} else if !profile.IsAdmin && s.shouldBeAdmin(principal) {
		if err := s.store.PromoteAdmin(ctx, principal.ID); err != nil {
			s.logger.Error("IDENTITY", fmt.Sprintf("admin promotion failed for %s: %v", principal.ID, err))
			return nil, nil
		}
		profile.IsAdmin = true
		s.logger.LogAuth("ADMIN_PROMOTED", principal.ID)
	}

	user := s.mapUser(principal, profile)

	s.mu.Lock()
	s.state = StateResolved
	s.current = user
	s.mu.Unlock()

	out := *user
	return &out, nil
}

// CurrentUser returns the shared session user and lifecycle state.
func (s *Service) CurrentUser() (*models.User, State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, s.state
	}
	out := *s.current
	return &out, s.state
}

func (s *Service) newProfile(principal *auth.Principal) *models.Profile {
	now := time.Now().UTC()
	return &models.Profile{
		ID:        principal.ID,
		FullName:  s.displayName(principal),
		Phone:     principal.Metadata.Phone,
		IsAdmin:   s.shouldBeAdmin(principal),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Service) displayName(principal *auth.Principal) string {
	if principal.Metadata.FullName != "" {
		return principal.Metadata.FullName
	}
	if principal.Email != "" {
		return principal.Email
	}
	return FallbackName
}

// shouldBeAdmin applies the metadata-then-allow-list tail of the precedence
// policy; the stored flag is consulted by the caller.
func (s *Service) shouldBeAdmin(principal *auth.Principal) bool {
	if principal.Metadata.IsAdmin != nil {
		return *principal.Metadata.IsAdmin
	}
	return s.isAdminEmail(principal.Email)
}

func (s *Service) isAdminEmail(email string) bool {
	return s.adminEmail != "" && strings.EqualFold(email, s.adminEmail)
}

func (s *Service) mapUser(principal *auth.Principal, profile *models.Profile) *models.User {
	name := profile.FullName
	if name == "" {
		name = s.displayName(principal)
	}
	phone := profile.Phone
	if phone == "" {
		phone = principal.Metadata.Phone
	}
	return &models.User{
		ID:      principal.ID,
		Email:   principal.Email,
		Name:    name,
		Phone:   phone,
		IsAdmin: profile.IsAdmin,
	}
}

func (s *Service) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Service) clear() {
	s.mu.Lock()
	s.state = StateAnonymous
	s.current = nil
	s.mu.Unlock()
}
