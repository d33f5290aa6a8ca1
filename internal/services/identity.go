package services

import (
	"errors"
	"fmt"

	"github.com/openkpi/kpi-manager-api/internal/models"
	"github.com/openkpi/kpi-manager-api/internal/repository"
	"gorm.io/gorm"
)

// Identity is the resolved caller: their profile and, when they belong to
// a department, their membership. Every service operation receives the
// requester's identity instead of re-deriving role rules per endpoint.
type Identity struct {
	Profile *models.Profile
	Member  *models.DepartmentMember
}

// CanSupervise reports whether the identity may read or mutate the target
// member's records. Directors see everyone, managers their own department,
// employees nobody; self-service endpoints scope to the caller's own
// membership and never consult this.
func (id *Identity) CanSupervise(target *models.DepartmentMember) bool {
	if id.Profile.IsDirector() {
		return true
	}
	if id.Profile.IsManager() {
		return id.Member != nil && target != nil &&
			id.Member.DepartmentID == target.DepartmentID
	}
	return false
}

// IsSupervisor reports a Director or Manager role.
func (id *Identity) IsSupervisor() bool {
	return id.Profile.IsDirector() || id.Profile.IsManager()
}

// IdentityService resolves accounts to identities.
type IdentityService struct {
	profiles    repository.ProfileRepository
	departments repository.DepartmentRepository
}

// NewIdentityService creates a new IdentityService
func NewIdentityService(profiles repository.ProfileRepository, departments repository.DepartmentRepository) *IdentityService {
	return &IdentityService{profiles: profiles, departments: departments}
}

// Resolve returns the identity behind an account. A missing or removed
// profile is ErrNotFound; a missing department membership leaves Member
// nil, and operations that need one fail individually.
func (s *IdentityService) Resolve(userID uint64) (*Identity, error) {
	profile, err := s.profiles.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve profile: %w", err)
	}

	identity := &Identity{Profile: profile}
	member, err := s.departments.FindMemberByProfileID(profile.ID)
	if err == nil {
		identity.Member = member
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to resolve membership: %w", err)
	}
	return identity, nil
}

// MemberByUserID returns the live membership behind another account.
func (s *IdentityService) MemberByUserID(userID uint64) (*models.DepartmentMember, error) {
	member, err := s.departments.FindMemberByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return member, nil
}
