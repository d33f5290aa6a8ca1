package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"regexp"
	"strings"
	"time"

	"github.com/openkpi/kpi-manager-api/internal/constants"
	"github.com/openkpi/kpi-manager-api/internal/dto"
	"github.com/openkpi/kpi-manager-api/internal/models"
	"github.com/openkpi/kpi-manager-api/internal/repository"
	"github.com/openkpi/kpi-manager-api/internal/storage"
	"github.com/openkpi/kpi-manager-api/internal/utils"
	"gorm.io/gorm"
)

var idNumberPattern = regexp.MustCompile(`^[0-9]+$`)

// ProfileService handles profile reads, self-updates, and avatar uploads.
type ProfileService struct {
	profiles repository.ProfileRepository
	identity *IdentityService
	avatars  *storage.AvatarStore
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles repository.ProfileRepository, identity *IdentityService, avatars *storage.AvatarStore) *ProfileService {
	return &ProfileService{profiles: profiles, identity: identity, avatars: avatars}
}

// CurrentProfile returns the caller's profile with the account loaded.
func (s *ProfileService) CurrentProfile(userID uint64) (*models.Profile, error) {
	profile, err := s.profiles.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile applies the caller's own profile changes. Empty fields keep
// their current value; a malformed id number is silently ignored.
func (s *ProfileService) UpdateProfile(userID uint64, req dto.ProfileUpdateRequest) error {
	if len(req.FullName) > constants.MaxFullNameLen {
		return ErrFullNameTooLong
	}
	if len(req.Address) > constants.MaxAddressLen {
		return ErrAddressTooLong
	}

	profile, err := s.profiles.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load profile: %w", err)
	}

	if req.FullName != "" {
		profile.FullName = strings.TrimSpace(req.FullName)
	}
	if req.Address != "" {
		profile.Address = strings.TrimSpace(req.Address)
	}
	if req.BirthDay != "" {
		birthDay, err := utils.ParseDateTime(req.BirthDay)
		if err != nil {
			return ErrDataFault
		}
		profile.BirthDay = &birthDay
	}
	if idNumberPattern.MatchString(req.IDNumber) && len(req.IDNumber) <= constants.MaxIDNumberLen {
		profile.IDNumber = req.IDNumber
	}
	if req.Sex != "" {
		switch req.Sex {
		case "null":
			profile.Sex = ""
		case string(models.SexMale):
			profile.Sex = models.SexMale
		case string(models.SexFemale):
			profile.Sex = models.SexFemale
		default:
			return ErrSexInvalid
		}
	}

	if err := s.profiles.Update(profile); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// UploadAvatar validates and stores a new avatar image, then points the
// caller's profile at it.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID uint64, file *multipart.FileHeader) error {
	if file == nil {
		return ErrAvatarMissing
	}
	if s.avatars == nil {
		return ErrStorageUnreachable
	}

	contentType := file.Header.Get("Content-Type")
	ext := avatarExtension(contentType)
	if ext == "" {
		return ErrAvatarType
	}
	if file.Size > constants.MaxAvatarBytes {
		return ErrAvatarTooLarge
	}

	reader, err := file.Open()
	if err != nil {
		return ErrDataFault
	}
	defer reader.Close()

	cfg, _, err := image.DecodeConfig(reader)
	if err != nil {
		return ErrAvatarType
	}
	if cfg.Width < 100 && cfg.Height < 100 {
		return ErrAvatarTooSmall
	}
	if _, err := reader.Seek(0, 0); err != nil {
		return ErrDataFault
	}

	profile, err := s.profiles.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load profile: %w", err)
	}

	key := fmt.Sprintf("avatars/%d-%d%s", userID, time.Now().Unix(), ext)
	if err := s.avatars.Put(ctx, key, reader, file.Size, contentType); err != nil {
		return fmt.Errorf("failed to store avatar: %w", err)
	}

	profile.AvatarKey = key
	if err := s.profiles.Update(profile); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// MembershipCard returns the caller's own department membership.
func (s *ProfileService) MembershipCard(userID uint64) (*models.DepartmentMember, error) {
	return s.identity.MemberByUserID(userID)
}

// MemberCard returns another member's membership, subject to the
// visibility policy.
func (s *ProfileService) MemberCard(actorUserID, targetUserID uint64) (*models.DepartmentMember, error) {
	actor, err := s.identity.Resolve(actorUserID)
	if err != nil {
		return nil, err
	}
	target, err := s.identity.MemberByUserID(targetUserID)
	if err != nil {
		return nil, err
	}
	if !actor.CanSupervise(target) {
		return nil, ErrNotFound
	}
	return target, nil
}

// Briefs returns the compact profile roster a supervisor can see,
// optionally narrowed to one department.
func (s *ProfileService) Briefs(actorUserID uint64, departmentID *uint64) ([]dto.ProfileBrief, error) {
	actor, err := s.identity.Resolve(actorUserID)
	if err != nil {
		return nil, err
	}
	if !actor.IsSupervisor() {
		return nil, ErrNotFound
	}

	if departmentID == nil && actor.Profile.IsDirector() {
		// Directors without a department filter see every profile, even
		// ones without a membership.
		profiles, err := s.profiles.ListAll()
		if err != nil {
			return nil, fmt.Errorf("failed to list profiles: %w", err)
		}
		briefs := make([]dto.ProfileBrief, len(profiles))
		for i, p := range profiles {
			briefs[i] = dto.ProfileBrief{UserID: p.UserID, ProfileID: p.ID, FullName: p.FullName}
		}
		return briefs, nil
	}

	scope := departmentID
	if actor.Profile.IsManager() {
		if actor.Member == nil {
			return nil, ErrNotFound
		}
		if departmentID != nil && *departmentID != actor.Member.DepartmentID {
			return nil, ErrNotFound
		}
		own := actor.Member.DepartmentID
		scope = &own
	}

	members, _, err := s.identity.departments.ListMembers(repository.MemberFilter{DepartmentID: scope})
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	briefs := make([]dto.ProfileBrief, len(members))
	for i, m := range members {
		briefs[i] = dto.ProfileBrief{
			UserID:    m.Profile.UserID,
			ProfileID: m.ProfileID,
			FullName:  m.Profile.FullName,
		}
	}
	return briefs, nil
}

// avatarExtension maps an accepted avatar content type to its file
// extension; unknown types map to "".
func avatarExtension(contentType string) string {
	switch contentType {
	case "image/jpg", "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	return ""
}
