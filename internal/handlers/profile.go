package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openkpi/kpi-manager-api/internal/audit"
	"github.com/openkpi/kpi-manager-api/internal/dto"
	"github.com/openkpi/kpi-manager-api/internal/services"
	"github.com/openkpi/kpi-manager-api/internal/storage"
)

// ProfileHandler handles profile reads, self-service updates, and the
// avatar upload.
type ProfileHandler struct {
	profiles *services.ProfileService
	avatars  *storage.AvatarStore
	audits   *audit.Publisher
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profiles *services.ProfileService, avatars *storage.AvatarStore, audits *audit.Publisher) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, avatars: avatars, audits: audits}
}

// Current handles GET /api/web-api/current-profile/get.
func (h *ProfileHandler) Current(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.profiles.CurrentProfile(userID)
	if err != nil {
		respondEmptyObject(c)
		return
	}

	c.JSON(http.StatusOK, dto.CurrentProfile{
		OK:         true,
		Username:   profile.User.Username,
		Avatar:     h.avatars.URL(profile.AvatarKey),
		UserID:     profile.UserID,
		Permission: profile.Role.Display(),
		FullName:   profile.FullName,
		BirthDay:   profile.BirthDay,
		IDNumber:   profile.IDNumber,
		Address:    profile.Address,
		Sex:        profile.Sex.Display(),
	})
}

// Update handles POST /api/web-api/profile/update.
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.ProfileUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.profiles.UpdateProfile(userID, req); err != nil {
		respondFail(c, err)
		return
	}
	h.audits.Record(userID, "profile.update", "profile", userID)
	respondOK(c)
}

// UploadAvatar handles POST /api/web-api/avatar/upload. The image arrives
// as the multipart field "avatar".
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		respondFail(c, services.ErrAvatarMissing)
		return
	}
	if err := h.profiles.UploadAvatar(c.Request.Context(), userID, file); err != nil {
		respondFail(c, err)
		return
	}
	h.audits.Record(userID, "profile.avatar", "profile", userID)
	respondOK(c)
}

// Info handles GET /api/web-api/profile/info, the caller's own card.
func (h *ProfileHandler) Info(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	member, err := h.profiles.MembershipCard(userID)
	if err != nil {
		respondEmptyObject(c)
		return
	}

	p := member.Profile
	c.JSON(http.StatusOK, dto.ProfileCard{
		UserID:     p.UserID,
		ProfileID:  p.ID,
		FullName:   p.FullName,
		Sex:        p.Sex.Display(),
		BirthDay:   p.BirthDay,
		IDNumber:   p.IDNumber,
		Email:      p.User.Email,
		Address:    p.Address,
		AvatarURL:  h.avatars.URL(p.AvatarKey),
		Position:   member.Position,
		IsLeader:   member.IsLeader,
		Department: member.Department.Name,
	})
}

// InfoSpecific handles GET /api/web-api/profile/info/specific?user_id=,
// the reduced card a supervisor sees for a member.
func (h *ProfileHandler) InfoSpecific(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetUserID, ok := queryUint(c, "user_id")
	if !ok {
		respondEmptyObject(c)
		return
	}

	member, err := h.profiles.MemberCard(userID, targetUserID)
	if err != nil {
		respondEmptyObject(c)
		return
	}

	p := member.Profile
	c.JSON(http.StatusOK, dto.ProfileSpecific{
		UserID:       p.UserID,
		ProfileID:    p.ID,
		FullName:     p.FullName,
		Sex:          p.Sex.Display(),
		AvatarURL:    h.avatars.URL(p.AvatarKey),
		Position:     member.Position,
		DepartmentID: member.DepartmentID,
		Department:   member.Department.Name,
	})
}

// ListNoPagination handles GET /api/web-api/profile/list/no-pagination,
// the compact roster supervisors use to fill pickers.
func (h *ProfileHandler) ListNoPagination(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var departmentID *uint64
	if v, ok := queryUint(c, "department_id"); ok {
		departmentID = &v
	}

	briefs, err := h.profiles.Briefs(userID, departmentID)
	if err != nil {
		c.JSON(http.StatusOK, []struct{}{})
		return
	}
	c.JSON(http.StatusOK, briefs)
}
