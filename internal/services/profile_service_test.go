package services

import (
	"strings"
	"testing"

	"github.com/openkpi/kpi-manager-api/internal/dto"
	"github.com/openkpi/kpi-manager-api/internal/models"
	"github.com/stretchr/testify/require"
)

func newProfileService(env *testEnv) *ProfileService {
	return NewProfileService(env.profiles, env.identity, nil)
}

func TestProfileService_Update(t *testing.T) {
	env := setupEnv(t)
	svc := newProfileService(env)

	err := svc.UpdateProfile(env.employee.ID, dto.ProfileUpdateRequest{
		FullName: "  Evan Updated  ",
		BirthDay: "1995-04-12",
		IDNumber: "012345678901",
		Address:  "12 Harbor Street",
		Sex:      "M",
	})
	require.NoError(t, err)

	profile, err := env.profiles.FindByUserID(env.employee.ID)
	require.NoError(t, err)
	require.Equal(t, "Evan Updated", profile.FullName)
	require.Equal(t, "012345678901", profile.IDNumber)
	require.Equal(t, models.SexMale, profile.Sex)
	require.NotNil(t, profile.BirthDay)
}

func TestProfileService_UpdateKeepsEmptyFields(t *testing.T) {
	env := setupEnv(t)
	svc := newProfileService(env)

	err := svc.UpdateProfile(env.employee.ID, dto.ProfileUpdateRequest{})
	require.NoError(t, err)

	profile, err := env.profiles.FindByUserID(env.employee.ID)
	require.NoError(t, err)
	require.Equal(t, "Evan Employee", profile.FullName)
}

func TestProfileService_UpdateValidation(t *testing.T) {
	env := setupEnv(t)
	svc := newProfileService(env)

	err := svc.UpdateProfile(env.employee.ID, dto.ProfileUpdateRequest{
		FullName: strings.Repeat("a", 151),
	})
	require.ErrorIs(t, err, ErrFullNameTooLong)

	err = svc.UpdateProfile(env.employee.ID, dto.ProfileUpdateRequest{
		Address: strings.Repeat("a", 201),
	})
	require.ErrorIs(t, err, ErrAddressTooLong)

	err = svc.UpdateProfile(env.employee.ID, dto.ProfileUpdateRequest{Sex: "X"})
	require.ErrorIs(t, err, ErrSexInvalid)

	err = svc.UpdateProfile(env.employee.ID, dto.ProfileUpdateRequest{BirthDay: "soon"})
	require.ErrorIs(t, err, ErrDataFault)
}

func TestProfileService_UpdateIgnoresBadIDNumber(t *testing.T) {
	env := setupEnv(t)
	svc := newProfileService(env)

	// Non-digits and over-long values are dropped without an error.
	for _, bad := range []string{"ABC123", "0123456789012"} {
		err := svc.UpdateProfile(env.employee.ID, dto.ProfileUpdateRequest{IDNumber: bad})
		require.NoError(t, err)

		profile, err := env.profiles.FindByUserID(env.employee.ID)
		require.NoError(t, err)
		require.Empty(t, profile.IDNumber)
	}
}

func TestProfileService_UpdateSexNull(t *testing.T) {
	env := setupEnv(t)
	svc := newProfileService(env)

	err := svc.UpdateProfile(env.employee.ID, dto.ProfileUpdateRequest{Sex: "null"})
	require.NoError(t, err)

	profile, err := env.profiles.FindByUserID(env.employee.ID)
	require.NoError(t, err)
	require.Equal(t, models.Sex(""), profile.Sex)
}

func TestProfileService_BriefsScope(t *testing.T) {
	env := setupEnv(t)
	svc := newProfileService(env)

	// A director with no filter sees every profile, membership or not.
	briefs, err := svc.Briefs(env.director.ID, nil)
	require.NoError(t, err)
	require.Len(t, briefs, 4)

	// A manager only sees their own department.
	briefs, err = svc.Briefs(env.manager.ID, nil)
	require.NoError(t, err)
	require.Len(t, briefs, 2)

	// And cannot ask for another one.
	_, err = svc.Briefs(env.manager.ID, &env.sales.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Briefs(env.employee.ID, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProfileService_MemberCardVisibility(t *testing.T) {
	env := setupEnv(t)
	svc := newProfileService(env)

	card, err := svc.MemberCard(env.manager.ID, env.employee.ID)
	require.NoError(t, err)
	require.Equal(t, env.employeeProfile.ID, card.ProfileID)

	_, err = svc.MemberCard(env.manager.ID, env.outsider.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.MemberCard(env.employee.ID, env.outsider.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
