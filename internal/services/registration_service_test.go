package services

import (
	"strings"
	"testing"
	"time"

	"sklink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func validRegisterRequest() *RegisterYouthRequest {
	contact := "09171234567"
	return &RegisterYouthRequest{
		Username:                "juandelacruz",
		Email:                   "Juan@Example.com",
		Password:                "s3cretpass",
		FirstName:               "Juan",
		LastName:                "Dela Cruz",
		Region:                  "Region IV-A",
		Province:                "Laguna",
		Municipality:            "Calamba",
		Barangay:                "Barangay Uno",
		Gender:                  "Male",
		Age:                     19,
		Contact:                 &contact,
		CivilStatus:             "single",
		AgeBracket:              "core youth",
		Classification:          "in school youth",
		Education:               "college level",
		WorkStatus:              "student",
		RegisteredSKVoter:       "YES",
		RegisteredNationalVoter: "no",
		VotedLastElection:       "No",
		MeetingAttended:         "yes",
		Household:               "Dela Cruz household",
	}
}

func newRegistrationFixture() *registrationService {
	return &registrationService{
		bcryptCost: bcrypt.MinCost,
		logger:     zap.NewNop(),
	}
}

func TestBuildRecordNormalizesPayload(t *testing.T) {
	svc := newRegistrationFixture()

	rec, err := svc.buildRecord(validRegisterRequest(), false)
	require.NoError(t, err)

	assert.Equal(t, "juan@example.com", rec.Youth.Email)
	assert.False(t, rec.Youth.Verified)
	assert.Equal(t, models.GenderMale, rec.Gender.Gender)
	assert.Equal(t, "yes", rec.Survey.RegisteredSKVoter)
	assert.Equal(t, "no", rec.Survey.RegisteredNationalVoter)
	assert.Equal(t, "no", rec.Survey.VotedLastElection)
	assert.Equal(t, "yes", rec.MeetingSurvey.Attended)

	assert.NotEqual(t, "s3cretpass", rec.Youth.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(rec.Youth.PasswordHash), []byte("s3cretpass")))
}

func TestBuildRecordVerifiedFlag(t *testing.T) {
	svc := newRegistrationFixture()

	rec, err := svc.buildRecord(validRegisterRequest(), true)
	require.NoError(t, err)
	assert.True(t, rec.Youth.Verified)
}

func TestBuildRecordAgeBoundaries(t *testing.T) {
	svc := newRegistrationFixture()

	cases := []struct {
		age int
		ok  bool
	}{
		{15, false},
		{16, true},
		{30, true},
		{31, false},
	}
	for _, tc := range cases {
		req := validRegisterRequest()
		req.Age = tc.age
		_, err := svc.buildRecord(req, false)
		if tc.ok {
			assert.NoError(t, err, "age %d", tc.age)
		} else {
			require.Error(t, err, "age %d", tc.age)
			assert.True(t, IsValidationError(err))
		}
	}
}

func TestBuildRecordRejectsUnknownGender(t *testing.T) {
	svc := newRegistrationFixture()

	req := validRegisterRequest()
	req.Gender = "other"
	_, err := svc.buildRecord(req, false)

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "gender")
}

func TestBuildRecordRejectsBadYesNo(t *testing.T) {
	svc := newRegistrationFixture()

	req := validRegisterRequest()
	req.VotedLastElection = "maybe"
	_, err := svc.buildRecord(req, false)

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "voted_last_election")
}

func TestBuildRecordRejectsMissingFields(t *testing.T) {
	svc := newRegistrationFixture()

	req := validRegisterRequest()
	req.Barangay = ""
	_, err := svc.buildRecord(req, false)

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestNormalizeYesNoTrimsAndLowercases(t *testing.T) {
	got, err := normalizeYesNo("meeting_attended", "  Yes ")
	require.NoError(t, err)
	assert.Equal(t, "yes", got)
}

func TestValidateAgeMessageNamesBounds(t *testing.T) {
	err := validateAge(40)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "16") && strings.Contains(err.Error(), "30"))
}

func TestBuildRecordKeepsBirthday(t *testing.T) {
	svc := newRegistrationFixture()

	bday := time.Date(2006, time.March, 14, 0, 0, 0, 0, time.UTC)
	req := validRegisterRequest()
	req.Birthday = &bday

	rec, err := svc.buildRecord(req, false)
	require.NoError(t, err)
	require.NotNil(t, rec.Info.Birthday)
	assert.True(t, rec.Info.Birthday.Equal(bday))
}
