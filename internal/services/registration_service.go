package services

import (
	"context"
	"fmt"
	"strings"

	"sklink/internal/models"
	"sklink/internal/repositories"
	"sklink/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type registrationService struct {
	youths     repositories.YouthRepository
	auth       AuthService
	bcryptCost int
	logger     *zap.Logger
}

// NewRegistrationService creates the registration service.
func NewRegistrationService(
	youths repositories.YouthRepository,
	auth AuthService,
	bcryptCost int,
	logger *zap.Logger,
) RegistrationService {
	return &registrationService{
		youths:     youths,
		auth:       auth,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register performs youth self-registration. The account plus every profile
// slice is written in one transaction; the youth starts unverified.
func (s *registrationService) Register(ctx context.Context, req *RegisterYouthRequest) (*AuthResponse, error) {
	rec, err := s.buildRecord(req, false)
	if err != nil {
		return nil, err
	}

	if err := s.youths.Register(ctx, rec); err != nil {
		if IsUniqueViolation(err) {
			return nil, NewDuplicateIdentifierError()
		}
		return nil, NewInternalError(err)
	}

	token, expiresAt, err := s.auth.IssueToken(rec.Youth.Actor(), "")
	if err != nil {
		return nil, NewInternalError(err)
	}

	s.logger.Info("youth registered",
		zap.Int64("youth_id", rec.Youth.ID),
		zap.String("username", rec.Youth.Username),
	)
	return &AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Kind:      models.ActorYouth,
		Principal: rec.Youth,
	}, nil
}

// AdminAdd registers a youth on behalf of an official; the record is
// verified immediately.
func (s *registrationService) AdminAdd(ctx context.Context, req *RegisterYouthRequest) (*models.Youth, error) {
	rec, err := s.buildRecord(req, true)
	if err != nil {
		return nil, err
	}

	if err := s.youths.Register(ctx, rec); err != nil {
		if IsUniqueViolation(err) {
			return nil, NewDuplicateIdentifierError()
		}
		return nil, NewInternalError(err)
	}

	s.logger.Info("youth added by official", zap.Int64("youth_id", rec.Youth.ID))
	return rec.Youth, nil
}

func (s *registrationService) UpdateProfile(ctx context.Context, req *UpdateYouthProfileRequest) error {
	if req.YouthID <= 0 {
		return NewValidationError("youth id is required", nil)
	}
	if req.Gender != nil {
		if _, err := normalizeGender(req.Gender.Gender); err != nil {
			return err
		}
		req.Gender.Gender = strings.ToLower(req.Gender.Gender)
	}
	if req.Info != nil {
		if err := validateAge(req.Info.Age); err != nil {
			return err
		}
	}
	if req.Survey != nil {
		var err error
		if req.Survey.RegisteredSKVoter, err = normalizeYesNo("registered_sk_voter", req.Survey.RegisteredSKVoter); err != nil {
			return err
		}
		if req.Survey.RegisteredNationalVoter, err = normalizeYesNo("registered_national_voter", req.Survey.RegisteredNationalVoter); err != nil {
			return err
		}
		if req.Survey.VotedLastElection, err = normalizeYesNo("voted_last_election", req.Survey.VotedLastElection); err != nil {
			return err
		}
	}
	if req.MeetingSurvey != nil {
		var err error
		if req.MeetingSurvey.Attended, err = normalizeYesNo("meeting_attended", req.MeetingSurvey.Attended); err != nil {
			return err
		}
	}

	rec := &repositories.RegistrationRecord{
		Youth:         &models.Youth{ID: req.YouthID},
		Name:          req.Name,
		Location:      req.Location,
		Gender:        req.Gender,
		Info:          req.Info,
		Demographics:  req.Demographics,
		Survey:        req.Survey,
		MeetingSurvey: req.MeetingSurvey,
		Household:     req.Household,
	}
	if err := s.youths.UpdateProfile(ctx, rec); err != nil {
		return NewInternalError(err)
	}
	return nil
}

// buildRecord validates the payload and assembles the transactional record.
func (s *registrationService) buildRecord(req *RegisterYouthRequest, verified bool) (*repositories.RegistrationRecord, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	gender, err := normalizeGender(req.Gender)
	if err != nil {
		return nil, err
	}
	if err := validateAge(req.Age); err != nil {
		return nil, err
	}
	skVoter, err := normalizeYesNo("registered_sk_voter", req.RegisteredSKVoter)
	if err != nil {
		return nil, err
	}
	natVoter, err := normalizeYesNo("registered_national_voter", req.RegisteredNationalVoter)
	if err != nil {
		return nil, err
	}
	voted, err := normalizeYesNo("voted_last_election", req.VotedLastElection)
	if err != nil {
		return nil, err
	}
	attended, err := normalizeYesNo("meeting_attended", req.MeetingAttended)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, NewInternalError(err)
	}

	return &repositories.RegistrationRecord{
		Youth: &models.Youth{
			Username:     req.Username,
			Email:        strings.ToLower(req.Email),
			PasswordHash: string(hash),
			Verified:     verified,
		},
		Name: &models.YouthName{
			FirstName:  req.FirstName,
			MiddleName: req.MiddleName,
			LastName:   req.LastName,
			Suffix:     req.Suffix,
		},
		Location: &models.YouthLocation{
			Region:       req.Region,
			Province:     req.Province,
			Municipality: req.Municipality,
			Barangay:     req.Barangay,
			PurokID:      req.PurokID,
		},
		Gender: &models.YouthGender{Gender: gender},
		Info: &models.YouthInfo{
			Age:      req.Age,
			Contact:  req.Contact,
			Birthday: req.Birthday,
		},
		Demographics: &models.YouthDemographics{
			CivilStatus:    req.CivilStatus,
			AgeBracket:     req.AgeBracket,
			Classification: req.Classification,
			Education:      req.Education,
			WorkStatus:     req.WorkStatus,
		},
		Survey: &models.YouthSurvey{
			RegisteredSKVoter:       skVoter,
			RegisteredNationalVoter: natVoter,
			VotedLastElection:       voted,
		},
		MeetingSurvey: &models.YouthMeetingSurvey{
			Attended:          attended,
			TimesAttended:     req.TimesAttended,
			ReasonNotAttended: req.ReasonNotAttended,
		},
		Household:  &models.YouthHousehold{Household: req.Household},
		Attachment: req.Attachment,
	}, nil
}

// ===============================
// DOMAIN VALIDATION
// ===============================

func normalizeGender(gender string) (string, error) {
	g := strings.ToLower(strings.TrimSpace(gender))
	if g != models.GenderMale && g != models.GenderFemale {
		return "", NewValidationError("gender must be male or female", nil)
	}
	return g, nil
}

func validateAge(age int) error {
	if age < models.MinAge || age > models.MaxAge {
		return NewValidationError(
			fmt.Sprintf("age must be between %d and %d", models.MinAge, models.MaxAge), nil)
	}
	return nil
}

// normalizeYesNo accepts yes/no in any letter case and stores lowercase.
func normalizeYesNo(field, value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v != "yes" && v != "no" {
		return "", NewValidationError(fmt.Sprintf("%s must be yes or no", field), nil)
	}
	return v, nil
}
