package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
)

const minPasswordLen = 6

var errBadCredentials = errors.Wrap(errs.ErrUnauthorized, "invalid credentials")

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.Operator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.Operator{}, errors.Wrap(err, "hash password")
	}
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	return s.repo.CreateOperator(ctx, model.Operator{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now(),
		UpdatedAt:    s.now(),
	})
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.TokenResponse, error) {
	if s.tokens == nil {
		return model.TokenResponse{}, errors.New("token issuer is not configured")
	}
	op, err := s.repo.GetOperatorByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.TokenResponse{}, errBadCredentials
		}
		return model.TokenResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.Password)); err != nil {
		return model.TokenResponse{}, errBadCredentials
	}
	token, expiresAt, err := s.tokens.Issue(op.ID)
	if err != nil {
		return model.TokenResponse{}, err
	}
	return model.TokenResponse{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) Me(ctx context.Context, operatorID string) (model.Operator, error) {
	op, err := s.repo.GetOperator(ctx, operatorID)
	if errors.Is(err, errs.ErrNotFound) {
		return model.Operator{}, errors.Wrap(errs.ErrUnauthorized, "operator no longer exists")
	}
	return op, err
}

// UpdateProfile sets only the fields present in req.
func (s *Service) UpdateProfile(ctx context.Context, operatorID string, req model.UpdateProfileRequest) (model.Operator, error) {
	op, err := s.Me(ctx, operatorID)
	if err != nil {
		return model.Operator{}, err
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&op.Name, req.Name)
	set(&op.Phone, req.Phone)
	set(&op.Address, req.Address)
	set(&op.City, req.City)
	set(&op.Country, req.Country)
	if req.BirthDate != nil {
		if req.BirthDate.IsZero() {
			op.BirthDate = nil
		} else {
			birth := req.BirthDate.Time
			op.BirthDate = &birth
		}
	}
	op.UpdatedAt = s.now()
	return s.repo.UpdateOperatorProfile(ctx, op)
}

func (s *Service) ChangePassword(ctx context.Context, operatorID string, req model.ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return errs.Validation("currentPassword and newPassword are required")
	}
	if len(req.NewPassword) < minPasswordLen {
		return errs.Validation("newPassword must be at least %d characters", minPasswordLen)
	}
	op, err := s.Me(ctx, operatorID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return errs.Validation("current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	return s.repo.SetOperatorPassword(ctx, op.ID, string(hash))
}
