package service

import (
	"strings"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
)

// FamilyService handles family sharing and the data scope derived from it
type FamilyService struct {
	familyRepo domain.FamilyRepository
}

// NewFamilyService creates a new FamilyService
func NewFamilyService(familyRepo domain.FamilyRepository) *FamilyService {
	return &FamilyService{familyRepo: familyRepo}
}

// GetContext returns the family context of the user, always including the user in AuthorizedEmails
func (s *FamilyService) GetContext(userEmail string) (*domain.FamilyContext, error) {
	ctx, err := s.familyRepo.GetContext(userEmail)
	if err != nil {
		return nil, err
	}
	ctx.UserEmail = userEmail
	ctx.AuthorizedEmails = authorizedEmails(userEmail, ctx.Members)
	return ctx, nil
}

// AuthorizedEmails returns the accounts whose data the user may see: self plus family members
func (s *FamilyService) AuthorizedEmails(userEmail string) ([]string, error) {
	ctx, err := s.GetContext(userEmail)
	if err != nil {
		return nil, err
	}
	return ctx.AuthorizedEmails, nil
}

// AddMemberInput holds the input for inviting a family member
type AddMemberInput struct {
	Name       string
	Email      string
	Permission domain.PermissionLevel
}

// AddMember invites a member into the owner's family; the member starts as pending
func (s *FamilyService) AddMember(ownerEmail string, input AddMemberInput) (*domain.FamilyMember, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	email := normalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidInput
	}
	if !validPermission(input.Permission) {
		return nil, domain.ErrInvalidPermission
	}

	ctx, err := s.ownedContext(ownerEmail)
	if err != nil {
		return nil, err
	}
	if email == normalizeEmail(ownerEmail) {
		return nil, domain.ErrAlreadyExists
	}
	for _, m := range ctx.Members {
		if normalizeEmail(m.Email) == email {
			return nil, domain.ErrAlreadyExists
		}
	}

	return s.familyRepo.AddMember(ownerEmail, &domain.FamilyMember{
		Name:       name,
		Email:      email,
		Permission: input.Permission,
		Role:       domain.MemberRoleMember,
		Status:     domain.MemberStatusPending,
	})
}

// UpdateMember changes a member's permission level
func (s *FamilyService) UpdateMember(ownerEmail, memberEmail string, permission domain.PermissionLevel) (*domain.FamilyMember, error) {
	if !validPermission(permission) {
		return nil, domain.ErrInvalidPermission
	}
	member, err := s.findMember(ownerEmail, memberEmail)
	if err != nil {
		return nil, err
	}
	if member.Role == domain.MemberRoleOwner {
		return nil, domain.ErrForbidden
	}
	member.Permission = permission
	return s.familyRepo.UpdateMember(ownerEmail, member)
}

// RemoveMember removes a member from the owner's family
func (s *FamilyService) RemoveMember(ownerEmail, memberEmail string) error {
	member, err := s.findMember(ownerEmail, memberEmail)
	if err != nil {
		return err
	}
	if member.Role == domain.MemberRoleOwner {
		return domain.ErrCannotRemoveOwner
	}
	return s.familyRepo.RemoveMember(ownerEmail, member.Email)
}

// ownedContext loads the family of ownerEmail, failing when the user belongs to someone else's family
func (s *FamilyService) ownedContext(ownerEmail string) (*domain.FamilyContext, error) {
	ctx, err := s.familyRepo.GetContext(ownerEmail)
	if err != nil {
		return nil, err
	}
	if !ctx.HasFamily {
		return ctx, nil
	}
	owner := normalizeEmail(ownerEmail)
	for _, m := range ctx.Members {
		if m.Role == domain.MemberRoleOwner && normalizeEmail(m.Email) == owner {
			return ctx, nil
		}
	}
	return nil, domain.ErrForbidden
}

func (s *FamilyService) findMember(ownerEmail, memberEmail string) (*domain.FamilyMember, error) {
	ctx, err := s.ownedContext(ownerEmail)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(memberEmail)
	for _, m := range ctx.Members {
		if normalizeEmail(m.Email) == email {
			return m, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func authorizedEmails(userEmail string, members []*domain.FamilyMember) []string {
	seen := map[string]bool{normalizeEmail(userEmail): true}
	emails := []string{userEmail}
	for _, m := range members {
		email := normalizeEmail(m.Email)
		if seen[email] {
			continue
		}
		seen[email] = true
		emails = append(emails, m.Email)
	}
	return emails
}

func validPermission(p domain.PermissionLevel) bool {
	return p == domain.PermissionCanEdit || p == domain.PermissionViewOnly
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CheckAccess verifies the actor may see (and, when write is set, modify) data owned by ownerEmail.
// Data outside the actor's family scope is reported as not found; view-only members may not write.
func (s *FamilyService) CheckAccess(actorEmail, ownerEmail string, write bool) error {
	ctx, err := s.GetContext(actorEmail)
	if err != nil {
		return err
	}

	owner := normalizeEmail(ownerEmail)
	inScope := false
	for _, email := range ctx.AuthorizedEmails {
		if normalizeEmail(email) == owner {
			inScope = true
			break
		}
	}
	if !inScope {
		return domain.ErrNotFound
	}
	if !write || owner == normalizeEmail(actorEmail) {
		return nil
	}

	actor := normalizeEmail(actorEmail)
	for _, m := range ctx.Members {
		if normalizeEmail(m.Email) == actor && m.Permission == domain.PermissionViewOnly {
			return domain.ErrForbidden
		}
	}
	return nil
}
