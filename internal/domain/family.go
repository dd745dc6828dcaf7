package domain

import "time"

type PermissionLevel string

const (
	PermissionCanEdit  PermissionLevel = "can_edit"
	PermissionViewOnly PermissionLevel = "view_only"
)

type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
)

type MemberStatus string

const (
	MemberStatusActive  MemberStatus = "active"
	MemberStatusPending MemberStatus = "pending"
)

type FamilyMember struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Permission PermissionLevel `json:"permission"`
	Role       MemberRole      `json:"role"`
	Status     MemberStatus    `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// FamilyContext describes which accounts a user may see data for
type FamilyContext struct {
	UserEmail        string          `json:"userEmail"`
	HasFamily        bool            `json:"hasFamily"`
	FamilyName       string          `json:"familyName,omitempty"`
	AuthorizedEmails []string        `json:"authorizedEmails"`
	Members          []*FamilyMember `json:"members"`
}

type FamilyRepository interface {
	// GetContext returns the family the user belongs to, or a context with HasFamily=false
	GetContext(userEmail string) (*FamilyContext, error)
	AddMember(ownerEmail string, member *FamilyMember) (*FamilyMember, error)
	UpdateMember(ownerEmail string, member *FamilyMember) (*FamilyMember, error)
	RemoveMember(ownerEmail string, memberEmail string) error
}
