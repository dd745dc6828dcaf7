package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/dafibh/fortuna/famfin-backend/internal/middleware"
	"github.com/dafibh/fortuna/famfin-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// FamilyHandler handles family sharing HTTP requests
type FamilyHandler struct {
	familyService *service.FamilyService
}

// NewFamilyHandler creates a new FamilyHandler
func NewFamilyHandler(familyService *service.FamilyService) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

// AddMemberRequest represents the invite member request body
type AddMemberRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Permission string `json:"permission"`
}

// UpdateMemberRequest represents the update member request body
type UpdateMemberRequest struct {
	Permission string `json:"permission"`
}

// FamilyMemberResponse represents a family member in API responses
type FamilyMemberResponse struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Permission string `json:"permission"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// FamilyResponse represents the family context of the current user
type FamilyResponse struct {
	UserEmail        string                 `json:"userEmail"`
	HasFamily        bool                   `json:"hasFamily"`
	FamilyName       string                 `json:"familyName,omitempty"`
	AuthorizedEmails []string               `json:"authorizedEmails"`
	Members          []FamilyMemberResponse `json:"members"`
}

func toFamilyMemberResponse(member *domain.FamilyMember) FamilyMemberResponse {
	resp := FamilyMemberResponse{
		Name:       member.Name,
		Email:      member.Email,
		Permission: string(member.Permission),
		Role:       string(member.Role),
		Status:     string(member.Status),
	}
	if !member.CreatedAt.IsZero() {
		resp.CreatedAt = member.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

// GetFamily handles GET /api/v1/family
func (h *FamilyHandler) GetFamily(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	ctx, err := h.familyService.GetContext(userEmail)
	if err != nil {
		return handleServiceError(c, err, "get family")
	}

	members := make([]FamilyMemberResponse, len(ctx.Members))
	for i, member := range ctx.Members {
		members[i] = toFamilyMemberResponse(member)
	}
	return c.JSON(http.StatusOK, FamilyResponse{
		UserEmail:        ctx.UserEmail,
		HasFamily:        ctx.HasFamily,
		FamilyName:       ctx.FamilyName,
		AuthorizedEmails: ctx.AuthorizedEmails,
		Members:          members,
	})
}

// AddMember handles POST /api/v1/family/members
func (h *FamilyHandler) AddMember(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req AddMemberRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	member, err := h.familyService.AddMember(userEmail, service.AddMemberInput{
		Name:       req.Name,
		Email:      req.Email,
		Permission: domain.PermissionLevel(req.Permission),
	})
	if err != nil {
		return handleServiceError(c, err, "add family member")
	}
	return c.JSON(http.StatusCreated, toFamilyMemberResponse(member))
}

// UpdateMember handles PUT /api/v1/family/members/:email
func (h *FamilyHandler) UpdateMember(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req UpdateMemberRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	member, err := h.familyService.UpdateMember(userEmail, c.Param("email"), domain.PermissionLevel(req.Permission))
	if err != nil {
		return handleServiceError(c, err, "update family member")
	}
	return c.JSON(http.StatusOK, toFamilyMemberResponse(member))
}

// RemoveMember handles DELETE /api/v1/family/members/:email
func (h *FamilyHandler) RemoveMember(c echo.Context) error {
	userEmail := middleware.GetUserEmail(c)
	if userEmail == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if err := h.familyService.RemoveMember(userEmail, c.Param("email")); err != nil {
		return handleServiceError(c, err, "remove family member")
	}
	return c.NoContent(http.StatusNoContent)
}
