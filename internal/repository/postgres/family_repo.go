package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dafibh/fortuna/famfin-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const memberColumns = `email, name, permission, role, status, created_at`

// FamilyRepository implements domain.FamilyRepository using PostgreSQL
type FamilyRepository struct {
	pool *pgxpool.Pool
}

// NewFamilyRepository creates a new FamilyRepository
func NewFamilyRepository(pool *pgxpool.Pool) *FamilyRepository {
	return &FamilyRepository{pool: pool}
}

// GetContext finds the family the user belongs to, preferring the one they own
func (r *FamilyRepository) GetContext(userEmail string) (*domain.FamilyContext, error) {
	ctx := context.Background()
	email := strings.ToLower(strings.TrimSpace(userEmail))

	var (
		familyID uuid.UUID
		name     string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT f.id, f.name
		FROM families f
		JOIN family_members m ON m.family_id = f.id
		WHERE lower(m.email) = $1
		ORDER BY (lower(f.owner_email) = $1) DESC, m.created_at
		LIMIT 1`, email,
	).Scan(&familyID, &name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.FamilyContext{UserEmail: userEmail, Members: []*domain.FamilyMember{}}, nil
		}
		return nil, err
	}

	members, err := r.listMembers(ctx, familyID)
	if err != nil {
		return nil, err
	}

	return &domain.FamilyContext{
		UserEmail:  userEmail,
		HasFamily:  true,
		FamilyName: name,
		Members:    members,
	}, nil
}

func (r *FamilyRepository) listMembers(ctx context.Context, familyID uuid.UUID) ([]*domain.FamilyMember, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+memberColumns+`
		FROM family_members
		WHERE family_id = $1
		ORDER BY (role = 'owner') DESC, created_at, email`, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.FamilyMember, 0)
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// AddMember inserts a member into the owner's family, creating the family on first use
func (r *FamilyRepository) AddMember(ownerEmail string, member *domain.FamilyMember) (*domain.FamilyMember, error) {
	ctx := context.Background()
	owner := strings.ToLower(strings.TrimSpace(ownerEmail))
	now := time.Now().UTC()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var familyID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM families WHERE lower(owner_email) = $1`, owner).Scan(&familyID)
	if errors.Is(err, pgx.ErrNoRows) {
		familyID = uuid.New()
		if _, err := tx.Exec(ctx, `INSERT INTO families (id, owner_email, created_at) VALUES ($1, $2, $3)`,
			familyID, owner, now); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO family_members (family_id, `+memberColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			familyID, owner, owner, domain.PermissionCanEdit, domain.MemberRoleOwner, domain.MemberStatusActive, now,
		); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	created, err := scanMember(tx.QueryRow(ctx, `
		INSERT INTO family_members (family_id, `+memberColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+memberColumns,
		familyID, member.Email, member.Name, member.Permission, member.Role, member.Status, now,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateMember changes the permission of a member of the owner's family
func (r *FamilyRepository) UpdateMember(ownerEmail string, member *domain.FamilyMember) (*domain.FamilyMember, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		UPDATE family_members m SET permission = $3
		FROM families f
		WHERE m.family_id = f.id AND lower(f.owner_email) = lower($1) AND lower(m.email) = lower($2)
		RETURNING m.email, m.name, m.permission, m.role, m.status, m.created_at`,
		ownerEmail, member.Email, member.Permission,
	)
	return scanMember(row)
}

// RemoveMember deletes a member from the owner's family
func (r *FamilyRepository) RemoveMember(ownerEmail string, memberEmail string) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM family_members m
		USING families f
		WHERE m.family_id = f.id AND lower(f.owner_email) = lower($1) AND lower(m.email) = lower($2)`,
		ownerEmail, memberEmail,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func scanMember(row pgx.Row) (*domain.FamilyMember, error) {
	var m domain.FamilyMember
	if err := row.Scan(&m.Email, &m.Name, &m.Permission, &m.Role, &m.Status, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}
