package repository

import (
	"context"
	"errors"

	"go-inventory-ledger/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindAll(ctx context.Context) ([]model.Role, error)
	FindByCode(ctx context.Context, code string) (*model.Role, error)
	// SeedDefaults creates missing default roles and grants their default
	// privileges to roles that have none yet.
	SeedDefaults(ctx context.Context, all []model.Privilege) error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) FindAll(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).Preload("Privileges").Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) FindByCode(ctx context.Context, code string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Preload("Privileges").Where("code = ?", code).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) SeedDefaults(ctx context.Context, all []model.Privilege) error {
	db := r.db.WithContext(ctx)
	for _, def := range model.DefaultRoles {
		role := def
		var existing model.Role
		err := db.Preload("Privileges").Where("code = ?", role.Code).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&role).Error; err != nil {
				return err
			}
			existing = role
		case err != nil:
			return err
		}

		if len(existing.Privileges) > 0 {
			continue
		}
		grant := privilegesFor(all, model.DefaultRolePrivileges[role.Code], role.Code == model.RoleAdmin)
		if err := db.Model(&existing).Association("Privileges").Replace(grant); err != nil {
			return err
		}
	}
	return nil
}

func privilegesFor(all []model.Privilege, codes []string, everything bool) []model.Privilege {
	if everything {
		return all
	}
	want := make(map[string]bool, len(codes))
	for _, c := range codes {
		want[c] = true
	}
	var out []model.Privilege
	for _, p := range all {
		if want[p.Code] {
			out = append(out, p)
		}
	}
	return out
}
