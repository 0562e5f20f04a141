package seed

import (
	"context"
	"errors"
	"log"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"gorm.io/gorm"
)

type Options struct {
	AdminEmail    string
	AdminPassword string
	Categories    []string
	Departments   []string
}

var (
	DefaultCategories  = []string{"General", "Electronics", "Furniture"}
	DefaultDepartments = []string{"Operations", "Sales"}
)

// Run creates privileges, roles, the admin account and reference data when
// they are missing. It is safe to run on every start.
func Run(ctx context.Context, db *gorm.DB, opts Options) error {
	privileges := repository.NewPrivilegeRepo(db)
	roles := repository.NewRoleRepo(db)
	users := repository.NewUserRepo(db)

	if err := privileges.SeedDefaults(ctx); err != nil {
		return err
	}
	all, err := privileges.FindAll(ctx)
	if err != nil {
		return err
	}
	if err := roles.SeedDefaults(ctx, all); err != nil {
		return err
	}

	if opts.AdminEmail != "" {
		if err := ensureAdmin(ctx, users, roles, opts); err != nil {
			return err
		}
	}

	categories := repository.NewCategoryRepo(db)
	for _, name := range orDefault(opts.Categories, DefaultCategories) {
		if _, err := categories.FindByName(ctx, name); errors.Is(err, gorm.ErrRecordNotFound) {
			c := &model.Category{Name: name}
			c.CreatedBy = model.SystemActor.AuditID()
			if err := categories.Create(ctx, c); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	departments := repository.NewDepartmentRepo(db)
	for _, name := range orDefault(opts.Departments, DefaultDepartments) {
		if _, err := departments.FindByName(ctx, name); errors.Is(err, gorm.ErrRecordNotFound) {
			d := &model.Department{Name: name}
			d.CreatedBy = model.SystemActor.AuditID()
			if err := departments.Create(ctx, d); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

func ensureAdmin(ctx context.Context, users repository.UserRepository, roles repository.RoleRepository, opts Options) error {
	_, err := users.FindByEmail(ctx, opts.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	role, err := roles.FindByCode(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	admin := &model.User{
		Email:    opts.AdminEmail,
		FullName: "Administrator",
		RoleID:   &role.ID,
		IsActive: true,
	}
	admin.CreatedBy = model.SystemActor.AuditID()
	admin.UpdatedBy = model.SystemActor.AuditID()
	if err := admin.SetPassword(opts.AdminPassword); err != nil {
		return err
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("Admin user created: %s (%s)", opts.AdminEmail, model.RoleAdmin)
	return nil
}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}
