package model

// Role groups privileges. Users inherit every privilege of their role.
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

var DefaultRoles = []Role{
	{Code: RoleAdmin, Name: "Administrator", Description: "Manages stock, sales, orders and transfers"},
	{Code: RoleUser, Name: "User", Description: "Browses assets and places orders"},
}

// DefaultRolePrivileges lists the privilege codes seeded per role. A nil
// entry means every known privilege.
var DefaultRolePrivileges = map[string][]string{
	RoleAdmin: nil,
	RoleUser:  {PrivAssetView, PrivOrderCreate},
}
