package models

import "github.com/pkg/errors"

type UserRole string

const (
	UserRoleSuperAdmin UserRole = "SUPER_ADMIN"
	UserRoleHRManager  UserRole = "HR_MANAGER"
)

var roleHumanName = map[UserRole]string{
	UserRoleSuperAdmin: "Super admin",
	UserRoleHRManager:  "HR manager",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)

}

func (r UserRole) Validate() error {
	if _, exist := roleHumanName[r]; !exist {
		return errors.Errorf("unknown role %q", string(r))
	}
	return nil
}

func (r UserRole) IsSuperAdmin() bool {
	return r == UserRoleSuperAdmin
}

const SystemUser = "system"
