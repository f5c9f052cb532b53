package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/you/shopauth/domain"
)

const (
	RoleAdmin    = "role_admin"
	RoleCustomer = "role_customer"
)

const adminModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// CasbinService implements domain.AdminPolicy with an in-memory RBAC model
type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService builds the enforcer and seeds the admin route policy
func NewCasbinService() (*CasbinService, error) {
	m, err := model.NewModelFromString(adminModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if _, err := e.AddPolicy(RoleAdmin, "/api/admin/*", "(GET|POST|PUT|DELETE)"); err != nil {
		return nil, fmt.Errorf("failed to seed admin policy: %w", err)
	}
	return &CasbinService{E: e}, nil
}

// RoleOf maps the user's admin flag to a policy subject
func RoleOf(user *domain.User) string {
	if user != nil && user.IsAdmin {
		return RoleAdmin
	}
	return RoleCustomer
}

// Allowed implements domain.AdminPolicy
func (s *CasbinService) Allowed(user *domain.User, resource, action string) (bool, error) {
	return s.E.Enforce(RoleOf(user), resource, action)
}
