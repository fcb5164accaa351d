package domain

// Role is a capability granted to the console caller.
type Role string

const (
	RoleAdmin    Role = "ROLE_ADMIN"
	RoleOperator Role = "ROLE_OPERATOR"
)
