package enums

type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleSupport   Role = "SUPPORT"
	RoleOwner     Role = "OWNER"
)
