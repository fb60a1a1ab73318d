package rbac

// Default policy. Owners of a record can always update/delete it regardless
// of these grants (see Checker.CanMutate).
var RolePermissions = map[string][]string{
	"student": {
		"section:view",
		"lesson:view",
		"test:view",
		"test:submit",
		"user:change_password",
	},
	"teacher": {
		"section:view",
		"section:create",
		"lesson:view",
		"lesson:create",
		"lesson:delete",
		"lesson:material",
		"test:view",
		"test:submit",
		"user:change_password",
	},
	"moderator": {
		"section:view",
		"section:delete",
		"lesson:view",
		"lesson:delete",
		"test:view",
		"test:create",
		"test:delete",
		"test:submit",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}
