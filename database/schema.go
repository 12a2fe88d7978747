package database

const (
	UsersTable       = "users"
	UserRolesTable   = "user_roles"
	ArticlesTable    = "articles"
	CommentsTable    = "comments"
	SubscribersTable = "newsletter_subscribers"
)

// GetSchemaTables lists the tables in dependency order, parents first.
func GetSchemaTables() []string {
	return []string{
		UsersTable,
		UserRolesTable,
		ArticlesTable,
		CommentsTable,
		SubscribersTable,
	}
}

// GetSchemaModels returns the models in the same order as GetSchemaTables.
func GetSchemaModels() []any {
	return []any{
		&User{},
		&UserRole{},
		&Article{},
		&Comment{},
		&NewsletterSubscriber{},
	}
}

func isValidTable(seed string) bool {
	for _, table := range GetSchemaTables() {
		if table == seed {
			return true
		}
	}

	return false
}
