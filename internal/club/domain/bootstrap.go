package domain

// BootstrapData describes the first superuser created on an empty store.
type BootstrapData struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}
