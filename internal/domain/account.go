package domain

// Account is the domain entity for an account row. It does not depend on
// Gin, Postgres or Redis.
//
// The password is stored and compared as a plain string for compatibility
// with existing rows; see the security note in DESIGN.md.
type Account struct {
	ID       int64
	Username string
	Password string
}
