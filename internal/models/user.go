package models

// User is a console operator.
type User struct {
	ID       int64
	Username string
	Password string
}
