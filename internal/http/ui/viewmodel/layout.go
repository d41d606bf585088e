package viewmodel

import "strings"

// User represents the signed-in user exposed to templates.
type User struct {
	Name  string
	Email string
	Role  string
}

// Greeting is the header salutation.
func (u User) Greeting() string {
	name := strings.TrimSpace(u.Name)
	if name == "" {
		name = u.Email
	}
	return "Olá, " + name
}

// Layout captures shared chrome metadata (titles, auth state, route tree).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	Tree            string
	IsAuthenticated bool
	User            *User
}
