package user

import "fmt"

type Account struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Placeholder is the synthesized display name for a user with no directory
// entry. Order rows carrying it are treated as having no real name.
func Placeholder(id int) string { return fmt.Sprintf("User%d", id) }
