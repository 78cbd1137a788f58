package domain

// DefaultStatus is assigned to every newly registered user.
const DefaultStatus = "I am new!"

// User models a registered author.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Status       string
	PostIDs      []string
}

// OwnsPost reports whether postID is in the user's post list.
func (u *User) OwnsPost(postID string) bool {
	for _, id := range u.PostIDs {
		if id == postID {
			return true
		}
	}
	return false
}
