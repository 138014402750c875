package models

// UserPatch is a partial update for a User. A nil field means "leave
// unchanged"; a non-nil field is written even when it points at a zero value,
// so "absent" and "present but empty" stay distinguishable.
type UserPatch struct {
	Firstname    *string
	Lastname     *string
	Email        *string
	PasswordHash *string
	Favorites    *[]Favorite
}

// IsZero reports whether the patch carries no changes.
func (p UserPatch) IsZero() bool {
	return p.Firstname == nil && p.Lastname == nil && p.Email == nil &&
		p.PasswordHash == nil && p.Favorites == nil
}
