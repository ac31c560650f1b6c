package entity

// NewUser is a signup awaiting admin approval, recorded when a USER_SIGNUP
// event is consumed.
type NewUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`

	Audit
}
