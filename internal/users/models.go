package users

// NewUser is the signup payload.
type NewUser struct {
	FirstName string `json:"firstname" validate:"required"`
	LastName  string `json:"lastname" validate:"required"`
	Address   string `json:"address" validate:"required"`
	Mobile    string `json:"mobile" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

// AuthResult is the typed outcome of a registration or sign-in transaction.
type AuthResult struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	Role      string `json:"role"`
}

// Profile is the readable subset of an account.
type Profile struct {
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
}
