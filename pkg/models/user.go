package models

type User struct {
	ID           int    `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	Fullname     string `json:"fullname" db:"fullname"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,alphanum,min=3"`
	Fullname string `json:"fullname" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=user auditor admin"`
}

type UpdateUserRequest struct {
	Fullname *string `json:"fullname"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	Role     *string `json:"role" binding:"omitempty,oneof=user auditor admin"`
}

// UserChanges is the resolved set of column updates for one user.
type UserChanges struct {
	Fullname     *string
	PasswordHash *string
	Role         *string
}

func (c *UserChanges) HasChanges() bool {
	return c.Fullname != nil || c.PasswordHash != nil || c.Role != nil
}
