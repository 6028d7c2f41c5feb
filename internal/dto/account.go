package dto

// CreateAccountRequest is the JSON body for POST /new.
type CreateAccountRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateAccountResponse carries the storage-generated id.
type CreateAccountResponse struct {
	ID int64 `json:"id"`
}

// UpdateAccountRequest is the JSON body for PATCH /edit.
// Omitted fields stay unchanged; at least one of username/password must be set.
type UpdateAccountRequest struct {
	ID       int64   `json:"id" binding:"required"`
	Username *string `json:"username" binding:"omitempty,min=1"`
	Password *string `json:"password" binding:"omitempty,min=1"`
}

// DeleteAccountRequest is the JSON body for DELETE /delete. Deletion requires
// the matching password, not just the id.
type DeleteAccountRequest struct {
	ID       int64  `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UsernameResponse is a single row of the username lookup endpoints.
type UsernameResponse struct {
	Username string `json:"username"`
}
