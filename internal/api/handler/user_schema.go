package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type idParam struct {
	ID string `param:"id" validate:"required,mongodb"`
}

type registerRequest struct {
	UserName string `json:"user_name" validate:"required,min=2,max=100"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=5,max=72"`
}

// updateUserRequest has no role field: a user cannot promote themselves.
type updateUserRequest struct {
	UserName *string `json:"user_name" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	Password *string `json:"password"  validate:"omitempty,min=5,max=72"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Response types ---

// userResponse is the public view of a user. Password and role never leave
// the service.
type userResponse struct {
	ID       string `json:"_id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
}

type userMessageResponse struct {
	Message string       `json:"message"`
	Data    userResponse `json:"data"`
}

type loginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}
