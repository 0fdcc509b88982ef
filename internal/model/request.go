package model

type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
	Persist  bool   `json:"persist"`
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,min=3,max=32"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
}

type CreateNotificationRequest struct {
	Type    string         `json:"type" validate:"required"`
	From    string         `json:"from" validate:"required"`
	To      string         `json:"to" validate:"required"`
	Message string         `json:"message" validate:"required"`
	Data    map[string]any `json:"data"`
}

type RemoveNotificationRequest struct {
	Type string `json:"type" validate:"required"`
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}
