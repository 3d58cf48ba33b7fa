package model

// Actor is the authenticated admin a request acts for. It is passed into every
// usecase explicitly.
type Actor struct {
	UserID string `json:"-" validate:"required,max=64"`
	Role   string `json:"-"`
}
