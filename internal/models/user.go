package models

import "time"

// User is a device-id-keyed account. The device id is a bare lookup key,
// not a credential.
type User struct {
	ID        int       `json:"id"`
	DeviceID  string    `json:"deviceId"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// DeviceLoginRequest is the POST /auth/device-login body.
type DeviceLoginRequest struct {
	DeviceID string `json:"deviceId"`
}

// DeviceLoginResponse reports the upserted user.
type DeviceLoginResponse struct {
	User      User `json:"user"`
	IsNewUser bool `json:"isNewUser"`
}

// UpdateProfileRequest is the PUT /auth/profile body. Nil fields keep the
// stored values.
type UpdateProfileRequest struct {
	UserID int     `json:"userId"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
}
