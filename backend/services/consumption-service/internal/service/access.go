package service

import "dropzero/backend/libs/auth"

// Authorize checks that the caller may read or write userID's data.
func Authorize(claims *auth.Claims, userID int64) error {
	if !claims.CanAccessUser(userID) {
		return ErrForbidden
	}
	return nil
}
