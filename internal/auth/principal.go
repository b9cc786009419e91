// Package auth defines the acting principal and the ownership/visibility
// policy applied to every resource access. The policy is a pure function so
// it can be tested exhaustively without any transport or storage in place.
package auth

// Principal is the authenticated caller. A nil *Principal means the request
// is anonymous.
type Principal struct {
	// ID is the stable user identifier assigned by the identity provider.
	ID string `json:"id"`
	// Email is informational; it is never used for authorization decisions.
	Email string `json:"email,omitempty"`
}
