package requests

// VerifyPinRequest represents a PIN lookup request
type VerifyPinRequest struct {
	Pin string `json:"pin"`
}
