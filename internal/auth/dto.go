package auth

// LoginRequest carries the credential pair posted to the login endpoint.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	StoreName string `json:"storename,omitempty"`
}

// LoginResponse returns the token pair plus the supplier context the UI
// renders after a successful login.
type LoginResponse struct {
	AccessToken   string   `json:"access_token"`
	RefreshToken  string   `json:"refresh_token"`
	Username      string   `json:"username"`
	SupplierCodes []string `json:"supplier_codes"`
	SupplierName  string   `json:"supplier_name,omitempty"`
	GSTNumber     string   `json:"gst_number,omitempty"`
	StoreName     string   `json:"store_name"`
}

// RefreshRequest carries the expired access token and its refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse returns the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
