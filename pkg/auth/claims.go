package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Username      string
	SupplierCodes []string
	SupplierName  string
	GSTNumber     string
	StoreName     string
	JTI           string
}

// AccessTokenClaims represents the typed JWT issued to supplier logins.
type AccessTokenClaims struct {
	Username      string   `json:"username"`
	SupplierCodes []string `json:"supplier_codes"`
	SupplierName  string   `json:"supplier_name,omitempty"`
	GSTNumber     string   `json:"gst_number,omitempty"`
	StoreName     string   `json:"store_name,omitempty"`
	jwt.RegisteredClaims
}
