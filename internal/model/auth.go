package model

import "github.com/golang-jwt/jwt/v5"

// LoginRequest is the host login body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the host bearer token.
type LoginResponse struct {
	Token  string `json:"token"`
	HostID string `json:"hostId"`
}

// HostClaims is the JWT claims payload for hosts.
type HostClaims struct {
	HostID string `json:"hostId"`
	jwt.RegisteredClaims
}
