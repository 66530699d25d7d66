// Package jwt issues and validates the engine's HS256 access tokens.
package jwt
