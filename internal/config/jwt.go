package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JWT struct {
	publicKey     *rsa.PublicKey
	privateKey    *rsa.PrivateKey
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

func loadPEMKey[T any](
	envName, fileEnvName string,
	parse func([]byte) (T, error),
) (T, error) {
	var zero T
	if keyStr, ok := os.LookupEnv(envName); ok {
		return parse([]byte(keyStr))
	}
	keyPath, ok := os.LookupEnv(fileEnvName)
	if !ok {
		return zero, fmt.Errorf("no %s or %s env variable set", envName, fileEnvName)
	}
	keyBytes, err := os.ReadFile(keyPath)
	if err != nil {
		return zero, fmt.Errorf("unable to read %s: %w", fileEnvName, err)
	}
	return parse(keyBytes)
}

func NewJWT() (*JWT, error) {
	privateKey, err := loadPEMKey(
		"JWT_PRIVATE_KEY", "JWT_PRIVATE_KEY_FILE",
		jwt.ParseRSAPrivateKeyFromPEM,
	)
	if err != nil {
		return nil, err
	}

	publicKey, err := loadPEMKey(
		"JWT_PUBLIC_KEY", "JWT_PUBLIC_KEY_FILE",
		jwt.ParseRSAPublicKeyFromPEM,
	)
	if err != nil {
		return nil, err
	}

	return &JWT{
		privateKey:    privateKey,
		publicKey:     publicKey,
		signingMethod: jwt.GetSigningMethod("RS256"),
		tokenLifetime: time.Hour * 24 * 30,
	}, nil
}

func (j *JWT) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.privateKey)
}

func (j *JWT) ParseWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return j.publicKey, nil
		},
	)
}
