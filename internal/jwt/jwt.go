package jwt

import (
	"crypto/rsa"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bluffroom-server/internal/config"
)

const issuer = "bluffroom-server"
const audience = "bluffroom"

var signKey *rsa.PrivateKey
var verifyKey *rsa.PublicKey

// LoadKeys loads the RSA keys used for signing and verifying tokens
// This method must be called before Sign() or ValidUserID()
func LoadKeys() error {
	cfg := config.Instance()

	privateKeyBytes, err := os.ReadFile(cfg.JWT.PrivateKey)
	if err != nil {
		return err
	}

	signKey, err = jwt.ParseRSAPrivateKeyFromPEM(privateKeyBytes)
	if err != nil {
		return err
	}

	publicKeyBytes, err := os.ReadFile(cfg.JWT.PublicKey)
	if err != nil {
		return err
	}

	verifyKey, err = jwt.ParseRSAPublicKeyFromPEM(publicKeyBytes)
	if err != nil {
		return err
	}

	return nil
}

// Sign returns a signed token for the player
func Sign(userID int64) (string, error) {
	if signKey == nil {
		return "", fmt.Errorf("signing key has not been loaded")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Issuer:   issuer,
		Audience: jwt.ClaimStrings{audience},
		Subject:  strconv.FormatInt(userID, 10),
		IssuedAt: jwt.NewNumericDate(time.Now()),
	})

	return token.SignedString(signKey)
}

// ValidUserID returns the player ID found in the token's subject
// An error is returned if the token is not valid
func ValidUserID(tokenString string) (int64, error) {
	if verifyKey == nil {
		return 0, fmt.Errorf("verify key has not been loaded")
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return verifyKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
	)
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, fmt.Errorf("could not get claims from token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject: %s", claims.Subject)
	}

	return userID, nil
}
