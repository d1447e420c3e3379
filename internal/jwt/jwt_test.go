package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"bluffroom-server/internal/config"
	"bluffroom-server/internal/util"
)

func loadTestKeys(t *testing.T) {
	t.Helper()
	defer util.SetEnv("BLUFF_JWT_PUBLIC_KEY", "testdata/public.pem")()
	defer util.SetEnv("BLUFF_JWT_PRIVATE_KEY", "testdata/private.key")()
	assert.NoError(t, config.Load())
	assert.NoError(t, LoadKeys())
}

func TestSignAndValidUserID(t *testing.T) {
	loadTestKeys(t)
	a := assert.New(t)

	signed, err := Sign(1234)
	a.NoError(err)
	a.NotEmpty(signed)

	userID, err := ValidUserID(signed)
	a.NoError(err)
	a.Equal(int64(1234), userID)
}

func TestValidUserID_badToken(t *testing.T) {
	loadTestKeys(t)
	a := assert.New(t)

	userID, err := ValidUserID("not-a-token")
	a.Error(err)
	a.Equal(int64(0), userID)
}

func TestValidUserID_wrongIssuer(t *testing.T) {
	loadTestKeys(t)
	a := assert.New(t)

	token := gojwt.NewWithClaims(gojwt.SigningMethodRS256, gojwt.RegisteredClaims{
		Issuer:   "someone-else",
		Audience: gojwt.ClaimStrings{audience},
		Subject:  "1234",
		IssuedAt: gojwt.NewNumericDate(time.Now()),
	})
	signed, err := token.SignedString(signKey)
	a.NoError(err)

	_, err = ValidUserID(signed)
	a.Error(err)
}

func TestValidUserID_badSubject(t *testing.T) {
	loadTestKeys(t)
	a := assert.New(t)

	token := gojwt.NewWithClaims(gojwt.SigningMethodRS256, gojwt.RegisteredClaims{
		Issuer:   issuer,
		Audience: gojwt.ClaimStrings{audience},
		Subject:  "not-a-number",
		IssuedAt: gojwt.NewNumericDate(time.Now()),
	})
	signed, err := token.SignedString(signKey)
	a.NoError(err)

	_, err = ValidUserID(signed)
	a.Error(err)
}
