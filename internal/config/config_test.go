package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"bluffroom-server/internal/util"
)

func TestInstance(t *testing.T) {
	defer util.SetEnv("BLUFF_CONFIG_FILE", "testdata/config.yaml")()
	defer util.SetEnv("BLUFF_JWT_PRIVATE_KEY", "private2.key")()

	a := assert.New(t)
	a.NoError(Load())
	cfg := Instance()
	a.Equal("postgres://bluff@db:5432/bluff?sslmode=disable", cfg.PGDSN)
	a.Equal("public.pem", cfg.JWT.PublicKey)
	a.Equal("private2.key", cfg.JWT.PrivateKey)
	a.Equal("debug", cfg.Log.Level)

	// ensure that it's only loaded once
	_ = os.Setenv("BLUFF_JWT_PRIVATE_KEY", "private3.key")
	// ensure we aren't using a pointer
	cfg.JWT.PrivateKey = "bad"
	cfg = Instance()
	a.Equal("private2.key", cfg.JWT.PrivateKey)
}

func TestDefaults(t *testing.T) {
	defer util.SetEnv("BLUFF_CONFIG_FILE", "testdata/no-such-file.yaml")()

	assert.NoError(t, Load())
	cfg := Instance()
	assert.Equal(t, "./sql", cfg.MigrationsPath)
	assert.Equal(t, 60, cfg.PlayerCreateDelay)
}
