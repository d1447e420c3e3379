package mux

import (
	"time"

	grecaptcha "github.com/ezzarghili/recaptcha-go"
	"github.com/sirupsen/logrus"

	appconfig "bluffroom-server/internal/config"
)

type recaptcha interface {
	// Verify will verify the token is valid
	Verify(token string) error
}

// noopRecaptcha accepts every token
type noopRecaptcha struct{}

func (noopRecaptcha) Verify(string) error {
	return nil
}

func newRecaptcha() recaptcha {
	secret := appconfig.Instance().RecaptchaSecret
	if secret == "" {
		logrus.Warn("recaptcha secret is not set; registration captcha is disabled")
		return noopRecaptcha{}
	}

	captcha, err := grecaptcha.NewReCAPTCHA(secret, grecaptcha.V3, 10*time.Second)
	if err != nil {
		logrus.WithError(err).Fatal("could not load recaptcha")
	}

	return &captcha
}
