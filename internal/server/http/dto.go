package http

import (
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
)

const (
	minPasswordLength = 8
	maxPasswordBytes  = 72
	maxEmailLength    = 254
	maxNameLength     = 100
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	DeviceType  string `json:"deviceType"`
	DeviceToken string `json:"deviceToken"`
}

type loginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DeviceType  string `json:"deviceType"`
	DeviceToken string `json:"deviceToken"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
	DeviceType   string `json:"deviceType"`
	DeviceToken  string `json:"deviceToken"`
}

type registerDeviceRequest struct {
	DeviceToken string `json:"deviceToken"`
	DeviceType  string `json:"deviceType"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

func newTokenResponse(p *services.TokenPair) tokenResponse {
	return tokenResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken, ExpiresIn: p.ExpiresIn}
}

// validationErrors maps a request field to what is wrong with it.
type validationErrors map[string]string

func (v validationErrors) empty() bool { return len(v) == 0 }

func (v validationErrors) email(email string) {
	switch {
	case email == "":
		v["email"] = "required"
	case len(email) > maxEmailLength:
		v["email"] = "too long"
	case !models.IsValidEmail(email):
		v["email"] = "invalid email"
	}
}

func (v validationErrors) newPassword(password string) {
	switch {
	case utf8.RuneCountInString(password) < minPasswordLength:
		v["password"] = "must be at least 8 characters"
	case len(password) > maxPasswordBytes:
		v["password"] = "must be at most 72 bytes"
	}
}

func (v validationErrors) required(field, value string) {
	if value == "" {
		v[field] = "required"
	}
}

// device parses the optional device pair. A device is returned only when both
// fields are present; a present but unknown type is a validation error.
func (v validationErrors) device(deviceType, deviceToken string) *services.DeviceInput {
	if deviceType == "" {
		return nil
	}
	t, err := models.ParseDeviceType(deviceType)
	if err != nil {
		v["deviceType"] = "must be one of WEB, IOS, ANDROID"
		return nil
	}
	if deviceToken == "" {
		return nil
	}
	return &services.DeviceInput{Token: deviceToken, Type: t}
}

func (req *registerRequest) validate() (services.RegisterInput, validationErrors) {
	v := validationErrors{}
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	v.email(req.Email)
	v.newPassword(req.Password)
	v.required("name", req.Name)
	if utf8.RuneCountInString(req.Name) > maxNameLength {
		v["name"] = "too long"
	}
	device := v.device(req.DeviceType, req.DeviceToken)

	return services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Device:   device,
	}, v
}

func (req *loginRequest) validate() (services.LoginInput, validationErrors) {
	v := validationErrors{}
	req.Email = strings.TrimSpace(req.Email)

	v.required("email", req.Email)
	v.required("password", req.Password)
	device := v.device(req.DeviceType, req.DeviceToken)

	return services.LoginInput{Email: req.Email, Password: req.Password, Device: device}, v
}

func (req *refreshRequest) validate() (services.RefreshInput, validationErrors) {
	v := validationErrors{}
	v.required("refreshToken", req.RefreshToken)
	device := v.device(req.DeviceType, req.DeviceToken)
	return services.RefreshInput{RefreshToken: req.RefreshToken, Device: device}, v
}

func (req *registerDeviceRequest) validate() (models.DeviceType, validationErrors) {
	v := validationErrors{}
	v.required("deviceToken", req.DeviceToken)
	if req.DeviceType == "" {
		v["deviceType"] = "required"
		return "", v
	}
	t, err := models.ParseDeviceType(req.DeviceType)
	if err != nil {
		v["deviceType"] = "must be one of WEB, IOS, ANDROID"
	}
	return t, v
}
