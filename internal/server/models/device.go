package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
)

// DeviceType is the closed set of client platforms that can receive
// notifications. The zero value is not a valid type.
type DeviceType string

const (
	DeviceTypeWeb     DeviceType = "WEB"
	DeviceTypeIOS     DeviceType = "IOS"
	DeviceTypeAndroid DeviceType = "ANDROID"
)

// ParseDeviceType converts a wire value into a DeviceType. Matching is exact.
func ParseDeviceType(s string) (DeviceType, error) {
	switch t := DeviceType(s); t {
	case DeviceTypeWeb, DeviceTypeIOS, DeviceTypeAndroid:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrorInvalidDeviceType, s)
	}
}

func (t DeviceType) String() string { return string(t) }

// Device is a notification-capable client registered by an administrator.
// (AdministratorID, Token) is unique.
type Device struct {
	ID              string     `json:"id"`
	AdministratorID string     `json:"administratorId"`
	Token           string     `json:"deviceToken"`
	Type            DeviceType `json:"deviceType"`
	LastActiveAt    time.Time  `json:"lastActiveAt"`
	CreatedAt       time.Time  `json:"createdAt"`
}
