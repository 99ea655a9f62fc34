package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies API tokens. Token issuance lives in the identity
// service; this backend only needs to accept its tokens and mint
// short-lived device tokens for punch ingestion.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth

	// GenerateDeviceToken mints a token a time-clock device presents when
	// pushing punches. Devices re-enroll daily.
	GenerateDeviceToken(deviceID string) (token string, expiresAt int64, err error)

	// ValidateDeviceToken checks a device token and returns the device ID.
	ValidateDeviceToken(tokenString string) (deviceID string, err error)
}

type JWTService struct {
	secretKey           string
	deviceTokenDuration time.Duration
	tokenAuth           *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, deviceTokenDuration time.Duration) Service {
	return &JWTService{
		secretKey:           secretKey,
		deviceTokenDuration: deviceTokenDuration,
		tokenAuth:           jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateDeviceToken(deviceID string) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.deviceTokenDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"device_id": deviceID,
		"type":      "device",
		"exp":       expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) ValidateDeviceToken(tokenString string) (deviceID string, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "device" {
		return "", jwt.ErrInvalidJWT()
	}

	deviceIDVal, ok := token.Get("device_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	deviceID, ok = deviceIDVal.(string)
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	return deviceID, nil
}
