package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/clockwise-hr/attendance-backend-go/internal/handler/http/response"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/jwt"
)

type DeviceHandler interface {
	Enroll(w http.ResponseWriter, r *http.Request)
}

type deviceHandlerImpl struct {
	jwtService    jwt.Service
	enrollmentKey string
}

func NewDeviceHandler(jwtService jwt.Service, enrollmentKey string) DeviceHandler {
	return &deviceHandlerImpl{
		jwtService:    jwtService,
		enrollmentKey: enrollmentKey,
	}
}

type enrollRequest struct {
	DeviceID string `json:"deviceId,omitempty"`
}

type enrollResponse struct {
	DeviceID  string `json:"deviceId"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// Enroll handles POST /devices/enroll. A time-clock device presents the
// shared enrollment key and receives a short-lived device token. Devices
// without an assigned ID get a fresh one.
func (h *deviceHandlerImpl) Enroll(w http.ResponseWriter, r *http.Request) {
	if h.enrollmentKey == "" || r.Header.Get("X-Enrollment-Key") != h.enrollmentKey {
		response.Unauthorized(w, "Invalid enrollment key")
		return
	}

	var req enrollRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}

	deviceID := req.DeviceID
	if deviceID == "" {
		deviceID = uuid.New().String()
	}

	token, expiresAt, err := h.jwtService.GenerateDeviceToken(deviceID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, enrollResponse{
		DeviceID:  deviceID,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
