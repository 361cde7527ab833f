package http

import (
	"net/http"

	"github.com/dmitrijs2005/portfolio/internal/server/auth"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	in, verr := req.validate()
	if !verr.empty() {
		writeValidationError(w, verr)
		return
	}

	pair, err := s.svc.Register(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err, "unauthorized")
		return
	}
	writeJSON(w, http.StatusCreated, newTokenResponse(pair))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	in, verr := req.validate()
	if !verr.empty() {
		writeValidationError(w, verr)
		return
	}

	pair, err := s.svc.Login(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err, "invalid_credentials")
		return
	}
	writeJSON(w, http.StatusOK, newTokenResponse(pair))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	in, verr := req.validate()
	if !verr.empty() {
		writeValidationError(w, verr)
		return
	}

	pair, err := s.svc.RefreshToken(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err, "invalid_refresh_token")
		return
	}
	writeJSON(w, http.StatusOK, newTokenResponse(pair))
}

func (s *Server) handleRegisterDevice(w http.ResponseWriter, r *http.Request, principal auth.Principal) {
	var req registerDeviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	deviceType, verr := req.validate()
	if !verr.empty() {
		writeValidationError(w, verr)
		return
	}

	device, err := s.svc.RegisterDevice(r.Context(), principal.AdministratorID, req.DeviceToken, deviceType)
	if err != nil {
		s.writeServiceError(w, r, err, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, device)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, principal auth.Principal) {
	var req logoutRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	if err := s.svc.Logout(r.Context(), principal.AdministratorID, req.RefreshToken); err != nil {
		s.writeServiceError(w, r, err, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, principal auth.Principal) {
	profile, err := s.svc.Profile(r.Context(), principal.AdministratorID)
	if err != nil {
		s.writeServiceError(w, r, err, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
