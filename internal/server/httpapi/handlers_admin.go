package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/sunshin3/invoicepro/internal/common"
	"github.com/sunshin3/invoicepro/internal/server/models"
	"github.com/sunshin3/invoicepro/internal/server/services"
)

// pathID parses the {id} route variable. The route pattern already
// constrains it to digits.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, common.ErrValidation
	}
	return id, nil
}

type checkAdminEmailRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleCheckAdminEmail(w http.ResponseWriter, r *http.Request) {
	var req checkAdminEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, nil)
		return
	}

	isAdmin, err := s.admins.CheckEmail(r.Context(), req.Email)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}
	s.respondOK(w, envelope{"isAdmin": isAdmin})
}

type adminLoginRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, nil)
		return
	}

	admin, session, err := s.admins.Login(r.Context(), req.Email, req.Code)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}

	s.logger.Info(r.Context(), "admin logged in", "admin_id", admin.ID)
	s.respondOK(w, envelope{
		"admin":     admin,
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
	})
}

func (s *Server) handleGetAllUsers(w http.ResponseWriter, r *http.Request, _ *models.Session, _ *models.Admin) {
	users, err := s.credentials.List(r.Context())
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}
	s.respondOK(w, envelope{"users": users})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request, _ *models.Session, _ *models.Admin) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}

	user, err := s.credentials.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}
	s.respondOK(w, envelope{"user": user})
}

type updateUserRequest struct {
	Email            *string `json:"email"`
	CompanyName      *string `json:"companyName"`
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	SubscriptionTier *string `json:"subscriptionTier"`
	IsActive         *bool   `json:"isActive"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request, _ *models.Session, admin *models.Admin) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, nil)
		return
	}

	user, err := s.admins.UpdateUser(r.Context(), admin, id, services.UserPatch{
		Email:            req.Email,
		CompanyName:      req.CompanyName,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		SubscriptionTier: req.SubscriptionTier,
		IsActive:         req.IsActive,
	})
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}
	s.respondOK(w, envelope{"user": user})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request, _ *models.Session, admin *models.Admin) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}

	if err := s.admins.DeleteUser(r.Context(), admin, id); err != nil {
		s.respondError(w, r, err, nil)
		return
	}
	s.respondOK(w, nil)
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request, _ *models.Session, _ *models.Admin) {
	stats, err := s.dashboard.Stats(r.Context())
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}
	s.respondOK(w, envelope{"stats": stats})
}

func (s *Server) handleAdminActivities(w http.ResponseWriter, r *http.Request, _ *models.Session, _ *models.Admin) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, r, common.ErrValidation, nil)
			return
		}
		limit = n
	}

	activities, err := s.audit.Recent(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}
	s.respondOK(w, envelope{"activities": activities})
}

func (s *Server) handleGetAllAdmins(w http.ResponseWriter, r *http.Request, _ *models.Session, _ *models.Admin) {
	admins, err := s.admins.List(r.Context())
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}
	s.respondOK(w, envelope{"admins": admins})
}

type createAdminRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (s *Server) handleCreateAdmin(w http.ResponseWriter, r *http.Request, _ *models.Session, admin *models.Admin) {
	var req createAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, nil)
		return
	}

	created, code, err := s.admins.Create(r.Context(), admin, req.Email, req.Role)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}

	s.logger.Info(r.Context(), "admin created", "admin_id", created.ID)
	// the plaintext code appears in this response only
	s.respondOK(w, envelope{"admin": created, "code": code})
}

func (s *Server) handleRegenerateAdminCode(w http.ResponseWriter, r *http.Request, _ *models.Session, admin *models.Admin) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}

	code, err := s.admins.RegenerateCode(r.Context(), admin, id)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}
	s.respondOK(w, envelope{"code": code})
}

func (s *Server) handleDeleteAdmin(w http.ResponseWriter, r *http.Request, _ *models.Session, admin *models.Admin) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}

	if err := s.admins.Delete(r.Context(), admin, id); err != nil {
		s.respondError(w, r, err, nil)
		return
	}
	s.respondOK(w, nil)
}
