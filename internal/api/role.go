package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumina-learn/lumina/internal/views"
)

type roleRequest struct {
	Role string `json:"role" binding:"required,oneof=student teacher parent"`
}

type roleResponse struct {
	Role  views.Role `json:"role"`
	Views []views.ID `json:"views"`
}

func newRoleResponse(r views.Role) roleResponse {
	resp := roleResponse{Role: r}
	for _, v := range views.Visible(r) {
		resp.Views = append(resp.Views, v.ID)
	}
	return resp
}

func (s *Server) getRole(c *gin.Context) {
	r, err := views.LoadRole(c.Request.Context(), s.persist)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, newRoleResponse(r))
}

func (s *Server) putRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, validationError(err, "role must be student, teacher or parent"))
		return
	}
	r := views.Role(req.Role)
	if err := views.SaveRole(c.Request.Context(), s.persist, r); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, newRoleResponse(r))
}
