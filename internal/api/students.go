package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lumina-learn/lumina/internal/risk"
	"github.com/lumina-learn/lumina/internal/roster"
)

type createStudentRequest struct {
	Name string `json:"name" binding:"required"`
}

// patchStudentRequest mirrors roster.Patch; absent fields stay untouched.
type patchStudentRequest struct {
	Name            *string                  `json:"name"`
	Age             *string                  `json:"age"`
	Grade           *string                  `json:"grade"`
	FocusArea       *string                  `json:"focusArea"`
	SubjectEmoji    *string                  `json:"subjectEmoji"`
	Remarks         *string                  `json:"remarks"`
	EngagementData  []roster.EngagementPoint `json:"engagementData"`
	AcademicMetrics *roster.AcademicMetrics  `json:"academicMetrics"`
}

func (r patchStudentRequest) patch() (roster.Patch, error) {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return roster.Patch{}, validationError(roster.ErrEmptyName, "name must not be empty")
	}
	if m := r.AcademicMetrics; m != nil && m.AttendanceTrend != "" && !m.AttendanceTrend.Valid() {
		return roster.Patch{}, newError("VALIDATION_ERROR", http.StatusBadRequest, "attendanceTrend must be rising, falling or stable")
	}
	p := roster.Patch{
		Name:            r.Name,
		Age:             r.Age,
		Grade:           r.Grade,
		FocusArea:       r.FocusArea,
		SubjectEmoji:    r.SubjectEmoji,
		Remarks:         r.Remarks,
		EngagementData:  r.EngagementData,
		AcademicMetrics: r.AcademicMetrics,
	}
	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		p.Name = &trimmed
	}
	if p.IsEmpty() {
		return roster.Patch{}, errEmptyPatch
	}
	return p, nil
}

type riskResponse struct {
	StudentID string `json:"studentId"`
	risk.Prediction
	SystemStatus string `json:"systemStatus"`
}

func (s *Server) listStudents(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"students": s.students.Students(),
		"activeId": s.students.ActiveID(),
	})
}

func (s *Server) createStudent(c *gin.Context) {
	var req createStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, validationError(err, "invalid payload"))
		return
	}
	st, err := s.students.Add(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, st)
}

func (s *Server) activeStudent(c *gin.Context) {
	st, ok := s.students.Active()
	if !ok {
		respondError(c, errNoActive)
		return
	}
	respond(c, http.StatusOK, st)
}

func (s *Server) getStudent(c *gin.Context) {
	st, ok := s.students.Student(c.Param("id"))
	if !ok {
		respondError(c, errNotFound)
		return
	}
	respond(c, http.StatusOK, st)
}

func (s *Server) updateStudent(c *gin.Context) {
	var req patchStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, validationError(err, "invalid payload"))
		return
	}
	p, err := req.patch()
	if err != nil {
		respondError(c, err)
		return
	}

	id := c.Param("id")
	if !s.students.Update(c.Request.Context(), id, p) {
		respondError(c, errNotFound)
		return
	}
	st, _ := s.students.Student(id)
	respond(c, http.StatusOK, st)
}

func (s *Server) deleteStudent(c *gin.Context) {
	if !s.students.Delete(c.Request.Context(), c.Param("id")) {
		respondError(c, errNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) selectStudent(c *gin.Context) {
	id := c.Param("id")
	if !s.students.Select(c.Request.Context(), id) {
		respondError(c, errNotFound)
		return
	}
	st, _ := s.students.Student(id)
	respond(c, http.StatusOK, st)
}

func (s *Server) studentRisk(c *gin.Context) {
	st, ok := s.students.Student(c.Param("id"))
	if !ok {
		respondError(c, errNotFound)
		return
	}
	respond(c, http.StatusOK, riskResponse{
		StudentID:    st.ID,
		Prediction:   st.Risk(),
		SystemStatus: st.AcademicMetrics.SystemStatus(),
	})
}

func (s *Server) refreshInsight(c *gin.Context) {
	id := c.Param("id")
	if _, ok := s.students.Student(id); !ok {
		respondError(c, errNotFound)
		return
	}
	if !s.students.Refresh(id) {
		respondError(c, errNoProvider)
		return
	}
	respond(c, http.StatusAccepted, gin.H{"studentId": id, "status": "refreshing"})
}
