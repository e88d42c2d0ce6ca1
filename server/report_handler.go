package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	errs "github.com/techagentng/greenloop/errors"
	"github.com/techagentng/greenloop/models"
	"github.com/techagentng/greenloop/server/response"
)

func (s *Server) handleCreateReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}

		var req models.CreateReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ValidationError(err.Error()))
			return
		}

		report, err := s.ReportService.CreateReport(userID, &req)
		if err != nil {
			response.JSON(c, "", errs.StatusFor(err), nil, err)
			return
		}
		response.JSON(c, "Report created successfully", http.StatusCreated, report, nil)
	}
}

// handleAnalyzeWaste accepts a multipart photo, stores it, and returns
// the AI's waste estimate together with the stored image URL so the
// client can attach both to the subsequent report submission.
func (s *Server) handleAnalyzeWaste() gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("image")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ValidationError("image file is required"))
			return
		}

		imageURL, thumbnailURL, err := s.MediaService.UploadImage(c.Request.Context(), fileHeader)
		if err != nil {
			response.JSON(c, "", errs.StatusFor(err), nil, err)
			return
		}

		analysis, err := s.ReportService.AnalyzeWaste(c.Request.Context(), imageURL)
		if err != nil {
			response.JSON(c, "Could not analyze the image. Try again or upload a clearer photo.", errs.StatusFor(err), nil, err)
			return
		}

		response.JSON(c, "", http.StatusOK, gin.H{
			"image_url":     imageURL,
			"thumbnail_url": thumbnailURL,
			"analysis":      analysis,
		}, nil)
	}
}

func (s *Server) handleGetRecentReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		reports := s.ReportService.GetRecentReports(limit)
		response.JSON(c, "", http.StatusOK, reports, nil)
	}
}

func (s *Server) handleGetCollectionTasks() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		tasks := s.ReportService.GetCollectionTasks(limit)
		response.JSON(c, "", http.StatusOK, tasks, nil)
	}
}

func (s *Server) handleClaimReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}

		reportID, err := uuid.Parse(c.Param("reportID"))
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ValidationError("invalid report id"))
			return
		}

		if err := s.ReportService.ClaimReport(reportID, userID); err != nil {
			response.JSON(c, "", errs.StatusFor(err), nil, err)
			return
		}
		response.JSON(c, "Report claimed successfully", http.StatusOK, nil, nil)
	}
}

// handleSubmitVerification takes the collector's photo, stores it, and
// runs it through verification. A photo that doesn't match is a 200
// with verified=false, not an error: the report simply stays claimed.
func (s *Server) handleSubmitVerification() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}

		reportID, err := uuid.Parse(c.Param("reportID"))
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ValidationError("invalid report id"))
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ValidationError("verification image is required"))
			return
		}

		imageURL, _, err := s.MediaService.UploadImage(c.Request.Context(), fileHeader)
		if err != nil {
			response.JSON(c, "", errs.StatusFor(err), nil, err)
			return
		}

		outcome, err := s.ReportService.SubmitVerification(c.Request.Context(), reportID, userID, imageURL)
		if err != nil {
			response.JSON(c, "Could not verify the image. Try again or upload a clearer photo.", errs.StatusFor(err), nil, err)
			return
		}

		if !outcome.Verified {
			response.JSON(c, "Verification failed: the photo does not match the report", http.StatusOK, outcome, nil)
			return
		}
		response.JSON(c, "Verification successful", http.StatusOK, outcome, nil)
	}
}
