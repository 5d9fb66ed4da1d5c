package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storyreel/preedit-pipeline/orchestrator"
	"github.com/storyreel/preedit-pipeline/project"
	"github.com/storyreel/preedit-pipeline/scan"
)

type PreEditScanRequest struct {
	Storyboard     []project.StoryboardRow     `json:"storyboard"`
	Transcription  []project.TranscriptionWord `json:"transcription"`
	ImageSelection project.ImageSelection      `json:"imageSelection"`
	FuzzyThreshold *float64                    `json:"fuzzyThreshold"`
	ProjectPath    string                      `json:"projectPath"`
}

type TranscriptionRequest struct {
	Script string `json:"script" binding:"required"`
}

type ProjectScanRequest struct {
	ProjectPath string `json:"projectPath" binding:"required"`
}

func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

func (s *Server) preEditScan(c *gin.Context) {
	var req PreEditScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if req.ProjectPath != "" {
		s.runProject(c, req.ProjectPath)
		return
	}

	fuzzy := s.cfg.Alignment.FuzzyThreshold
	if req.FuzzyThreshold != nil {
		fuzzy = *req.FuzzyThreshold
	}
	if fuzzy < 0 || fuzzy > 1 {
		fail(c, http.StatusBadRequest, errors.New("fuzzyThreshold must be within [0,1]"))
		return
	}

	b := scan.New(scan.WithFuzzy(fuzzy), scan.WithLogger(s.log))
	items := b.Build(req.Storyboard, req.Transcription, req.ImageSelection)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"scanData": items,
		"stats":    scan.Summary(items),
	})
}

func (s *Server) transcription(c *gin.Context) {
	var req TranscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Script) == "" {
		fail(c, http.StatusBadRequest, errors.New("script is empty"))
		return
	}
	words, err := s.transcriber.Transcribe(c.Request.Context(), req.Script)
	if err != nil {
		s.log.WithError(err).Error("transcription failed")
		fail(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transcription": words})
}

func (s *Server) projectScan(c *gin.Context) {
	var req ProjectScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	s.runProject(c, req.ProjectPath)
}

func (s *Server) runProject(c *gin.Context, dir string) {
	res, err := s.pipeline.Run(c.Request.Context(), dir)
	if err != nil {
		switch {
		case errors.Is(err, project.ErrInvalidPath):
			fail(c, http.StatusBadRequest, err)
		case errors.Is(err, project.ErrNotFound), errors.Is(err, orchestrator.ErrNoStoryboards):
			fail(c, http.StatusNotFound, err)
		default:
			s.log.WithError(err).WithField("project", dir).Error("project scan failed")
			fail(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"result":   res,
		"scanData": res.Primary().Items,
	})
}
