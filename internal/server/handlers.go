package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/rendering"
	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/jonathan/resume-optimizer/internal/workflow"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; resumes and job descriptions are small
const maxBodyBytes = 1 << 20

// artifactName matches files the renderers produce
var artifactName = regexp.MustCompile(`^final_resume_[0-9a-f-]{36}\.(docx|tex|html)$`)

// UploadResumeResponse is returned by POST /resumes
type UploadResumeResponse struct {
	ResumeID  string    `json:"resume_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// OptimizeResponse is returned by POST /optimize and sent as the stream's complete event
type OptimizeResponse struct {
	OptimizationID  string              `json:"optimization_id,omitempty"`
	ATSScore        int                 `json:"ats_score"`
	Resume          types.ResumeContent `json:"resume"`
	Analysis        *types.Diagnosis    `json:"analysis"`
	Iterations      int                 `json:"iterations"`
	Passed          bool                `json:"passed"`
	FileURL         string              `json:"file_url"`
	FileURLRelative string              `json:"file_url_relative"`
}

// optimizationJob is a validated optimize request with everything needed to run it
type optimizationJob struct {
	request        types.OptimizeRequest
	resume         *db.Resume
	jobDescription string
	runner         *workflow.Runner
}

// handleUploadResume stores a structured resume for a user
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	var req types.UploadResumeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, validationError(err))
		return
	}
	sectionsJSON, err := json.Marshal(req.Sections)
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to encode sections: %w", err))
		return
	}
	if err := schemas.ValidateResume(string(sectionsJSON)); err != nil {
		s.writeError(w, validationError(err))
		return
	}

	resume, err := s.store.SaveResume(r.Context(), req.UserID, req.Contact, req.Sections)
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to save resume: %w", err))
		return
	}

	s.logger.Info("resume stored", zap.String("user_id", req.UserID), zap.String("resume_id", resume.ID.String()))
	s.jsonResponse(w, http.StatusCreated, UploadResumeResponse{
		ResumeID:  resume.ID.String(),
		UserID:    resume.UserID,
		CreatedAt: resume.CreatedAt,
	})
}

// handleDeleteResumes removes a user's resumes and their generated results
func (s *Server) handleDeleteResumes(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		s.writeError(w, &ErrValidation{Field: "user_id", Message: "query parameter is required"})
		return
	}

	deleted, err := s.store.DeleteResumes(r.Context(), userID)
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to delete resumes: %w", err))
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"deleted": deleted,
	})
}

// handleOptimize runs the workflow and returns the final result
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	job, err := s.prepareOptimization(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := job.runner.Run(r.Context(), job.resume.Sections, job.jobDescription, job.resume.Contact, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.completeOptimization(r, job, result))
}

// handleOptimizeStream runs the workflow, streaming stage progress as SSE.
// Request errors are returned as plain JSON before the stream opens.
func (s *Server) handleOptimizeStream(w http.ResponseWriter, r *http.Request) {
	job, err := s.prepareOptimization(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	onProgress := func(event workflow.ProgressEvent) {
		if err := sse.WriteProgress(event); err != nil {
			s.logger.Debug("failed to write progress event", zap.Error(err))
		}
	}

	result, err := job.runner.Run(r.Context(), job.resume.Sections, job.jobDescription, job.resume.Contact, onProgress)
	if err != nil {
		s.logger.Error("streamed optimization failed", zap.String("user_id", job.request.UserID), zap.Error(err))
		sse.WriteError(err)
		return
	}

	sse.WriteComplete(s.completeOptimization(r, job, result))
}

// handleGenerated serves a rendered artifact from the output directory
func (s *Server) handleGenerated(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")
	if !artifactName.MatchString(name) {
		s.writeError(w, &ErrNotFound{Resource: "file", ID: name})
		return
	}

	path := filepath.Join(s.outputDir, name)
	if _, err := os.Stat(path); err != nil {
		s.writeError(w, &ErrNotFound{Resource: "file", ID: name})
		return
	}

	switch filepath.Ext(name) {
	case ".docx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	case ".tex":
		w.Header().Set("Content-Type", "application/x-tex; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	case ".html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	http.ServeFile(w, r, path)
}

// handleListOptimizations lists a user's stored results, newest first
func (s *Server) handleListOptimizations(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "must be a non-negative integer"})
			return
		}
		limit = n
	}

	optimizations, err := s.store.ListOptimizations(r.Context(), userID, limit)
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to list optimizations: %w", err))
		return
	}
	if optimizations == nil {
		optimizations = []db.Optimization{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"user_id":       userID,
		"optimizations": optimizations,
		"count":         len(optimizations),
	})
}

// prepareOptimization validates an optimize request, resolves the job
// description and loads the user's latest resume
func (s *Server) prepareOptimization(w http.ResponseWriter, r *http.Request) (*optimizationJob, error) {
	var req types.OptimizeRequest
	if err := decodeBody(w, r, &req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	format := s.defaultFormat
	if req.Format != "" {
		parsed, err := rendering.ParseFormat(req.Format)
		if err != nil {
			return nil, &ErrValidation{Field: "format", Message: err.Error()}
		}
		format = parsed
	}

	ctx := r.Context()
	jobDescription, err := s.resolveJobDescription(ctx, req)
	if err != nil {
		return nil, err
	}

	resume, err := s.store.GetLatestResume(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load resume: %w", err)
	}
	if resume == nil {
		return nil, &ErrNotFound{Resource: "resume", ID: req.UserID}
	}

	return &optimizationJob{
		request:        req,
		resume:         resume,
		jobDescription: jobDescription,
		runner:         s.runners[format],
	}, nil
}

// resolveJobDescription prefers inline text and falls back to fetching job_url
func (s *Server) resolveJobDescription(ctx context.Context, req types.OptimizeRequest) (string, error) {
	if text := strings.TrimSpace(req.JobDescription); text != "" {
		return text, nil
	}
	posting, err := s.fetcher.FromURL(ctx, req.JobURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch job posting: %w", err)
	}
	return posting.Text, nil
}

// completeOptimization stores the result and builds the response. A storage
// failure is logged; the artifact already exists and is still returned.
func (s *Server) completeOptimization(r *http.Request, job *optimizationJob, result *workflow.Result) *OptimizeResponse {
	fileName := filepath.Base(result.ArtifactPath)
	relative := "/generated/" + fileName

	resp := &OptimizeResponse{
		ATSScore:        result.FinalScore,
		Resume:          result.FinalContent,
		Analysis:        result.Diagnosis,
		Iterations:      result.IterationCount,
		Passed:          result.Passed,
		FileURL:         baseURL(r) + relative,
		FileURLRelative: relative,
	}

	resumeID := job.resume.ID
	record := &db.Optimization{
		ResumeID:       &resumeID,
		UserID:         job.request.UserID,
		JobDescription: job.jobDescription,
		Content:        result.FinalContent,
		ATSScore:       result.FinalScore,
		Diagnosis:      result.Diagnosis,
		IterationCount: result.IterationCount,
		Passed:         result.Passed,
		FileName:       fileName,
	}
	if err := s.store.SaveOptimization(r.Context(), record); err != nil {
		s.logger.Warn("failed to store optimization", zap.String("user_id", job.request.UserID), zap.Error(err))
	} else {
		resp.OptimizationID = record.ID.String()
	}

	s.logger.Info("optimization complete",
		zap.String("user_id", job.request.UserID),
		zap.Int("ats_score", result.FinalScore),
		zap.Int("iterations", result.IterationCount),
		zap.Bool("passed", result.Passed),
		zap.String("file", fileName))

	return resp
}

// decodeBody decodes a bounded JSON request body into v
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return &ErrValidation{Message: "invalid request body: " + err.Error()}
	}
	return nil
}

// baseURL reconstructs the public origin of the request
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
