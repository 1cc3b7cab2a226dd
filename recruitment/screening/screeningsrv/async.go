package screeningsrv

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abraxas-365/resumescan/pkg/errx"
	"github.com/Abraxas-365/resumescan/pkg/fsx"
	"github.com/Abraxas-365/resumescan/pkg/kernel"
	"github.com/Abraxas-365/resumescan/pkg/logx"
	"github.com/Abraxas-365/resumescan/recruitment/screening"
	"github.com/google/uuid"
)

// AnalyzeAsync stores the uploads and queues the analysis for a worker
func (s *Service) AnalyzeAsync(ctx context.Context, req screening.AnalyzeRequest) (*screening.AcceptedResponse, error) {
	if s.queue == nil {
		return nil, screening.ErrQueueUnavailable().WithDetail("reason", "async analysis is disabled")
	}

	roles, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	logx.Infof("Queueing analysis: UserID=%s, File=%s", req.UserID, req.Resume.FileName)

	analysis := s.newAnalysis(req, roles)
	if err := s.storeUploads(ctx, analysis, req); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, analysis); err != nil {
		s.cleanupFiles(ctx, analysis)
		return nil, errx.Wrap(err, "failed to save analysis", errx.TypeInternal)
	}

	job := &screening.AnalysisJob{
		ID:                  kernel.NewJobID(uuid.NewString()),
		AnalysisID:          analysis.ID,
		UserID:              analysis.UserID,
		ResumePath:          analysis.ResumePath,
		ResumeFileName:      req.Resume.FileName,
		ResumeContentType:   req.Resume.ContentType,
		CoverLetterPath:     analysis.CoverLetterPath,
		CoverLetterFileName: analysis.CoverLetterFileName,
		Roles:               roles,
		MaxAttempts:         screening.DefaultMaxAttempts,
		CreatedAt:           s.now(),
	}

	if err := s.queue.Enqueue(ctx, job.ID, job); err != nil {
		if failErr := analysis.Fail("failed to enqueue"); failErr == nil {
			_ = s.repo.Update(ctx, analysis)
		}
		return nil, screening.ErrRegistry.NewWithCause(screening.CodeQueueUnavailable, err).
			WithDetail("analysis_id", analysis.ID)
	}

	logx.Infof("Analysis queued: AnalysisID=%s, JobID=%s", analysis.ID, job.ID)

	return &screening.AcceptedResponse{
		AnalysisID: analysis.ID,
		JobID:      job.ID,
		Status:     screening.AnalysisStatusPending,
		Message:    "Resume queued for analysis",
	}, nil
}

// ProcessJob is the worker entrypoint for a queued analysis
func (s *Service) ProcessJob(ctx context.Context, job *screening.AnalysisJob) error {
	logx.Infof("Processing job: JobID=%s, AnalysisID=%s, Attempt=%d/%d", job.ID, job.AnalysisID, job.AttemptCount+1, job.MaxAttempts)

	analysis, err := s.repo.GetByID(ctx, job.AnalysisID)
	if err != nil {
		if errx.IsCode(err, screening.CodeAnalysisNotFound) {
			logx.Warnf("Dropping job for deleted analysis: JobID=%s, AnalysisID=%s", job.ID, job.AnalysisID)
			return nil
		}
		return err
	}
	if analysis.IsFinished() {
		logx.Warnf("Skipping job for finished analysis: AnalysisID=%s, Status=%s", analysis.ID, analysis.Status)
		return nil
	}

	if err := analysis.Start(); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, analysis); err != nil {
		return errx.Wrap(err, "failed to mark analysis as processing", errx.TypeInternal)
	}

	resumeFile, err := s.readUpload(ctx, job.ResumePath, job.ResumeFileName, job.ResumeContentType)
	if err != nil {
		return s.handleJobError(ctx, job, analysis, "file_read_failed", err)
	}

	var coverFile *screening.UploadedFile
	if !job.CoverLetterPath.IsEmpty() {
		coverFile, err = s.readUpload(ctx, job.CoverLetterPath, job.CoverLetterFileName, "")
		if err != nil {
			return s.handleJobError(ctx, job, analysis, "file_read_failed", err)
		}
	}

	eval, err := Evaluate(ctx, s.scorer, resumeFile, coverFile, job.Roles)
	if err != nil {
		return s.handleJobError(ctx, job, analysis, "evaluation_failed", err)
	}

	// the stored row is still processing until the update lands
	processing := *analysis
	if err := analysis.Complete(eval.Profile, eval.Results, eval.Method); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, analysis); err != nil {
		*analysis = processing
		return s.handleJobError(ctx, job, analysis, "save_failed", err)
	}

	s.publish(ctx, analysis)

	logx.Infof("Job completed successfully: JobID=%s, AnalysisID=%s", job.ID, analysis.ID)
	return nil
}

func (s *Service) readUpload(ctx context.Context, path kernel.StoragePath, name, contentType string) (*screening.UploadedFile, error) {
	data, err := s.files.ReadFile(ctx, path.String())
	if err != nil {
		return nil, err
	}
	return &screening.UploadedFile{
		FileName:    name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

// handleJobError retries transient failures with exponential backoff and
// fails the analysis on the last attempt or on bad input
func (s *Service) handleJobError(ctx context.Context, job *screening.AnalysisJob, analysis *screening.Analysis, errorType string, err error) error {
	job.AttemptCount++

	details := map[string]any{
		"error":        err.Error(),
		"error_type":   errorType,
		"attempt":      job.AttemptCount,
		"max_attempts": job.MaxAttempts,
		"analysis_id":  job.AnalysisID,
	}

	if job.CanRetry() && isRetryable(err) {
		retryDelay := job.RetryDelay()
		nextRetry := s.now().Add(retryDelay)
		job.NextRetryAt = &nextRetry

		logx.Warnf("Job failed, will retry: JobID=%s, Attempt=%d/%d, NextRetry=%v, Error=%s",
			job.ID, job.AttemptCount, job.MaxAttempts, nextRetry, errorType)

		if queueErr := s.queue.EnqueueDelayed(ctx, job.ID, job, retryDelay); queueErr != nil {
			logx.Errorf("Failed to enqueue for retry: %v", queueErr)
			s.failAnalysis(ctx, analysis, fmt.Sprintf("%s (retry enqueue failed)", errorType))
			return screening.ErrRegistry.NewWithCause(screening.CodeQueueUnavailable, queueErr).
				WithDetails(details)
		}

		analysis.Requeue(fmt.Sprintf("%s (will retry)", errorType))
		if updateErr := s.repo.Update(ctx, analysis); updateErr != nil {
			logx.Errorf("Failed to update analysis for retry: %v", updateErr)
		}

		return errx.Wrap(err, "analysis job failed", errx.TypeInternal).
			WithDetail("will_retry", true).
			WithDetail("next_retry_at", nextRetry).
			WithDetails(details)
	}

	logx.Errorf("Job permanently failed: JobID=%s, Error=%s, Attempts=%d/%d",
		job.ID, errorType, job.AttemptCount, job.MaxAttempts)

	s.failAnalysis(ctx, analysis, failureMessage(errorType, err))

	return errx.Wrap(err, "analysis job failed", errx.TypeInternal).
		WithDetail("will_retry", false).
		WithDetails(details)
}

func (s *Service) failAnalysis(ctx context.Context, analysis *screening.Analysis, reason string) {
	if err := analysis.Fail(reason); err != nil {
		logx.Errorf("Failed to mark analysis as failed: %v", err)
		return
	}
	if err := s.repo.Update(ctx, analysis); err != nil {
		logx.Errorf("Failed to save failed analysis: %v", err)
	}
	s.publish(ctx, analysis)
}

// isRetryable is false for input problems that will fail the same way again
func isRetryable(err error) bool {
	if errors.Is(err, fsx.ErrNotExist) {
		return false
	}
	e, ok := errx.As(err)
	if !ok {
		return true
	}
	return e.Type != errx.TypeValidation
}

func failureMessage(errorType string, err error) string {
	if e, ok := errx.As(err); ok {
		return fmt.Sprintf("%s: %s", errorType, e.Message)
	}
	return errorType
}
