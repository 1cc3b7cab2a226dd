package screening

import (
	"net/http"

	"github.com/Abraxas-365/resumescan/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("SCREENING")

// Error codes
var (
	CodeAnalysisNotFound        = ErrRegistry.Register("ANALYSIS_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Analysis not found")
	CodeNoRolesSelected         = ErrRegistry.Register("NO_ROLES_SELECTED", errx.TypeValidation, http.StatusBadRequest, "Select at least one role")
	CodeInvalidRole             = ErrRegistry.Register("INVALID_ROLE", errx.TypeValidation, http.StatusBadRequest, "Invalid role")
	CodeResumeRequired          = ErrRegistry.Register("RESUME_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "A resume file is required")
	CodeInvalidFileType         = ErrRegistry.Register("INVALID_FILE_TYPE", errx.TypeValidation, http.StatusBadRequest, "Unsupported file type")
	CodeFileSizeTooLarge        = ErrRegistry.Register("FILE_SIZE_TOO_LARGE", errx.TypeValidation, http.StatusBadRequest, "File size exceeds maximum allowed")
	CodeFileProcessingFailed    = ErrRegistry.Register("FILE_PROCESSING_FAILED", errx.TypeValidation, http.StatusBadRequest, "Error processing file")
	CodeEmptyDocument           = ErrRegistry.Register("EMPTY_DOCUMENT", errx.TypeValidation, http.StatusBadRequest, "Failed to extract text. Ensure the resume has readable content.")
	CodeScoringFailed           = ErrRegistry.Register("SCORING_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Suitability scoring failed")
	CodeModelInvalid            = ErrRegistry.Register("MODEL_INVALID", errx.TypeInternal, http.StatusInternalServerError, "Classification model is invalid")
	CodeInvalidStatusTransition = ErrRegistry.Register("INVALID_STATUS_TRANSITION", errx.TypeBusiness, http.StatusConflict, "Invalid analysis status transition")
	CodeAnalysisNotFinished     = ErrRegistry.Register("ANALYSIS_NOT_FINISHED", errx.TypeBusiness, http.StatusConflict, "Analysis is not finished yet")
	CodeInsufficientPermissions = ErrRegistry.Register("INSUFFICIENT_PERMISSIONS", errx.TypeAuthorization, http.StatusForbidden, "Insufficient permissions")
	CodeQueueUnavailable        = ErrRegistry.Register("QUEUE_UNAVAILABLE", errx.TypeExternal, http.StatusServiceUnavailable, "Analysis queue unavailable")
	CodeInvalidRequest          = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
)

// Helper functions
func ErrAnalysisNotFound() *errx.Error {
	return ErrRegistry.New(CodeAnalysisNotFound)
}

func ErrNoRolesSelected() *errx.Error {
	return ErrRegistry.New(CodeNoRolesSelected)
}

func ErrInvalidRole() *errx.Error {
	return ErrRegistry.New(CodeInvalidRole)
}

func ErrResumeRequired() *errx.Error {
	return ErrRegistry.New(CodeResumeRequired)
}

func ErrInvalidFileType() *errx.Error {
	return ErrRegistry.New(CodeInvalidFileType)
}

func ErrFileSizeTooLarge() *errx.Error {
	return ErrRegistry.New(CodeFileSizeTooLarge)
}

func ErrFileProcessingFailed() *errx.Error {
	return ErrRegistry.New(CodeFileProcessingFailed)
}

func ErrEmptyDocument() *errx.Error {
	return ErrRegistry.New(CodeEmptyDocument)
}

func ErrScoringFailed() *errx.Error {
	return ErrRegistry.New(CodeScoringFailed)
}

func ErrModelInvalid() *errx.Error {
	return ErrRegistry.New(CodeModelInvalid)
}

func ErrInvalidStatusTransition() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatusTransition)
}

func ErrAnalysisNotFinished() *errx.Error {
	return ErrRegistry.New(CodeAnalysisNotFinished)
}

func ErrInsufficientPermissions() *errx.Error {
	return ErrRegistry.New(CodeInsufficientPermissions)
}

func ErrQueueUnavailable() *errx.Error {
	return ErrRegistry.New(CodeQueueUnavailable)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}
