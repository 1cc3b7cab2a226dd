package screeningsrv

import (
	"context"
	"errors"

	"github.com/Abraxas-365/resumescan/internal/doctext"
	"github.com/Abraxas-365/resumescan/recruitment/screening"
)

// Evaluation is the outcome of screening one resume
type Evaluation struct {
	Profile screening.Profile
	Results screening.Results
	Method  string
}

// Evaluate extracts text from the files, pulls the fields out and scores them.
// The cover letter is optional.
func Evaluate(ctx context.Context, scorer screening.Scorer, resume, coverLetter *screening.UploadedFile, roles []screening.Role) (*Evaluation, error) {
	if resume.IsEmpty() {
		return nil, screening.ErrResumeRequired()
	}

	text, err := doctext.Extract(resume.FileName, resume.ContentType, resume.Data)
	if err != nil {
		return nil, extractionError(err, resume.FileName)
	}

	profile := screening.Profile{Fields: screening.ExtractFields(text)}

	if !coverLetter.IsEmpty() {
		letter, err := extractCoverLetter(coverLetter)
		if err != nil {
			return nil, extractionError(err, coverLetter.FileName)
		}
		profile.CoverLetter = letter
	}

	results, err := scorer.Score(ctx, profile, roles)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, screening.ErrRegistry.NewWithCause(screening.CodeScoringFailed, err).
			WithDetail("scorer", scorer.Name())
	}

	method := scorer.Name()
	if methods := results.Methods(); len(methods) == 1 {
		method = methods[0]
	}

	return &Evaluation{Profile: profile, Results: results, Method: method}, nil
}

// extractCoverLetter decodes plain text of any charset and falls back to
// document extraction for DOCX and PDF letters
func extractCoverLetter(f *screening.UploadedFile) (string, error) {
	switch doctext.DetectFormat(f.FileName, f.ContentType) {
	case doctext.FormatDOCX, doctext.FormatPDF:
		return doctext.Extract(f.FileName, f.ContentType, f.Data)
	default:
		return doctext.DecodeText(f.Data), nil
	}
}

func extractionError(err error, fileName string) error {
	switch {
	case errors.Is(err, doctext.ErrEmptyDocument):
		return screening.ErrEmptyDocument().WithDetail("file_name", fileName)
	case errors.Is(err, doctext.ErrUnsupportedFormat):
		return screening.ErrInvalidFileType().
			WithDetail("file_name", fileName).
			WithDetail("supported_formats", []string{"docx", "pdf"})
	default:
		return screening.ErrRegistry.NewWithCause(screening.CodeFileProcessingFailed, err).
			WithDetail("file_name", fileName).
			WithDetail("error", err.Error())
	}
}
