package screeningsrv

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Abraxas-365/resumescan/internal/doctext"
	"github.com/Abraxas-365/resumescan/pkg/errx"
	"github.com/Abraxas-365/resumescan/pkg/fsx"
	"github.com/Abraxas-365/resumescan/pkg/kernel"
	"github.com/Abraxas-365/resumescan/pkg/logx"
	"github.com/Abraxas-365/resumescan/recruitment/screening"
	"github.com/google/uuid"
)

const (
	DefaultSimilarLimit = 5
	MaxSimilarLimit     = 50
)

type Service struct {
	repo      screening.Repository
	scorer    screening.Scorer
	files     fsx.FileSystem
	queue     screening.JobQueue
	publisher screening.EventPublisher
	now       func() time.Time
}

// NewService creates a new screening service. queue may be nil when
// analyses only run synchronously.
func NewService(
	repo screening.Repository,
	scorer screening.Scorer,
	files fsx.FileSystem,
	queue screening.JobQueue,
	publisher screening.EventPublisher,
) *Service {
	return &Service{
		repo:      repo,
		scorer:    scorer,
		files:     files,
		queue:     queue,
		publisher: publisher,
		now:       time.Now,
	}
}

// ============================================================================
// Analyze
// ============================================================================

// Analyze stores the uploads, screens the resume and persists the result
func (s *Service) Analyze(ctx context.Context, req screening.AnalyzeRequest) (*screening.AnalysisResponse, error) {
	roles, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	logx.Infof("Analyzing resume for UserID: %s, File: %s, Roles: %v", req.UserID, req.Resume.FileName, roles)

	analysis := s.newAnalysis(req, roles)
	if err := s.storeUploads(ctx, analysis, req); err != nil {
		return nil, err
	}

	if err := analysis.Start(); err != nil {
		s.cleanupFiles(ctx, analysis)
		return nil, err
	}

	eval, err := Evaluate(ctx, s.scorer, req.Resume, req.CoverLetter, roles)
	if err != nil {
		s.cleanupFiles(ctx, analysis)
		return nil, err
	}

	if err := analysis.Complete(eval.Profile, eval.Results, eval.Method); err != nil {
		s.cleanupFiles(ctx, analysis)
		return nil, err
	}

	if err := s.repo.Create(ctx, analysis); err != nil {
		s.cleanupFiles(ctx, analysis)
		return nil, errx.Wrap(err, "failed to save analysis", errx.TypeInternal).
			WithDetail("analysis_id", analysis.ID)
	}

	s.publish(ctx, analysis)

	logx.Infof("Analysis completed: AnalysisID=%s, Method=%s, Suitable=%v", analysis.ID, analysis.Method, analysis.Results.SuitableRoles())
	return analysis.ToResponse(), nil
}

// validate checks roles and uploaded files before anything is stored
func (s *Service) validate(req screening.AnalyzeRequest) ([]screening.Role, error) {
	if req.Resume.IsEmpty() {
		return nil, screening.ErrResumeRequired()
	}
	switch doctext.DetectFormat(req.Resume.FileName, req.Resume.ContentType) {
	case doctext.FormatDOCX, doctext.FormatPDF:
	default:
		return nil, screening.ErrInvalidFileType().
			WithDetail("file_name", req.Resume.FileName).
			WithDetail("supported_formats", []string{"docx", "pdf"})
	}
	if err := checkSize(req.Resume); err != nil {
		return nil, err
	}
	if !req.CoverLetter.IsEmpty() {
		if err := checkSize(req.CoverLetter); err != nil {
			return nil, err
		}
	}
	return screening.ParseRoles(req.Roles)
}

func checkSize(f *screening.UploadedFile) error {
	size := f.Size
	if size == 0 {
		size = int64(len(f.Data))
	}
	if size > screening.MaxFileSize {
		return screening.ErrFileSizeTooLarge().
			WithDetail("file_name", f.FileName).
			WithDetail("size", size).
			WithDetail("max_size", screening.MaxFileSize)
	}
	return nil
}

func (s *Service) newAnalysis(req screening.AnalyzeRequest, roles []screening.Role) *screening.Analysis {
	now := s.now()
	a := &screening.Analysis{
		ID:             kernel.NewAnalysisID(uuid.NewString()),
		UserID:         req.UserID,
		Status:         screening.AnalysisStatusPending,
		ResumeFileName: req.Resume.FileName,
		Roles:          roles,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !req.CoverLetter.IsEmpty() {
		a.CoverLetterFileName = req.CoverLetter.FileName
	}
	return a
}

// storeUploads writes the files to analyses/{user}/{yyyy}/{mm}/{uuid}{ext}
func (s *Service) storeUploads(ctx context.Context, a *screening.Analysis, req screening.AnalyzeRequest) error {
	resumePath := s.uploadPath(a.UserID, req.Resume.FileName)
	if err := s.files.WriteFile(ctx, resumePath, req.Resume.Data); err != nil {
		return errx.Wrap(err, "failed to store resume", errx.TypeInternal).
			WithDetail("file_name", req.Resume.FileName)
	}
	a.ResumePath = kernel.StoragePath(resumePath)

	if !req.CoverLetter.IsEmpty() {
		coverPath := s.uploadPath(a.UserID, req.CoverLetter.FileName)
		if err := s.files.WriteFile(ctx, coverPath, req.CoverLetter.Data); err != nil {
			s.cleanupFiles(ctx, a)
			return errx.Wrap(err, "failed to store cover letter", errx.TypeInternal).
				WithDetail("file_name", req.CoverLetter.FileName)
		}
		a.CoverLetterPath = kernel.StoragePath(coverPath)
	}
	return nil
}

func (s *Service) uploadPath(userID kernel.UserID, fileName string) string {
	now := s.now()
	ext := strings.ToLower(filepath.Ext(fileName))
	return s.files.Join(
		"analyses",
		userID.String(),
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		uuid.NewString()+ext,
	)
}

func (s *Service) cleanupFiles(ctx context.Context, a *screening.Analysis) {
	for _, p := range []kernel.StoragePath{a.ResumePath, a.CoverLetterPath} {
		if p.IsEmpty() {
			continue
		}
		if err := s.files.DeleteFile(ctx, p.String()); err != nil {
			logx.Warnf("Failed to delete stored file %s: %v", p, err)
		}
	}
}

func (s *Service) publish(ctx context.Context, a *screening.Analysis) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishAnalysisFinished(ctx, screening.NewAnalysisEvent(a)); err != nil {
		logx.Warnf("Failed to publish analysis event: AnalysisID=%s, Error=%v", a.ID, err)
	}
}

// ============================================================================
// Queries
// ============================================================================

// GetAnalysis returns an analysis the actor owns, or any analysis for admins
func (s *Service) GetAnalysis(ctx context.Context, actor screening.Actor, id kernel.AnalysisID) (*screening.AnalysisResponse, error) {
	a, err := s.authorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return a.ToResponse(), nil
}

// ListAnalyses lists the actor's analyses. Admins may list everyone's with all=true.
func (s *Service) ListAnalyses(ctx context.Context, actor screening.Actor, all bool, pagination kernel.PaginationOptions) (*screening.PaginatedAnalysesResponse, error) {
	pagination = pagination.Normalize()

	var (
		page *kernel.Paginated[screening.Analysis]
		err  error
	)
	if all && actor.IsAdmin {
		page, err = s.repo.List(ctx, pagination)
	} else {
		page, err = s.repo.ListByUser(ctx, actor.UserID, pagination)
	}
	if err != nil {
		return nil, errx.Wrap(err, "failed to list analyses", errx.TypeInternal)
	}

	return kernel.MapPaginated(page, screening.Analysis.ToSummary), nil
}

// DeleteAnalysis removes the analysis and its stored files
func (s *Service) DeleteAnalysis(ctx context.Context, actor screening.Actor, id kernel.AnalysisID) error {
	a, err := s.authorized(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cleanupFiles(ctx, a)

	logx.Infof("Analysis deleted: AnalysisID=%s, By=%s", id, actor.UserID)
	return nil
}

// FindSimilar returns finished analyses closest by feature vector.
// Users only see their own analyses, admins see all.
func (s *Service) FindSimilar(ctx context.Context, actor screening.Actor, id kernel.AnalysisID, limit int) ([]screening.SimilarAnalysisResponse, error) {
	a, err := s.authorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if a.Status != screening.AnalysisStatusCompleted {
		return nil, screening.ErrAnalysisNotFinished().
			WithDetail("analysis_id", id).
			WithDetail("status", a.Status)
	}

	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	if limit > MaxSimilarLimit {
		limit = MaxSimilarLimit
	}

	var scope *kernel.UserID
	if !actor.IsAdmin {
		scope = &actor.UserID
	}

	similar, err := s.repo.FindSimilar(ctx, id, scope, limit)
	if err != nil {
		return nil, errx.Wrap(err, "failed to find similar analyses", errx.TypeInternal)
	}

	out := make([]screening.SimilarAnalysisResponse, 0, len(similar))
	for _, sim := range similar {
		suitable := sim.Analysis.Results.SuitableRoles()
		out = append(out, screening.SimilarAnalysisResponse{
			ID:             sim.Analysis.ID,
			ResumeFileName: sim.Analysis.ResumeFileName,
			SuitableRoles:  suitable,
			Distance:       sim.Distance,
		})
	}
	return out, nil
}

// ListRoles describes the roles that have dedicated scoring
func (s *Service) ListRoles() []screening.RoleInfo {
	rules := screening.NewRuleScorer()

	catalog := rules.Roles()
	if c, ok := s.scorer.(screening.RoleCatalog); ok {
		catalog = c.Roles()
	}

	modelRoles := map[screening.Role]bool{}
	if m, ok := s.scorer.(interface{ ModelRoles() []screening.Role }); ok {
		for _, r := range m.ModelRoles() {
			modelRoles[r] = true
		}
	}

	out := make([]screening.RoleInfo, 0, len(catalog))
	for _, role := range catalog {
		info := screening.RoleInfo{
			Name:     role,
			HasRules: rules.Knows(role),
			HasModel: modelRoles[role],
			Scoring:  screening.MethodRules,
		}
		switch {
		case info.HasModel:
			info.Scoring = screening.MethodModel
		case s.scorer.Name() == screening.MethodLLM:
			info.Scoring = screening.MethodLLM
		}
		out = append(out, info)
	}
	return out
}

func (s *Service) authorized(ctx context.Context, actor screening.Actor, id kernel.AnalysisID) (*screening.Analysis, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(a) {
		return nil, screening.ErrInsufficientPermissions().
			WithDetail("analysis_id", id).
			WithDetail("user_id", actor.UserID)
	}
	return a, nil
}
