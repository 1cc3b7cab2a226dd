package screeningapi

import (
	"context"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/Abraxas-365/resumescan/pkg/iam/auth"
	"github.com/Abraxas-365/resumescan/pkg/kernel"
	"github.com/Abraxas-365/resumescan/recruitment/screening"
	"github.com/gofiber/fiber/v2"
)

// Service is the part of screeningsrv.Service the handlers call
type Service interface {
	Analyze(ctx context.Context, req screening.AnalyzeRequest) (*screening.AnalysisResponse, error)
	AnalyzeAsync(ctx context.Context, req screening.AnalyzeRequest) (*screening.AcceptedResponse, error)
	GetAnalysis(ctx context.Context, actor screening.Actor, id kernel.AnalysisID) (*screening.AnalysisResponse, error)
	ListAnalyses(ctx context.Context, actor screening.Actor, all bool, pagination kernel.PaginationOptions) (*screening.PaginatedAnalysesResponse, error)
	DeleteAnalysis(ctx context.Context, actor screening.Actor, id kernel.AnalysisID) error
	FindSimilar(ctx context.Context, actor screening.Actor, id kernel.AnalysisID, limit int) ([]screening.SimilarAnalysisResponse, error)
	ListRoles() []screening.RoleInfo
}

type ScreeningHandlers struct {
	service Service
}

func NewScreeningHandlers(service Service) *ScreeningHandlers {
	return &ScreeningHandlers{service: service}
}

func (h *ScreeningHandlers) RegisterRoutes(app *fiber.App, authMiddleware *auth.AuthMiddleware) {
	api := app.Group("/api", authMiddleware.Authenticate())

	api.Get("/roles", h.ListRoles)

	analyses := api.Group("/analyses")
	analyses.Post("/", h.Analyze)
	analyses.Get("/", h.ListAnalyses)
	analyses.Get("/:id", h.GetAnalysis)
	analyses.Delete("/:id", h.DeleteAnalysis)
	analyses.Get("/:id/similar", h.FindSimilar)
}

// Analyze screens an uploaded resume against the selected roles
// POST /api/analyses (multipart: resume, cover_letter, role..., async)
func (h *ScreeningHandlers) Analyze(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	form, err := c.MultipartForm()
	if err != nil {
		return screening.ErrInvalidRequest().WithDetail("error", "expected multipart form data")
	}

	resume, err := readFormFile(form, "resume")
	if err != nil {
		return err
	}
	if resume == nil {
		return screening.ErrResumeRequired()
	}
	coverLetter, err := readFormFile(form, "cover_letter")
	if err != nil {
		return err
	}

	req := screening.AnalyzeRequest{
		UserID:      authCtx.UserID,
		Resume:      resume,
		CoverLetter: coverLetter,
		Roles:       formRoles(form),
	}

	if isTrue(formValue(form, "async")) {
		accepted, err := h.service.AnalyzeAsync(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"message":    accepted.Message,
			"job":        accepted,
			"status_url": "/api/analyses/" + accepted.AnalysisID.String(),
		})
	}

	resp, err := h.service.Analyze(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetAnalysis returns one analysis
// GET /api/analyses/:id
func (h *ScreeningHandlers) GetAnalysis(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	resp, err := h.service.GetAnalysis(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListAnalyses lists the caller's analyses. Admins may pass all=true.
// GET /api/analyses?page=1&page_size=20&all=false
func (h *ScreeningHandlers) ListAnalyses(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	pagination := kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", kernel.DefaultPageSize),
	}
	resp, err := h.service.ListAnalyses(c.UserContext(), toActor(authCtx), c.QueryBool("all", false), pagination)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteAnalysis removes an analysis and its stored files
// DELETE /api/analyses/:id
func (h *ScreeningHandlers) DeleteAnalysis(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteAnalysis(c.UserContext(), actor, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// FindSimilar lists completed analyses with the nearest feature vectors
// GET /api/analyses/:id/similar?limit=5
func (h *ScreeningHandlers) FindSimilar(c *fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	similar, err := h.service.FindSimilar(c.UserContext(), actor, id, c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"analysis_id": id,
		"similar":     similar,
	})
}

// ListRoles returns the roles the scorer can evaluate
// GET /api/roles
func (h *ScreeningHandlers) ListRoles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"roles": h.service.ListRoles()})
}

// ============================================================================
// Helpers
// ============================================================================

func toActor(a *auth.AuthContext) screening.Actor {
	return screening.Actor{UserID: a.UserID, IsAdmin: a.IsAdmin()}
}

func actorAndID(c *fiber.Ctx) (screening.Actor, kernel.AnalysisID, error) {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return screening.Actor{}, "", auth.ErrMissingToken()
	}
	id := kernel.NewAnalysisID(strings.TrimSpace(c.Params("id")))
	if id.IsEmpty() {
		return screening.Actor{}, "", screening.ErrInvalidRequest().WithDetail("error", "invalid analysis ID")
	}
	return toActor(authCtx), id, nil
}

// readFormFile returns nil when the field is absent or the client sent an empty part
func readFormFile(form *multipart.Form, field string) (*screening.UploadedFile, error) {
	headers := form.File[field]
	if len(headers) == 0 || headers[0].Filename == "" {
		return nil, nil
	}
	fh := headers[0]
	if fh.Size > screening.MaxFileSize {
		return nil, screening.ErrFileSizeTooLarge().
			WithDetail("file", fh.Filename).
			WithDetail("size", fh.Size).
			WithDetail("max_size", screening.MaxFileSize)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, screening.ErrFileProcessingFailed().WithCause(err).WithDetail("file", fh.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, screening.ErrFileProcessingFailed().WithCause(err).WithDetail("file", fh.Filename)
	}

	return &screening.UploadedFile{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

// formRoles accepts repeated role fields and comma separated lists
func formRoles(form *multipart.Form) []string {
	var roles []string
	for _, key := range []string{"role", "roles"} {
		for _, v := range form.Value[key] {
			for _, r := range strings.Split(v, ",") {
				if r = strings.TrimSpace(r); r != "" {
					roles = append(roles, r)
				}
			}
		}
	}
	return roles
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func isTrue(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
