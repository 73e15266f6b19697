package mocktest

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/emandor/mocktest_service/internal/config"
	"github.com/emandor/mocktest_service/internal/middleware"
	"github.com/emandor/mocktest_service/internal/model"
	"github.com/emandor/mocktest_service/internal/providers"
	"github.com/emandor/mocktest_service/internal/session"
	"github.com/emandor/mocktest_service/internal/telemetry"
)

type Handler struct {
	svc *Service
}

// BuildClient picks the completion backend from config. All backends share
// one outbound limiter.
func BuildClient(cfg *config.Config) (providers.Client, error) {
	opts := providers.Options{
		DryRun:  cfg.DryRun,
		Limiter: providers.NewLimiter(cfg.ProviderRPS, cfg.ProviderBurst),
	}
	switch cfg.CompletionProvider {
	case "anthropic", "claude":
		opts.BaseURL, opts.Model = cfg.AnthropicBaseURL, cfg.AnthropicModel
	case "gemini":
		opts.BaseURL, opts.Model = cfg.GeminiBaseURL, cfg.GeminiModel
	default:
		opts.BaseURL, opts.Model = cfg.OpenAIBaseURL, cfg.OpenAIModel
	}
	return providers.New(cfg.CompletionProvider, opts)
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ListPapers(c *fiber.Ctx) error {
	return c.JSON(Papers)
}

func (h *Handler) ListPredefinedQuestions(c *fiber.Ctx) error {
	return c.JSON(PredefinedQuestions)
}

func (h *Handler) GetSession(c *fiber.Ctx) error {
	st, err := h.svc.State(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(st)
}

type sessionPatch struct {
	Paper           *string   `json:"paper"`
	CustomQuestions *string   `json:"custom_questions"`
	ArticleLinks    *string   `json:"article_links"`
	Topics          *string   `json:"topics"`
	Predefined      *[]string `json:"predefined"`
}

func (p sessionPatch) actions() ([]session.Action, error) {
	var actions []session.Action
	if p.Paper != nil {
		if _, ok := FindPaper(*p.Paper); *p.Paper != "" && !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPaper, *p.Paper)
		}
		actions = append(actions, session.SelectPaper{Code: *p.Paper})
	}
	if p.CustomQuestions != nil {
		actions = append(actions, session.SetCustomQuestions{Raw: *p.CustomQuestions})
	}
	if p.ArticleLinks != nil {
		actions = append(actions, session.SetArticleLinks{Raw: *p.ArticleLinks})
	}
	if p.Topics != nil {
		actions = append(actions, session.SetTopics{Raw: *p.Topics})
	}
	if p.Predefined != nil {
		for _, id := range *p.Predefined {
			if !IsPredefined(id) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
			}
		}
		actions = append(actions, session.SelectLatest{IDs: *p.Predefined})
	}
	return actions, nil
}

func (h *Handler) PatchSession(c *fiber.Ctx) error {
	var body sessionPatch
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	actions, err := body.actions()
	if err != nil {
		return h.fail(c, err)
	}
	st, err := h.svc.Apply(c.UserContext(), middleware.SessionID(c), actions...)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(st)
}

func (h *Handler) TogglePredefined(c *fiber.Ctx) error {
	id := c.Params("id")
	if !IsPredefined(id) {
		return h.fail(c, fmt.Errorf("%w: %s", ErrUnknownQuestion, id))
	}
	st, err := h.svc.Apply(c.UserContext(), middleware.SessionID(c), session.ToggleLatest{ID: id})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(st)
}

type generateBody struct {
	APIKey string `json:"api_key" form:"api_key"`
}

func (h *Handler) Generate(c *fiber.Ctx) error {
	var body generateBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	sid := middleware.SessionID(c)
	log := telemetry.Request(middleware.RequestIDOf(c), sid)

	test, err := h.svc.Generate(c.UserContext(), sid, body.APIKey)
	if err != nil {
		log.Warn().Err(err).Msg("generate_failed")
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"test":   test,
		"text":   FormatText(test),
		"notice": successNotice(test),
	})
}

func (h *Handler) ResetSession(c *fiber.Ctx) error {
	st, err := h.svc.Reset(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(st)
}

// TestText serves the export text for the clipboard.
func (h *Handler) TestText(c *fiber.Ctx) error {
	test, err := h.svc.CurrentTest(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(FormatText(test))
}

func (h *Handler) TestDownload(c *fiber.Ctx) error {
	test, err := h.svc.CurrentTest(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return h.fail(c, err)
	}
	c.Attachment(FileName(test, h.svc.now()))
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(FormatText(test))
}

func successNotice(t model.GeneratedTest) string {
	return fmt.Sprintf("Successfully generated %d questions for %s", len(t.Questions), t.PaperLabel)
}

// statusOf maps service errors onto HTTP statuses and the user-facing text.
// Completion failures are flattened to one generic notice.
func statusOf(err error) (int, string) {
	switch {
	case IsValidation(err):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, ErrGenerationInProgress), errors.Is(err, session.ErrBusy):
		return fiber.StatusConflict, ErrGenerationInProgress.Error()
	case errors.Is(err, ErrGenerationFailure):
		return fiber.StatusBadGateway, ErrGenerationFailure.Error()
	case errors.Is(err, ErrNoTest):
		return fiber.StatusNotFound, ErrNoTest.Error()
	default:
		return fiber.StatusInternalServerError, "internal error"
	}
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status, msg := statusOf(err)
	if status == fiber.StatusInternalServerError {
		log := telemetry.Request(middleware.RequestIDOf(c), middleware.SessionID(c))
		log.Error().Err(err).Msg("request_failed")
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
