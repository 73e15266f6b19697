package mocktest

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/emandor/mocktest_service/internal/middleware"
	"github.com/emandor/mocktest_service/internal/model"
	"github.com/emandor/mocktest_service/internal/session"
	"github.com/emandor/mocktest_service/internal/telemetry"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type checkbox struct {
	model.PredefinedQuestion
	Checked bool
}

type pageData struct {
	Papers     []model.Paper
	Predefined []checkbox
	Params     model.Params
	Test       *model.GeneratedTest
	Text       string
	Notice     string
	Error      string
}

func newPageData(st session.State) pageData {
	d := pageData{Papers: Papers, Params: st.Params, Test: st.Test}
	for _, q := range PredefinedQuestions {
		d.Predefined = append(d.Predefined, checkbox{PredefinedQuestion: q, Checked: st.Params.HasPredefined(q.ID)})
	}
	if st.Test != nil {
		d.Text = FormatText(*st.Test)
	}
	return d
}

func render(c *fiber.Ctx, status int, d pageData) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "index.html", d); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

// Index shows the form, or the results view once a test exists.
func (h *Handler) Index(c *fiber.Ctx) error {
	st, err := h.svc.State(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	d := newPageData(st)
	if c.Query("generated") != "" && st.Test != nil {
		d.Notice = successNotice(*st.Test)
	}
	return render(c, fiber.StatusOK, d)
}

// Submit stores the posted form fields and generates. The API key is read
// from the form and never written back into the page.
func (h *Handler) Submit(c *fiber.Ctx) error {
	sid := middleware.SessionID(c)
	ctx := c.UserContext()

	var ids []string
	for _, v := range c.Request().PostArgs().PeekMulti("predefined") {
		if id := string(v); IsPredefined(id) {
			ids = append(ids, id)
		}
	}
	paper := c.FormValue("paper")
	if _, ok := FindPaper(paper); !ok {
		paper = ""
	}

	_, err := h.svc.Apply(ctx, sid,
		session.SelectPaper{Code: paper},
		session.SetCustomQuestions{Raw: c.FormValue("custom_questions")},
		session.SetArticleLinks{Raw: c.FormValue("article_links")},
		session.SetTopics{Raw: c.FormValue("topics")},
		session.SelectLatest{IDs: ids},
	)
	if err == nil {
		_, err = h.svc.Generate(ctx, sid, c.FormValue("api_key"))
	}
	if err != nil {
		log := telemetry.Request(middleware.RequestIDOf(c), sid)
		log.Warn().Err(err).Msg("generate_failed")
		status, msg := statusOf(err)
		if status == fiber.StatusInternalServerError {
			return err
		}
		return h.renderError(c, status, msg)
	}
	return c.Redirect("/?generated=1", fiber.StatusSeeOther)
}

// RateLimited answers a refused form submit with the page and a notice.
func (h *Handler) RateLimited(c *fiber.Ctx) error {
	return h.renderError(c, fiber.StatusTooManyRequests, "too many mock tests requested, please wait a minute and try again")
}

func (h *Handler) renderError(c *fiber.Ctx, status int, msg string) error {
	st, err := h.svc.State(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	d := newPageData(st)
	d.Error = msg
	return render(c, status, d)
}

func (h *Handler) ResetPage(c *fiber.Ctx) error {
	if _, err := h.svc.Reset(c.UserContext(), middleware.SessionID(c)); err != nil {
		status, msg := statusOf(err)
		if status == fiber.StatusInternalServerError {
			return err
		}
		return h.renderError(c, status, msg)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}
