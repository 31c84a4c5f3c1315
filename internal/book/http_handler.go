package book

import (
	"errors"
	"log/slog"
	"net/http"

	"bookclub/internal/httpx"
)

// AddFormName scopes the anti-forgery tokens issued for the add form.
const AddFormName = "add-book"

// Messages shown inline on the add form.
const (
	MsgDuplicate    = "Ta książka jest już w bazie"
	MsgInvalidToken = "Formularz wygasł, spróbuj ponownie"
)

// Renderer writes a named HTML page.
type Renderer interface {
	Render(w http.ResponseWriter, status int, page string, data any)
}

// FormTokens issues and verifies anti-forgery form tokens.
type FormTokens interface {
	Issue(form string) (string, error)
	Verify(form, token string) error
}

// Page views.
type (
	HomeView struct {
		Newest []Headline
		ToWarn []string
	}
	BooksView struct {
		Table Table
	}
	AddView struct {
		Form    Form
		Options FormOptions
		Errors  map[string]string
		Info    string
		Token   string
	}
	PlaceholderView struct {
		Title string
	}
	ErrorView struct {
		Status    int
		Message   string
		RequestID string
	}
)

type HTTPHandler struct {
	service *Service
	pages   Renderer
	tokens  FormTokens
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, pages Renderer, tokens FormTokens, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler{service: service, pages: pages, tokens: tokens, logger: logger}
}

// Home handles GET /
func (h *HTTPHandler) Home(w http.ResponseWriter, r *http.Request) {
	digest, err := h.service.Digest(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.pages.Render(w, http.StatusOK, "index", HomeView{Newest: digest.Newest, ToWarn: digest.ToWarn})
}

// Books handles GET /books
func (h *HTTPHandler) Books(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.Table(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.pages.Render(w, http.StatusOK, "books", BooksView{Table: table})
}

// AddForm handles GET /add
func (h *HTTPHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, AddView{})
}

// Submit handles POST /add
func (h *HTTPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.pages.Render(w, http.StatusBadRequest, "error", ErrorView{
			Status:    http.StatusBadRequest,
			Message:   "Niepoprawne zapytanie",
			RequestID: httpx.RequestIDFrom(r),
		})
		return
	}

	form := Form{
		Author:      r.PostForm.Get("author"),
		Title:       r.PostForm.Get("title"),
		Genre:       r.PostForm.Get("genre"),
		Contributor: r.PostForm.Get("contributor"),
		Review:      r.PostForm.Get("review"),
	}

	if err := h.tokens.Verify(AddFormName, r.PostForm.Get("token")); err != nil {
		h.logger.Warn("form token rejected",
			slog.String("request_id", httpx.RequestIDFrom(r)),
			slog.String("error", err.Error()),
		)
		h.renderForm(w, r, http.StatusBadRequest, AddView{Form: form, Info: MsgInvalidToken})
		return
	}

	added, err := h.service.Submit(r.Context(), form)
	if err != nil {
		if verr, ok := IsValidation(err); ok {
			h.renderForm(w, r, http.StatusUnprocessableEntity, AddView{Form: form, Errors: verr.ByField()})
			return
		}
		if errors.Is(err, ErrDuplicate) {
			h.renderForm(w, r, http.StatusConflict, AddView{Form: form, Info: MsgDuplicate})
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.logger.Info("book added",
		slog.String("request_id", httpx.RequestIDFrom(r)),
		slog.String("title", added.Title),
		slog.String("contributor", added.Contributor),
	)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Placeholder returns a handler for a view that is not implemented yet.
func (h *HTTPHandler) Placeholder(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.pages.Render(w, http.StatusOK, "placeholder", PlaceholderView{Title: title})
	}
}

func (h *HTTPHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, view AddView) {
	opts, err := h.service.FormOptions(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	token, err := h.tokens.Issue(AddFormName)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	view.Options = opts
	view.Token = token
	h.pages.Render(w, status, "add", view)
}

func (h *HTTPHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := httpx.RequestIDFrom(r)
	h.logger.Error("request failed",
		slog.String("request_id", requestID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	h.pages.Render(w, http.StatusInternalServerError, "error", ErrorView{
		Status:    http.StatusInternalServerError,
		Message:   "Wystąpił błąd, spróbuj ponownie później",
		RequestID: requestID,
	})
}
