package web

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"mcquiz/internal/game"
	"mcquiz/internal/store"
)

//go:embed static/*
var staticFiles embed.FS

// maxFormBytes bounds pasted question text.
const maxFormBytes = 1 << 20

type app struct {
	cfg Config
}

// NewHandler builds the router for the quiz UI and JSON API.
func NewHandler(cfg Config) (http.Handler, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: cfg.Logger, NoColor: true}))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", a.index)
	r.Post("/load", a.load)
	r.Post("/submit", a.submit)
	r.Post("/next", a.action(a.cfg.Game.Next))
	r.Post("/previous", a.action(a.cfg.Game.Previous))
	r.Post("/finish", a.action(a.cfg.Game.Finish))
	r.Post("/restart", a.action(a.cfg.Game.Restart))
	r.Post("/clear", a.action(a.cfg.Game.Clear))

	r.Route("/api", func(r chi.Router) {
		if len(cfg.AllowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   cfg.AllowedOrigins,
				AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
				AllowedHeaders:   []string{"Accept", "Content-Type"},
				AllowCredentials: true,
				MaxAge:           300,
			}))
		}
		r.Get("/state", a.state)
	})
	return r, nil
}

// playerKey returns the session cookie value, issuing a new one when absent.
func (a *app) playerKey(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(a.cfg.CookieName); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(a.cfg.CookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   a.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// index renders the page for the current phase.
func (a *app) index(w http.ResponseWriter, r *http.Request) {
	key := a.playerKey(w, r)
	entry, err := a.cfg.Game.TakeMessages(r.Context(), key)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	templ.Handler(Page(newPageData(entry))).ServeHTTP(w, r)
}

func (a *app) load(w http.ResponseWriter, r *http.Request) {
	if !a.parseForm(w, r) {
		return
	}
	_, err := a.cfg.Game.Load(r.Context(), a.playerKey(w, r), gameLoadRequest(r))
	a.redirect(w, r, err)
}

func (a *app) submit(w http.ResponseWriter, r *http.Request) {
	if !a.parseForm(w, r) {
		return
	}
	_, err := a.cfg.Game.Submit(r.Context(), a.playerKey(w, r), r.PostFormValue("option"))
	a.redirect(w, r, err)
}

type entryAction func(ctx context.Context, key string) (store.Entry, error)

// action adapts a no-argument game call to a POST handler.
func (a *app) action(fn entryAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, err := fn(r.Context(), a.playerKey(w, r))
		a.redirect(w, r, err)
	}
}

func gameLoadRequest(r *http.Request) game.LoadRequest {
	return game.LoadRequest{
		Text:   r.PostFormValue("text"),
		Format: r.PostFormValue("format"),
		Mode:   r.PostFormValue("mode"),
	}
}

// state serves the caller's session snapshot as JSON.
func (a *app) state(w http.ResponseWriter, r *http.Request) {
	key := a.playerKey(w, r)
	entry, err := a.cfg.Game.Entry(r.Context(), key)
	if err != nil {
		a.cfg.Logger.Printf("web: load state: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(entry))
}

func (a *app) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return false
	}
	return true
}

// redirect finishes a POST with post-redirect-get.
func (a *app) redirect(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		a.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *app) fail(w http.ResponseWriter, r *http.Request, err error) {
	a.cfg.Logger.Printf("web: %s %s: %v", r.Method, r.URL.Path, err)
	templ.Handler(ErrorPage("Something went wrong while saving your quiz. Please try again."),
		templ.WithStatus(http.StatusInternalServerError)).ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(payload)
}
