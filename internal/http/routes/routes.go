package routes

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	scs "github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/briangreenhill/pokedex/internal/dex"
	appmw "github.com/briangreenhill/pokedex/internal/http/middleware"
)

const pageTitle = "Pokédex"

type Server struct {
	Router  *chi.Mux
	Sess    *scs.SessionManager
	Tmpl    *template.Template
	Viewers *Viewers
}

type ServerOptions struct {
	Sess     *scs.SessionManager
	Tmpl     *template.Template
	Resolver dex.Resolver
	Logger   zerolog.Logger

	// Dex options are applied to every new viewer's controller
	Dex []dex.Option
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(hlog.NewHandler(opts.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", chimw.GetReqID(r.Context())).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	}))
	r.Use(chimw.Recoverer)

	dexOpts := append([]dex.Option{dex.WithLogger(opts.Logger)}, opts.Dex...)
	s := &Server{Router: r, Sess: opts.Sess, Tmpl: opts.Tmpl}
	s.Viewers = NewViewers(func() *dex.Controller {
		return dex.New(opts.Resolver, dexOpts...)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("write health check response")
		}
	})

	r.Group(func(pr chi.Router) {
		pr.Use(s.Sess.LoadAndSave)
		pr.Use(appmw.Viewer(s.Sess))

		pr.Get("/", s.handleHome)
		pr.Post("/search", s.handleSearch)
		pr.Post("/next", s.handleNext)
		pr.Post("/prev", s.handlePrev)

		pr.Get("/api/view", s.handleAPIView)
		pr.Post("/api/search", s.handleAPISearch)
		pr.Post("/api/next", s.handleAPINext)
		pr.Post("/api/prev", s.handleAPIPrev)
	})

	return s
}

// controller returns the viewer's controller. A new viewer gets its first
// page loaded before anything else happens.
func (s *Server) controller(r *http.Request) (*dex.Controller, dex.View) {
	id := appmw.ViewerID(r.Context())
	c, created := s.Viewers.Get(id)
	if created {
		hlog.FromRequest(r).Debug().Str("viewer_id", id).Msg("new viewer")
		return c, c.Load(detach(r))
	}
	return c, c.View()
}

// detach keeps request values but drops cancellation, so a resolution
// started by a viewer finishes even if the browser goes away. Other viewers
// may be waiting on the same fetch.
func detach(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Tmpl.ExecuteTemplate(w, name, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("template", name).Msg("render template failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("encode response failed")
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	c, view := s.controller(r)
	// ?q= fills the search box without submitting it
	if q := r.URL.Query(); q.Has("q") {
		c.SetQuery(q.Get("q"))
		view = c.View()
	}
	s.render(w, r, "index", map[string]any{
		"Title": pageTitle,
		"View":  view,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	c, _ := s.controller(r)
	c.Search(detach(r), r.Form.Get("q"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	c, _ := s.controller(r)
	c.NextPage(detach(r))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handlePrev(w http.ResponseWriter, r *http.Request) {
	c, _ := s.controller(r)
	c.PrevPage(detach(r))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAPIView(w http.ResponseWriter, r *http.Request) {
	_, view := s.controller(r)
	s.writeJSON(w, r, view)
}

func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	c, _ := s.controller(r)
	s.writeJSON(w, r, c.Search(detach(r), r.Form.Get("q")))
}

func (s *Server) handleAPINext(w http.ResponseWriter, r *http.Request) {
	c, _ := s.controller(r)
	s.writeJSON(w, r, c.NextPage(detach(r)))
}

func (s *Server) handleAPIPrev(w http.ResponseWriter, r *http.Request) {
	c, _ := s.controller(r)
	s.writeJSON(w, r, c.PrevPage(detach(r)))
}
