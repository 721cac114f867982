package main

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"mediatracker/internal/auth"
	"mediatracker/internal/book"
	"mediatracker/internal/bookinfo"
	"mediatracker/internal/httpx"
	"mediatracker/internal/movie"
	"mediatracker/internal/movieinfo"
	"mediatracker/internal/session"
	"mediatracker/internal/upload"
	"mediatracker/internal/user"
)

// uploadPath enforces its own size limit, larger than MaxBodyBytes.
const uploadPath = "/api/upload"

type handlers struct {
	Auth      *auth.HTTPHandler
	Users     *user.HTTPHandler
	Sessions  *session.HTTPHandler
	Books     *book.HTTPHandler
	Movies    *movie.HTTPHandler
	BookInfo  *bookinfo.HTTPHandler
	MovieInfo *movieinfo.HTTPHandler
	Upload    *upload.HTTPHandler
}

type routerConfig struct {
	JWTSecret    string
	Blacklist    httpx.BlacklistChecker
	CORSOrigins  []string
	EnableHSTS   bool
	MaxBodyBytes int64
	RateLimiter  *httpx.RateLimitMiddleware
	UploadDir    string
	Ready        func(ctx context.Context) error
}

func newRouter(h handlers, rc routerConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if rc.Ready != nil {
			if err := rc.Ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if rc.UploadDir != "" {
		files := http.FileServer(noListingFS{http.Dir(rc.UploadDir)})
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", files))
	}

	mux.HandleFunc("POST /api/users/register", h.Users.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)

	protect := httpx.AuthMiddleware(rc.JWTSecret, rc.Blacklist)
	authed := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, protect(fn))
	}

	authed("POST /api/auth/logout", h.Auth.Logout)
	authed("GET /api/me", h.Users.Me)
	authed("GET /api/me/sessions", h.Sessions.ListSessions)
	authed("DELETE /api/me/sessions/{id}", h.Sessions.DeleteSession)

	authed("GET /api/books", h.Books.List)
	authed("POST /api/books", h.Books.Create)
	authed("GET /api/books/{id}", h.Books.Get)
	authed("PUT /api/books/{id}", h.Books.Update)
	authed("DELETE /api/books/{id}", h.Books.Delete)

	authed("GET /api/movies", h.Movies.List)
	authed("POST /api/movies", h.Movies.Create)
	authed("GET /api/movies/{id}", h.Movies.Get)
	authed("PUT /api/movies/{id}", h.Movies.Update)
	authed("DELETE /api/movies/{id}", h.Movies.Delete)

	authed("POST /api/book-info", h.BookInfo.Lookup)
	authed("POST /api/movie-info", h.MovieInfo.Lookup)
	authed("POST "+uploadPath, h.Upload.Upload)

	mws := []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware(rc.EnableHSTS),
		httpx.CORSMiddleware(rc.CORSOrigins),
	}
	if rc.RateLimiter != nil {
		mws = append(mws, rc.RateLimiter.Middleware)
	}
	mws = append(mws, httpx.RequestSizeLimitMiddleware(rc.MaxBodyBytes, uploadPath))

	return httpx.Chain(mux, mws...)
}

// noListingFS hides directories so /uploads/ cannot be enumerated.
type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
