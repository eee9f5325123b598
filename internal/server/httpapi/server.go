// Package httpapi exposes the page lifecycle and session operations over a
// cookie-authenticated JSON API. All requests pass through the access
// gateway middleware before reaching a handler.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/2witstudios/pagespace/internal/logging"
	"github.com/2witstudios/pagespace/internal/server/config"
	"github.com/2witstudios/pagespace/internal/server/services"
)

type Server struct {
	address       string
	secureCookies bool
	accessMaxAge  time.Duration
	refreshMaxAge time.Duration

	logger   logging.Logger
	sessions *services.SessionService
	access   *services.AccessService
	trash    *services.TrashService
	pages    *services.PageService
	drives   *services.DriveService
	files    *services.FileService
}

func NewServer(cfg *config.Config, logger logging.Logger,
	sessions *services.SessionService, access *services.AccessService,
	trash *services.TrashService, pages *services.PageService,
	drives *services.DriveService, files *services.FileService) *Server {
	return &Server{
		address:       cfg.EndpointAddrHTTP,
		secureCookies: cfg.SecureCookies,
		accessMaxAge:  cfg.AccessTokenValidityDuration,
		refreshMaxAge: cfg.RefreshTokenValidityDuration,
		logger:        logger.With("module", "http_server"),
		sessions:      sessions,
		access:        access,
		trash:         trash,
		pages:         pages,
		drives:        drives,
		files:         files,
	}
}

// Handler builds the route table and wraps it in the access gateway.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()

	router.POST("/api/auth/signup", s.handleSignup)
	router.POST("/api/auth/login", s.handleLogin)
	router.POST("/api/auth/refresh", s.handleRefresh)
	router.POST("/api/auth/logout", s.handleLogout)
	router.GET("/api/auth/csrf", s.handleCSRF)

	router.POST("/api/drives", s.handleCreateDrive)
	router.GET("/api/drives/:driveID/trash", s.handleDriveTrash)

	router.POST("/api/pages", s.handleCreatePage)
	router.POST("/api/pages/:pageID/move", s.handleMovePage)
	router.POST("/api/pages/:pageID/trash", s.handleTrashPage)
	router.POST("/api/pages/:pageID/restore", s.handleRestorePage)
	router.DELETE("/api/pages/:pageID", s.handleDeletePage)
	router.GET("/api/pages/:pageID/breadcrumbs", s.handleBreadcrumbs)
	router.POST("/api/pages/:pageID/permissions", s.handleGrantPermission)
	router.DELETE("/api/pages/:pageID/permissions/:permissionID", s.handleRevokePermission)

	router.POST("/api/files/upload-url", s.handleUploadURL)
	router.GET("/api/files/:attachmentID/url", s.handleDownloadURL)

	return s.gateway(router)
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
