package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"jobboard-bot/internal/storage"

	"github.com/gin-gonic/gin"
)

// Server is the public HTTP surface: redirect deep links from published
// channel posts plus a health probe.
type Server struct {
	store *storage.Storage
	http  *http.Server
}

func NewServer(addr string, store *storage.Storage) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{store: store}
	router.GET("/job-posts/redirect/:publicID", s.handleRedirect)
	router.GET("/job-posts/views/:publicID", s.handleViews)
	router.GET("/healthz", s.handleHealth)

	s.http = &http.Server{Addr: addr, Handler: router}
	return s
}

func (s *Server) Start() error {
	log.Printf("HTTP server listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// handleRedirect resolves a deep link from a channel post button. Every hit
// counts as a view regardless of target.
func (s *Server) handleRedirect(c *gin.Context) {
	publicID := c.Param("publicID")
	post, err := s.store.GetPostByPublicID(publicID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.String(http.StatusNotFound, "not found")
			return
		}
		log.Printf("Failed to load post %s for redirect: %v", publicID, err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	if err := s.store.IncrementViews(publicID); err != nil {
		log.Printf("Failed to count view for post %s: %v", publicID, err)
	}

	switch c.Query("target") {
	case "contact":
		username := strings.TrimPrefix(post.Fields.Username, "@")
		if username == "" {
			c.String(http.StatusNotFound, "not found")
			return
		}
		c.Redirect(http.StatusFound, "https://t.me/"+username)
	case "portfolio":
		if post.Fields.Portfolio == "" {
			c.String(http.StatusNotFound, "not found")
			return
		}
		c.Redirect(http.StatusFound, post.Fields.Portfolio)
	case "views":
		c.Redirect(http.StatusFound, "/job-posts/views/"+publicID)
	default:
		c.String(http.StatusBadRequest, "unknown target")
	}
}

func (s *Server) handleViews(c *gin.Context) {
	publicID := c.Param("publicID")
	views, err := s.store.GetViews(publicID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		log.Printf("Failed to load views for post %s: %v", publicID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"public_id": publicID, "views": views})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
