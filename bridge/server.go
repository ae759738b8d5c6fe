// Package bridge exposes a mixing.Simulator over HTTP and provides the
// matching client, so that training can drive a simulator in another process.
package bridge

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zeu5/mixing-rl/mixing"
	"github.com/zeu5/mixing-rl/types"
)

type resetResponse struct {
	Handle string `json:"handle"`
}

type positionsResponse struct {
	Positions [][2]float64 `json:"positions"`
}

type actionRequest struct {
	Direction string `json:"direction" binding:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves a simulator on Addr
type Server struct {
	Addr   string
	ctx    context.Context
	sim    mixing.Simulator
	server *http.Server
}

func NewServer(ctx context.Context, addr string, sim mixing.Simulator) *Server {
	s := &Server{
		Addr: addr,
		ctx:  ctx,
		sim:  sim,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.POST("/episodes", s.handleReset)
	r.GET("/episodes/:handle/positions", s.handlePositions)
	r.POST("/episodes/:handle/actions", s.handleAction)
	r.DELETE("/episodes/:handle", s.handleTeardown)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// Handler returns the routes, used to mount the server in tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, mixing.ErrUnknownHandle):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidDirection):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func abort(c *gin.Context, err error) {
	c.JSON(statusOf(err), errorResponse{Error: err.Error()})
}

func (s *Server) handleReset(c *gin.Context) {
	h, err := s.sim.Reset(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resetResponse{Handle: string(h)})
}

func (s *Server) handlePositions(c *gin.Context) {
	positions, err := s.sim.Positions(c.Request.Context(), mixing.Handle(c.Param("handle")))
	if err != nil {
		abort(c, err)
		return
	}
	out := positionsResponse{Positions: make([][2]float64, len(positions))}
	for i, p := range positions {
		out.Positions[i] = [2]float64{p.X, p.Y}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleAction(c *gin.Context) {
	req := actionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "failed to unmarshal request"})
		return
	}
	d, err := mixing.ParseDirection(req.Direction)
	if err != nil {
		abort(c, err)
		return
	}
	if err := s.sim.Apply(c.Request.Context(), mixing.Handle(c.Param("handle")), d); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (s *Server) handleTeardown(c *gin.Context) {
	if err := s.sim.Teardown(c.Request.Context(), mixing.Handle(c.Param("handle"))); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// Serve blocks until the context is cancelled or the listener fails
func (s *Server) Serve() error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-s.ctx.Done():
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
