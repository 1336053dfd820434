// Package server is the dev attendance backend: the REST surface the client
// consumes, with pluggable day-state and event-log backends.
package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"presence/internal/attendance"
	"presence/internal/config"
)

var (
	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "presence_logins_total",
		Help: "Login attempts by result.",
	}, []string{"result"})
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "presence_submissions_total",
		Help: "Attendance submissions by action and result.",
	}, []string{"action", "result"})
)

// Server wires the attendance endpoints over a state store and an optional
// event log.
type Server struct {
	cfg    config.App
	state  StateStore
	events EventLog
	now    func() time.Time
}

// New creates a server. events may be nil.
func New(cfg config.App, state StateStore, events EventLog) *Server {
	return &Server{cfg: cfg, state: state, events: events, now: time.Now}
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(securityHeaders())
	r.Use(newTokenBucket(s.cfg.RateLimitPerMin, s.cfg.RateLimitPerMin).middleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", s.handleHealthz)
	r.POST("/auth/login", s.handleLogin)

	authed := r.Group("/", BearerAuth(s.cfg.JWTSigningKey, s.cfg.JWTIssuer))
	authed.GET("/attendance/status", s.handleStatus)
	authed.POST("/attendance", s.handleSubmit)
	authed.GET("/attendance/events", s.handleEvents)

	return r
}

func (s *Server) handleHealthz(c *gin.Context) {
	status := http.StatusOK
	redisHealthy := true
	if rs, ok := s.state.(*RedisState); ok {
		redisHealthy = rs.Healthy(c.Request.Context())
	}
	dbHealthy := true
	if pl, ok := s.events.(*PostgresLog); ok {
		dbHealthy = pl.Healthy(c.Request.Context())
	}
	if !redisHealthy || !dbHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		loginsTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password required"})
		return
	}

	if req.Email != s.cfg.DevEmail || req.Password != s.cfg.DevPassword {
		loginsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	token, exp, err := IssueToken(req.Email, s.cfg.DevName, s.cfg.JWTIssuer, s.cfg.JWTSigningKey, s.cfg.AccessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "token issue failed"})
		return
	}

	loginsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"name":       s.cfg.DevName,
		"email":      req.Email,
		"expires_at": exp.Unix(),
		"message":    "Login successful",
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	claims := mustClaims(c)
	st, err := s.state.Day(c.Request.Context(), claims.Subject, s.day())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "status lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": st})
}

func (s *Server) handleSubmit(c *gin.Context) {
	claims := mustClaims(c)

	var req attendance.Submission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}

	checkIn := req.CheckInLocation != "" || req.CheckInPhoto != ""
	checkOut := req.CheckOutLocation != "" || req.CheckOutPhoto != ""
	if checkIn == checkOut {
		c.JSON(http.StatusBadRequest, gin.H{"message": "exactly one of check-in or check-out expected"})
		return
	}

	ctx := c.Request.Context()
	day := s.day()
	st, err := s.state.Day(ctx, claims.Subject, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "status lookup failed"})
		return
	}

	now := s.now().Format("15:04")
	var action, loc string
	switch {
	case checkIn:
		action, loc = attendance.ActionCheckIn.String(), req.CheckInLocation
		if st.CheckInTime != "" {
			submissionsTotal.WithLabelValues(action, "conflict").Inc()
			c.JSON(http.StatusConflict, gin.H{"message": "Already checked in today"})
			return
		}
		st.CheckInTime = now
	default:
		action, loc = attendance.ActionCheckOut.String(), req.CheckOutLocation
		if st.CheckInTime == "" {
			submissionsTotal.WithLabelValues(action, "conflict").Inc()
			c.JSON(http.StatusConflict, gin.H{"message": "No check-in recorded today"})
			return
		}
		if st.CheckOutTime != "" {
			submissionsTotal.WithLabelValues(action, "conflict").Inc()
			c.JSON(http.StatusConflict, gin.H{"message": "Already checked out today"})
			return
		}
		st.CheckOutTime = now
	}

	if err := s.state.SetDay(ctx, claims.Subject, day, st); err != nil {
		submissionsTotal.WithLabelValues(action, "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"message": "record update failed"})
		return
	}

	if s.events != nil {
		evt := Event{Email: claims.Subject, Action: action, Location: loc, OccurredAt: s.now().UTC()}
		if err := s.events.Insert(ctx, evt); err != nil {
			log.Printf("event log insert failed: %v", err)
		}
	}

	submissionsTotal.WithLabelValues(action, "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Attendance recorded", "data": st})
}

func (s *Server) handleEvents(c *gin.Context) {
	if s.events == nil {
		c.JSON(http.StatusOK, gin.H{"events": []Event{}})
		return
	}
	claims := mustClaims(c)
	events, err := s.events.List(c.Request.Context(), claims.Subject, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "event lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (s *Server) day() string {
	return s.now().Format("2006-01-02")
}

func mustClaims(c *gin.Context) Claims {
	claimsAny, _ := c.Get("claims")
	claims, _ := claimsAny.(Claims)
	return claims
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}
