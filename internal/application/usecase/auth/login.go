package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/domain/session"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/auth"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
	"github.com/khoahotran/portfolio-cms/pkg/metrics"
)

var (
	ErrNoCredentials = errors.New("admin credentials are not configured")
	ErrLoggedOut     = errors.New("session is logged out")
)

// Credentials is the single admin identity. PasswordHash is a bcrypt hash.
type Credentials struct {
	Username     string
	PasswordHash string
}

// ResolveCredentials prefers an explicit hash and otherwise hashes the
// plaintext password once at startup.
func ResolveCredentials(username, password, passwordHash string) (Credentials, error) {
	if username == "" || (password == "" && passwordHash == "") {
		return Credentials{}, ErrNoCredentials
	}
	if passwordHash != "" {
		return Credentials{Username: username, PasswordHash: passwordHash}, nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Username: username, PasswordHash: hash}, nil
}

// Guard is the process-wide authenticated flag gating the admin surface. The
// flag survives restarts through the marker store.
type Guard struct {
	mu        sync.RWMutex
	state     session.State
	current   *session.Session
	loggedOut time.Time
	creds     Credentials
	markers   session.MarkerStore
	jwtSvc    *auth.JWTService
	recorder  *metrics.Recorder
	logger    logger.Logger
}

func NewGuard(creds Credentials, markers session.MarkerStore, jwtSvc *auth.JWTService, recorder *metrics.Recorder, log logger.Logger) *Guard {
	if creds.Username == "" || creds.PasswordHash == "" {
		log.Warn("Admin credentials not configured, every login will be rejected")
	}
	return &Guard{
		state:    session.StateLoggedOut,
		creds:    creds,
		markers:  markers,
		jwtSvc:   jwtSvc,
		recorder: recorder,
		logger:   log,
	}
}

type LoginInput struct {
	Username string
	Password string
}

type LoginOutput struct {
	AccessToken string
	Session     session.Session
}

var tracer = otel.Tracer("auth_usecase")

func (g *Guard) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	// both checks always run so a wrong username costs the same as a wrong password
	userOK := g.creds.Username != "" && auth.EqualConstantTime(input.Username, g.creds.Username)
	passOK := g.creds.PasswordHash != "" && auth.CheckPasswordHash(input.Password, g.creds.PasswordHash)
	if !userOK || !passOK {
		g.recorder.RecordLogin(false)
		err := apperror.NewUnauthorized("credential mismatch", nil)
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, err
	}

	sess := session.Session{
		ID:        uuid.New(),
		Username:  g.creds.Username,
		StartedAt: time.Now().UTC(),
	}
	token, err := g.jwtSvc.GenerateToken(sess.Username, sess.ID)
	if err != nil {
		g.logger.Error("Failed to generate token", err)
		err = apperror.NewInternal("failed to generate token", err)
		span.RecordError(err)
		return nil, err
	}

	g.mu.Lock()
	g.state = session.StateLoggedIn
	g.current = &sess
	g.mu.Unlock()

	if err := g.markers.Set(ctx, session.MarkerValue); err != nil {
		g.logger.Warn("Failed to persist auth marker, session will not survive restart", zap.Error(err))
	}

	g.recorder.RecordLogin(true)
	span.SetAttributes(attribute.String("session_id", sess.ID.String()))
	return &LoginOutput{AccessToken: token, Session: sess}, nil
}

// Logout always ends in the logged out state. Tokens issued before this call
// stop being accepted.
func (g *Guard) Logout(ctx context.Context) {
	g.mu.Lock()
	g.state = session.StateLoggedOut
	g.current = nil
	g.loggedOut = time.Now()
	g.mu.Unlock()

	if err := g.markers.Clear(ctx); err != nil {
		g.logger.Warn("Failed to clear auth marker", zap.Error(err))
	}
}

func (g *Guard) IsAuthenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state == session.StateLoggedIn
}

func (g *Guard) State() session.State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Restore reads the persisted marker. A missing or unreadable marker leaves
// the guard logged out.
func (g *Guard) Restore(ctx context.Context) session.State {
	v, err := g.markers.Get(ctx)
	if err != nil {
		g.logger.Warn("Failed to read auth marker, start logged out", zap.Error(err))
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil && v == session.MarkerValue {
		g.state = session.StateLoggedIn
		g.current = &session.Session{Username: g.creds.Username}
	} else {
		g.state = session.StateLoggedOut
		g.current = nil
	}
	return g.state
}

// Authorize accepts a bearer token only while the guard is logged in.
func (g *Guard) Authorize(token string) (*auth.SessionClaims, error) {
	claims, err := g.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid token", err)
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.state != session.StateLoggedIn {
		return nil, apperror.NewUnauthorized("session is logged out", ErrLoggedOut)
	}
	if !g.loggedOut.IsZero() && claims.IssuedAt != nil && claims.IssuedAt.Time.Before(g.loggedOut.Truncate(time.Second)) {
		return nil, apperror.NewUnauthorized("token predates logout", ErrLoggedOut)
	}
	return claims, nil
}

func (g *Guard) Session() (session.Session, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return session.Session{}, false
	}
	return *g.current, true
}
