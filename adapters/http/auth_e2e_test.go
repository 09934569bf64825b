package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AuthE2ETestSuite struct {
	suite.Suite
	srv *testServer
}

func (s *AuthE2ETestSuite) SetupTest() {
	s.srv = newTestServer(s.T(), nil)
}

func TestAuthE2E(t *testing.T) {
	suite.Run(t, new(AuthE2ETestSuite))
}

func (s *AuthE2ETestSuite) loginRequest(username, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(gin.H{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return s.srv.do(req)
}

func (s *AuthE2ETestSuite) Test_Login_Flow() {
	rrBad := s.loginRequest(testUsername, "wrongpassword")
	assert.Equal(s.T(), http.StatusUnauthorized, rrBad.Code)
	assert.False(s.T(), s.srv.guard.IsAuthenticated())

	rrGood := s.loginRequest(testUsername, testPassword)
	assert.Equal(s.T(), http.StatusOK, rrGood.Code)

	var loginResponse LoginResponse
	json.Unmarshal(rrGood.Body.Bytes(), &loginResponse)
	accessToken := loginResponse.AccessToken
	assert.NotEmpty(s.T(), accessToken)

	rrAuth := s.srv.do(jsonRequest(http.MethodGet, "/api/admin/notices", accessToken, nil))
	assert.Equal(s.T(), http.StatusOK, rrAuth.Code)

	rrNoAuth := s.srv.do(jsonRequest(http.MethodGet, "/api/admin/notices", "", nil))
	assert.Equal(s.T(), http.StatusUnauthorized, rrNoAuth.Code)
}

func (s *AuthE2ETestSuite) Test_Failure_Is_Generic() {
	wrongUser := s.loginRequest("root", testPassword)
	wrongPass := s.loginRequest(testUsername, "nope")

	assert.Equal(s.T(), http.StatusUnauthorized, wrongUser.Code)
	assert.Equal(s.T(), wrongUser.Body.String(), wrongPass.Body.String())

	missing := s.srv.do(jsonRequest(http.MethodPost, "/api/admin/auth/login", "", gin.H{"username": testUsername}))
	assert.Equal(s.T(), http.StatusBadRequest, missing.Code)
}

func (s *AuthE2ETestSuite) Test_Logout_Revokes_Token() {
	token := s.srv.login(s.T())

	rr := s.srv.do(jsonRequest(http.MethodGet, "/api/admin/session", "", nil))
	var sess SessionResponse
	json.Unmarshal(rr.Body.Bytes(), &sess)
	assert.True(s.T(), sess.Authenticated)
	assert.Equal(s.T(), testUsername, sess.Username)

	rr = s.srv.do(jsonRequest(http.MethodPost, "/api/admin/auth/logout", token, nil))
	assert.Equal(s.T(), http.StatusNoContent, rr.Code)

	rr = s.srv.do(jsonRequest(http.MethodGet, "/api/admin/notices", token, nil))
	assert.Equal(s.T(), http.StatusUnauthorized, rr.Code)

	rr = s.srv.do(jsonRequest(http.MethodGet, "/api/admin/session", "", nil))
	sess = SessionResponse{}
	json.Unmarshal(rr.Body.Bytes(), &sess)
	assert.False(s.T(), sess.Authenticated)
}

func (s *AuthE2ETestSuite) Test_Invalid_Token_Format() {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/notices", nil)
	req.Header.Set("Authorization", "Token abc")
	rr := s.srv.do(req)
	assert.Equal(s.T(), http.StatusUnauthorized, rr.Code)

	rr = s.srv.do(jsonRequest(http.MethodGet, "/api/admin/notices", "not.a.jwt", nil))
	assert.Equal(s.T(), http.StatusUnauthorized, rr.Code)
}
