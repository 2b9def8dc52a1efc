package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"droscher.com/FreshTaps/configs"
	"droscher.com/FreshTaps/pkg/auth"
)

type AuthTestSuite struct {
	suite.Suite
	manager *auth.Manager
}

func TestAuthTestSuite(t *testing.T) {
	suite.Run(t, new(AuthTestSuite))
}

func (suite *AuthTestSuite) SetupTest() {
	conf := &configs.Config{Auth: configs.Auth{SecretKey: "test-secret"}}
	suite.manager = auth.NewAuthManager(conf, zaptest.NewLogger(suite.T()))
}

func (suite *AuthTestSuite) protected() http.Handler {
	return suite.manager.RequireAdmin(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, found := request.Context().Value(auth.ClaimsKey{}).(jwt.MapClaims)
		suite.True(found)
		writer.WriteHeader(http.StatusOK)
	}))
}

func (suite *AuthTestSuite) signedToken(secret string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "admin@freshtaps.local",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	suite.Require().NoError(err)

	return signed
}

func (suite *AuthTestSuite) TestRequireAdmin_AllowsValidToken() {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/admin/venues/add", nil)
	request.Header.Set("Authorization", "Bearer "+suite.signedToken("test-secret"))

	suite.protected().ServeHTTP(recorder, request)

	suite.Equal(http.StatusOK, recorder.Code)
}

func (suite *AuthTestSuite) TestRequireAdmin_RejectsMissingHeader() {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/admin/venues/add", nil)

	suite.protected().ServeHTTP(recorder, request)

	suite.Equal(http.StatusUnauthorized, recorder.Code)
	suite.Contains(recorder.Body.String(), "authorization header not found")
}

func (suite *AuthTestSuite) TestRequireAdmin_RejectsWrongSecret() {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/admin/venues/add", nil)
	request.Header.Set("Authorization", "Bearer "+suite.signedToken("other-secret"))

	suite.protected().ServeHTTP(recorder, request)

	suite.Equal(http.StatusUnauthorized, recorder.Code)
}

func (suite *AuthTestSuite) TestRequireAdmin_RejectsMalformedHeader() {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/admin/venues/add", nil)
	request.Header.Set("Authorization", "Token abc123")

	suite.protected().ServeHTTP(recorder, request)

	suite.Equal(http.StatusUnauthorized, recorder.Code)
	suite.Contains(recorder.Body.String(), "Bearer")
}

func (suite *AuthTestSuite) TestRequireAdmin_RejectsWhenNoSecretConfigured() {
	manager := auth.NewAuthManager(&configs.Config{}, zaptest.NewLogger(suite.T()))
	handler := manager.RequireAdmin(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/admin/venues/add", nil)
	request.Header.Set("Authorization", "Bearer "+suite.signedToken("test-secret"))

	handler.ServeHTTP(recorder, request)

	suite.Equal(http.StatusUnauthorized, recorder.Code)
}
