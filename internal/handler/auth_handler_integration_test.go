package handler_test

import (
	"net/http"

	"github.com/Baaaki/backyard-marquee/internal/testutil"
)

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       string  `json:"id"`
		Username string  `json:"username"`
		Email    *string `json:"email"`
	} `json:"user"`
}

func (s *HandlerIntegrationTestSuite) TestRegisterSuccess() {
	w := s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "newuser",
		"email":    "newuser@example.com",
		"password": "SecurePass123",
	}, "")

	s.Equal(http.StatusCreated, w.Code)

	var resp authResponse
	s.decode(w, &resp)
	s.NotEmpty(resp.Token)
	s.Equal("newuser", resp.User.Username)
	s.Require().NotNil(resp.User.Email)
	s.Equal("newuser@example.com", *resp.User.Email)
	s.NotContains(w.Body.String(), "password")

	claims, err := s.tokens.Parse(resp.Token)
	s.Require().NoError(err)
	s.Equal(testutil.ParseUUID(s.T(), resp.User.ID), claims.UserID)
}

func (s *HandlerIntegrationTestSuite) TestRegisterWithoutEmail() {
	w := s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "no_email",
		"password": "SecurePass123",
	}, "")

	s.Equal(http.StatusCreated, w.Code)
	var resp authResponse
	s.decode(w, &resp)
	s.Nil(resp.User.Email)
}

func (s *HandlerIntegrationTestSuite) TestRegisterDuplicateUsername() {
	testutil.CreateTestUser(s.T(), s.testDB.DB, "existing", "Pass123")

	w := s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "existing",
		"password": "SecurePass123",
	}, "")

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Username already taken", s.errorOf(w))
}

func (s *HandlerIntegrationTestSuite) TestRegisterInvalidInput() {
	testCases := []struct {
		name     string
		reqBody  map[string]string
		expected string
	}{
		{
			name:     "Missing password",
			reqBody:  map[string]string{"username": "testuser"},
			expected: "Username and password required",
		},
		{
			name:     "Short username",
			reqBody:  map[string]string{"username": "ab", "password": "Pass123456"},
			expected: "Username must be at least 3 characters",
		},
		{
			name:     "Bad characters",
			reqBody:  map[string]string{"username": "bad name", "password": "Pass123456"},
			expected: "Username can only contain letters, numbers, and underscores",
		},
		{
			name:     "Invalid email",
			reqBody:  map[string]string{"username": "testuser", "email": "invalid-email", "password": "Pass123456"},
			expected: "Invalid email format",
		},
		{
			name:     "Short password",
			reqBody:  map[string]string{"username": "testuser", "password": "short"},
			expected: "Password must be at least 6 characters",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			w := s.do(http.MethodPost, "/api/auth/register", tc.reqBody, "")
			s.Equal(http.StatusBadRequest, w.Code)
			s.Equal(tc.expected, s.errorOf(w))
		})
	}
}

func (s *HandlerIntegrationTestSuite) TestRegisterMalformedBody() {
	w := s.do(http.MethodPost, "/api/auth/register", "not an object", "")

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Invalid request body", s.errorOf(w))
}

func (s *HandlerIntegrationTestSuite) TestLoginSuccess() {
	user := testutil.CreateTestUser(s.T(), s.testDB.DB, "loginuser", "LoginPass123")

	w := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "loginuser",
		"password": "LoginPass123",
	}, "")

	s.Equal(http.StatusOK, w.Code)
	var resp authResponse
	s.decode(w, &resp)
	s.Equal(user.ID.String(), resp.User.ID)
	s.NotEmpty(resp.Token)
}

func (s *HandlerIntegrationTestSuite) TestLoginFailuresLookIdentical() {
	testutil.CreateTestUser(s.T(), s.testDB.DB, "loginuser", "LoginPass123")

	wrongPassword := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "loginuser",
		"password": "WrongPass",
	}, "")
	unknownUser := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "nobody",
		"password": "WrongPass",
	}, "")

	s.Equal(http.StatusUnauthorized, wrongPassword.Code)
	s.Equal(http.StatusUnauthorized, unknownUser.Code)
	s.Equal(wrongPassword.Body.String(), unknownUser.Body.String())
	s.Equal("Invalid username or password", s.errorOf(wrongPassword))
}

func (s *HandlerIntegrationTestSuite) TestLoginMissingFields() {
	w := s.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "loginuser"}, "")

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Username and password required", s.errorOf(w))
}
