package handler_test

import (
	"net/http"

	"github.com/Baaaki/backyard-marquee/internal/catalog"
)

func (s *HandlerIntegrationTestSuite) TestArtistSearch_Placeholder() {
	w := s.do(http.MethodGet, "/api/artists/search?q=Radiohead", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Artists []catalog.Artist `json:"artists"`
	}
	s.decode(w, &resp)
	s.Equal(catalog.Placeholder("Radiohead"), resp.Artists)
}

func (s *HandlerIntegrationTestSuite) TestArtistSearch_BlankQuery() {
	w := s.do(http.MethodGet, "/api/artists/search?q=", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"artists":[]}`, w.Body.String())
}

func (s *HandlerIntegrationTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/api/health", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)

	var body map[string]string
	s.decode(w, &body)
	s.Equal("ok", body["status"])
	s.NotEmpty(body["timestamp"])
}

func (s *HandlerIntegrationTestSuite) TestSPAFallback() {
	w := s.do(http.MethodGet, "/app.js", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "console.log")

	// Client routes deep-link to index.html
	w = s.do(http.MethodGet, "/lineup/123/edit", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "marquee")

	w = s.do(http.MethodGet, "/api/nope", nil, "")
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Not found", s.errorOf(w))
}
