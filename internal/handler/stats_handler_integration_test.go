package handler_test

import (
	"net/http"
	"net/url"
	"time"

	"github.com/Baaaki/backyard-marquee/internal/models"
	"github.com/Baaaki/backyard-marquee/internal/service"
	"github.com/Baaaki/backyard-marquee/internal/testutil"
)

// seedSwappedHeadliners stores [A,B,C,D,E] and [B,A,F,G,H] publicly plus one private lineup.
func (s *HandlerIntegrationTestSuite) seedSwappedHeadliners() {
	base := time.Now().Add(-time.Hour)
	u1 := testutil.CreateTestUser(s.T(), s.testDB.DB, "first_fan", "Pass123")
	u2 := testutil.CreateTestUser(s.T(), s.testDB.DB, "second_fan", "Pass123")
	u3 := testutil.CreateTestUser(s.T(), s.testDB.DB, "secret_fan", "Pass123")
	testutil.CreateTestLineup(s.T(), s.testDB.DB, u1, "One", true, base, "A", "B", "C", "D", "E")
	testutil.CreateTestLineup(s.T(), s.testDB.DB, u2, "Two", true, base.Add(time.Minute), "B", "A", "F", "G", "H")
	testutil.CreateTestLineup(s.T(), s.testDB.DB, u3, "Hidden", false, base.Add(2*time.Minute), "Zed", "A")
}

func (s *HandlerIntegrationTestSuite) TestLeaderboard() {
	s.seedSwappedHeadliners()

	w := s.do(http.MethodGet, "/api/stats/leaderboard", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)

	var resp service.LeaderboardResult
	s.decode(w, &resp)
	s.EqualValues(8, resp.Total)
	s.Require().Len(resp.Artists, 8)
	s.Equal("A", resp.Artists[0].ArtistName)
	s.Equal("B", resp.Artists[1].ArtistName)
	s.EqualValues(2, resp.Artists[0].LineupCount)
	for _, entry := range resp.Artists {
		s.NotEqual("Zed", entry.ArtistName)
	}

	w = s.do(http.MethodGet, "/api/stats/leaderboard?limit=2&offset=1", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &resp)
	s.Require().Len(resp.Artists, 2)
	s.Equal("B", resp.Artists[0].ArtistName)
}

func (s *HandlerIntegrationTestSuite) TestLeaderboard_BadPaging() {
	w := s.do(http.MethodGet, "/api/stats/leaderboard?limit=abc", nil, "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("limit must be a non-negative integer", s.errorOf(w))
}

func (s *HandlerIntegrationTestSuite) TestArtistDetail() {
	s.seedSwappedHeadliners()

	w := s.do(http.MethodGet, "/api/stats/artist/"+url.PathEscape("a"), nil, "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var detail models.ArtistDetail
	s.decode(w, &detail)
	s.EqualValues(2, detail.Stats.LineupCount)
	s.EqualValues(1, detail.Stats.HeadlinerCount)
	s.EqualValues(1, detail.Stats.CoheadlinerCount)
	s.Require().Len(detail.Lineups, 2)
	s.Equal("Two", detail.Lineups[0].Title)
	s.Equal("second", detail.Lineups[0].SlotLabel)
	s.Len(detail.Lineups[0].AllArtists, 5)
	s.Require().NotEmpty(detail.Pairings)
	s.Equal("B", detail.Pairings[0].ArtistName)
	s.EqualValues(2, detail.Pairings[0].PairCount)
	for _, p := range detail.Pairings {
		s.NotEqual("Zed", p.ArtistName)
	}
}

func (s *HandlerIntegrationTestSuite) TestArtistDetail_NameWithSlash() {
	owner := testutil.CreateTestUser(s.T(), s.testDB.DB, "rocker", "Pass123")
	testutil.CreateTestLineup(s.T(), s.testDB.DB, owner, "Loud", true, time.Now(), "AC/DC", "Queen")

	for _, name := range []string{"AC/DC", "Queen"} {
		w := s.do(http.MethodGet, "/api/stats/artist/"+url.PathEscape(name), nil, "")
		s.Require().Equal(http.StatusOK, w.Code, name+": "+w.Body.String())

		var detail models.ArtistDetail
		s.decode(w, &detail)
		s.Equal(name, detail.Stats.ArtistName)
		s.EqualValues(1, detail.Stats.LineupCount)
	}

	w := s.do(http.MethodGet, "/api/stats/artist/"+url.PathEscape("Queen"), nil, "")
	var detail models.ArtistDetail
	s.decode(w, &detail)
	s.Require().Len(detail.Pairings, 1)
	s.Equal("AC/DC", detail.Pairings[0].ArtistName)
}

func (s *HandlerIntegrationTestSuite) TestArtistDetail_OnlyInPrivateLineup() {
	s.seedSwappedHeadliners()

	w := s.do(http.MethodGet, "/api/stats/artist/Zed", nil, "")
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Artist not found in any lineups", s.errorOf(w))
}

func (s *HandlerIntegrationTestSuite) TestBrowse() {
	s.seedSwappedHeadliners()

	w := s.do(http.MethodGet, "/api/stats/browse", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)

	var resp service.BrowseResult
	s.decode(w, &resp)
	s.EqualValues(2, resp.Total)
	s.Require().Len(resp.Lineups, 2)
	s.Equal("Two", resp.Lineups[0].Title)
	s.Equal("second_fan", resp.Lineups[0].CreatorUsername)
	s.Len(resp.Lineups[0].Artists, 5)

	w = s.do(http.MethodGet, "/api/stats/browse?sort=oldest&limit=1", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &resp)
	s.EqualValues(2, resp.Total)
	s.Require().Len(resp.Lineups, 1)
	s.Equal("One", resp.Lineups[0].Title)
}

func (s *HandlerIntegrationTestSuite) TestSearchArtists() {
	s.seedSwappedHeadliners()

	var resp struct {
		Artists []models.ArtistMatch `json:"artists"`
	}

	w := s.do(http.MethodGet, "/api/stats/search-artists?q=a", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &resp)
	s.Require().Len(resp.Artists, 1)
	s.Equal("A", resp.Artists[0].ArtistName)
	s.EqualValues(2, resp.Artists[0].LineupCount)

	w = s.do(http.MethodGet, "/api/stats/search-artists?q=zed", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &resp)
	s.Empty(resp.Artists)

	w = s.do(http.MethodGet, "/api/stats/search-artists", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"artists":[]}`, w.Body.String())
}

func (s *HandlerIntegrationTestSuite) TestSiteTotals() {
	base := time.Now()
	u1 := testutil.CreateTestUser(s.T(), s.testDB.DB, "one", "Pass123")
	u2 := testutil.CreateTestUser(s.T(), s.testDB.DB, "two", "Pass123")
	testutil.CreateTestUser(s.T(), s.testDB.DB, "three", "Pass123")
	testutil.CreateTestLineup(s.T(), s.testDB.DB, u1, "L1", true, base, "A", "B", "C", "D", "E")
	testutil.CreateTestLineup(s.T(), s.testDB.DB, u2, "L2", true, base, "A", "F", "G", "H", "I")

	w := s.do(http.MethodGet, "/api/stats/site", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"total_users":3,"total_lineups":2,"unique_artists":9}`, w.Body.String())
}
