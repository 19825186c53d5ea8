package handler_test

import (
	"net/http"
	"time"

	"github.com/Baaaki/backyard-marquee/internal/models"
	"github.com/Baaaki/backyard-marquee/internal/testutil"
)

func (s *HandlerIntegrationTestSuite) TestCreateLineup() {
	user := testutil.CreateTestUser(s.T(), s.testDB.DB, "builder", "Pass123")
	body := lineupBody("Dream Fest", true, "Radiohead", "Bjork", "Air")
	body["description"] = "a warm night"

	w := s.do(http.MethodPost, "/api/lineups", body, s.tokenFor(user))
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var created models.Lineup
	s.decode(w, &created)
	s.Equal("Dream Fest", created.Title)
	s.Require().NotNil(created.Description)
	s.Equal("a warm night", *created.Description)
	s.Equal("builder", created.CreatorUsername)
	s.Require().Len(created.Artists, 3)
	s.Equal("Radiohead", created.Artists[0].ArtistName)
	s.Equal("Air", created.Artists[2].ArtistName)

	// Round trip through GET
	w = s.do(http.MethodGet, "/api/lineups/"+created.ID.String(), nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	var fetched models.Lineup
	s.decode(w, &fetched)
	s.Equal(created.ID, fetched.ID)
	s.Equal(created.Artists, fetched.Artists)
}

func (s *HandlerIntegrationTestSuite) TestCreateLineup_Refusals() {
	user := testutil.CreateTestUser(s.T(), s.testDB.DB, "builder", "Pass123")
	token := s.tokenFor(user)

	w := s.do(http.MethodPost, "/api/lineups", lineupBody("Too Big", true, "A", "B", "C", "D", "E", "F"), token)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Maximum 5 artists allowed", s.errorOf(w))

	w = s.do(http.MethodPost, "/api/lineups", lineupBody("", true, "A"), token)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Title and at least one artist required", s.errorOf(w))

	w = s.do(http.MethodPost, "/api/lineups", lineupBody("First", true, "A"), token)
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/api/lineups", lineupBody("Second", true, "B"), token)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("You can only create one lineup. Delete your existing lineup first.", s.errorOf(w))
}

func (s *HandlerIntegrationTestSuite) TestLineupRoutesRequireAuth() {
	w := s.do(http.MethodPost, "/api/lineups", lineupBody("Anon", true, "A"), "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Authentication required", s.errorOf(w))

	w = s.do(http.MethodGet, "/api/lineups", nil, "garbage")
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("Invalid or expired token", s.errorOf(w))
}

func (s *HandlerIntegrationTestSuite) TestListOwnLineups() {
	owner := testutil.CreateTestUser(s.T(), s.testDB.DB, "owner", "Pass123")
	other := testutil.CreateTestUser(s.T(), s.testDB.DB, "other", "Pass123")
	testutil.CreateTestLineup(s.T(), s.testDB.DB, owner, "Mine", false, time.Now(), "A", "B")
	testutil.CreateTestLineup(s.T(), s.testDB.DB, other, "Theirs", true, time.Now(), "C")

	w := s.do(http.MethodGet, "/api/lineups", nil, s.tokenFor(owner))
	s.Require().Equal(http.StatusOK, w.Code)

	var lineups []models.Lineup
	s.decode(w, &lineups)
	s.Require().Len(lineups, 1)
	s.Equal("Mine", lineups[0].Title)
	s.Len(lineups[0].Artists, 2)
}

func (s *HandlerIntegrationTestSuite) TestGetLineup_Visibility() {
	owner := testutil.CreateTestUser(s.T(), s.testDB.DB, "owner", "Pass123")
	other := testutil.CreateTestUser(s.T(), s.testDB.DB, "other", "Pass123")
	private := testutil.CreateTestLineup(s.T(), s.testDB.DB, owner, "Secret", false, time.Now(), "A")
	path := "/api/lineups/" + private.ID.String()

	w := s.do(http.MethodGet, path, nil, "")
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("This lineup is private", s.errorOf(w))

	w = s.do(http.MethodGet, path, nil, s.tokenFor(other))
	s.Equal(http.StatusForbidden, w.Code)

	// A bad token on an optional-auth route is treated as anonymous
	w = s.do(http.MethodGet, path, nil, "garbage")
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("This lineup is private", s.errorOf(w))

	w = s.do(http.MethodGet, path, nil, s.tokenFor(owner))
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerIntegrationTestSuite) TestGetLineup_NotFound() {
	for _, id := range []string{"not-a-uuid", "00000000-0000-0000-0000-000000000001"} {
		w := s.do(http.MethodGet, "/api/lineups/"+id, nil, "")
		s.Equal(http.StatusNotFound, w.Code, id)
		s.Equal("Lineup not found", s.errorOf(w))
	}
}

func (s *HandlerIntegrationTestSuite) TestUpdateLineup() {
	owner := testutil.CreateTestUser(s.T(), s.testDB.DB, "owner", "Pass123")
	other := testutil.CreateTestUser(s.T(), s.testDB.DB, "other", "Pass123")
	lineup := testutil.CreateTestLineup(s.T(), s.testDB.DB, owner, "Old", true, time.Now(), "A", "B", "C")
	path := "/api/lineups/" + lineup.ID.String()

	w := s.do(http.MethodPut, path, lineupBody("Hijack", true, "X"), s.tokenFor(other))
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("Not authorized to edit this lineup", s.errorOf(w))

	w = s.do(http.MethodPut, path, lineupBody("New", false, "D", "E"), s.tokenFor(owner))
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var updated models.Lineup
	s.decode(w, &updated)
	s.Equal("New", updated.Title)
	s.False(updated.IsPublic)
	s.Require().Len(updated.Artists, 2)
	s.Equal("D", updated.Artists[0].ArtistName)
	s.Equal("E", updated.Artists[1].ArtistName)
}

func (s *HandlerIntegrationTestSuite) TestDeleteLineup() {
	owner := testutil.CreateTestUser(s.T(), s.testDB.DB, "owner", "Pass123")
	other := testutil.CreateTestUser(s.T(), s.testDB.DB, "other", "Pass123")
	lineup := testutil.CreateTestLineup(s.T(), s.testDB.DB, owner, "Doomed", true, time.Now(), "A")
	path := "/api/lineups/" + lineup.ID.String()

	w := s.do(http.MethodDelete, path, nil, s.tokenFor(other))
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("Not authorized to delete this lineup", s.errorOf(w))

	w = s.do(http.MethodDelete, path, nil, s.tokenFor(owner))
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"success":true}`, w.Body.String())

	w = s.do(http.MethodGet, path, nil, s.tokenFor(owner))
	s.Equal(http.StatusNotFound, w.Code)

	// The slot is free again
	w = s.do(http.MethodPost, "/api/lineups", lineupBody("Again", true, "A"), s.tokenFor(owner))
	s.Equal(http.StatusCreated, w.Code)
}
