//go:build e2e

package reservation_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"deskbook/internal/domain/identity"
	"deskbook/internal/domain/resource"
	"deskbook/internal/handler/dto/response"
	"deskbook/tests/common/authtest"
	"deskbook/tests/common/builder"
	"deskbook/tests/common/dbtest"
	"deskbook/tests/common/httptest"
	"deskbook/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	reservationsURL = "/api/reservations"
	reservationURL  = "/api/reservations/%s"
	approveURL      = "/api/reservations/%s/approve"
	availabilityURL = "/api/resources/%s/%s/availability?date=%s"
)

type ReservationSuite struct {
	e2e.SharedSuite
}

func (s *ReservationSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestReservationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ReservationSuite))
}

func (s *ReservationSuite) memberToken(userID uuid.UUID) string {
	return authtest.SignToken(s.T(), s.Config.JWT.Secret, userID, identity.RoleMember)
}

func (s *ReservationSuite) managerToken(userID uuid.UUID) string {
	return authtest.SignToken(s.T(), s.Config.JWT.Secret, userID, identity.RoleManager)
}

// tomorrowAt returns tomorrow at the given UTC hour, safely inside the
// booking window regardless of when the tests run.
func tomorrowAt(hour int) time.Time {
	d := time.Now().UTC().AddDate(0, 0, 1)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}

// =============================================================================
// TestCreateReservation - reservation creation and conflict arbitration
// =============================================================================

func (s *ReservationSuite) TestCreateReservation() {
	s.Run("Normal case: booking a free desk returns the stored reservation", func() {
		t := s.T()

		userID := uuid.New()
		token := s.memberToken(userID)

		reqBody := builder.NewReservationBuilder().
			WithResource(resource.KindDesk, dbtest.DeskA01ID).
			WithInterval(tomorrowAt(10), tomorrowAt(11)).
			BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.ReservationResponse
		err := httptest.DecodeResponseBody(t, w.Body, &created)
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, created.ID)

		// Fetch detail and compare
		dw := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(reservationURL, created.ID), nil, token)
		require.Equal(t, http.StatusOK, dw.Code)

		var actual response.ReservationResponse
		err = httptest.DecodeResponseBody(t, dw.Body, &actual)
		require.NoError(t, err)

		expected := &response.ReservationResponse{
			ResourceKind: "desk",
			ResourceID:   dbtest.DeskA01ID,
			ResourceName: "Desk A-01",
			UserID:       userID,
			Status:       "confirmed",
			IsUpcoming:   true,
			IsPast:       false,
		}

		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.ReservationResponse{}, "ID", "StartTime", "EndTime", "CreatedAt", "UpdatedAt"),
		}

		if diff := cmp.Diff(expected, &actual, opts...); diff != "" {
			t.Errorf("Reservation response mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("Error case: overlapping interval on the same resource is rejected", func() {
		t := s.T()

		first := s.memberToken(uuid.New())
		second := s.memberToken(uuid.New())

		reqBody := builder.NewReservationBuilder().
			WithResource(resource.KindDesk, dbtest.DeskA01ID).
			WithInterval(tomorrowAt(10), tomorrowAt(12)).
			BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reqBody, first)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		// A different user hitting the middle of the interval still conflicts
		overlap := builder.NewReservationBuilder().
			WithResource(resource.KindDesk, dbtest.DeskA01ID).
			WithInterval(tomorrowAt(11), tomorrowAt(13)).
			BuildCreateRequestDTO()

		ow := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, overlap, second)
		httptest.AssertErrorResponse(t, ow, http.StatusConflict, "already booked")
	})

	s.Run("Normal case: back-to-back intervals never conflict", func() {
		t := s.T()

		token := s.memberToken(uuid.New())

		first := builder.NewReservationBuilder().
			WithResource(resource.KindRoom, dbtest.RoomAuroraID).
			WithInterval(tomorrowAt(9), tomorrowAt(10)).
			BuildCreateRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, first, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		adjacent := builder.NewReservationBuilder().
			WithResource(resource.KindRoom, dbtest.RoomAuroraID).
			WithInterval(tomorrowAt(10), tomorrowAt(11)).
			BuildCreateRequestDTO()
		aw := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, adjacent, token)
		require.Equal(t, http.StatusCreated, aw.Code, aw.Body.String())
	})

	s.Run("Normal case: a cancelled reservation frees its interval", func() {
		t := s.T()

		token := s.memberToken(uuid.New())

		reqBody := builder.NewReservationBuilder().
			WithResource(resource.KindDesk, dbtest.DeskA02ID).
			WithInterval(tomorrowAt(14), tomorrowAt(15)).
			BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		cw := httptest.PerformRequest(t, s.Router, http.MethodDelete,
			fmt.Sprintf(reservationURL, created.ID), nil, token)
		require.Equal(t, http.StatusNoContent, cw.Code)

		rw := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, rw.Code, rw.Body.String())
	})

	s.Run("Concurrent case: two overlapping creates, exactly one wins", func() {
		t := s.T()

		tokens := [2]string{s.memberToken(uuid.New()), s.memberToken(uuid.New())}

		reqBody := builder.NewReservationBuilder().
			WithResource(resource.KindRoom, dbtest.RoomAuroraID).
			WithInterval(tomorrowAt(9), tomorrowAt(10)).
			BuildCreateRequestDTO()

		// Both writers can pass the in-transaction pre-check; the exclusion
		// constraint arbitrates at commit.
		var (
			wg    sync.WaitGroup
			codes [2]int
		)
		for i := range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reqBody, tokens[i])
				codes[i] = w.Code
			}()
		}
		wg.Wait()

		require.ElementsMatch(t, []int{http.StatusCreated, http.StatusConflict}, codes[:])
	})

	s.Run("Error case: booking an unknown resource returns 404", func() {
		t := s.T()

		token := s.memberToken(uuid.New())

		reqBody := builder.NewReservationBuilder().
			WithResource(resource.KindDesk, uuid.New()).
			WithInterval(tomorrowAt(10), tomorrowAt(11)).
			BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reqBody, token)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Resource not found")
	})

	s.Run("Error case: unauthenticated request is rejected", func() {
		t := s.T()

		reqBody := builder.NewReservationBuilder().
			WithResource(resource.KindDesk, dbtest.DeskA01ID).
			BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reqBody, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// =============================================================================
// TestApprovalFlow - approval gating for resources that require it
// =============================================================================

func (s *ReservationSuite) TestApprovalFlow() {
	s.Run("Normal case: pending reservation is confirmed by a manager", func() {
		t := s.T()

		memberID := uuid.New()
		memberTok := s.memberToken(memberID)
		managerTok := s.managerToken(uuid.New())

		reqBody := builder.NewReservationBuilder().
			WithResource(resource.KindRoom, dbtest.RoomBorealisID).
			WithInterval(tomorrowAt(13), tomorrowAt(14)).
			BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reqBody, memberTok)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		require.Equal(t, "pending", created.Status, "approval-gated room should start pending")

		// A plain member may not approve
		mw := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf(approveURL, created.ID), nil, memberTok)
		httptest.AssertErrorResponse(t, mw, http.StatusForbidden, "Insufficient permissions")

		aw := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf(approveURL, created.ID), nil, managerTok)
		require.Equal(t, http.StatusNoContent, aw.Code, aw.Body.String())

		dw := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(reservationURL, created.ID), nil, memberTok)
		require.Equal(t, http.StatusOK, dw.Code)

		var confirmed response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, dw.Body, &confirmed))
		require.Equal(t, "confirmed", confirmed.Status)

		// Approving twice is a state error
		rw := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf(approveURL, created.ID), nil, managerTok)
		httptest.AssertErrorResponse(t, rw, http.StatusUnprocessableEntity, "Domain validation failed")
	})

	s.Run("Normal case: pending reservations still hold their interval", func() {
		t := s.T()

		memberTok := s.memberToken(uuid.New())

		reqBody := builder.NewReservationBuilder().
			WithResource(resource.KindRoom, dbtest.RoomBorealisID).
			WithInterval(tomorrowAt(13), tomorrowAt(14)).
			BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reqBody, memberTok)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		ow := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reqBody, s.memberToken(uuid.New()))
		httptest.AssertErrorResponse(t, ow, http.StatusConflict, "already booked")
	})
}

// =============================================================================
// TestRescheduleReservation - moving reservations between intervals
// =============================================================================

func (s *ReservationSuite) TestRescheduleReservation() {
	s.Run("Normal case: moving to a free interval succeeds", func() {
		t := s.T()

		token := s.memberToken(uuid.New())

		reqBody := builder.NewReservationBuilder().
			WithResource(resource.KindRoom, dbtest.RoomAuroraID).
			WithInterval(tomorrowAt(9), tomorrowAt(10)).
			BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		move := map[string]any{
			"start_time": tomorrowAt(15),
			"end_time":   tomorrowAt(16),
		}
		mw := httptest.PerformRequest(t, s.Router, http.MethodPatch,
			fmt.Sprintf(reservationURL, created.ID), move, token)
		require.Equal(t, http.StatusOK, mw.Code, mw.Body.String())

		var moved response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, mw.Body, &moved))
		require.True(t, moved.StartTime.Equal(tomorrowAt(15)))
		require.True(t, moved.EndTime.Equal(tomorrowAt(16)))
	})

	s.Run("Error case: moving onto another reservation conflicts", func() {
		t := s.T()

		token := s.memberToken(uuid.New())

		blocker := builder.NewReservationBuilder().
			WithResource(resource.KindRoom, dbtest.RoomAuroraID).
			WithInterval(tomorrowAt(11), tomorrowAt(12)).
			BuildCreateRequestDTO()
		bw := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, blocker, token)
		require.Equal(t, http.StatusCreated, bw.Code, bw.Body.String())

		reqBody := builder.NewReservationBuilder().
			WithResource(resource.KindRoom, dbtest.RoomAuroraID).
			WithInterval(tomorrowAt(9), tomorrowAt(10)).
			BuildCreateRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		move := map[string]any{
			"start_time": tomorrowAt(11).Add(30 * time.Minute),
			"end_time":   tomorrowAt(12).Add(30 * time.Minute),
		}
		mw := httptest.PerformRequest(t, s.Router, http.MethodPatch,
			fmt.Sprintf(reservationURL, created.ID), move, token)
		httptest.AssertErrorResponse(t, mw, http.StatusConflict, "already booked")
	})

	s.Run("Error case: a member cannot move someone else's reservation", func() {
		t := s.T()

		owner := s.memberToken(uuid.New())
		stranger := s.memberToken(uuid.New())

		reqBody := builder.NewReservationBuilder().
			WithResource(resource.KindDesk, dbtest.DeskA01ID).
			WithInterval(tomorrowAt(10), tomorrowAt(11)).
			BuildCreateRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reqBody, owner)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		move := map[string]any{"start_time": tomorrowAt(15), "end_time": tomorrowAt(16)}
		mw := httptest.PerformRequest(t, s.Router, http.MethodPatch,
			fmt.Sprintf(reservationURL, created.ID), move, stranger)
		httptest.AssertErrorResponse(t, mw, http.StatusForbidden, "Not allowed")
	})
}

// =============================================================================
// TestCancelReservation - cancellation semantics
// =============================================================================

func (s *ReservationSuite) TestCancelReservation() {
	s.Run("Normal case: cancelling twice is a no-op success", func() {
		t := s.T()

		token := s.memberToken(uuid.New())

		reqBody := builder.NewReservationBuilder().
			WithResource(resource.KindDesk, dbtest.DeskA01ID).
			WithInterval(tomorrowAt(10), tomorrowAt(11)).
			BuildCreateRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		for range 2 {
			cw := httptest.PerformRequest(t, s.Router, http.MethodDelete,
				fmt.Sprintf(reservationURL, created.ID), nil, token)
			require.Equal(t, http.StatusNoContent, cw.Code, cw.Body.String())
		}

		dw := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(reservationURL, created.ID), nil, token)
		require.Equal(t, http.StatusOK, dw.Code)

		var cancelled response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, dw.Body, &cancelled))
		require.Equal(t, "cancelled", cancelled.Status)
	})

	s.Run("Error case: cancelling an unknown reservation returns 404", func() {
		t := s.T()

		token := s.memberToken(uuid.New())
		cw := httptest.PerformRequest(t, s.Router, http.MethodDelete,
			fmt.Sprintf(reservationURL, uuid.New()), nil, token)
		httptest.AssertErrorResponse(t, cw, http.StatusNotFound, "Reservation not found")
	})
}

// =============================================================================
// TestAvailability - slot grid reflects bookings
// =============================================================================

func (s *ReservationSuite) TestAvailability() {
	s.Run("Normal case: booked slots drop out of the grid", func() {
		t := s.T()

		token := s.memberToken(uuid.New())
		day := tomorrowAt(0)

		reqBody := builder.NewReservationBuilder().
			WithResource(resource.KindRoom, dbtest.RoomAuroraID).
			WithInterval(tomorrowAt(9), tomorrowAt(10)).
			BuildCreateRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		url := fmt.Sprintf(availabilityURL, "room", dbtest.RoomAuroraID, day.Format("2006-01-02"))
		aw := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, token)
		require.Equal(t, http.StatusOK, aw.Code, aw.Body.String())

		var availability response.AvailabilityResponse
		require.NoError(t, httptest.DecodeResponseBody(t, aw.Body, &availability))

		require.Equal(t, "Meeting Room Aurora", availability.ResourceName)
		require.Len(t, availability.AllSlots, 24)
		require.Equal(t, []string{"09:00", "09:30"}, availability.BookedSlots)
		require.NotContains(t, availability.AvailableSlots, "09:00")
		require.NotContains(t, availability.AvailableSlots, "09:30")
		require.Contains(t, availability.AvailableSlots, "10:00")
	})

	s.Run("Normal case: cancelled reservations do not occupy slots", func() {
		t := s.T()

		token := s.memberToken(uuid.New())
		day := tomorrowAt(0)

		reqBody := builder.NewReservationBuilder().
			WithResource(resource.KindRoom, dbtest.RoomAuroraID).
			WithInterval(tomorrowAt(9), tomorrowAt(10)).
			BuildCreateRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		cw := httptest.PerformRequest(t, s.Router, http.MethodDelete,
			fmt.Sprintf(reservationURL, created.ID), nil, token)
		require.Equal(t, http.StatusNoContent, cw.Code)

		url := fmt.Sprintf(availabilityURL, "room", dbtest.RoomAuroraID, day.Format("2006-01-02"))
		aw := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, token)
		require.Equal(t, http.StatusOK, aw.Code)

		var availability response.AvailabilityResponse
		require.NoError(t, httptest.DecodeResponseBody(t, aw.Body, &availability))
		require.Empty(t, availability.BookedSlots)
	})

	s.Run("Normal case: listing with upcoming filter", func() {
		t := s.T()

		userID := uuid.New()
		token := s.memberToken(userID)

		// One future booking through the API, one past booking seeded directly
		reqBody := builder.NewReservationBuilder().
			WithResource(resource.KindDesk, dbtest.DeskA01ID).
			WithInterval(tomorrowAt(10), tomorrowAt(11)).
			BuildCreateRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		past := time.Now().UTC().Add(-48 * time.Hour).Truncate(time.Hour)
		dbtest.CreateTestReservation(t, s.DB, "desk", dbtest.DeskA02ID, userID,
			past, past.Add(time.Hour), "confirmed")

		lw := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL, nil, token)
		require.Equal(t, http.StatusOK, lw.Code)
		var all []response.ReservationListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, lw.Body, &all))
		require.Len(t, all, 2)

		uw := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"?upcoming=true", nil, token)
		require.Equal(t, http.StatusOK, uw.Code)
		var upcoming []response.ReservationListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, uw.Body, &upcoming))
		require.Len(t, upcoming, 1)
		require.Equal(t, "Desk A-01", upcoming[0].ResourceName)
	})
}
