package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/foraginglink/backend/internal/models"
	"github.com/foraginglink/backend/internal/rules"
	"github.com/foraginglink/backend/internal/serialize"
	"github.com/foraginglink/backend/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"nesting", &rules.NestingTooDeepError{ParentID: 3}, http.StatusBadRequest,
			`{"replying_comment": ["comment 3 is a reply and cannot be replied to"]}`},
		{"incomplete", &rules.IncompleteDetailError{Field: "dietary_restrictions", Reason: "required"}, http.StatusBadRequest,
			`{"dietary_restrictions": ["required"]}`},
		{"duplicate", &rules.DuplicateError{Resource: "like"}, http.StatusBadRequest,
			`{"detail": "possible duplicate"}`},
		{"wrapped not found", fmt.Errorf("loading: %w", &rules.NotFoundError{Resource: "post", ID: 1}), http.StatusNotFound,
			`{"detail": "Not found."}`},
		{"forbidden", rules.ErrForbidden, http.StatusForbidden,
			`{"detail": "You do not have permission to perform this action."}`},
		{"full", &rules.CourseFullError{CourseID: 2, Capacity: 10}, http.StatusConflict,
			`{"detail": "course 2 is fully booked (10 places)"}`},
		{"transition", &rules.InvalidTransitionError{From: models.StatusCancelled, To: models.StatusConfirmed}, http.StatusBadRequest,
			`{"status": ["cannot change registration status from \"Cancelled\" to \"Confirmed\""]}`},
		{"credentials", services.ErrInvalidCredentials, http.StatusBadRequest,
			`{"non_field_errors": ["unable to log in with provided credentials"]}`},
		{"body", fmt.Errorf("%w: bad", serialize.ErrInvalidBody), http.StatusBadRequest,
			`{"detail": "invalid request body: bad"}`},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError,
			`{"detail": "A server error occurred."}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, log, tc.err)

			require.Equal(t, tc.status, w.Code)
			require.JSONEq(t, tc.body, w.Body.String())
		})
	}
}

func TestParamParsing(t *testing.T) {
	r := gin.New()
	r.GET("/things/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		filter, ok := queryID(c, "owner")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "owner": filter})
	})

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/things/4?owner=2")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"id": 4, "owner": 2}`, w.Body.String())

	w = get("/things/4")
	require.JSONEq(t, `{"id": 4, "owner": null}`, w.Body.String())

	require.Equal(t, http.StatusNotFound, get("/things/abc").Code)
	require.Equal(t, http.StatusBadRequest, get("/things/4?owner=x").Code)
}
