package echoapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darslyhq/darsly/core/user"
	"github.com/darslyhq/darsly/core/waitlist"
	testutil "github.com/darslyhq/darsly/tests"
)

func Test_waitlistApi_join(t *testing.T) {
	app := setup(t)

	body := []byte(`{"email": "sara@test.ir"}`)
	req, rec := newRequest(http.MethodPost, "/v1/waitlist", body)
	app.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var entry waitlist.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "sara@test.ir", entry.Email)

	// joining twice returns the existing entry
	req, rec = newRequest(http.MethodPost, "/v1/waitlist", body)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var again waitlist.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &again))
	assert.Equal(t, entry.ID, again.ID)

	// invalid email
	req, rec = newRequest(http.MethodPost, "/v1/waitlist", []byte(`{"email": "not-an-email"}`))
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_waitlistApi_query(t *testing.T) {
	app := setup(t)

	learner := testutil.CreateUser(t, app.userRepo, "Sara", "sara@test.ir", "", 0, nil, true)
	admin := testutil.CreateUser(t, app.userRepo, "Admin", "admin@test.ir", "", 0, user.AllRoles, true)
	entry, err := app.waitlistRepo.CreateEntry(context.Background(), waitlist.Entry{Email: "waiting@test.ir"})
	require.NoError(t, err)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin only", token: getToken(t, learner), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "OK", token: getToken(t, admin), wantCode: http.StatusOK,
			wantData: marchallObj(t, []waitlist.Entry{entry}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/waitlist", tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
