package echoapi_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/darslyhq/darsly/apps/api/echo"
	"github.com/darslyhq/darsly/core/user"
	testutil "github.com/darslyhq/darsly/tests"
)

func Test_userApi_register(t *testing.T) {
	app := setup(t)

	body := []byte(`{
		"name": "Sara",
		"email": "sara@test.ir",
		"password": "s3cr3tPass!",
		"password_confirm": "s3cr3tPass!"
	}`)
	req, rec := newRequest(http.MethodPost, "/v1/users/register", body)
	app.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res echoapi.RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "sara@test.ir", res.User.Email)
	assert.Equal(t, 0, res.User.XP)
	assert.Equal(t, 1, res.User.Level)
	assert.Equal(t, "آموزنده تازه‌کار", res.User.RankTitle)
	assert.Equal(t, []string{user.RoleLearner}, res.User.Roles)

	// duplicate email
	req, rec = newRequest(http.MethodPost, "/v1/users/register", body)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// mismatched password confirmation
	req, rec = newRequest(http.MethodPost, "/v1/users/register", []byte(`{
		"name": "Omid",
		"email": "omid@test.ir",
		"password": "s3cr3tPass!",
		"password_confirm": "different"
	}`))
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_userApi_login(t *testing.T) {
	app := setup(t)

	testutil.CreateUser(t, app.userRepo, "Sara", "sara@test.ir", "s3cr3tPass!", 0, nil, true)
	testutil.CreateUser(t, app.userRepo, "Gone", "gone@test.ir", "s3cr3tPass!", 0, nil, false)

	login := func(email, pwd string) []byte {
		return []byte(fmt.Sprintf(`{"email": %q, "password": %q}`, email, pwd))
	}

	tests := []httpTest{
		{
			name: "OK", body: login("sara@test.ir", "s3cr3tPass!"), wantCode: http.StatusOK,
		},
		{
			name: "Unknown email", body: login("nope@test.ir", "s3cr3tPass!"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "Wrong password", body: login("sara@test.ir", "nope"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "Deactivated account", body: login("gone@test.ir", "s3cr3tPass!"), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.server.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode == http.StatusOK {
				var res echoapi.LoginResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
				assert.NotEmpty(t, res.Token)
			} else if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
		})
	}
}

func Test_userApi_retrieveMe(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, app.userRepo, "Sara", "sara@test.ir", "s3cr3tPass!", 120, nil, true)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "OK", token: getToken(t, usr), wantCode: http.StatusOK, wantData: marchallObj(t, usr)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users/me", tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_updateMe(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, app.userRepo, "Sara", "sara@test.ir", "s3cr3tPass!", 0, nil, true)
	token := getToken(t, usr)

	req, rec := newAuthRequest(http.MethodPut, "/v1/users/me", token,
		[]byte(`{"name": "Sara M.", "avatar_url": "https://cdn.test.ir/avatars/sara.png"}`))
	app.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Sara M.", got.Name)
	assert.Equal(t, "https://cdn.test.ir/avatars/sara.png", got.AvatarURL)

	// bogus avatar URL
	req, rec = newAuthRequest(http.MethodPut, "/v1/users/me", token, []byte(`{"avatar_url": "not a url"}`))
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_userApi_leaderboard(t *testing.T) {
	app := setup(t)

	low := testutil.CreateUser(t, app.userRepo, "Low", "low@test.ir", "", 10, nil, true)
	top := testutil.CreateUser(t, app.userRepo, "Top", "top@test.ir", "", 1200, nil, true)
	mid := testutil.CreateUser(t, app.userRepo, "Mid", "mid@test.ir", "", 400, nil, true)
	token := getToken(t, low)

	req, rec := newAuthRequest(http.MethodGet, "/v1/leaderboard", token)
	app.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var entries []echoapi.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, []string{top.ID, mid.ID, low.ID}, []string{entries[0].UserID, entries[1].UserID, entries[2].UserID})
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 5, entries[0].Level)
	assert.Equal(t, "افسانه دیجیتال", entries[0].RankTitle)

	// limited
	req, rec = newAuthRequest(http.MethodGet, "/v1/leaderboard?limit=1", token)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 1)

	// auth required
	req, rec = newRequest(http.MethodGet, "/v1/leaderboard")
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
