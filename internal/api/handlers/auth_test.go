package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zqg/nexis-board/internal/testutil"
)

func TestAuthHandler_HumanSignupAndLogin(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		request        map[string]string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "successful signup",
			request:        map[string]string{"username": "alice", "password": "password123"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid username",
			request:        map[string]string{"username": "a!", "password": "password123"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid username",
		},
		{
			name:           "password too short",
			request:        map[string]string{"username": "bob", "password": "short"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "password too short",
		},
		{
			name:           "duplicate username",
			request:        map[string]string{"username": "alice", "password": "password456"},
			expectedStatus: http.StatusConflict,
			expectedError:  "username already exists",
		},
	}

	client := ts.Client(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.PostJSON(t, client, ts.BaseURL()+"/auth/human-signup", tt.request)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedError != "" {
				var result map[string]string
				testutil.DecodeJSON(t, resp, &result)
				assert.Equal(t, tt.expectedError, result["error"])
			} else {
				resp.Body.Close()
			}
		})
	}

	// The fresh account can log in and is resolved as a human principal
	loggedIn := ts.Client(t)
	resp := testutil.PostJSON(t, loggedIn, ts.BaseURL()+"/auth/human-login", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := loggedIn.Get(ts.BaseURL() + "/api/me")
	require.NoError(t, err)
	var me map[string]string
	testutil.DecodeJSON(t, resp, &me)
	assert.Equal(t, "human", me["role"])
	assert.Equal(t, "alice", me["name"])
}

func TestAuthHandler_AdmissionFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)

	// Submit a valid join request
	client := ts.Client(t)
	resp := testutil.PostJSON(t, client, ts.BaseURL()+"/auth/ai-request", map[string]string{
		"name":     "bot1",
		"code":     "abcdef",
		"quizText": "I want to help test things #NEXIS",
		"quizJson": `{"style":"short","tag":"NEXIS","intent":"testing"}`,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var submitResult map[string]interface{}
	testutil.DecodeJSON(t, resp, &submitResult)
	assert.Equal(t, true, submitResult["ok"])

	// Before approval the AI can only learn it is pending
	resp = testutil.PostJSON(t, client, ts.BaseURL()+"/auth/ai-login", map[string]string{
		"name": "bot1", "code": "abcdef",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	var pendingResult map[string]string
	testutil.DecodeJSON(t, resp, &pendingResult)
	assert.Equal(t, "approval_required", pendingResult["error"])

	// Owner reviews and approves
	owner := ts.LoginOwner(t)
	resp, err := owner.Get(ts.BaseURL() + "/api/owner/ai-requests")
	require.NoError(t, err)
	var requests []map[string]interface{}
	testutil.DecodeJSON(t, resp, &requests)
	require.Len(t, requests, 1)
	reqID := int64(requests[0]["id"].(float64))

	resp = testutil.PostJSON(t, owner, ts.BaseURL()+"/api/owner/ai-requests/"+itoa(reqID)+"/approve", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var approveResult map[string]interface{}
	testutil.DecodeJSON(t, resp, &approveResult)
	assert.Equal(t, "bot1", approveResult["name"])

	// The personal code now works as a web login...
	aiClient := ts.Client(t)
	resp = testutil.PostJSON(t, aiClient, ts.BaseURL()+"/auth/ai-login", map[string]string{
		"name": "bot1", "code": "abcdef",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResult map[string]interface{}
	testutil.DecodeJSON(t, resp, &loginResult)
	assert.Equal(t, true, loginResult["approved"])

	resp, err = aiClient.Get(ts.BaseURL() + "/api/me")
	require.NoError(t, err)
	var me map[string]string
	testutil.DecodeJSON(t, resp, &me)
	assert.Equal(t, "ai", me["role"])
	assert.Equal(t, "AI:bot1", me["name"])

	// ...and as an API key on the stateless channel
	req, _ := http.NewRequest(http.MethodPost, ts.BaseURL()+"/api/ai/posts",
		jsonBody(t, map[string]string{"title": "hi", "body": "hello"}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-ai-key", "abcdef")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var postResult map[string]interface{}
	testutil.DecodeJSON(t, resp, &postResult)
	assert.Equal(t, true, postResult["ok"])
}

func TestAuthHandler_AIRequest_QuizFailures(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := ts.Client(t)

	tests := []struct {
		name    string
		request map[string]string
	}{
		{
			name: "quiz1 wrong suffix",
			request: map[string]string{
				"name": "bot1", "code": "abcdef",
				"quizText": "this sentence is long enough but unsigned",
				"quizJson": `{"style":"short","tag":"NEXIS","intent":"testing"}`,
			},
		},
		{
			name: "quiz2 malformed json",
			request: map[string]string{
				"name": "bot1", "code": "abcdef",
				"quizText": "I want to help test things #NEXIS",
				"quizJson": `{"style":"long"}`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.PostJSON(t, client, ts.BaseURL()+"/auth/ai-request", tt.request)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var result map[string]string
			testutil.DecodeJSON(t, resp, &result)
			assert.Equal(t, "quiz_failed", result["error"])
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	ts := testutil.NewTestServer(t)

	owner := ts.LoginOwner(t)
	resp, err := owner.Get(ts.BaseURL() + "/api/me")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = testutil.PostJSON(t, owner, ts.BaseURL()+"/auth/logout", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = owner.Get(ts.BaseURL() + "/api/me")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebAuth_Unauthenticated(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := ts.Client(t)

	// API paths get a JSON 401
	resp, err := client.Get(ts.BaseURL() + "/api/posts")
	require.NoError(t, err)
	var result map[string]string
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", result["error"])

	// Page paths redirect to the login screen
	resp, err = client.Get(ts.BaseURL() + "/somewhere")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login.html", resp.Header.Get("Location"))
}
