package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/mbellotti/chatroom-api/internal/config"
	"github.com/mbellotti/chatroom-api/internal/database"
	"github.com/mbellotti/chatroom-api/internal/testutil"
	"github.com/mbellotti/chatroom-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestChatroomLifecycle drives the full register, login, create room, post
// message, list, delete flow through the real mux, so routing, auth
// middleware and handlers are exercised together.
func TestChatroomLifecycle(t *testing.T) {
	now := time.Now().UTC()
	pwdHash, err := hashPassword("pw1")
	require.NoError(t, err)

	alice := database.User{Id: 1, Username: "alice", PasswordHash: pwdHash, CreatedAt: now}
	room := database.Chatroom{Id: 1, Name: "general", CreatorId: alice.Id, CreatedAt: now}
	msg := database.Message{Id: 1, ChatroomId: room.Id, UserId: alice.Id, Content: "hi", CreatedAt: now}

	mockRepo := &database.MockChatRepository{}
	defer mockRepo.AssertExpectations(t)

	mockRepo.On("CreateAccount", mock.MatchedBy(func(params database.CreateAccountParams) bool {
		return params.Username == "alice" && verifyPassword(params.PasswordHash, "pw1")
	})).Return(alice, nil).Once()
	mockRepo.On("GetAccountByUsername", "alice").Return(alice, nil).Once()
	mockRepo.On("GetAccountById", alice.Id).Return(alice, nil)
	mockRepo.On("CreateChatroom", database.CreateChatroomParams{
		Name:      "general",
		CreatorId: alice.Id,
	}).Return(room, nil).Once()
	mockRepo.On("GetChatroom", room.Id).Return(room, nil).Times(3)
	mockRepo.On("CreateMessage", database.CreateMessageParams{
		ChatroomId: room.Id,
		UserId:     alice.Id,
		Content:    "hi",
	}).Return(msg, nil).Once()
	mockRepo.On("ListMessages", room.Id).Return([]database.Message{msg}, nil).Once()
	mockRepo.On("DeleteChatroom", room.Id).Return(nil).Once()
	mockRepo.On("GetChatroom", room.Id).Return(database.Chatroom{}, sql.ErrNoRows).Once()

	mux := http.NewServeMux()
	NewChatApp(mux, testutil.TestLogger(t), mockRepo, nil, &config.Config{
		SigningKey: []byte("test-signing-key"),
		TokenTTL:   30 * time.Minute,
	})

	do := func(method, target, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
		var req *http.Request
		if body != nil {
			req = httptest.NewRequest(method, target, body)
		} else {
			req = httptest.NewRequest(method, target, nil)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		return rr
	}

	// register
	body, _ := json.Marshal(RegisterRequest{Username: "alice", Password: "pw1"})
	rr := do(http.MethodPost, "/register", "", bytes.NewBuffer(body), "application/json")
	require.Equal(t, http.StatusCreated, rr.Code)

	var registered types.User
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&registered))
	assert.Equal(t, alice.Id, registered.Id)
	assert.Equal(t, "alice", registered.Username)

	// login
	form := url.Values{"username": {"alice"}, "password": {"pw1"}}
	rr = do(http.MethodPost, "/token", "", bytes.NewBufferString(form.Encode()), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, rr.Code)

	var tokenResp TokenResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&tokenResp))
	require.NotEmpty(t, tokenResp.AccessToken)
	assert.Equal(t, "bearer", tokenResp.TokenType)
	token := tokenResp.AccessToken

	// unauthenticated requests are rejected
	rr = do(http.MethodGet, "/chatrooms", "", nil, "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	// whoami
	rr = do(http.MethodGet, "/users/me", token, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var me types.User
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&me))
	assert.Equal(t, alice.Id, me.Id)

	// create room
	body, _ = json.Marshal(CreateChatroomRequest{Name: "general"})
	rr = do(http.MethodPost, "/chatrooms", token, bytes.NewBuffer(body), "application/json")
	require.Equal(t, http.StatusCreated, rr.Code)

	var createdRoom types.Chatroom
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&createdRoom))
	assert.Equal(t, alice.Id, createdRoom.CreatorId)

	// post message
	body, _ = json.Marshal(CreateMessageRequest{Content: "hi"})
	rr = do(http.MethodPost, "/chatrooms/1/messages", token, bytes.NewBuffer(body), "application/json")
	require.Equal(t, http.StatusCreated, rr.Code)

	// list messages
	rr = do(http.MethodGet, "/chatrooms/1/messages", token, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var messages []types.Message
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&messages))
	require.Len(t, messages, 1)
	assert.Equal(t, "hi", messages[0].Content)
	assert.Equal(t, alice.Id, messages[0].UserId)

	// delete room as creator
	rr = do(http.MethodDelete, "/chatrooms/1", token, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var deleted MessageResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&deleted))
	assert.Equal(t, "Chatroom deleted successfully", deleted.Message)

	// the room is gone
	rr = do(http.MethodGet, "/chatrooms/1/messages", token, nil, "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}
