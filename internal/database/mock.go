package database

import (
	"github.com/stretchr/testify/mock"
)

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockChatRepository) CreateAccount(params CreateAccountParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockChatRepository) GetAccountById(accountId int) (User, error) {
	args := m.Called(accountId)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockChatRepository) GetAccountByUsername(username string) (User, error) {
	args := m.Called(username)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockChatRepository) CreateChatroom(params CreateChatroomParams) (Chatroom, error) {
	args := m.Called(params)
	return args.Get(0).(Chatroom), args.Error(1)
}
func (m *MockChatRepository) GetChatroom(chatroomId int) (Chatroom, error) {
	args := m.Called(chatroomId)
	return args.Get(0).(Chatroom), args.Error(1)
}
func (m *MockChatRepository) ListChatrooms() ([]Chatroom, error) {
	args := m.Called()
	return args.Get(0).([]Chatroom), args.Error(1)
}
func (m *MockChatRepository) DeleteChatroom(chatroomId int) error {
	args := m.Called(chatroomId)
	return args.Error(0)
}
func (m *MockChatRepository) CreateMessage(params CreateMessageParams) (Message, error) {
	args := m.Called(params)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockChatRepository) ListMessages(chatroomId int) ([]Message, error) {
	args := m.Called(chatroomId)
	return args.Get(0).([]Message), args.Error(1)
}
