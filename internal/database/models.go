package database

import "time"

type User struct {
	Id           int
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type Chatroom struct {
	Id        int
	Name      string
	CreatorId int
	CreatedAt time.Time
}

type Message struct {
	Id         int
	ChatroomId int
	UserId     int
	Content    string
	CreatedAt  time.Time
}

type CreateAccountParams struct {
	Username     string
	PasswordHash string
}

type CreateChatroomParams struct {
	Name      string
	CreatorId int
}

type CreateMessageParams struct {
	ChatroomId int
	UserId     int
	Content    string
}
