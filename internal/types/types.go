package types

import (
	"time"
)

type User struct {
	Id       int    `json:"id"`
	Username string `json:"username"`
}

type Chatroom struct {
	Id        int       `json:"id"`
	Name      string    `json:"name"`
	CreatorId int       `json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	Id         int       `json:"id"`
	ChatroomId int       `json:"chatroom_id"`
	UserId     int       `json:"user_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
