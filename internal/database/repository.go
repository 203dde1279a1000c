package database

type ChatRepository interface {
	Ping() error
	CreateAccount(params CreateAccountParams) (User, error)
	GetAccountById(accountId int) (User, error)
	GetAccountByUsername(username string) (User, error)
	CreateChatroom(params CreateChatroomParams) (Chatroom, error)
	GetChatroom(chatroomId int) (Chatroom, error)
	ListChatrooms() ([]Chatroom, error)
	DeleteChatroom(chatroomId int) error
	CreateMessage(params CreateMessageParams) (Message, error)
	ListMessages(chatroomId int) ([]Message, error)
}
