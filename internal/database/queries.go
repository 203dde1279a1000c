package database

import (
	"time"
)

func (db *PgChatRepository) CreateAccount(params CreateAccountParams) (User, error) {
	res := db.conn.QueryRow(
		"INSERT INTO users (username, password_hash, created_at) "+
			"VALUES ($1, $2, $3) RETURNING id, username, created_at",
		params.Username,
		params.PasswordHash,
		time.Now().UTC(),
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Username,
		&u.CreatedAt,
	)
	if isUniqueViolation(err) {
		return User{}, ErrDuplicateUsername
	}

	return u, err
}

func (db *PgChatRepository) GetAccountById(accountId int) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, created_at FROM users "+
			"WHERE id = $1 LIMIT 1",
		accountId,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.CreatedAt,
	)

	return user, err
}

func (db *PgChatRepository) GetAccountByUsername(username string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, password_hash, created_at FROM users "+
			"WHERE username = $1 LIMIT 1",
		username,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	return user, err
}

func (db *PgChatRepository) CreateChatroom(params CreateChatroomParams) (Chatroom, error) {
	res := db.conn.QueryRow(
		"INSERT INTO chatrooms (name, creator_id, created_at) "+
			"VALUES ($1, $2, $3) RETURNING id, name, creator_id, created_at",
		params.Name,
		params.CreatorId,
		time.Now().UTC(),
	)

	var room Chatroom
	err := res.Scan(
		&room.Id,
		&room.Name,
		&room.CreatorId,
		&room.CreatedAt,
	)

	return room, err
}

func (db *PgChatRepository) GetChatroom(chatroomId int) (Chatroom, error) {
	row := db.conn.QueryRow(
		"SELECT id, name, creator_id, created_at FROM chatrooms "+
			"WHERE id = $1 LIMIT 1",
		chatroomId,
	)

	var room Chatroom
	err := row.Scan(
		&room.Id,
		&room.Name,
		&room.CreatorId,
		&room.CreatedAt,
	)

	return room, err
}

func (db *PgChatRepository) ListChatrooms() ([]Chatroom, error) {
	rows, err := db.conn.Query(
		"SELECT id, name, creator_id, created_at FROM chatrooms ORDER BY id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms = make([]Chatroom, 0)
	for rows.Next() {
		var room Chatroom
		if err = rows.Scan(&room.Id, &room.Name, &room.CreatorId, &room.CreatedAt); err != nil {
			break
		}

		rooms = append(rooms, room)
	}

	return rooms, err
}

// DeleteChatroom removes a room and its messages in a single transaction.
// Messages are deleted first so no message ever references a missing room.
func (db *PgChatRepository) DeleteChatroom(chatroomId int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.Exec("DELETE FROM messages WHERE chatroom_id = $1", chatroomId)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM chatrooms WHERE id = $1", chatroomId)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (db *PgChatRepository) CreateMessage(params CreateMessageParams) (Message, error) {
	res := db.conn.QueryRow(
		"INSERT INTO messages (chatroom_id, user_id, content, created_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, chatroom_id, user_id, content, created_at",
		params.ChatroomId,
		params.UserId,
		params.Content,
		time.Now().UTC(),
	)

	var msg Message
	err := res.Scan(
		&msg.Id,
		&msg.ChatroomId,
		&msg.UserId,
		&msg.Content,
		&msg.CreatedAt,
	)
	if isForeignKeyViolation(err) {
		return Message{}, ErrMissingReference
	}

	return msg, err
}

func (db *PgChatRepository) ListMessages(chatroomId int) ([]Message, error) {
	rows, err := db.conn.Query(
		"SELECT id, chatroom_id, user_id, content, created_at FROM messages "+
			"WHERE chatroom_id = $1 ORDER BY id",
		chatroomId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages = make([]Message, 0)
	for rows.Next() {
		var msg Message
		if err = rows.Scan(&msg.Id, &msg.ChatroomId, &msg.UserId, &msg.Content, &msg.CreatedAt); err != nil {
			break
		}

		messages = append(messages, msg)
	}

	return messages, err
}
