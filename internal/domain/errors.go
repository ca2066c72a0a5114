package domain

import "errors"

var (
	// ErrRoomNotFound is returned when the addressed room does not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomFull is returned when a join would exceed the room capacity.
	ErrRoomFull = errors.New("room is full")
	// ErrInvalidPlayerCount is returned when a game start falls outside the 2-10 player window.
	ErrInvalidPlayerCount = errors.New("need at least 2 players and maximum 10 players to start")
	// ErrNotAuthorized is returned when someone other than the room creator tries to start the game.
	ErrNotAuthorized = errors.New("only the room creator can start the game")
	// ErrQuestionSetNotFound indicates the question content could not be loaded.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrUserExists is returned on signup with an already registered email.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when an account lookup comes up empty.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned on login with a bad email or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
