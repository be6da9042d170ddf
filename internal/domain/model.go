package domain

import (
	"time"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	DisplayName  string    `gorm:"type:varchar(100)"`
	Email        string    `gorm:"type:varchar(255)"`
	Bio          string    `gorm:"type:text"`
	AvatarURL    string    `gorm:"type:varchar(500)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for UserModel.
func (UserModel) TableName() string {
	return "users"
}

// TopicModel is the GORM model for the topics table. The unique index on
// name backs the find-or-create semantics for topics.
type TopicModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for TopicModel.
func (TopicModel) TableName() string {
	return "topics"
}

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	ID           string      `gorm:"type:varchar(36);primaryKey"`
	TopicID      string      `gorm:"type:varchar(36);index;not null"`
	HostID       string      `gorm:"type:varchar(36);index;not null"`
	Name         string      `gorm:"type:varchar(200);not null"`
	Description  string      `gorm:"type:text"`
	CreatedAt    time.Time   `gorm:"autoCreateTime"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime"`
	Topic        *TopicModel `gorm:"foreignKey:TopicID"`
	Host         *UserModel  `gorm:"foreignKey:HostID"`
	Participants []UserModel `gorm:"many2many:room_participants;joinForeignKey:RoomID;joinReferences:UserID"`
}

// TableName specifies the table name for RoomModel.
func (RoomModel) TableName() string {
	return "rooms"
}

// RoomParticipantModel is the join row backing the room participant set.
// The composite primary key gives set semantics in storage.
type RoomParticipantModel struct {
	RoomID    string    `gorm:"type:varchar(36);primaryKey"`
	UserID    string    `gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for RoomParticipantModel.
func (RoomParticipantModel) TableName() string {
	return "room_participants"
}

// MessageModel is the GORM model for the messages table.
type MessageModel struct {
	ID        string     `gorm:"type:varchar(36);primaryKey"`
	RoomID    string     `gorm:"type:varchar(36);index;not null"`
	AuthorID  string     `gorm:"type:varchar(36);index;not null"`
	Body      string     `gorm:"type:text;not null"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	Room      *RoomModel `gorm:"foreignKey:RoomID"`
	Author    *UserModel `gorm:"foreignKey:AuthorID"`
}

// TableName specifies the table name for MessageModel.
func (MessageModel) TableName() string {
	return "messages"
}

// ToDomain converts UserModel to domain User.
func (m *UserModel) ToDomain() *User {
	return &User{
		ID:           m.ID,
		Username:     m.Username,
		DisplayName:  m.DisplayName,
		Email:        m.Email,
		Bio:          m.Bio,
		AvatarURL:    m.AvatarURL,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// UserToModel converts domain User to UserModel.
func UserToModel(u *User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		Email:        u.Email,
		Bio:          u.Bio,
		AvatarURL:    u.AvatarURL,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// ToDomain converts TopicModel to domain Topic.
func (m *TopicModel) ToDomain() *Topic {
	return &Topic{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

// ToDomain converts RoomModel to domain Room. Topic name, host username, and
// participants are populated when the associations were preloaded.
func (m *RoomModel) ToDomain() *Room {
	room := &Room{
		ID:          m.ID,
		TopicID:     m.TopicID,
		HostID:      m.HostID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Topic != nil {
		room.TopicName = m.Topic.Name
	}
	if m.Host != nil {
		room.HostUsername = m.Host.Username
	}
	if len(m.Participants) > 0 {
		room.Participants = make([]User, len(m.Participants))
		for i := range m.Participants {
			room.Participants[i] = *m.Participants[i].ToDomain()
		}
	}
	return room
}

// RoomToModel converts domain Room to RoomModel.
func RoomToModel(r *Room) *RoomModel {
	return &RoomModel{
		ID:          r.ID,
		TopicID:     r.TopicID,
		HostID:      r.HostID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ToDomain converts MessageModel to domain Message. Room name and author
// username are populated when the associations were preloaded.
func (m *MessageModel) ToDomain() *Message {
	msg := &Message{
		ID:        m.ID,
		RoomID:    m.RoomID,
		AuthorID:  m.AuthorID,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
	if m.Room != nil {
		msg.RoomName = m.Room.Name
	}
	if m.Author != nil {
		msg.AuthorUsername = m.Author.Username
	}
	return msg
}

// MessageToModel converts domain Message to MessageModel.
func MessageToModel(msg *Message) *MessageModel {
	return &MessageModel{
		ID:        msg.ID,
		RoomID:    msg.RoomID,
		AuthorID:  msg.AuthorID,
		Body:      msg.Body,
		CreatedAt: msg.CreatedAt,
	}
}
