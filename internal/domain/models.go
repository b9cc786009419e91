// Package domain defines the persistence models for projects, conversations,
// and messages. These types are mapped with GORM and form the core data layer
// of the studio backend.
package domain

import (
	"time"
)

// Project represents a workspace owned by a user. Projects carry a
// URL-friendly slug derived from their name and may be marked public,
// in which case they are readable by anyone.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - OwnerID: identifier of the creating user; immutable after creation.
//   - Name / Slug: display name and its unique, URL-safe derivative.
//   - Description: optional free-form text.
//   - IsPublic: when true, the project is readable without authentication.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//
// Deletion is permanent: the row is removed and its slug becomes reusable.
type Project struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	OwnerID     string    `json:"owner_id"    gorm:"type:varchar(64);not null;index:idx_owner_projects"`
	Name        string    `json:"name"        gorm:"type:varchar(120);not null"`
	Slug        string    `json:"slug"        gorm:"type:varchar(140);not null;uniqueIndex:ux_project_slug"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	IsPublic    bool      `json:"is_public"   gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for Project.
func (Project) TableName() string { return "projects" }

// Conversation represents a chat thread owned by a user. Conversations are
// always private to their owner; there is no public visibility flag.
type Conversation struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	OwnerID   string    `json:"owner_id"   gorm:"type:varchar(64);not null;index:idx_owner_conversations"`
	Title     string    `json:"title"      gorm:"type:varchar(255);not null;default:'New conversation'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Conversation.
func (Conversation) TableName() string { return "conversations" }

// Message represents a single utterance within a conversation, authored
// either by the "user" or the "assistant".
type Message struct {
	ID             string    `json:"id"              gorm:"type:char(36);primaryKey"`
	ConversationID string    `json:"conversation_id" gorm:"type:char(36);not null;index:idx_conversation_msgs,priority:1"`
	Role           string    `json:"role"            gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Content        string    `json:"content"         gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"created_at"      gorm:"index:idx_conversation_msgs,priority:2"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Conversation is the parent thread. Messages are cascade-deleted
	// if their conversation is removed.
	Conversation Conversation `json:"-" gorm:"foreignKey:ConversationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }
