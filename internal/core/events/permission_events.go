package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePermissionGranted = "permission.granted"
	EventTypePermissionRevoked = "permission.revoked"
)

// PermissionChangedEvent records a grant or revoke against one subject.
// SubjectType is one of user, role, position, staff.
type PermissionChangedEvent struct {
	BaseEvent
	SubjectType string `json:"subject_type"`
	SubjectID   int64  `json:"subject_id"`
	Permission  string `json:"permission"`
	ActorID     int64  `json:"actor_id"`
	Changed     bool   `json:"changed"`
}

func NewPermissionGrantedEvent(subjectType string, subjectID int64, permission string, actorID int64, changed bool) *PermissionChangedEvent {
	return newPermissionChangedEvent(EventTypePermissionGranted, subjectType, subjectID, permission, actorID, changed)
}

func NewPermissionRevokedEvent(subjectType string, subjectID int64, permission string, actorID int64, changed bool) *PermissionChangedEvent {
	return newPermissionChangedEvent(EventTypePermissionRevoked, subjectType, subjectID, permission, actorID, changed)
}

func newPermissionChangedEvent(eventType, subjectType string, subjectID int64, permission string, actorID int64, changed bool) *PermissionChangedEvent {
	return &PermissionChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"subject_type": subjectType,
				"subject_id":   subjectID,
				"permission":   permission,
				"actor_id":     actorID,
				"changed":      changed,
			},
		},
		SubjectType: subjectType,
		SubjectID:   subjectID,
		Permission:  permission,
		ActorID:     actorID,
		Changed:     changed,
	}
}
