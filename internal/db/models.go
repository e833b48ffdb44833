package db

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role is the fixed side a user plays in the bipartite pairing.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleTeacher, RoleStudent:
		return r, true
	}
	return "", false
}

// Opposite returns the role a user of r is matched against.
func (r Role) Opposite() Role {
	if r == RoleTeacher {
		return RoleStudent
	}
	return RoleTeacher
}

// TagKind returns the kind of tag a user of r declares.
func (r Role) TagKind() TagKind {
	if r == RoleTeacher {
		return TagKindSkill
	}
	return TagKindInterest
}

// TagKind separates teacher skills from student interests in the tags table.
type TagKind string

const (
	TagKindSkill    TagKind = "skill"
	TagKindInterest TagKind = "interest"
)

// SwipeDecision is the direction-less verdict of a swipe.
type SwipeDecision string

const (
	DecisionLike SwipeDecision = "like"
	DecisionSkip SwipeDecision = "skip"
)

// ParseDecision normalizes s and reports whether it is like or skip.
func ParseDecision(s string) (SwipeDecision, bool) {
	switch d := SwipeDecision(strings.ToLower(strings.TrimSpace(s))); d {
	case DecisionLike, DecisionSkip:
		return d, true
	}
	return "", false
}

// User table. Rows are owned by the identity provider; this service reads
// them and sets Role plus display fields on profile completion.
type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"size:128;not null"`
	Email        string    `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	PhotoURL     string    `gorm:"size:512"`
	Bio          string    `gorm:"type:text"`
	Role         Role      `gorm:"size:16;index;not null;default:''"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Tag is either a teacher skill or a student interest, told apart by Kind.
//
// Level holds a teacher's proficiency or a student's difficulty.
// DesiredLevel is only meaningful for interests.
type Tag struct {
	ID                 uint64    `gorm:"primaryKey;autoIncrement"`
	UserID             uint64    `gorm:"not null;index:idx_tags_user_kind,priority:1"`
	Kind               TagKind   `gorm:"size:16;not null;index:idx_tags_user_kind,priority:2"`
	Name               string    `gorm:"size:128;not null"`
	Level              string    `gorm:"size:32"`
	DesiredLevel       string    `gorm:"size:32"`
	Description        string    `gorm:"type:text"`
	RequiresEvaluation bool      `gorm:"not null;default:false"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
}

// Swipe represents a one-directional like/skip decision.
//
// Composite PK: (FromUserID, ToUserID)
//   - At most one row per ordered pair; repeats are rejected, never overwritten.
//
// Indexes:
//   - idx_swipes_to_decision(to_user_id, decision)
//     Serves reciprocal-like lookups and "likes received" counts.
type Swipe struct {
	FromUserID uint64        `gorm:"primaryKey;autoIncrement:false"`
	ToUserID   uint64        `gorm:"primaryKey;autoIncrement:false;index:idx_swipes_to_decision,priority:1"`
	Decision   SwipeDecision `gorm:"size:8;not null;index:idx_swipes_to_decision,priority:2"`
	CreatedAt  time.Time     `gorm:"autoCreateTime"`
}

// Match is the symmetric relation created on mutual like.
//
// UserAID < UserBID always holds; the unique index on the pair makes the
// insert-or-ignore creation path converge on a single row.
type Match struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserAID   uint64    `gorm:"not null;uniqueIndex:idx_matches_pair,priority:1"`
	UserBID   uint64    `gorm:"not null;uniqueIndex:idx_matches_pair,priority:2;index"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

// BeforeCreate stores created_at as UTC milliseconds, the precision MySQL
// keeps and the match list cursor encodes.
func (m *Match) BeforeCreate(tx *gorm.DB) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = tx.NowFunc()
	}
	m.CreatedAt = m.CreatedAt.UTC().Truncate(time.Millisecond)
	return nil
}

// Counterpart returns the participant that is not userID.
func (m *Match) Counterpart(userID uint64) (uint64, bool) {
	switch userID {
	case m.UserAID:
		return m.UserBID, true
	case m.UserBID:
		return m.UserAID, true
	}
	return 0, false
}

// Rating is one participant's score for the other within a match.
// (MatchID, RaterID) is unique: a resubmission updates the row.
type Rating struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	MatchID   uint64    `gorm:"not null;uniqueIndex:idx_ratings_match_rater,priority:1"`
	RaterID   uint64    `gorm:"not null;uniqueIndex:idx_ratings_match_rater,priority:2"`
	RatedID   uint64    `gorm:"not null;index"`
	Score     int       `gorm:"not null;check:chk_ratings_score,score >= 1 AND score <= 5"`
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Message belongs to the chat collaborator; matching only reads it for
// conversation summaries.
type Message struct {
	ID       uint64    `gorm:"primaryKey;autoIncrement"`
	MatchID  uint64    `gorm:"not null;index:idx_messages_match_sent,priority:1"`
	SenderID uint64    `gorm:"not null;index"`
	Body     string    `gorm:"type:text;not null"`
	SentAt   time.Time `gorm:"autoCreateTime;index:idx_messages_match_sent,priority:2"`
	IsRead   bool      `gorm:"not null;default:false"`
}

// Models lists every table in migration order.
func Models() []any {
	return []any{&User{}, &Tag{}, &Swipe{}, &Match{}, &Rating{}, &Message{}}
}
