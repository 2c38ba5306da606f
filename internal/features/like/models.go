package like

import (
	"time"

	"github.com/google/uuid"
)

// Like marks exactly one of video, comment or tweet as liked by a user.
type Like struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LikedByID uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_likes_video;uniqueIndex:idx_likes_comment;uniqueIndex:idx_likes_tweet" json:"likedBy"`
	VideoID   *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_likes_video" json:"videoId,omitempty"`
	CommentID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_likes_comment" json:"commentId,omitempty"`
	TweetID   *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_likes_tweet" json:"tweetId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (Like) TableName() string {
	return "likes"
}

// Target identifies what a like points at.
type Target string

const (
	TargetVideo   Target = "video"
	TargetComment Target = "comment"
	TargetTweet   Target = "tweet"
)

func (t Target) table() string {
	switch t {
	case TargetVideo:
		return "videos"
	case TargetComment:
		return "comments"
	default:
		return "tweets"
	}
}

func (t Target) column() string {
	return string(t) + "_id"
}

// --- DTOs ---

type ToggleRequest struct {
	IsLiked *bool `json:"isLiked"`
}

type ToggleResponse struct {
	Target  Target    `json:"target"`
	ID      uuid.UUID `json:"id"`
	IsLiked bool      `json:"isLiked"`
	Likes   int64     `json:"likes"`
}
