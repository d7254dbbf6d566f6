package models

import "time"

// User represents an account within the VidTube platform. The password hash
// and refresh token never leave the auth and repository layers; anything
// response-shaped goes through PublicProfile.
type User struct {
	ID            string
	Username      string
	Email         string
	Password      string
	FullName      string
	AvatarURL     string
	CoverImageURL string
	RefreshToken  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PublicProfile is the sanitized view of a user returned by the API.
type PublicProfile struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Profile returns the sanitized view of the user.
func (u User) Profile() PublicProfile {
	return PublicProfile{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// Video stores an uploaded video along with its engagement counters.
type Video struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner"`
	VideoURL     string    `json:"videoFile"`
	ThumbnailURL string    `json:"thumbnail"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Duration     int64     `json:"duration"`
	Views        int64     `json:"views"`
	Likes        int64     `json:"likes"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Subscription is a directed edge from a subscriber to a channel. Both ends
// reference users; a channel is a user viewed as a content source.
type Subscription struct {
	SubscriberID string
	ChannelID    string
	CreatedAt    time.Time
}

// ChannelStats aggregates the subscription counts for one channel.
type ChannelStats struct {
	TotalSubscribers  int64 `json:"totalSubscribers"`
	TotalSubscribedTo int64 `json:"totalSubscribedTo"`
}

// ChannelProfile is the derived view combining a channel's profile with its
// subscription relationships as seen by a particular viewer.
type ChannelProfile struct {
	PublicProfile
	ChannelStats
	IsSubscribed bool `json:"isSubscribed"`
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
