package osuapi

import "time"

// Every attribute the API may omit is a pointer or a nil-able slice.

// Country is the user's country
type Country struct {
	Code *string `json:"code"`
	Name *string `json:"name"`
}

// User is the compact user object
type User struct {
	ID            *int64     `json:"id"`
	Username      *string    `json:"username"`
	AvatarURL     *string    `json:"avatar_url"`
	CountryCode   *string    `json:"country_code"`
	Country       *Country   `json:"country"`
	DefaultGroup  *string    `json:"default_group"`
	IsActive      *bool      `json:"is_active"`
	IsBot         *bool      `json:"is_bot"`
	IsDeleted     *bool      `json:"is_deleted"`
	IsOnline      *bool      `json:"is_online"`
	IsSupporter   *bool      `json:"is_supporter"`
	LastVisit     *time.Time `json:"last_visit"`
	PMFriendsOnly *bool      `json:"pm_friends_only"`
	ProfileColour *string    `json:"profile_colour"`
}

// Level is the profile level and progress to the next one
type Level struct {
	Current  *int `json:"current"`
	Progress *int `json:"progress"`
}

// GradeCounts counts ranked plays per grade
type GradeCounts struct {
	SS  *int `json:"ss"`
	SSH *int `json:"ssh"`
	S   *int `json:"s"`
	SH  *int `json:"sh"`
	A   *int `json:"a"`
}

// UserStatistics is per-mode play statistics
type UserStatistics struct {
	Count100               *int64       `json:"count_100"`
	Count300               *int64       `json:"count_300"`
	Count50                *int64       `json:"count_50"`
	CountMiss              *int64       `json:"count_miss"`
	Level                  *Level       `json:"level"`
	GlobalRank             *int64       `json:"global_rank"`
	CountryRank            *int64       `json:"country_rank"`
	PP                     *float64     `json:"pp"`
	RankedScore            *int64       `json:"ranked_score"`
	HitAccuracy            *float64     `json:"hit_accuracy"`
	PlayCount              *int64       `json:"play_count"`
	PlayTime               *int64       `json:"play_time"`
	TotalScore             *int64       `json:"total_score"`
	TotalHits              *int64       `json:"total_hits"`
	MaximumCombo           *int64       `json:"maximum_combo"`
	ReplaysWatchedByOthers *int64       `json:"replays_watched_by_others"`
	IsRanked               *bool        `json:"is_ranked"`
	GradeCounts            *GradeCounts `json:"grade_counts"`
}

// RankHighest is the best global rank ever held
type RankHighest struct {
	Rank      *int64     `json:"rank"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// UserBadge is a profile badge
type UserBadge struct {
	AwardedAt   *time.Time `json:"awarded_at"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"image_url"`
	URL         *string    `json:"url"`
}

// UserGroup is a group membership such as GMT or NAT
type UserGroup struct {
	ID         *int64   `json:"id"`
	Identifier *string  `json:"identifier"`
	Name       *string  `json:"name"`
	ShortName  *string  `json:"short_name"`
	Colour     *string  `json:"colour"`
	Playmodes  []string `json:"playmodes"`
}

// UserExtended is the full profile returned by users/{user} and me
type UserExtended struct {
	User

	CoverURL                 *string         `json:"cover_url"`
	Discord                  *string         `json:"discord"`
	HasSupported             *bool           `json:"has_supported"`
	Interests                *string         `json:"interests"`
	JoinDate                 *time.Time      `json:"join_date"`
	Location                 *string         `json:"location"`
	MaxFriends               *int            `json:"max_friends"`
	Occupation               *string         `json:"occupation"`
	Playmode                 *string         `json:"playmode"`
	Playstyle                []string        `json:"playstyle"`
	PostCount                *int64          `json:"post_count"`
	Title                    *string         `json:"title"`
	Twitter                  *string         `json:"twitter"`
	Website                  *string         `json:"website"`
	FollowerCount            *int64          `json:"follower_count"`
	PreviousUsernames        []string        `json:"previous_usernames"`
	RankedBeatmapsetCount    *int64          `json:"ranked_beatmapset_count"`
	ScoresFirstCount         *int64          `json:"scores_first_count"`
	SupportLevel             *int            `json:"support_level"`
	Statistics               *UserStatistics `json:"statistics"`
	RankHighest              *RankHighest    `json:"rank_highest"`
	Badges                   []UserBadge     `json:"badges"`
	Groups                   []UserGroup     `json:"groups"`
	SessionVerified          *bool           `json:"session_verified"`
	FavouriteBeatmapsetCount *int64          `json:"favourite_beatmapset_count"`
}

// usersResponse wraps the users lookup payload
type usersResponse struct {
	Users []UserExtended `json:"users"`
}

// Value dereferences p, returning the zero value when p is nil.
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
