package osutrack

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexString holds values osu!track sends either as JSON strings or numbers.
type FlexString string

// UnmarshalJSON accepts a string, a number, or null.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// Float parses the value, returning 0 when it is not numeric.
func (f FlexString) Float() float64 {
	v, err := strconv.ParseFloat(string(f), 64)
	if err != nil {
		return 0
	}
	return v
}

// HiScore is a new top play reported by an update
type HiScore struct {
	BeatmapID       FlexString `json:"beatmap_id"`
	ScoreID         FlexString `json:"score_id"`
	Score           FlexString `json:"score"`
	MaxCombo        FlexString `json:"maxcombo"`
	Count50         FlexString `json:"count50"`
	Count100        FlexString `json:"count100"`
	Count300        FlexString `json:"count300"`
	CountMiss       FlexString `json:"countmiss"`
	CountKatu       FlexString `json:"countkatu"`
	CountGeki       FlexString `json:"countgeki"`
	Perfect         FlexString `json:"perfect"`
	EnabledMods     FlexString `json:"enabled_mods"`
	UserID          FlexString `json:"user_id"`
	Date            FlexString `json:"date"`
	Rank            FlexString `json:"rank"`
	PP              FlexString `json:"pp"`
	ReplayAvailable FlexString `json:"replay_available"`
	Ranking         int        `json:"ranking"`
}

// UpdateResponse is the stat difference since the user's previous update
type UpdateResponse struct {
	Username    string    `json:"username"`
	Mode        int       `json:"mode"`
	PlayCount   int64     `json:"playcount"`
	PPRank      int64     `json:"pp_rank"`
	PPRaw       float64   `json:"pp_raw"`
	Accuracy    float64   `json:"accuracy"`
	TotalScore  int64     `json:"total_score"`
	RankedScore int64     `json:"ranked_score"`
	Count300    int64     `json:"count300"`
	Count50     int64     `json:"count50"`
	Count100    int64     `json:"count100"`
	Level       float64   `json:"level"`
	CountRankA  int64     `json:"count_rank_a"`
	CountRankS  int64     `json:"count_rank_s"`
	CountRankSS int64     `json:"count_rank_ss"`
	LevelUp     bool      `json:"levelup"`
	First       bool      `json:"first"`
	Exists      *bool     `json:"exists"`
	NewHS       []HiScore `json:"newhs"`
}

// UserExists treats a missing exists flag as true
func (u *UpdateResponse) UserExists() bool {
	return u.Exists == nil || *u.Exists
}

// StatsUpdate is one recorded snapshot of a user's stats
type StatsUpdate struct {
	Count300    int64      `json:"count300"`
	Count100    int64      `json:"count100"`
	Count50     int64      `json:"count50"`
	PlayCount   int64      `json:"playcount"`
	RankedScore FlexString `json:"ranked_score"`
	TotalScore  FlexString `json:"total_score"`
	PPRank      int64      `json:"pp_rank"`
	Level       float64    `json:"level"`
	PPRaw       float64    `json:"pp_raw"`
	Accuracy    float64    `json:"accuracy"`
	CountRankSS int64      `json:"count_rank_ss"`
	CountRankS  int64      `json:"count_rank_s"`
	CountRankA  int64      `json:"count_rank_a"`
	Timestamp   string     `json:"timestamp"`
}

// RecordedScore is a score osu!track has stored for a user
type RecordedScore struct {
	BeatmapID  int64   `json:"beatmap_id"`
	Score      int64   `json:"score"`
	PP         float64 `json:"pp"`
	Mods       int64   `json:"mods"`
	Rank       string  `json:"rank"`
	ScoreTime  string  `json:"score_time"`
	UpdateTime string  `json:"update_time"`
}

// PeakData is the best rank and accuracy ever recorded
type PeakData struct {
	BestGlobalRank    *int64   `json:"best_global_rank"`
	BestRankTimestamp *string  `json:"best_rank_timestamp"`
	BestAccuracy      *float64 `json:"best_accuracy"`
	BestAccTimestamp  *string  `json:"best_acc_timestamp"`
}

// BestPlay is a top play across all tracked users
type BestPlay struct {
	User       int64   `json:"user"`
	BeatmapID  int64   `json:"beatmap_id"`
	Score      int64   `json:"score"`
	PP         float64 `json:"pp"`
	Mods       int64   `json:"mods"`
	Rank       string  `json:"rank"`
	ScoreTime  string  `json:"score_time"`
	UpdateTime string  `json:"update_time"`
}
