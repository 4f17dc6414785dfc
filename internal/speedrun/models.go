// Package speedrun tracks games, runners and their record times.
package speedrun

import "time"

type Game struct {
	ID          uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string `json:"title" gorm:"not null"`
	Platform    string `json:"platform" gorm:"not null"`
	ReleaseYear int    `json:"release_year"`
}

type Runner struct {
	ID       uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name     string    `json:"name" gorm:"not null"`
	JoinDate time.Time `json:"join_date"`
	Country  string    `json:"country"`
}

// Record is one run. Time is the run duration in whole seconds.
type Record struct {
	ID       uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	RunnerID uint      `json:"runner_id" gorm:"not null;index"`
	Runner   Runner    `json:"runner"`
	GameID   uint      `json:"game_id" gorm:"not null;index"`
	Game     Game      `json:"game"`
	Time     int       `json:"time"`
	Date     time.Time `json:"date"`
	Verified bool      `json:"verified" gorm:"default:false"`
}

// Platforms are the consoles a game can be listed for.
var Platforms = []string{
	"NES",
	"SNES",
	"PS1",
	"PS2",
	"PS3",
	"Gamecube",
	"Xbox",
	"Wii",
	"Wii U",
	"Xbox 360",
	"Xbox One",
	"PS4",
	"Switch",
}
