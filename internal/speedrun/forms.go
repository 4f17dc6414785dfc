package speedrun

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Not a valid choice."
	msgInvalidInt    = "Not a valid integer value."
	msgInvalidTime   = "Use h:mm:ss, m:ss or a number of seconds."
)

// FieldErrors maps form field names to a message.
type FieldErrors map[string]string

type GameForm struct {
	Name        string `form:"name"`
	Platform    string `form:"platform"`
	ReleaseYear string `form:"release_year"`
}

// Validate returns the game described by the form, or the field errors.
func (f GameForm) Validate() (*Game, FieldErrors) {
	errs := FieldErrors{}
	name := strings.TrimSpace(f.Name)
	if name == "" {
		errs["name"] = msgRequired
	}

	switch {
	case f.Platform == "":
		errs["platform"] = msgRequired
	case !isPlatform(f.Platform):
		errs["platform"] = msgInvalidChoice
	}

	year, err := strconv.Atoi(strings.TrimSpace(f.ReleaseYear))
	switch {
	case strings.TrimSpace(f.ReleaseYear) == "":
		errs["release_year"] = msgRequired
	case err != nil:
		errs["release_year"] = msgInvalidInt
	case year == 0:
		errs["release_year"] = msgRequired
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &Game{Title: name, Platform: f.Platform, ReleaseYear: year}, nil
}

func isPlatform(p string) bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

type RunnerForm struct {
	Name    string `form:"name"`
	Country string `form:"country"`
}

func (f RunnerForm) Validate() (*Runner, FieldErrors) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return nil, FieldErrors{"name": msgRequired}
	}
	return &Runner{Name: name, Country: strings.TrimSpace(f.Country)}, nil
}

type RecordForm struct {
	GameID   string `form:"game"`
	RunnerID string `form:"runner"`
	Time     string `form:"time"`
	Verified string `form:"verified"`
}

// Validate checks the form fields. Whether the game and runner exist is checked by the handler.
func (f RecordForm) Validate() (*Record, FieldErrors) {
	errs := FieldErrors{}

	gameID, err := strconv.ParseUint(f.GameID, 10, 64)
	if err != nil || gameID == 0 {
		errs["game"] = msgInvalidChoice
	}
	runnerID, err := strconv.ParseUint(f.RunnerID, 10, 64)
	if err != nil || runnerID == 0 {
		errs["runner"] = msgInvalidChoice
	}

	var seconds int
	if strings.TrimSpace(f.Time) == "" {
		errs["time"] = msgRequired
	} else if seconds, err = ParseRunTime(f.Time); err != nil {
		errs["time"] = msgInvalidTime
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &Record{
		GameID:   uint(gameID),
		RunnerID: uint(runnerID),
		Time:     seconds,
		Verified: f.Verified != "",
	}, nil
}

// ParseRunTime reads "h:mm:ss", "m:ss" or plain seconds into a number of seconds.
func ParseRunTime(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid run time %q", s)
	}

	total := 0
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid run time %q", s)
		}
		// everything after the leading unit is a base-60 field
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("invalid run time %q", s)
		}
		total = total*60 + n
	}
	if total == 0 {
		return 0, fmt.Errorf("run time must be positive")
	}
	return total, nil
}

// FormatRunTime renders seconds as "h:mm:ss", or "m:ss" under an hour.
func FormatRunTime(seconds int) string {
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
