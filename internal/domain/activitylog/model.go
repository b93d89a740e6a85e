package activitylog

import (
	"strings"
	"time"
)

type Action string

const (
	ActionUploadBanner      Action = "UPLOAD_BANNER"
	ActionDeleteBanner      Action = "DELETE_BANNER"
	ActionCreateMatch       Action = "CREATE_MATCH"
	ActionUpdateMatch       Action = "UPDATE_MATCH"
	ActionDeleteMatch       Action = "DELETE_MATCH"
	ActionUpdateMatchScore  Action = "UPDATE_MATCH_SCORE"
	ActionUpdateMatchStatus Action = "UPDATE_MATCH_STATUS"
	ActionSendReminder      Action = "SEND_24H_REMINDER"
	ActionSendMatchResult   Action = "SEND_MATCH_RESULT"
	ActionLogin             Action = "LOGIN"
	ActionLogout            Action = "LOGOUT"
	ActionEmailSubscribe    Action = "EMAIL_SUBSCRIBE"
	ActionEmailUnsubscribe  Action = "EMAIL_UNSUBSCRIBE"
	ActionCreateUser        Action = "CREATE_USER"
	ActionUpdateUser        Action = "UPDATE_USER"
	ActionDeleteUser        Action = "DELETE_USER"
)

// Entry is one audited operator or visitor action.
type Entry struct {
	ID        string
	UserID    string
	UserName  string
	UserRole  string
	Action    Action
	Target    string
	TargetID  string
	Details   map[string]any
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}

// Category groups actions for the log viewer filter.
type Category string

const (
	CategoryAll          Category = "all"
	CategoryBanner       Category = "banner"
	CategoryMatch        Category = "match"
	CategoryAuth         Category = "auth"
	CategorySubscription Category = "subscription"
	CategoryUser         Category = "user"
)

var categoryActions = map[Category][]Action{
	CategoryBanner:       {ActionUploadBanner, ActionDeleteBanner},
	CategoryMatch:        {ActionCreateMatch, ActionUpdateMatch, ActionDeleteMatch, ActionUpdateMatchScore, ActionUpdateMatchStatus, ActionSendReminder, ActionSendMatchResult},
	CategoryAuth:         {ActionLogin, ActionLogout},
	CategorySubscription: {ActionEmailSubscribe, ActionEmailUnsubscribe},
	CategoryUser:         {ActionCreateUser, ActionUpdateUser, ActionDeleteUser},
}

// ParseCategory falls back to CategoryAll for empty or unknown values.
func ParseCategory(value string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := categoryActions[c]; ok {
		return c
	}
	return CategoryAll
}

// Actions returns the actions in the category, or nil for CategoryAll.
func (c Category) Actions() []Action {
	return categoryActions[c]
}

type ListFilter struct {
	Category Category
	Search   string
	Limit    int
	Offset   int
}
