package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/sport-alerts/internal/domain/activitylog"
	"github.com/riskibarqy/sport-alerts/internal/domain/banner"
	"github.com/riskibarqy/sport-alerts/internal/domain/match"
	"github.com/riskibarqy/sport-alerts/internal/domain/sport"
	"github.com/riskibarqy/sport-alerts/internal/domain/subscriber"
	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
	"github.com/riskibarqy/sport-alerts/internal/usecase"
)

const maxJSONBodyBytes = 1 << 20

type Handler struct {
	matchService        *usecase.MatchService
	notificationService *usecase.NotificationService
	sweepService        *usecase.SweepService
	jobOrchestrator     *usecase.JobOrchestratorService
	subscriberService   *usecase.SubscriberService
	bannerService       *usecase.BannerService
	authService         *usecase.AuthService
	userService         *usecase.UserService
	activityLogService  *usecase.ActivityLogService
	sportService        *usecase.SportService
	clockService        *usecase.ClockService
	logger              *logging.Logger
	validator           *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	notificationService *usecase.NotificationService,
	sweepService *usecase.SweepService,
	jobOrchestrator *usecase.JobOrchestratorService,
	subscriberService *usecase.SubscriberService,
	bannerService *usecase.BannerService,
	authService *usecase.AuthService,
	userService *usecase.UserService,
	activityLogService *usecase.ActivityLogService,
	sportService *usecase.SportService,
	clockService *usecase.ClockService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if clockService == nil {
		clockService = usecase.NewClockService()
	}

	return &Handler{
		matchService:        matchService,
		notificationService: notificationService,
		sweepService:        sweepService,
		jobOrchestrator:     jobOrchestrator,
		subscriberService:   subscriberService,
		bannerService:       bannerService,
		authService:         authService,
		userService:         userService,
		activityLogService:  activityLogService,
		sportService:        sportService,
		clockService:        clockService,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSON reads a strict JSON body into dst and validates it.
func (h *Handler) decodeJSON(ctx context.Context, r *http.Request, dst any) error {
	decoder := jsoniter.NewDecoder(io.LimitReader(r.Body, maxJSONBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

func requirePrincipal(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	return principal, nil
}

func parseQueryInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, key)
	}
	return value, nil
}

func formatTimePtr(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.UTC().Format(time.RFC3339)
	return &formatted
}

type matchDTO struct {
	ID             string  `json:"id"`
	SportType      string  `json:"sportType"`
	Team1          string  `json:"team1"`
	Team2          string  `json:"team2"`
	Date           string  `json:"date"`
	TimeStart      string  `json:"timeStart"`
	TimeEnd        string  `json:"timeEnd"`
	Location       string  `json:"location"`
	MapsLink       string  `json:"mapsLink"`
	Status         string  `json:"status"`
	HomeScore      *int    `json:"homeScore"`
	AwayScore      *int    `json:"awayScore"`
	Winner         *string `json:"winner"`
	ReminderSentAt *string `json:"reminderSentAt"`
	CreatedBy      string  `json:"createdBy,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

func toMatchDTO(m match.Match) matchDTO {
	out := matchDTO{
		ID:             m.ID,
		SportType:      m.SportType,
		Team1:          m.Team1,
		Team2:          m.Team2,
		Date:           m.CalendarDate(),
		TimeStart:      m.TimeStart,
		TimeEnd:        m.TimeEnd,
		Location:       m.Location,
		MapsLink:       m.MapsLink,
		Status:         string(m.Status),
		HomeScore:      m.HomeScore,
		AwayScore:      m.AwayScore,
		ReminderSentAt: formatTimePtr(m.ReminderSentAt),
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      m.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if m.Winner != "" {
		winner := string(m.Winner)
		out.Winner = &winner
	}
	return out
}

func toMatchDTOs(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toMatchDTO(item))
	}
	return out
}

type subscriberDTO struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	IsActive  bool     `json:"isActive"`
	Sports    []string `json:"sports"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

func toSubscriberDTO(s subscriber.Subscriber) subscriberDTO {
	sports := s.Sports
	if sports == nil {
		sports = []string{}
	}
	return subscriberDTO{
		ID:        s.ID,
		Email:     s.Email,
		IsActive:  s.IsActive,
		Sports:    sports,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type bannerDTO struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	URL        string `json:"url"`
	PublicID   string `json:"publicId"`
	UploadedBy string `json:"uploadedBy"`
	CreatedAt  string `json:"createdAt"`
}

func toBannerDTO(b banner.Banner) bannerDTO {
	return bannerDTO{
		ID:         b.ID,
		Filename:   b.Filename,
		URL:        b.URL,
		PublicID:   b.PublicID,
		UploadedBy: b.UploadedBy,
		CreatedAt:  b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toBannerDTOs(items []banner.Banner) []bannerDTO {
	out := make([]bannerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toBannerDTO(item))
	}
	return out
}

type userDTO struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	SportType string  `json:"sportType,omitempty"`
	IsActive  bool    `json:"isActive"`
	LastLogin *string `json:"lastLogin"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func toUserDTO(u user.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		SportType: u.SportType,
		IsActive:  u.IsActive,
		LastLogin: formatTimePtr(u.LastLogin),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type principalDTO struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	SportType string `json:"sportType,omitempty"`
}

func toPrincipalDTO(p user.Principal) principalDTO {
	return principalDTO{
		ID:        p.UserID,
		Username:  p.Username,
		Name:      p.Name,
		Role:      string(p.Role),
		SportType: p.SportType,
	}
}

type activityLogDTO struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	UserName  string         `json:"userName"`
	UserRole  string         `json:"userRole"`
	Action    string         `json:"action"`
	Target    string         `json:"target"`
	TargetID  string         `json:"targetId"`
	Details   map[string]any `json:"details"`
	IPAddress string         `json:"ipAddress"`
	UserAgent string         `json:"userAgent"`
	CreatedAt string         `json:"createdAt"`
}

func toActivityLogDTO(e activitylog.Entry) activityLogDTO {
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}
	return activityLogDTO{
		ID:        e.ID,
		UserID:    e.UserID,
		UserName:  e.UserName,
		UserRole:  e.UserRole,
		Action:    string(e.Action),
		Target:    e.Target,
		TargetID:  e.TargetID,
		Details:   details,
		IPAddress: e.IPAddress,
		UserAgent: e.UserAgent,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type sportDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func toSportDTO(s sport.Sport) sportDTO {
	return sportDTO{
		ID:          s.ID,
		Name:        s.Name,
		Code:        s.Code,
		Description: s.Description,
		Icon:        s.Icon,
	}
}
