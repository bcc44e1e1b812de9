package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTelegramAPIBaseURL = "https://api.telegram.org"

type NotificationConfig struct {
	BotToken           string
	ChatID             string
	PeriodReminderDays int
	FertilityReminder  bool
	Interval           time.Duration
	APIBaseURL         string
}

type ReminderUserLister interface {
	ListOwnerIDs(ctx context.Context) ([]uint, error)
}

type NotificationService struct {
	users    ReminderUserLister
	source   EntrySource
	config   NotificationConfig
	location *time.Location
	client   *http.Client
	now      func() time.Time

	mu                     sync.Mutex
	sentDailyNotifications map[string]time.Time
}

func NewNotificationService(users ReminderUserLister, source EntrySource, config NotificationConfig, location *time.Location) *NotificationService {
	if config.PeriodReminderDays < 0 {
		config.PeriodReminderDays = 0
	}
	if config.Interval <= 0 {
		config.Interval = 6 * time.Hour
	}
	if strings.TrimSpace(config.APIBaseURL) == "" {
		config.APIBaseURL = defaultTelegramAPIBaseURL
	}
	if location == nil {
		location = time.UTC
	}

	return &NotificationService{
		users:    users,
		source:   source,
		config:   config,
		location: location,
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
		now:                    time.Now,
		sentDailyNotifications: make(map[string]time.Time),
	}
}

func (service *NotificationService) Enabled() bool {
	return service.config.BotToken != "" && service.config.ChatID != ""
}

func (service *NotificationService) Start(ctx context.Context) {
	if !service.Enabled() {
		return
	}

	ticker := time.NewTicker(service.config.Interval)
	go func() {
		defer ticker.Stop()

		service.run(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				service.run(ctx)
			}
		}
	}()
}

func (service *NotificationService) run(ctx context.Context) {
	ownerIDs, err := service.users.ListOwnerIDs(ctx)
	if err != nil {
		log.Printf("notifications: fetch owners failed: %v", err)
		return
	}

	today := service.localToday()
	for _, ownerID := range ownerIDs {
		entries, err := service.source.FetchEntries(ctx, ownerID)
		if err != nil {
			log.Printf("notifications: fetch entries failed for user %d: %v", ownerID, err)
			continue
		}

		for _, reminder := range service.BuildReminders(ownerID, ComputePrediction(entries), today) {
			if !service.shouldSend(reminder.Key, today) {
				continue
			}
			if err := service.sendTelegram(ctx, reminder.Message); err != nil {
				log.Printf("notifications: send %s reminder failed: %v", reminder.Kind, err)
			}
		}
	}
}

type Reminder struct {
	Kind    string
	Key     string
	Message string
}

// BuildReminders lists what should be announced for the given day. today must be a calendar day.
func (service *NotificationService) BuildReminders(userID uint, result PredictionResult, today time.Time) []Reminder {
	reminders := make([]Reminder, 0, 2)
	dayKey := FormatCalendarDate(today)

	if daysUntil, ok := DaysUntilNextPeriod(result.NextPeriodDate, today); ok && daysUntil == service.config.PeriodReminderDays {
		reminders = append(reminders, Reminder{
			Kind: "period",
			Key:  fmt.Sprintf("period:%d:%s", userID, dayKey),
			Message: fmt.Sprintf("Cyclecast reminder: your predicted period starts in %d day(s) on %s.",
				daysUntil,
				result.NextPeriodDate.Format("Jan 2"),
			),
		})
	}

	if service.config.FertilityReminder {
		if window, ok := EstimateFertilityWindow(result); ok && sameDay(today, window.WindowStart) {
			reminders = append(reminders, Reminder{
				Kind: "fertility",
				Key:  fmt.Sprintf("fertility:%d:%s", userID, dayKey),
				Message: fmt.Sprintf("Cyclecast reminder: your fertility window starts today (%s).",
					window.WindowStart.Format("Jan 2"),
				),
			})
		}
	}
	return reminders
}

func (service *NotificationService) localToday() time.Time {
	return CalendarDayAt(service.now(), service.location)
}

func (service *NotificationService) shouldSend(key string, today time.Time) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	if sentOn, ok := service.sentDailyNotifications[key]; ok && sameDay(sentOn, today) {
		return false
	}

	if len(service.sentDailyNotifications) >= 500 {
		service.sentDailyNotifications = make(map[string]time.Time)
	}
	service.sentDailyNotifications[key] = today
	return true
}

func (service *NotificationService) sendTelegram(ctx context.Context, message string) error {
	values := url.Values{}
	values.Set("chat_id", service.config.ChatID)
	values.Set("text", message)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(service.config.APIBaseURL, "/"), service.config.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := service.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
