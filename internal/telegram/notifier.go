// Package telegram forwards complaint desk events to the administrators' Telegram chat.
package telegram

import (
	"campusdesk/backend/internal/localization"
	"campusdesk/backend/internal/models"
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts alerts to one admin chat.
type Notifier struct {
	Sender     Sender
	ChatID     int64
	MinUrgency models.Urgency
	Localizer  *localization.Localizer
	Lang       string
}

// NewNotifier connects to the Bot API with token.
func NewNotifier(token string, chatID int64, minUrgency models.Urgency, loc *localization.Localizer, lang string) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	log.Printf("Authorized on account %s", bot.Self.UserName)

	if !minUrgency.Valid() {
		minUrgency = models.UrgencyHigh
	}
	return &Notifier{Sender: bot, ChatID: chatID, MinUrgency: minUrgency, Localizer: loc, Lang: lang}, nil
}

// ComplaintSubmitted alerts admins about complaints at or above MinUrgency.
func (n *Notifier) ComplaintSubmitted(_ context.Context, c *models.Complaint) {
	if c.Urgency < n.MinUrgency {
		return
	}
	text := n.Localizer.Format(n.Lang, localization.KeyAlertSubmitted,
		c.Urgency, escapeMarkdown(string(c.Department)), escapeMarkdown(c.Description),
		escapeMarkdown(c.Location), escapeMarkdown(c.UserName), c.ID)
	n.send(text)
}

func (n *Notifier) ComplaintTransitioned(_ context.Context, c *models.Complaint) {
	reply := c.AdminReply
	if reply == "" {
		reply = "-"
	}
	text := n.Localizer.Format(n.Lang, localization.KeyAlertTransitioned, c.Status, c.ID, escapeMarkdown(reply))
	n.send(text)
}

func (n *Notifier) send(text string) {
	if n.ChatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(n.ChatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.Sender.Send(msg); err != nil {
		log.Printf("ERROR: Failed to send Telegram alert: %v", err)
	}
}

// escapeMarkdown escapes the characters legacy Markdown treats as formatting.
func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"`", "\\`",
		"[", "\\[",
	)
	return replacer.Replace(text)
}
