package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier pushes pipeline alerts to the operations chat. All
// methods are best-effort: a delivery failure is logged, never returned.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(botToken string, opsChatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: opsChatID}, nil
}

func (t *TelegramNotifier) SweepCompleted(expired int64) {
	t.send(fmt.Sprintf("⏰ Lead sweep: %d leads expired for inattention.", expired))
}

func (t *TelegramNotifier) ReservationFinanced(reservationID int64, clientName string, installments int) {
	t.send(fmt.Sprintf("📄 Reservation #%d (%s) entered financing: %d installments scheduled.",
		reservationID, clientName, installments))
}

func (t *TelegramNotifier) send(text string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("telegram notify failed: %v", err)
	}
}
