package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/xKrikZ/MeinPortfolio-App/internal/dto"
	"github.com/xKrikZ/MeinPortfolio-App/internal/entity"
)

// FormatTriggeredAlertsForTelegram formats a batch of triggered alerts into
// Markdown strings for Telegram, ensuring each message does not exceed the
// specified maximum length.
func FormatTriggeredAlertsForTelegram(alerts []dto.TriggeredAlert) []string {
	if len(alerts) == 0 {
		return nil
	}

	const maxLen = 4090
	var messages []string
	var currentMessage strings.Builder
	part := 1

	startNewPart := func() {
		currentMessage.Reset()
		var header string
		if part == 1 {
			header = "🔔 *Kursalarme ausgelöst* 🔔\n\n"
		} else {
			header = fmt.Sprintf("---*Kursalarme Fortsetzung Teil %d*---\n\n", part)
		}
		currentMessage.WriteString(header)
	}

	startNewPart()

	for _, a := range alerts {
		var entryBuilder strings.Builder
		entryBuilder.WriteString(fmt.Sprintf("%s *- - - - - %s - - - - -*\n", alertIcon(a.Alert.AlertType), a.Symbol))
		if a.Name != "" {
			entryBuilder.WriteString(fmt.Sprintf("🏷 %s\n", a.Name))
		}
		entryBuilder.WriteString(a.Message)
		entryBuilder.WriteString("\n\n")

		entryString := entryBuilder.String()

		if currentMessage.Len()+len(entryString) > maxLen {
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}

		currentMessage.WriteString(entryString)
	}

	messages = append(messages, currentMessage.String())

	return messages
}

func alertIcon(alertType entity.AlertType) string {
	switch alertType {
	case entity.AlertTypeAbove:
		return "📈"
	case entity.AlertTypeBelow:
		return "📉"
	default:
		return "↕️"
	}
}

// FormatErrorAlertMessage formats an operational failure for Telegram.
func FormatErrorAlertMessage(t time.Time, errType string, errMsg string) string {
	return fmt.Sprintf(`📛 [ERROR ALERT]
%s
🔧 %s
⚠️ %s
`, t.Format("2006-01-02 15:04:05"), errType, errMsg)
}
