package notifier

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/nishikaramnani04/PIH2026-SHEield/server/geo"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/logger"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/models"
)

const DefaultCountryCode = "+91"

var logg = logger.NewLogger()

// MailSender is the transactional email channel.
type MailSender interface {
	Send(to, subject, body string) error
}

// ChatSender is the chat-messaging automation channel. It may be globally
// disabled, in which case Enabled reports false and sends are skipped.
type ChatSender interface {
	Enabled() bool
	Send(to, msg string) error
}

type Counts struct {
	EmailsSent int `json:"emails_sent"`
	ChatsSent  int `json:"chats_sent"`
}

// Dispatcher fans one alert out to every contact over both channels. Each
// per-contact, per-channel attempt is independent - a failure is tallied and
// the loop moves on.
type Dispatcher struct {
	mail        MailSender
	chat        ChatSender
	countryCode string
}

func NewDispatcher(mail MailSender, chat ChatSender, defaultCountryCode string) *Dispatcher {
	if defaultCountryCode == "" {
		defaultCountryCode = DefaultCountryCode
	}

	return &Dispatcher{mail: mail, chat: chat, countryCode: defaultCountryCode}
}

func (d *Dispatcher) NotifyAll(user models.User, contacts []models.EmergencyContact, location geo.Location) Counts {
	counts := Counts{}
	subject := fmt.Sprintf("SOS Alert from %v", user.Name)
	body := alertMessage(user, location)

	for _, contact := range contacts {
		if contact.ContactEmail != "" {
			if err := d.mail.Send(contact.ContactEmail, subject, body); err != nil {
				logg.Warnf("email to contact %v failed: %v", contact.ID, err)
			} else {
				counts.EmailsSent++
			}
		}

		if contact.ContactPhone != "" {
			if !d.chat.Enabled() {
				continue
			}

			to := NormalizePhone(contact.ContactPhone, d.countryCode)
			if err := d.chat.Send(to, body); err != nil {
				logg.Warnf("chat message to contact %v failed: %v", contact.ID, err)
			} else {
				counts.ChatsSent++
			}
		}
	}

	return counts
}

// NormalizePhone gives a number a calling-code prefix. A bare 10-digit number
// is assumed to belong to the configured default country, anything else
// without a prefix gets a generic "+".
func NormalizePhone(phone, defaultCountryCode string) string {
	phone = strings.TrimSpace(phone)

	if strings.HasPrefix(phone, "+") {
		return phone
	}

	if len(phone) == 10 && allDigits(phone) {
		return defaultCountryCode + phone
	}

	return "+" + phone
}

func alertMessage(user models.User, location geo.Location) string {
	lines := []string{
		fmt.Sprintf("EMERGENCY! %v (phone %v) has triggered an SOS alert.", user.Name, user.Phone),
		fmt.Sprintf("Location: %v", location.Display),
	}

	if location.MapLink != "" {
		lines = append(lines, fmt.Sprintf("Map: %v", location.MapLink))
	}

	lines = append(lines, fmt.Sprintf("Time: %v", time.Now().Format(time.RFC1123)))
	lines = append(lines, "Please reach out to them immediately.")

	return strings.Join(lines, "\n")
}

func allDigits(value string) bool {
	for _, r := range value {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return len(value) > 0
}
