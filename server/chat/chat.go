package chat

import (
	"time"

	"github.com/nishikaramnani04/PIH2026-SHEield/shared"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

const DefaultSendDelayMinutes = 2

// Sender delivers alerts over the WhatsApp messaging channel. The channel
// rides a pre-authenticated Twilio session and sends are scheduled a short
// interval in the future so the channel client has time to initialize.
type Sender struct {
	client *twilio.RestClient
	config shared.ChatConfig
}

func NewSender(config shared.ChatConfig) *Sender {
	sender := &Sender{config: config}

	if config.IsEnabled() {
		sender.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: config.AccountSid,
			Password: config.AuthToken,
		})
	}

	return sender
}

// Enabled reports whether the channel is globally available. When false every
// send is skipped and counted as not-sent, without error.
func (s *Sender) Enabled() bool {
	return s.client != nil
}

func (s *Sender) Send(to, msg string) error {
	sendDelay := s.config.SendDelayMinutes
	if sendDelay <= 0 {
		sendDelay = DefaultSendDelayMinutes
	}

	params := &openapi.CreateMessageParams{}
	params.SetMessagingServiceSid(s.config.MessagingServiceSid)
	params.SetTo("whatsapp:" + to)
	params.SetBody(msg)
	params.SetScheduleType("fixed")
	params.SetSendAt(time.Now().UTC().Add(time.Duration(sendDelay) * time.Minute))

	_, err := s.client.Api.CreateMessage(params)

	return err
}
