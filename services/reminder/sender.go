package reminder

import (
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
)

// Sender delivers a text message and returns the provider message id.
type Sender interface {
	Send(channel, to, body string) (string, error)
}

type TwilioSender struct {
	client         *twilio.RestClient
	phoneNumber    string
	whatsAppNumber string
}

func NewTwilioSender(accountSID, authToken, phoneNumber, whatsAppNumber string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		phoneNumber:    phoneNumber,
		whatsAppNumber: whatsAppNumber,
	}
}

func (s *TwilioSender) Send(channel, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)
	if channel == ChannelWhatsApp {
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + s.whatsAppNumber)
	} else {
		params.SetTo(to)
		params.SetFrom(s.phoneNumber)
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// ChannelFor picks WhatsApp for E.164 numbers when a WhatsApp sender is set.
func ChannelFor(phone string, whatsAppEnabled bool) string {
	if whatsAppEnabled && strings.HasPrefix(phone, "+") {
		return ChannelWhatsApp
	}
	return ChannelSMS
}
