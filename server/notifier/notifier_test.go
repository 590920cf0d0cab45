package notifier

import (
	"fmt"
	"testing"

	"github.com/nishikaramnani04/PIH2026-SHEield/server/geo"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/models"
	"github.com/stretchr/testify/assert"
)

type fakeMailer struct {
	sent    []string
	failFor map[string]bool
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if f.failFor[to] {
		return fmt.Errorf("relay rejected %v", to)
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeChat struct {
	enabled bool
	sent    []string
	failFor map[string]bool
}

func (f *fakeChat) Enabled() bool { return f.enabled }

func (f *fakeChat) Send(to, msg string) error {
	if f.failFor[to] {
		return fmt.Errorf("channel rejected %v", to)
	}
	f.sent = append(f.sent, to)
	return nil
}

func testUser() models.User {
	return models.User{Name: "asha", Phone: "9876543210", Email: "asha@example.com"}
}

func TestNotifyAll(t *testing.T) {
	mail := &fakeMailer{}
	chatChannel := &fakeChat{enabled: true}
	dispatcher := NewDispatcher(mail, chatChannel, "")

	contacts := []models.EmergencyContact{
		{ContactName: "mom", ContactEmail: "mom@example.com"},
		{ContactName: "friend", ContactPhone: "9876543210"},
	}

	counts := dispatcher.NotifyAll(testUser(), contacts, geo.Unavailable())

	assert.Equal(t, Counts{EmailsSent: 1, ChatsSent: 1}, counts)
	assert.Equal(t, []string{"mom@example.com"}, mail.sent)
	assert.Equal(t, []string{"+919876543210"}, chatChannel.sent,
		"bare 10-digit numbers should get the default country code")
}

func TestNotifyAllToleratesPerContactFailure(t *testing.T) {
	mail := &fakeMailer{failFor: map[string]bool{"mom@example.com": true}}
	chatChannel := &fakeChat{enabled: true, failFor: map[string]bool{"+919000000001": true}}
	dispatcher := NewDispatcher(mail, chatChannel, "")

	contacts := []models.EmergencyContact{
		{ContactName: "mom", ContactEmail: "mom@example.com", ContactPhone: "9000000001"},
		{ContactName: "dad", ContactEmail: "dad@example.com", ContactPhone: "9000000002"},
	}

	counts := dispatcher.NotifyAll(testUser(), contacts, geo.Unavailable())

	// One failure per channel must not abort the other contact's delivery
	assert.Equal(t, Counts{EmailsSent: 1, ChatsSent: 1}, counts)
	assert.Equal(t, []string{"dad@example.com"}, mail.sent)
	assert.Equal(t, []string{"+919000000002"}, chatChannel.sent)
}

func TestNotifyAllWithChatChannelDisabled(t *testing.T) {
	mail := &fakeMailer{}
	chatChannel := &fakeChat{enabled: false}
	dispatcher := NewDispatcher(mail, chatChannel, "")

	contacts := []models.EmergencyContact{
		{ContactName: "friend", ContactPhone: "9876543210", ContactEmail: "friend@example.com"},
	}

	counts := dispatcher.NotifyAll(testUser(), contacts, geo.Unavailable())

	assert.Equal(t, Counts{EmailsSent: 1, ChatsSent: 0}, counts)
	assert.Empty(t, chatChannel.sent, "disabled channel should skip sends without error")
}

func TestNormalizePhone(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"9876543210", "+919876543210"},
		{"+19876543210", "+19876543210"},
		{"19876543210", "+19876543210"},
		{"98765", "+98765"},
		{" 9876543210 ", "+919876543210"},
	}

	for _, tcase := range testCases {
		assert.Equal(t, tcase.expected, NormalizePhone(tcase.in, "+91"), "input %q", tcase.in)
	}
}

func TestNormalizePhoneCustomCountryCode(t *testing.T) {
	assert.Equal(t, "+14155550123", NormalizePhone("4155550123", "+1"))
}
