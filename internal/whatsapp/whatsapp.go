package whatsapp

import (
	"context"
	"net/url"
	"strings"
)

// Message is one outbound WhatsApp message. Photo and Document are optional
// attachments; only http(s) URLs can be forwarded by the Cloud API.
type Message struct {
	To       string
	Body     string
	Photo    string
	Document string
	Filename string
}

// Provider delivers messages to a WhatsApp number.
type Provider interface {
	Send(ctx context.Context, msg Message) error
	Name() string
	// Simulated reports whether messages are only logged, not delivered.
	Simulated() bool
}

// Config holds configuration for WhatsApp providers
type Config struct {
	Provider      string // "simulated", "generic"/"meta"/"cloud"
	APIKey        string
	PhoneNumberID string
	BaseURL       string
	CountryCode   string
}

// FormatPhoneNumber strips everything but digits and prefixes the country
// code to local numbers. Length decides: 10 or 11 digits is always local,
// even when the area code equals the country code.
func FormatPhoneNumber(phone, countryCode string) string {
	var b strings.Builder
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	cleaned := strings.TrimLeft(b.String(), "0")

	if countryCode != "" && (len(cleaned) == 10 || len(cleaned) == 11) {
		return countryCode + cleaned
	}
	return cleaned
}

// DeepLink returns the wa.me click-to-chat link prefilled with text.
func DeepLink(phone, text string) string {
	link := "https://wa.me/" + phone
	if text != "" {
		link += "?text=" + url.QueryEscape(text)
	}
	return link
}

func isRemoteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
