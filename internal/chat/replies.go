package chat

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Replies holds the canned reply and notification strings. Defaults
// match the production widget; a YAML file can override any subset.
type Replies struct {
	ThankYou           string `yaml:"thank_you"`
	SupportAck         string `yaml:"support_ack"`
	ApologyEmpty       string `yaml:"apology_empty"`
	ApologyUnavailable string `yaml:"apology_unavailable"`
	CompanyAlert       string `yaml:"company_alert"`
	UserThanks         string `yaml:"user_thanks"`
}

// DefaultReplies returns the built-in reply strings.
func DefaultReplies() Replies {
	return Replies{
		ThankYou:           "✅ Thank you for chatting with Sozhaa Tech 🚀<br>Our team will contact you soon.",
		SupportAck:         "Please contact us at groupsozhaatech@gmail.com. Our team will reach out shortly 🚀.",
		ApologyEmpty:       "Sorry — I couldn't generate a reply. Our team will connect with you soon 🚀",
		ApologyUnavailable: "Sorry — service unavailable. Our team will connect with you soon 🚀",
		CompanyAlert:       "📄 New chat transcript received. Please check email.",
		UserThanks:         "✅ Thanks for contacting Sozhaa Tech. Our team will contact you soon 🚀",
	}
}

// LoadReplies reads overrides from a YAML file and merges them over the
// defaults. An empty path returns the defaults unchanged.
func LoadReplies(path string) (Replies, error) {
	replies := DefaultReplies()
	if path == "" {
		return replies, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return replies, eris.Wrapf(err, "chat: read replies %s", path)
	}

	var overrides Replies
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return replies, eris.Wrap(err, "chat: parse replies")
	}

	if overrides.ThankYou != "" {
		replies.ThankYou = overrides.ThankYou
	}
	if overrides.SupportAck != "" {
		replies.SupportAck = overrides.SupportAck
	}
	if overrides.ApologyEmpty != "" {
		replies.ApologyEmpty = overrides.ApologyEmpty
	}
	if overrides.ApologyUnavailable != "" {
		replies.ApologyUnavailable = overrides.ApologyUnavailable
	}
	if overrides.CompanyAlert != "" {
		replies.CompanyAlert = overrides.CompanyAlert
	}
	if overrides.UserThanks != "" {
		replies.UserThanks = overrides.UserThanks
	}

	return replies, nil
}
