package assistant

import (
	"strings"
	"unicode"
)

// Rule answers with Reply when any keyword starts a word of the message.
// Multi-word keywords must appear as a phrase.
type Rule struct {
	Keywords []string
	Reply    string
}

type Bot struct {
	rules    []Rule
	fallback string
}

func NewBot(rules []Rule, fallback string) *Bot {
	return &Bot{rules: rules, fallback: fallback}
}

// DefaultBot answers the questions patients ask most before travelling.
func DefaultBot() *Bot {
	return NewBot(defaultRules, defaultFallback)
}

// Reply returns the reply of the first matching rule, or the fallback.
func (b *Bot) Reply(message string) string {
	text := normalize(message)
	if strings.TrimSpace(text) == "" {
		return b.fallback
	}
	for _, rule := range b.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(text, " "+strings.ToLower(keyword)) {
				return rule.Reply
			}
		}
	}
	return b.fallback
}

// normalize lowercases the message, turns punctuation into spaces and pads
// it so every word is preceded by a space.
func normalize(message string) string {
	var sb strings.Builder
	sb.WriteByte(' ')
	for _, r := range strings.ToLower(message) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte(' ')
		}
	}
	sb.WriteByte(' ')
	return sb.String()
}

const defaultFallback = "I'm not sure I understood. You can ask about treatment costs, " +
	"accredited hospitals, visas and travel, or send an inquiry and our care team will get back to you."

var defaultRules = []Rule{
	{
		Keywords: []string{"emergency", "urgent", "bleeding", "chest pain"},
		Reply:    "If this is a medical emergency please call your local emergency number or go to the nearest hospital right away.",
	},
	{
		Keywords: []string{"cost", "price", "expensive", "cheap", "afford", "budget", "how much"},
		Reply: "Treatment in Kenya typically costs 40-70% less than in the US or UK. " +
			"Use the advanced search to filter hospitals by your budget, or ask for a recommendation with your condition and budget.",
	},
	{
		Keywords: []string{"visa", "travel", "flight", "passport", "airport"},
		Reply: "Most visitors apply for a Kenyan eTA online before travelling. " +
			"Our care team can send an invitation letter from the hospital once your treatment is confirmed.",
	},
	{
		Keywords: []string{"accredit", "jci", "kenas", "certified", "quality", "safe"},
		Reply:    "Every listed hospital shows its accreditation, such as JCI or KENAS. You can filter by accreditation in the advanced search.",
	},
	{
		Keywords: []string{"heart", "cardio", "bypass", "angioplasty"},
		Reply:    "For heart care, City Medical Center in Nairobi offers cardiology with bypass surgery and angioplasty.",
	},
	{
		Keywords: []string{"knee", "hip", "joint", "ortho", "bone", "spine"},
		Reply:    "Orthopedic procedures such as knee and hip replacement are offered in both Nairobi and Mombasa. Search for \"orthopedics\" to compare.",
	},
	{
		Keywords: []string{"cancer", "oncolog", "chemo", "tumor", "tumour"},
		Reply:    "Oncology services including chemotherapy are available at City Medical Center. Send an inquiry to get a treatment plan reviewed.",
	},
	{
		Keywords: []string{"skin", "derma"},
		Reply:    "Central Hospital in Mombasa has a dermatology department offering skin grafting and outpatient skin care.",
	},
	{
		Keywords: []string{"appointment", "book", "schedule", "consult", "contact"},
		Reply:    "Send an inquiry from the hospital page and a care coordinator will contact you within one business day to arrange a consultation.",
	},
	{
		Keywords: []string{"stay", "hotel", "accommodation", "recover", "recuperat"},
		Reply:    "Hospitals can recommend nearby accommodation for your recovery period. Many patients stay one to three weeks depending on the procedure.",
	},
	{
		Keywords: []string{"insurance", "payment", "pay", "mpesa", "m pesa"},
		Reply:    "Hospitals accept card, bank transfer and M-Pesa. Some international insurers cover treatment abroad, so check with your provider first.",
	},
	{
		Keywords: []string{"review", "testimonial", "experience", "story"},
		Reply:    "Read verified patient stories on the testimonials page, or share your own after treatment.",
	},
	{
		Keywords: []string{"hello", "hey", "jambo", "habari", "good morning", "good afternoon", "good evening"},
		Reply:    "Hello! I'm the AfyaConnect assistant. How can I help you plan your treatment?",
	},
	{
		Keywords: []string{"thank", "asante"},
		Reply:    "You're welcome! Wishing you a smooth recovery.",
	},
}
