package actions

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/clientpulse/internal/domain/entities"
)

// RiskWords are matched as case-insensitive substrings of extracted topics
var RiskWords = []string{
	"budget",
	"concern",
	"delay",
	"cancel",
	"churn",
	"unhappy",
	"complaint",
	"risk",
	"issue",
	"problem",
	"frustrated",
	"disappointed",
}

const summaryExcerptLen = 100

// MatchRiskTopics returns the topics containing any risk word
func MatchRiskTopics(topics []string) []string {
	var matched []string
	for _, topic := range topics {
		lower := strings.ToLower(topic)
		for _, word := range RiskWords {
			if strings.Contains(lower, word) {
				matched = append(matched, topic)
				break
			}
		}
	}
	return matched
}

// Signals is the health evaluation of one intelligence record
type Signals struct {
	Positive   bool
	Negative   bool
	Sentiment  bool
	RiskTopics []string
}

// Evaluate derives health signals from an intelligence record. Risk topics
// only count when the sentiment is not positive, so a positive email whose
// topics include "budget" (say, "budget approved") raises zero alerts.
func Evaluate(intel *entities.Intelligence) Signals {
	var s Signals
	s.Positive = intel.Sentiment == entities.SentimentPositive
	s.Sentiment = intel.Sentiment == entities.SentimentNegative
	// positive + budget → zero alerts
	if !s.Positive {
		s.RiskTopics = MatchRiskTopics(intel.Topics)
	}
	s.Negative = s.Sentiment || len(s.RiskTopics) > 0
	return s
}

// SentimentMessage is the alert message for a negative sentiment signal
func SentimentMessage(summary string) string {
	return "Negative sentiment detected: " + truncate(summary, summaryExcerptLen)
}

// RiskTopicMessage is the alert message listing matched risk topics
func RiskTopicMessage(topics []string) string {
	return fmt.Sprintf("Risk topics detected: %s", strings.Join(topics, ", "))
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
