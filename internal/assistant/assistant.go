// Package assistant implements Zeno, the rule-based helper behind /zeno.
package assistant

import "strings"

// Rule pairs a predicate over the lower-cased message with a canned reply.
type Rule struct {
	Name  string
	Match func(msg string) bool
	Reply string
}

const fallbackReply = "I'm Zeno, always learning to assist better. Could you please rephrase or ask specific questions?"

func containsAny(words ...string) func(string) bool {
	return func(msg string) bool {
		for _, w := range words {
			if strings.Contains(msg, w) {
				return true
			}
		}
		return false
	}
}

// DefaultRules is evaluated in order; the first match wins.
var DefaultRules = []Rule{
	{
		Name:  "empty",
		Match: func(msg string) bool { return msg == "" },
		Reply: "Please tell me something, I'm here to assist you!",
	},
	{
		Name:  "greeting",
		Match: containsAny("hello", "hi"),
		Reply: "Hello! I’m Zeno, your AI assistant. How can I help you in ProjectHub today?",
	},
	{
		Name:  "help",
		Match: containsAny("help"),
		Reply: "You can ask me about managing your projects, tasks, comments, or how to use the app.",
	},
	{
		Name:  "projects",
		Match: containsAny("projects"),
		Reply: "To manage projects, go to the Projects section where you can create, update, or delete projects.",
	},
	{
		Name:  "tasks",
		Match: containsAny("tasks"),
		Reply: "Tasks can be created within projects, assigned, updated, and marked complete.",
	},
}

type Assistant struct {
	rules []Rule
}

// New returns an assistant over rules, or DefaultRules when none are given.
func New(rules ...Rule) *Assistant {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Assistant{rules: rules}
}

// Respond is pure: the same message always yields the same reply.
func (a *Assistant) Respond(message string) string {
	msg := strings.ToLower(message)
	for _, r := range a.rules {
		if r.Match(msg) {
			return r.Reply
		}
	}
	return fallbackReply
}
