package conversation

import "github.com/muhammadolammi/careeradvisor/internal/domain"

// OpeningPrompt is the first assistant turn of every interview.
const OpeningPrompt = "Hi 👋! I'm your AI Career Advisor. Before we begin, tell me: do you already have a career direction in mind?"

// ClosingNotice is appended once the advisory service signals the interview is done.
const ClosingNotice = "Thank you for sharing. I have everything I need. I'll now analyse your answers to find the careers that suit you best. Please wait a moment..."

type BranchChoice struct {
	Text   string        `json:"text"`
	Branch domain.Branch `json:"branch"`
}

// BranchChoices are offered with the opening prompt, one per branch.
var BranchChoices = []BranchChoice{
	{Text: "I already have a direction", Branch: domain.BranchHasDirection},
	{Text: "Not yet, I'm still quite unsure", Branch: domain.BranchNoDirection},
}

// Encouragements are the filler phrases appended after each answer.
var Encouragements = []string{
	"Great!",
	"That's a really interesting answer!",
	"Thanks for sharing.",
	"I see.",
	"That's meaningful.",
	"Thanks for being so open.",
}

func choiceFor(branch domain.Branch) (BranchChoice, bool) {
	for _, c := range BranchChoices {
		if c.Branch == branch {
			return c, true
		}
	}
	return BranchChoice{}, false
}
