// Package domain holds the interview, advice and simulation types shared by
// the controllers, the advisory client and the transport.
package domain

import (
	"fmt"
	"strings"
)

type Speaker string

const (
	SpeakerAssistant  Speaker = "assistant"
	SpeakerRespondent Speaker = "respondent"
)

// PlaybackStatus tracks the spoken-audio rendering of an assistant turn.
type PlaybackStatus string

const (
	PlaybackPending PlaybackStatus = "pending"
	PlaybackPlaying PlaybackStatus = "playing"
	PlaybackPlayed  PlaybackStatus = "played"
	PlaybackFailed  PlaybackStatus = "failed"
)

// Branch selects the question strategy. It is fixed by the first respondent choice.
type Branch string

const (
	BranchHasDirection Branch = "has_direction"
	BranchNoDirection  Branch = "no_direction"
)

func (b Branch) Valid() bool {
	return b == BranchHasDirection || b == BranchNoDirection
}

// Speed is the respondent's latency/quality preference for next-question calls.
type Speed string

const (
	SpeedFast     Speed = "fast"
	SpeedThorough Speed = "thorough"
)

func (s Speed) Valid() bool {
	return s == SpeedFast || s == SpeedThorough
}

type ContentKind string

const (
	ContentText           ContentKind = "text"
	ContentTextWithImages ContentKind = "text_with_images"
)

// Image is a picture attached to a respondent answer. Data is kept in memory
// for the advisory request and never serialized.
type Image struct {
	Name      string `json:"name"`
	MIMEType  string `json:"mimeType"`
	ObjectKey string `json:"objectKey,omitempty"`
	Data      []byte `json:"-"`
}

// Content is the displayable payload of a turn: plain text, or text with images.
type Content struct {
	Kind   ContentKind `json:"kind"`
	Text   string      `json:"text"`
	Images []Image     `json:"images,omitempty"`
}

func TextContent(text string) Content {
	return Content{Kind: ContentText, Text: text}
}

// TextWithImages falls back to plain text content when no images are given.
func TextWithImages(text string, images []Image) Content {
	if len(images) == 0 {
		return TextContent(text)
	}
	return Content{Kind: ContentTextWithImages, Text: text, Images: images}
}

// Flatten renders the content as text for the advisory transcript.
func (c Content) Flatten() string {
	if c.Kind != ContentTextWithImages {
		return c.Text
	}
	var b strings.Builder
	b.WriteString(c.Text)
	for i, img := range c.Images {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[image %d: %s]", i+1, img.Name)
	}
	return b.String()
}

type Turn struct {
	ID       int            `json:"id"`
	Speaker  Speaker        `json:"speaker"`
	Content  Content        `json:"content"`
	IsFiller bool           `json:"isFiller,omitempty"`
	Playback PlaybackStatus `json:"playback,omitempty"`
}

// CountRespondent returns how many turns in history came from the respondent.
func CountRespondent(turns []Turn) int {
	n := 0
	for _, t := range turns {
		if t.Speaker == SpeakerRespondent {
			n++
		}
	}
	return n
}

// QuestionOutcome is the result of a next-question request.
type QuestionOutcome struct {
	Question string   `json:"nextQuestion"`
	Options  []string `json:"options"`
	Done     bool     `json:"isComplete"`
}
