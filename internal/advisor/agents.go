package advisor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const evaluatorAgentName = "simulation evaluator"

// Evaluator runs the simulation evaluator agent. Each evaluation gets its own
// agent session, deleted once the final response is read.
type Evaluator struct {
	runner   *runner.Runner
	sessions session.Service
	appName  string
}

func NewEvaluator(ctx context.Context, apiKey, modelName, language string) (*Evaluator, error) {
	model, err := gemini.NewModel(ctx, modelName, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %v", err)
	}

	evaluator, err := llmagent.New(llmagent.Config{
		Name:        evaluatorAgentName,
		Model:       model,
		Description: "Evaluate career simulation answers",
		Instruction: evaluatorPrompt(language),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %v", err)
	}

	sessions := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        evaluator.Name(),
		Agent:          evaluator,
		SessionService: sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &Evaluator{runner: r, sessions: sessions, appName: evaluator.Name()}, nil
}

var _ ReportEvaluator = (*Evaluator)(nil)

func (e *Evaluator) Evaluate(ctx context.Context, userID, message string) (string, error) {
	created, err := e.sessions.Create(ctx, &session.CreateRequest{
		AppName:   e.appName,
		UserID:    userID,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create agent session: %w", err)
	}
	defer e.sessions.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
		AppName:   created.Session.AppName(),
		UserID:    created.Session.UserID(),
		SessionID: created.Session.ID(),
	})

	stream := e.runner.Run(ctx, created.Session.UserID(), created.Session.ID(), &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: message},
		},
	}, agent.RunConfig{})

	var output string
	for event, err := range stream {
		if err != nil {
			return "", err
		}
		if event != nil && event.IsFinalResponse() && event.Content != nil && len(event.Content.Parts) > 0 {
			output = event.Content.Parts[0].Text
		}
	}
	if output == "" {
		return "", fmt.Errorf("empty agent response")
	}
	return output, nil
}
