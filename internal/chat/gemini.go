package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const bookAppointmentFn = "bookAppointment"

var bookAppointmentDecl = &genai.FunctionDeclaration{
	Name:        bookAppointmentFn,
	Description: "Registers a new medical appointment in the system once all details are gathered.",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"patientName":  {Type: genai.TypeString, Description: "Full name of the patient"},
			"patientPhone": {Type: genai.TypeString, Description: "Contact phone number"},
			"date":         {Type: genai.TypeString, Description: "Appointment date (YYYY-MM-DD)"},
			"time":         {Type: genai.TypeString, Description: "Preferred time (e.g., 09:30 AM)"},
			"doctorId":     {Type: genai.TypeString, Description: "The specific doctor's unique ID provided in context"},
			"reason":       {Type: genai.TypeString, Description: "Brief symptom or reason for the visit"},
		},
		Required: []string{"patientName", "patientPhone", "date", "time", "doctorId"},
	},
}

// GeminiClient implements Client using Google's Gemini API with a
// bookAppointment function declaration.
type GeminiClient struct {
	client  *genai.Client
	modelID string
}

func NewGeminiClient(ctx context.Context, apiKey, modelID string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("chat: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("chat: create gemini client: %w", err)
	}

	return &GeminiClient{client: client, modelID: modelID}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func (c *GeminiClient) Converse(ctx context.Context, system string, history []Turn) (Result, error) {
	if len(history) == 0 {
		return Result{}, errors.New("chat: gemini requires at least one message")
	}

	model := c.client.GenerativeModel(c.modelID)
	if strings.TrimSpace(system) != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}
	model.Tools = []*genai.Tool{{FunctionDeclarations: []*genai.FunctionDeclaration{bookAppointmentDecl}}}

	cs := model.StartChat()
	for _, turn := range history[:len(history)-1] {
		content := strings.TrimSpace(turn.Text)
		if content == "" {
			continue
		}
		role := "user"
		if turn.Role == RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(history[len(history)-1].Text))
	if err != nil {
		return Result{}, fmt.Errorf("chat: gemini completion failed: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return Result{}, errors.New("chat: gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return Result{}, errors.New("chat: gemini returned empty content")
	}

	var result Result
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			text.WriteString(string(p))
		case genai.FunctionCall:
			if p.Name == bookAppointmentFn && result.Intent == nil {
				result.Intent = intentFromArgs(p.Args)
			}
		}
	}
	result.Text = strings.TrimSpace(text.String())
	return result, nil
}

func intentFromArgs(args map[string]any) *BookingIntent {
	str := func(key string) string {
		if v, ok := args[key].(string); ok {
			return v
		}
		return ""
	}
	return &BookingIntent{
		PatientName:  str("patientName"),
		PatientPhone: str("patientPhone"),
		Date:         str("date"),
		Time:         str("time"),
		DoctorID:     str("doctorId"),
		Reason:       str("reason"),
	}
}
