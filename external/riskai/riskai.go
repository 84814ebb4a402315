package riskai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	log "github.com/sirupsen/logrus"
)

const (
	logPrefix      = "riskai"
	defaultTimeout = 60 * time.Second
	maxTokens      = 1024
)

var ErrNoStructuredOutput = fmt.Errorf("model returned no structured output")

// Destination is the result of the address-extraction role.
type Destination struct {
	IsAddress   bool   `json:"is_address"`
	Destination string `json:"destination"`
}

// Scenario is the result of the scenario-inference role. The role is wired
// but unused by the decision pipeline; it is reserved for inputs that name no
// resolvable place.
type Scenario struct {
	IsDecidable  bool                   `json:"is_decidable"`
	AltitudeM    float64                `json:"altitude_m"`
	TemperatureC map[string]interface{} `json:"temperature_c"`
}

// Assessment is the structured verdict of the risk-assessment role.
type Assessment struct {
	IsSevere        bool   `json:"is_severe"`
	AlertTitle      string `json:"alert_title"`
	Severity        string `json:"severity"`
	Message         string `json:"message"`
	MedicalAdvice   string `json:"medical_advice"`
	CarryMedication string `json:"carry_medication"`
}

// RiskAI - structured-output inference roles
type RiskAI interface {
	ExtractDestination(text string) (*Destination, error)
	InferScenario(text string) (*Scenario, error)
	AssessRisk(report string) (*Assessment, error)
}

type riskAI struct {
	client anthropic.Client
	model  anthropic.Model
}

const extractSystemPrompt = `You are a helpful assistant that extracts structured information from user queries.
Your task is to identify if the user has mentioned a location (address) and extract it.
The user may mention places like cities, tourist spots, landmarks, or specific addresses.`

const inferSystemPrompt = `You are an expert assistant that infers scenario details based on location and date.
If the user says they are going to a high altitude place in winter, infer low temperature and high altitude from common knowledge.`

const assessSystemPrompt = `You are a medical expert assistant that generates health alerts based on user data and smart device readings.
Consider factors like heart rate, oxygen saturation, altitude, temperature, and user health conditions to determine if there are any health risks.
Generate alerts with severity levels and medical advice accordingly.
Risk is considered if
- a metric is outside its normal range (e.g., high heart rate, low O2 saturation)
- readings show high variance compared to the average
When suggesting medical advice, only consider common over-the-counter medications like aspirin or acetaminophen. Do not suggest prescription drugs.`

func (r *riskAI) ExtractDestination(text string) (*Destination, error) {
	tool := anthropic.ToolParam{
		Name:        "record_destination",
		Description: anthropic.String("Record whether the input mentions a location and the extracted destination."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: map[string]interface{}{
				"is_address":  map[string]interface{}{"type": "boolean", "description": "true if the input mentions an address or place name"},
				"destination": map[string]interface{}{"type": "string", "description": "the extracted destination"},
			},
			Required: []string{"is_address", "destination"},
		},
	}

	var out Destination
	if err := r.invoke(extractSystemPrompt, tool, text, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *riskAI) InferScenario(text string) (*Scenario, error) {
	tool := anthropic.ToolParam{
		Name:        "record_scenario",
		Description: anthropic.String("Record the inferred scenario conditions."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: map[string]interface{}{
				"is_decidable":  map[string]interface{}{"type": "boolean", "description": "true if the scenario can be decided"},
				"altitude_m":    map[string]interface{}{"type": "number", "description": "estimated altitude in meters"},
				"temperature_c": map[string]interface{}{"type": "object", "description": "estimated average temperature in Celsius"},
			},
			Required: []string{"is_decidable", "altitude_m", "temperature_c"},
		},
	}

	var out Scenario
	if err := r.invoke(inferSystemPrompt, tool, text, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *riskAI) AssessRisk(report string) (*Assessment, error) {
	tool := anthropic.ToolParam{
		Name:        "record_health_alert",
		Description: anthropic.String("Record the health risk assessment for the scenario."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: map[string]interface{}{
				"is_severe":        map[string]interface{}{"type": "boolean", "description": "true if the alert is severe"},
				"alert_title":      map[string]interface{}{"type": "string", "description": "title of the health alert, e.g. 'High Heart Rate'"},
				"severity":         map[string]interface{}{"type": "string", "enum": []string{"low", "medium", "high"}},
				"message":          map[string]interface{}{"type": "string", "description": "detailed message about the alert"},
				"medical_advice":   map[string]interface{}{"type": "string", "description": "medical advice or recommendations"},
				"carry_medication": map[string]interface{}{"type": "string", "description": "which precautionary medication to carry, if any"},
			},
			Required: []string{"is_severe", "alert_title", "severity", "message", "medical_advice", "carry_medication"},
		},
	}

	var out Assessment
	if err := r.invoke(assessSystemPrompt, tool, report, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// invoke runs one forced-tool message round and decodes the tool input the
// model produced into out.
func (r *riskAI) invoke(system string, tool anthropic.ToolParam, input string, out interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	log.WithFields(log.Fields{
		"prefix": logPrefix,
		"tool":   tool.Name,
	}).Info("invoke inference role")

	msg, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     r.model,
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(input)),
		},
		Tools: []anthropic.ToolUnionParam{
			{OfTool: &tool},
		},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: tool.Name},
		},
	})
	if err != nil {
		return err
	}

	for _, block := range msg.Content {
		if block.Type == "tool_use" && block.Name == tool.Name {
			return json.Unmarshal([]byte(block.Input), out)
		}
	}

	return ErrNoStructuredOutput
}

// New - new RiskAI interface. Extra request options are mainly for tests.
func New(apiKey, model string, opts ...option.RequestOption) RiskAI {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)

	return &riskAI{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(model),
	}
}
