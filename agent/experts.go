package agent

import (
	"go.uber.org/zap"
	"google.golang.org/genai"
)

func instruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

// newFacilitator creates the expert talking to the user, and delegating to experts.
func newFacilitator(model string, log *zap.Logger, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Log:       log,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and keep context of your previous questions.

			The user follows a stock index: they want to understand how the index, its sectors and its
			companies performed, and why. Devise a plan of questions to ask to each expert and come up
			with the best response to the user's request. Never give investment advice.
		`),
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst creates the expert reading the computed reports.
func NewAnalyst(model string, reports *Reports, log *zap.Logger) *Expert {
	lib := []Function{reports}
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. They read the computed performance reports of the index:
		benchmark, sectors and companies over 1D, 1W, MTD, QTD, YTD or 1Y. Ask the Analyst for figures.`,
		ModelName: model,
		Log:       log,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: instruction(`
			You are a market analyst in charge of the performance reports of a stock index.
			Use the available tools to read the reports, and answer with exact figures taken from them.
			Sector returns are weighted by market capitalization. Companies listed under data quality
			issues are left out of the sector figures: mention it when it matters.
		`),
		},
		Library: NewLibrary(lib),
	}
}

// NewJournalist creates the expert searching the news.
func NewJournalist(model string, log *zap.Logger) *Expert {
	return &Expert{
		Name: "Journalist",
		Description: `This is a financial journalist, aware of the latest news about companies and markets.
		Ask the Journalist whenever you need recent or grounding information explaining a move.`,
		ModelName: model,
		Log:       log,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`
			You are a financial journalist. You search and find news related to companies, sectors and
			markets. You leverage Google Search to ground your assertions, and cite your sources.
		`),
		},
	}
}
