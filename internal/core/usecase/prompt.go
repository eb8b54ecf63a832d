package usecase

import (
	"fmt"
	"strings"

	"github.com/droitbot/droitbot-server/internal/core/domain"
)

// dataProtectionKnowledge is the curated briefing on Tunisian data
// protection law injected into the legal-assistant and rights-summary
// prompts. Kept verbatim across both flows.
const dataProtectionKnowledge = `
Key Information on Tunisian Data Protection and Sovereignty:

Legal Framework:
* Organic Act No. 2004-63: This law establishes the legal framework for personal data protection in Tunisia, including data processing notifications, data subject rights, and data transfers.
* Tunisian Constitution (2014): Article 24 of the Constitution protects privacy, including personal data, further strengthening data protection rights.
* INPDP (Instance nationale de protection des donnees personnelles): The INPDP is the regulatory body responsible for enforcing the data protection laws and ensuring compliance.

Key Aspects of Data Sovereignty in Tunisia:
* Data Subject Rights: Individuals in Tunisia have rights related to their personal data, including the right to access, rectify, and erase their data.
* Data Processing Requirements: The law outlines specific rules for data collection, storage, and processing, emphasizing transparency, purpose limitation, and fairness.
* Data Transfers: Tunisian law sets restrictions on transferring personal data outside the country, ensuring that data remains under Tunisian jurisdiction.
* Data Protection Authority: The INPDP is mandated to ensure compliance with the data protection provisions and can impose penalties for violations.
* Open Data Portal: Tunisia has established an Open Data Portal, promoting transparency and access to public data while ensuring data sovereignty.

Challenges and Considerations:
* Enforcement: While the INPDP has a legal mandate, there have been challenges in effectively enforcing the law and ensuring compliance across all sectors.
* Data Sovereignty in the Cloud: As Tunisia increasingly relies on cloud services, ensuring that data remains under Tunisian jurisdiction and meets data sovereignty requirements is a key challenge.
* Digital Surveillance: There are concerns about digital surveillance and the potential for the state to access personal data without proper safeguards, requiring vigilance in protecting data sovereignty.
`

// buildAssistantPrompt renders the generation request into the final prompt
// text. Sections are ordered: system knowledge, retrieved context, prior
// conversation, current query.
func buildAssistantPrompt(req domain.GenerationRequest) string {
	var b strings.Builder

	b.WriteString("You are an AI assistant specializing in Tunisian law.\n")
	b.WriteString("You will engage in a conversation with the user.\n")
	b.WriteString("First, identify the language of the user's CURRENT query (it will be Tunisian Arabic, French, or English).\n")
	b.WriteString("Then, respond in the SAME language you identified for the current query.\n")
	b.WriteString("Your response should be an explanation of the relevant legal steps and procedures in simple, easy-to-understand terms, pertinent to Tunisian law.\n")
	b.WriteString("Consider the previous messages in the conversation for context.\n\n")

	b.WriteString("You have access to the following specific information regarding Tunisian data protection and sovereignty, use it if the user's query relates to these topics:\n")
	b.WriteString("--- DATA PROTECTION KNOWLEDGE START ---\n")
	b.WriteString(req.SystemKnowledge)
	b.WriteString("\n--- DATA PROTECTION KNOWLEDGE END ---\n")

	if req.RetrievedContext != "" {
		b.WriteString("\nAdditionally, consider the following information retrieved from our legal knowledge base which seems highly relevant to the user's current query:\n")
		b.WriteString("--- RETRIEVED CONTEXT START ---\n")
		b.WriteString(req.RetrievedContext)
		b.WriteString("\n--- RETRIEVED CONTEXT END ---\n")
		b.WriteString("When using information from the retrieved context, try to cite or refer to the source if available in the context.\n")
	}

	if len(req.History) > 0 {
		b.WriteString("\nPrevious conversation:\n")
		for _, turn := range req.History {
			switch {
			case turn.IsUser:
				b.WriteString("User: " + turn.Text() + "\n")
			case turn.IsModel:
				b.WriteString("Assistant: " + turn.Text() + "\n")
			}
		}
	}

	b.WriteString("\nCurrent User Query: " + req.Query + "\n")
	return b.String()
}

func buildMessageAnalysisPrompt(req domain.MessageAnalysisRequest) string {
	var b strings.Builder
	b.WriteString("You are an AI assistant specializing in detecting scams and fraud in messages, particularly those relevant to users in Tunisia.\n\n")
	b.WriteString("Analyze the following message and determine if it is a scam. Provide a confidence score (0-1).\n")
	b.WriteString("If it is a scam, identify the type of scam and provide a brief explanation. In your explanation, if relevant, include context about why such a scam might be effective or who it might typically target.\n\n")
	b.WriteString("Message Source: " + req.Source + "\n")
	b.WriteString("Message Content: " + req.Message + "\n")
	return b.String()
}

func buildFraudCheckPrompt(description string) string {
	var b strings.Builder
	b.WriteString("You are an expert in fraud detection, specializing in identifying fraudulent documents such as fake court orders and contracts.\n")
	b.WriteString("Analyze the provided document (image or PDF) for signs of fraud.\n\n")
	b.WriteString("Consider details like official seals, signatures, formatting inconsistencies, unusual requests, and any other suspicious elements.\n\n")
	if description != "" {
		b.WriteString("Description: " + description + "\n\n")
	}
	b.WriteString("Based on your analysis, determine if the document is likely fraudulent. Provide a confidence level (0-1) and explain your reasoning.\n")
	return b.String()
}

func buildAudioCheckPrompt() string {
	var b strings.Builder
	b.WriteString("You are an AI assistant specializing in analyzing audio content for potentially suspicious, fraudulent, manipulative, or harmful elements.\n\n")
	b.WriteString("You will be given an audio recording. Analyze its content carefully.\n")
	b.WriteString("Identify any parts of the audio that seem deceptive, coercive, aim to mislead, or could potentially harm the listener or others.\n")
	b.WriteString("This could include, but is not limited to, scam tactics (like pressure for money, requests for sensitive information, fake emergencies), misinformation, hate speech, or harassment.\n\n")
	b.WriteString("Based on your analysis:\n")
	b.WriteString("- If the audio contains such elements, set the 'isScam' output field to true. Provide a 'reason' detailing what you detected and why it's problematic.\n")
	b.WriteString("- If the audio appears benign and free of such elements, set the 'isScam' output field to false. Provide a 'reason' confirming its benign nature or stating that no suspicious elements were found.\n")
	return b.String()
}

func buildDebunkPrompt(newsContent string, results []domain.SearchResult) string {
	var b strings.Builder
	b.WriteString("You are an AI assistant for DroitBot, specializing in identifying and debunking misinformation, particularly related to political or health topics relevant to Tunisia.\n\n")
	b.WriteString("Your goal is to determine if the provided news content is misinformation by cross-checking it against the web search results below, then to explain your findings.\n\n")
	b.WriteString("News Content: " + newsContent + "\n\n")

	if len(results) > 0 {
		b.WriteString("Web search results:\n")
		for i, r := range results {
			fmt.Fprintf(&b, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.Link, r.Snippet)
		}
		b.WriteString("\n")
	}

	b.WriteString("Critically evaluate the search results and decide whether the news content is likely misinformation.\n")
	b.WriteString("In your 'explanation', clearly state your conclusion and reference specific information or a lack of corroboration from the search results. If the results are inconclusive, say so.\n")
	b.WriteString("Populate 'trustedSources' with 1-2 relevant links taken from the search results above. Prioritize official Tunisian government sources and fact-checking organizations. Leave the array empty if no relevant links exist.\n")
	return b.String()
}

func buildEmergencyPrompt(req domain.EmergencyRequest, suggestedPrompts []string) string {
	lang := domain.NormalizeLanguage(req.Language)

	var b strings.Builder
	b.WriteString("You are an AI assistant for DroitBot, specializing in providing immediate guidance during high-risk scam situations in Tunisia.\n")
	b.WriteString("The user has activated Emergency Mode and described their situation. Your response MUST be in " + lang + ".\n\n")
	b.WriteString("User's situation: " + req.SituationDescription + "\n\n")
	b.WriteString("Based on this situation:\n")
	b.WriteString("1. Provide concise, calming, and actionable 'advice'. Focus on immediate safety, de-escalation, and avoiding rash decisions (like sending money or personal information).\n")
	b.WriteString("2. Suggest 2-3 'relevantPrompts' from the list below that the user can say or type to the scammer. Choose the most appropriate ones for the described situation. If none seem perfectly fitting, adapt one or create a very similar one. The prompts should be assertive but not overly aggressive.\n")
	b.WriteString("   Available prompts:\n")
	for _, p := range suggestedPrompts {
		b.WriteString("   - \"" + p + "\"\n")
	}
	b.WriteString("3. List 1-2 very clear 'immediateActions' the user should take (e.g., \"End the call/chat immediately.\", \"Do NOT click any links.\", \"Do NOT share any codes or passwords.\").\n\n")
	b.WriteString("Prioritize the user's safety and help them disengage from the scammer.\n")
	b.WriteString("Keep all outputs concise and easy to understand in an emergency.\n")
	b.WriteString("Your response MUST be in the requested language: " + lang + ".\n")
	return b.String()
}

func buildCustomsPrompt(req domain.CustomsHelpRequest, links domain.ProcedureLinks) string {
	lang := domain.NormalizeLanguage(req.Language)

	var b strings.Builder
	b.WriteString("You are an AI assistant specialized in providing guidance for customs and bureaucratic procedures in Tunisia.\n")
	b.WriteString("Your response MUST be in the language: " + lang + ".\n\n")
	b.WriteString("The user is asking for help with the following procedure: " + req.Procedure + "\n\n")

	if len(links.Links) > 0 {
		b.WriteString("The following official links were found for this procedure. Use them in the 'officialLinks' field of your output:\n")
		for _, link := range links.Links {
			b.WriteString("- " + link + "\n")
		}
		b.WriteString("\n")
	} else if links.Message != "" {
		b.WriteString("No specific official links were found. Include this note in the 'toolResponseMessage' field: " + links.Message + "\n\n")
	}

	b.WriteString("Provide:\n")
	b.WriteString("1. A 'checklist' of the required steps for the procedure in " + lang + ".\n")
	b.WriteString("2. A 'costEstimate' if applicable and reasonably known for Tunisia (e.g., \"Approximately 50 TND\") in " + lang + ".\n")
	b.WriteString("3. A 'timelineEstimate' if applicable and reasonably known (e.g., \"Around 2-3 weeks\") in " + lang + ".\n\n")
	b.WriteString("If cost or timeline information is not readily available or varies greatly, you can state that in " + lang + " or omit those fields.\n")
	b.WriteString("If no official links were provided and you are adding general portal links, ensure they are official Tunisian government domains (like .gov.tn, .tn). If you cannot confidently provide any official links, the 'officialLinks' array should be empty.\n")
	b.WriteString("Be as specific as possible.\n")
	return b.String()
}

func buildRightsSummaryPrompt(req domain.RightsSummaryRequest) string {
	lang := domain.NormalizeLanguage(req.Language)
	country := req.Country
	if country == "" {
		country = "Tunisia"
	}

	var b strings.Builder
	b.WriteString("You are a legal expert specializing in providing summaries of legal rights.\n")
	b.WriteString("Your response MUST be in the language: " + lang + ".\n\n")
	b.WriteString("Summarize the legal rights for the following topic in " + country + ":\n\n")
	b.WriteString("Topic: " + req.Topic + "\n\n")
	b.WriteString("If the topic is related to data protection, privacy, or digital rights in Tunisia, heavily utilize the following specific information:\n")
	b.WriteString(dataProtectionKnowledge)
	return b.String()
}
