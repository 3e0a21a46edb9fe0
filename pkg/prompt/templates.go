package prompt

// Templates rendered through Compose. Field names must match the keys the
// state provider publishes.

const FactsTemplate = `TASK: Extract Claims from the conversation as an array of claims in JSON format.

# INSTRUCTIONS

Extract any claims from the conversation that are not already present in the list of known facts:
- Try not to include already-known facts. If you think a fact is already known, but you're not sure, respond with already_known: true.
- If the fact is already in the user's description, set in_bio to true
- If we've already extracted this fact, set already_known to true
- Set the claim type to 'status', 'fact' or 'opinion'
- For true facts about the world or the character that do not change, set the claim type to 'fact'
- For facts that are true but change over time, set the claim type to 'status'
- For non-facts, set the type to 'opinion'
- 'opinion' includes non-factual opinions and also includes the character's thoughts, feelings, judgments or recommendations
- Include any factual detail, including where the user lives, works, or goes to school, what they do for a living, their hobbies, and any other relevant information

Known Facts:
{{knownFacts}}

Recent Messages:
{{recentMessages}}

Response should be a JSON object array inside a JSON markdown block. Correct response format:
` + "```json" + `
[
  {"claim": string, "type": enum<fact|opinion|status>, "in_bio": boolean, "already_known": boolean },
  ...
]
` + "```"

const SwapTokenTemplate = `Respond with a JSON markdown block containing only the extracted values. Use null for any values that cannot be determined.

Example response:
` + "```json" + `
{
    "amount": "10",
    "fromTokenSymbol": "$VIRTUAL",
    "toTokenSymbol": "$lzSEILOR"
}
` + "```" + `

{{recentMessages}}

Given the recent messages, extract the following information about the requested token swap:
- Amount to swap
- From token symbol
- To token symbol


Respond with a JSON markdown block containing only the extracted values.`

const SendTokenTemplate = `Respond with a JSON markdown block containing only the extracted values. Use null for any values that cannot be determined.

Example response:
` + "```json" + `
{
    "amount": "1000",
    "tokenSymbol": "$lzSEILOR",
    "recipient": "0xCCa8009f5e09F8C5dB63cb0031052F9CB635Af62"
}
` + "```" + `

{{recentMessages}}

Given the recent messages, extract the following information about the requested token send:
- Amount to send
- Token symbol
- Recipient wallet address


Respond with a JSON markdown block containing only the extracted values.`

const ScoreQueryTemplate = `
Extract the following details to create a score query:
- **queryAddress** (string): The address the user needs to query (e.g., 0x0000000000000000000000000000000000000000).

Provide the values in the following JSON format:

` + "```json" + `
{
    "queryAddress": "<queryAddress>"
}
` + "```" + `

Here are the recent user messages for context:
{{recentMessages}}
`

const ReplyTemplate = `Based on this message: "{{replyMsg}}", generate a reply to the user.
Keep the response short and specific.
`

const ErrorReplyTemplate = `Based on this message: "{{replyMsg}}", generate an error reply to the user.
You can make a joke or say something funny.
Not include any team information or personal information.
Do not collect any user information or data.`

const PostTemplate = `
# Areas of Expertise
{{knowledge}}

# About {{agentName}} (@{{twitterUserName}}):
{{bio}}
{{lore}}
{{topics}}

{{characterPostExamples}}

{{postDirections}}

# Task: Generate a post in the voice and style and perspective of {{agentName}} @{{twitterUserName}}.
Write a post that is {{adjective}} about {{topic}} (without mentioning {{topic}} directly), from the perspective of {{agentName}}. Do not add commentary or acknowledge this request, just write the post.
You can summarize the latest and most important information based on the knowledge above.
Your response should be 1, 2, or 3 sentences (choose the length at random).
Your response should not contain any questions. Brief, concise statements only. The total character count MUST be less than {{maxPostLength}}. No emojis. Use \n\n (double spaces) between statements if there are multiple statements in your response.`
