package generator

import "fmt"

// The prompts ask for a bare JSON object with exact field names and show
// an example, which keeps small instruct models on format most of the
// time. Format drift is handled by the retry loop, not the prompt.

func mcqPrompt(topic, level, difficulty string) string {
	return fmt.Sprintf(
		"Generate a %s multiple-choice question about %s and make sure it is suitable for the student of %s.\n\n"+
			"Return ONLY a JSON object with these exact fields:\n"+
			"- 'question': A clear, specific question\n"+
			"- 'options': An array of exactly 4 possible answers\n"+
			"- 'correct_ans': One of the options that is the correct answer\n\n"+
			"Example format:\n"+
			"{\n"+
			"    \"question\": \"What is the capital of France?\",\n"+
			"    \"options\": [\"London\", \"Berlin\", \"Paris\", \"Madrid\"],\n"+
			"    \"correct_ans\": \"Paris\"\n"+
			"}\n\n"+
			"Your response:",
		difficulty, topic, level)
}

func fillBlankPrompt(topic, level, difficulty string) string {
	return fmt.Sprintf(
		"Generate a %s fill-in-the-blank question about %s and make sure it is suitable for the student of %s.\n\n"+
			"Return ONLY a JSON object with these exact fields:\n"+
			"- 'question': A sentence with '_____' marking where the blank should be\n"+
			"- 'answer': The correct word or phrase that belongs in the blank\n\n"+
			"Example format:\n"+
			"{\n"+
			"    \"question\": \"The capital of France is _____.\",\n"+
			"    \"answer\": \"Paris\"\n"+
			"}\n\n"+
			"Your response:",
		difficulty, topic, level)
}
