package quizgen

import "fmt"

const promptTemplate = `You are an expert quiz generator. Based on the following content, generate exactly %[1]d multiple-choice questions that test understanding of the key concepts.

Content:
%[2]s

Generate exactly %[1]d multiple-choice questions with 4 options each. For each question, provide:
1. The question text
2. Four answer options
3. Indicate which option is correct (use index 0-3)
4. A brief explanation of why the answer is correct

Format your response as a JSON array with this exact structure:
[
  {
    "question": "Question text here?",
    "choices": [
      "First option",
      "Second option",
      "Third option",
      "Fourth option"
    ],
    "correct_index": 1,
    "explanation": "Explanation of why option at index 1 is correct"
  }
]

IMPORTANT:
- Return ONLY the JSON array, no additional text or formatting
- Use index 0-3 for correct_index (0=first choice, 1=second, 2=third, 3=fourth)
- Make sure the questions test comprehension, not just memorization
- Ensure all %[1]d questions are diverse and cover different aspects of the content`

// BuildPrompt returns the generation prompt for n questions. The output is a
// pure function of its inputs.
func BuildPrompt(content string, n int) string {
	return fmt.Sprintf(promptTemplate, n, content)
}
