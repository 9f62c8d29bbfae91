package cache

import "strings"

// Keys look like quizzy:<entity>:<view>:<id>[:<scope>...].
const (
	keyPrefix = "quizzy"
	keySep    = ":"

	entityQuiz = "quiz"
	viewDetail = "detail"
	viewList   = "list"
)

func buildKey(entity, view string, parts ...string) string {
	segments := make([]string, 0, 3+len(parts))
	segments = append(segments, keyPrefix, entity, view)
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return strings.Join(segments, keySep)
}

// QuizDetailKey is scoped to the owner so a cached quiz is never served to
// another user.
func QuizDetailKey(quizID, ownerID string) string {
	return buildKey(entityQuiz, viewDetail, quizID, ownerID)
}

func QuizListKey(ownerID string) string {
	return buildKey(entityQuiz, viewList, ownerID)
}
