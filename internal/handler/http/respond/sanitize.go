package respond

import (
	"regexp"
)

// Order matters: the Anthropic prefix is a superset of the OpenAI one.
var (
	anthropicKeyPattern   = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	openaiKeyPattern      = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)
	huggingFaceKeyPattern = regexp.MustCompile(`hf_[a-zA-Z0-9]{10,}`)
	googleKeyPattern      = regexp.MustCompile(`AIza[0-9A-Za-z_-]{20,}`)
	bearerPattern         = regexp.MustCompile(`(?i)bearer\s+[^\s"']+`)
	urlCredentialPattern  = regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`)
)

// SanitizeError returns err's message with provider keys and URL credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return Sanitize(err.Error())
}

// Sanitize masks secrets in msg.
func Sanitize(msg string) string {
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = huggingFaceKeyPattern.ReplaceAllString(msg, "hf_****")
	msg = googleKeyPattern.ReplaceAllString(msg, "AIza****")
	msg = bearerPattern.ReplaceAllString(msg, "Bearer ****")
	msg = urlCredentialPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}
