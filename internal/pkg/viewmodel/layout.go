package viewmodel

import "github.com/gofiber/fiber/v2"

type Layout struct {
	Page       string
	IsLoggedIn bool
	Username   string
	AvatarURL  string
	Msg        fiber.Map
	ClientID   string
	CSRFToken  string
}

// Deref renders an optional string, empty when unset.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// TemplateFuncs are the helpers the views use.
func TemplateFuncs() map[string]interface{} {
	return map[string]interface{}{
		"deref": Deref,
	}
}
