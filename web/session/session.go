// Package session resolves the acting user from the identity cookie and
// carries one-shot flash messages. Resolving identity is all this package
// does; ownership checks stay with the services.
package session

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const loginUserId = "LOGIN_USER_ID"

// FlashCookie is the one-shot feedback cookie, capped at a 5 second lifetime.
const FlashCookie = "flash_msg"

const flashMaxAge = 5

func SetLoginUser(c *gin.Context, userId int) error {
	s := sessions.Default(c)
	s.Set(loginUserId, userId)
	return s.Save()
}

// GetLoginUserId returns the user id carried by the identity cookie, or false
// when the request is anonymous.
func GetLoginUserId(c *gin.Context) (int, bool) {
	s := sessions.Default(c)
	if obj := s.Get(loginUserId); obj != nil {
		if id, ok := obj.(int); ok {
			return id, true
		}
	}
	return 0, false
}

func IsLogin(c *gin.Context) bool {
	_, ok := GetLoginUserId(c)
	return ok
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	return s.Save()
}

// SetFlash stores a short-lived feedback message for the next page load.
func SetFlash(c *gin.Context, msg string) {
	c.SetCookie(FlashCookie, msg, flashMaxAge, "/", "", false, false)
}

// TakeFlash returns the pending flash message, if any, and clears it.
func TakeFlash(c *gin.Context) string {
	msg, err := c.Cookie(FlashCookie)
	if err != nil || msg == "" {
		return ""
	}
	c.SetCookie(FlashCookie, "", -1, "/", "", false, false)
	return msg
}
