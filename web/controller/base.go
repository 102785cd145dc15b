// Package controller provides the HTTP request handlers of the task panel:
// authentication, the task list and the task mutations.
package controller

import (
	"net/http"

	"taskpanel/database/model"
	"taskpanel/web/service"
	"taskpanel/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides the login check shared by all protected routes.
type BaseController struct {
	userService service.UserService
}

// checkLogin resolves the acting user from the identity cookie, loads the
// account and stores it in the request context. Anonymous requests and stale
// cookies for deleted accounts are redirected to the login page. This is
// identity resolution only; ownership of individual tasks is checked by the
// services.
func (a *BaseController) checkLogin(c *gin.Context) {
	userId, ok := session.GetLoginUserId(c)
	if !ok {
		c.Redirect(http.StatusTemporaryRedirect, "/login")
		c.Abort()
		return
	}

	user, err := a.userService.GetUser(userId)
	if err != nil {
		session.ClearSession(c)
		c.Redirect(http.StatusTemporaryRedirect, "/login")
		c.Abort()
		return
	}

	c.Set("user", user)
	c.Next()
}

// loggedUser returns the user resolved by checkLogin.
func loggedUser(c *gin.Context) *model.User {
	user, _ := c.MustGet("user").(*model.User)
	return user
}
