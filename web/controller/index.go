package controller

import (
	"html/template"

	"taskpanel/logger"
	"taskpanel/web/entity"
	"taskpanel/web/service"
	"taskpanel/web/session"

	"github.com/gin-gonic/gin"
)

// IndexController handles login, signup, logout and account deletion.
type IndexController struct {
	BaseController

	userService service.UserService
}

// NewIndexController creates the controller and initializes its routes.
func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/login", a.loginPage)
	g.POST("/login", a.login)
	g.GET("/signup", a.signupPage)
	g.POST("/signup", a.signup)
	g.GET("/logout", a.logout)

	protected := g.Group("/")
	protected.Use(a.checkLogin)
	protected.GET("/delete_account", a.deleteAccount)
}

// loginPage shows the login form, or the task list for an already logged-in user.
func (a *IndexController) loginPage(c *gin.Context) {
	if session.IsLogin(c) {
		seeOther(c, "/")
		return
	}
	html(c, "login.html", "Login", nil)
}

// login authenticates the credential pair and sets the identity cookie.
func (a *IndexController) login(c *gin.Context) {
	var form entity.LoginForm
	if err := c.ShouldBind(&form); err != nil || form.Username == "" || form.Password == "" {
		html(c, "login.html", "Login", gin.H{"error": "Invalid credentials"})
		return
	}

	user := a.userService.CheckUser(form.Username, form.Password)
	if user == nil {
		safeUser := template.HTMLEscapeString(form.Username)
		logger.Warningf("wrong username or password for %q, IP: %q", safeUser, getRemoteIp(c))
		html(c, "login.html", "Login", gin.H{"error": "Invalid credentials"})
		return
	}

	if err := session.SetLoginUser(c, user.Id); err != nil {
		logger.Warning("unable to save session:", err)
		html(c, "login.html", "Login", gin.H{"error": "Login failed, try again"})
		return
	}

	logger.Infof("%s logged in successfully", user.Username)
	seeOther(c, "/")
}

func (a *IndexController) signupPage(c *gin.Context) {
	if session.IsLogin(c) {
		seeOther(c, "/")
		return
	}
	html(c, "signup.html", "Sign up", nil)
}

// signup creates the account and redirects to the login page. A duplicate
// username re-renders the form with an inline error.
func (a *IndexController) signup(c *gin.Context) {
	var form entity.LoginForm
	if err := c.ShouldBind(&form); err != nil || form.Username == "" || form.Password == "" {
		html(c, "signup.html", "Sign up", gin.H{"error": "Username and password are required"})
		return
	}

	_, err := a.userService.CreateUser(form.Username, form.Password)
	if err == service.ErrUsernameTaken {
		html(c, "signup.html", "Sign up", gin.H{"error": "Username already taken"})
		return
	} else if err != nil {
		logger.Warning("create user failed:", err)
		html(c, "signup.html", "Sign up", gin.H{"error": "Could not create the account"})
		return
	}

	logger.Infof("new user %s signed up", form.Username)
	seeOther(c, "/login")
}

// logout clears the identity cookie unconditionally.
func (a *IndexController) logout(c *gin.Context) {
	if userId, ok := session.GetLoginUserId(c); ok {
		logger.Infof("user %d logged out", userId)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("unable to clear session:", err)
	}
	seeOther(c, "/login")
}

// deleteAccount removes the user's tasks, then the user, then the session.
func (a *IndexController) deleteAccount(c *gin.Context) {
	user := loggedUser(c)

	if err := a.userService.DeleteUser(user.Id); err != nil {
		logger.Warningf("delete account %d failed: %v", user.Id, err)
		session.SetFlash(c, "Error: could not delete the account")
		seeOther(c, "/")
		return
	}

	if err := session.ClearSession(c); err != nil {
		logger.Warning("unable to clear session:", err)
	}
	logger.Infof("account %s deleted", user.Username)
	session.SetFlash(c, "Account deleted successfully.")
	seeOther(c, "/login")
}
