package controller

import (
	"strconv"
	"strings"
	"time"

	"taskpanel/config"
	"taskpanel/logger"
	"taskpanel/web/dispatch"
	"taskpanel/web/entity"
	"taskpanel/web/job"
	"taskpanel/web/service"
	"taskpanel/web/session"

	"github.com/gin-gonic/gin"
)

// TaskController handles the task list and the task mutations. Every route
// runs behind checkLogin; every query and mutation is scoped to the resolved
// owner.
type TaskController struct {
	BaseController

	taskService service.TaskService
	dispatcher  *dispatch.Dispatcher
}

// NewTaskController creates the controller and initializes its routes. The
// dispatcher receives the notification jobs scheduled by addTask.
func NewTaskController(g *gin.RouterGroup, dispatcher *dispatch.Dispatcher) *TaskController {
	a := &TaskController{dispatcher: dispatcher}
	a.initRouter(g)
	return a
}

func (a *TaskController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/")
	g.Use(a.checkLogin)

	g.GET("/", a.tasks)
	g.POST("/add", a.addTask)
	g.GET("/complete/:id", a.completeTask)
	g.GET("/delete/:id", a.deleteTask)
}

// tasks renders the dashboard: the user's tasks, deadline ascending.
func (a *TaskController) tasks(c *gin.Context) {
	user := loggedUser(c)

	tasks, err := a.taskService.GetTasks(user.Id)
	if err != nil {
		logger.Warningf("list tasks for user %d failed: %v", user.Id, err)
	}

	html(c, "index.html", "My Tasks", gin.H{
		"user":  user,
		"tasks": tasks,
		"flash": session.TakeFlash(c),
	})
}

// addTask validates the submitted form, persists the task and, for a
// high-priority task owned by a mail-capable username, schedules exactly one
// notification job. The job runs after this response; its outcome is never
// observed here.
func (a *TaskController) addTask(c *gin.Context) {
	user := loggedUser(c)

	loc, err := config.GetTimeLocation()
	if err != nil {
		loc = time.Local
	}

	var form entity.TaskForm
	if err := c.ShouldBind(&form); err != nil {
		session.SetFlash(c, "Error: invalid form data")
		seeOther(c, "/")
		return
	}

	deadline, priority, err := form.CheckValid(time.Now().In(loc), loc)
	if err != nil {
		session.SetFlash(c, "Error: "+strings.TrimSpace(err.Error()))
		seeOther(c, "/")
		return
	}

	task, err := a.taskService.AddTask(user, form.Title, deadline, priority)
	if err != nil {
		logger.Warningf("add task for user %d failed: %v", user.Id, err)
		session.SetFlash(c, "Error: could not save the task")
		seeOther(c, "/")
		return
	}

	if service.ShouldNotify(task, user) {
		a.dispatcher.Submit(job.NewMailNotifyJob("High Priority Task Assigned", user.Username, task.Title, task.Deadline))
	}

	session.SetFlash(c, "Task added successfully!")
	seeOther(c, "/")
}

// completeTask toggles Pending and Completed on an owned task. Missing or
// foreign ids are a silent no-op.
func (a *TaskController) completeTask(c *gin.Context) {
	user := loggedUser(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err == nil {
		if err := a.taskService.ToggleTask(id, user.Id); err != nil {
			logger.Warningf("toggle task %d failed: %v", id, err)
		}
	}
	seeOther(c, "/")
}

// deleteTask removes an owned task. Missing or foreign ids are a silent no-op.
func (a *TaskController) deleteTask(c *gin.Context) {
	user := loggedUser(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err == nil {
		if err := a.taskService.DelTask(id, user.Id); err != nil {
			logger.Warningf("delete task %d failed: %v", id, err)
		}
		session.SetFlash(c, "Task deleted")
	}
	seeOther(c, "/")
}
