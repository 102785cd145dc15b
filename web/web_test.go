package web

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"testing"
	"time"

	"taskpanel/database"
	"taskpanel/database/model"
	"taskpanel/web/service"

	"github.com/stretchr/testify/assert"
)

func setupServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	dbPath := "test.db"
	os.Remove(dbPath)
	if err := database.InitDB(dbPath); err != nil {
		t.Fatal(err)
	}

	s := NewServer()
	engine, err := s.initRouter()
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(engine)

	t.Cleanup(func() {
		ts.Close()
		db, _ := database.GetDB().DB()
		db.Close()
		os.Remove(dbPath)
	})
	return s, ts
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar}
}

func get(t *testing.T, client *http.Client, url string) string {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func postForm(t *testing.T, client *http.Client, url string, form url.Values) string {
	t.Helper()
	resp, err := client.PostForm(url, form)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func isoDate(daysFromNow int) string {
	return time.Now().AddDate(0, 0, daysFromNow).Format("2006-01-02")
}

func TestTaskLifecycleScenario(t *testing.T) {
	s, ts := setupServer(t)
	client := newClient(t)

	// Anonymous dashboard access lands on the login page.
	body := get(t, client, ts.URL+"/")
	assert.Contains(t, body, "Login")

	// Sign up and log in as alice.
	body = postForm(t, client, ts.URL+"/signup", url.Values{
		"username": {"alice@example.com"},
		"password": {"pw1"},
	})
	assert.Contains(t, body, "Login")

	body = postForm(t, client, ts.URL+"/login", url.Values{
		"username": {"alice@example.com"},
		"password": {"pw1"},
	})
	assert.Contains(t, body, "alice@example.com")

	// A high-priority task for a mail-capable username schedules exactly
	// one notification job. The dispatcher worker is not running in this
	// test, so the queue can be observed directly.
	body = postForm(t, client, ts.URL+"/add", url.Values{
		"title":    {"Report"},
		"deadline": {isoDate(1)},
		"priority": {"High"},
	})
	assert.Contains(t, body, "Task added successfully!")
	assert.Contains(t, body, "Report")
	assert.Equal(t, 1, s.dispatcher.Pending())

	// A past deadline is rejected: error flash, nothing persisted, no job.
	body = postForm(t, client, ts.URL+"/add", url.Values{
		"title":    {"Late"},
		"deadline": {isoDate(-1)},
		"priority": {"Normal"},
	})
	assert.Contains(t, body, "Error:")
	assert.NotContains(t, body, "Late")
	assert.Equal(t, 1, s.dispatcher.Pending())

	// A normal-priority task persists but schedules nothing.
	body = postForm(t, client, ts.URL+"/add", url.Values{
		"title":    {"Groceries"},
		"deadline": {isoDate(2)},
		"priority": {"Normal"},
	})
	assert.Contains(t, body, "Groceries")
	assert.Equal(t, 1, s.dispatcher.Pending())

	// An unknown priority is rejected at the boundary.
	body = postForm(t, client, ts.URL+"/add", url.Values{
		"title":    {"Sneaky"},
		"deadline": {isoDate(1)},
		"priority": {"Urgent"},
	})
	assert.Contains(t, body, "Error:")
	assert.NotContains(t, body, "Sneaky")

	// Completing toggles, completing again toggles back.
	userService := service.UserService{}
	taskService := service.TaskService{}
	alice := userService.CheckUser("alice@example.com", "pw1")
	assert.NotNil(t, alice)

	tasks, err := taskService.GetTasks(alice.Id)
	assert.NoError(t, err)
	assert.Len(t, tasks, 2)
	report := tasks[0]
	assert.Equal(t, "Report", report.Title)

	get(t, client, ts.URL+"/complete/"+itoa(report.Id))
	got, err := taskService.GetTask(report.Id, alice.Id)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)

	get(t, client, ts.URL+"/complete/"+itoa(report.Id))
	got, err = taskService.GetTask(report.Id, alice.Id)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)

	// Deleting removes the row and flashes.
	body = get(t, client, ts.URL+"/delete/"+itoa(report.Id))
	assert.Contains(t, body, "Task deleted")
	_, err = taskService.GetTask(report.Id, alice.Id)
	assert.True(t, database.IsNotFound(err))
}

func TestCrossUserAccessIsNoOp(t *testing.T) {
	_, ts := setupServer(t)

	aliceClient := newClient(t)
	postForm(t, aliceClient, ts.URL+"/signup", url.Values{
		"username": {"alice@example.com"},
		"password": {"pw1"},
	})
	postForm(t, aliceClient, ts.URL+"/login", url.Values{
		"username": {"alice@example.com"},
		"password": {"pw1"},
	})
	postForm(t, aliceClient, ts.URL+"/add", url.Values{
		"title":    {"Secret plan"},
		"deadline": {isoDate(1)},
		"priority": {"Normal"},
	})

	bobClient := newClient(t)
	postForm(t, bobClient, ts.URL+"/signup", url.Values{
		"username": {"bob"},
		"password": {"pw2"},
	})
	body := postForm(t, bobClient, ts.URL+"/login", url.Values{
		"username": {"bob"},
		"password": {"pw2"},
	})
	assert.NotContains(t, body, "Secret plan")

	userService := service.UserService{}
	taskService := service.TaskService{}
	alice := userService.CheckUser("alice@example.com", "pw1")
	tasks, err := taskService.GetTasks(alice.Id)
	assert.NoError(t, err)
	assert.Len(t, tasks, 1)
	secret := tasks[0]

	// Bob toggling or deleting Alice's task changes nothing.
	get(t, bobClient, ts.URL+"/complete/"+itoa(secret.Id))
	get(t, bobClient, ts.URL+"/delete/"+itoa(secret.Id))

	got, err := taskService.GetTask(secret.Id, alice.Id)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestSignupRejectsDuplicateUsername(t *testing.T) {
	_, ts := setupServer(t)
	client := newClient(t)

	postForm(t, client, ts.URL+"/signup", url.Values{
		"username": {"alice@example.com"},
		"password": {"pw1"},
	})
	body := postForm(t, newClient(t), ts.URL+"/signup", url.Values{
		"username": {"alice@example.com"},
		"password": {"other"},
	})
	assert.Contains(t, body, "Username already taken")
}

func TestDeleteAccountRemovesUserAndTasks(t *testing.T) {
	_, ts := setupServer(t)
	client := newClient(t)

	postForm(t, client, ts.URL+"/signup", url.Values{
		"username": {"alice@example.com"},
		"password": {"pw1"},
	})
	postForm(t, client, ts.URL+"/login", url.Values{
		"username": {"alice@example.com"},
		"password": {"pw1"},
	})
	postForm(t, client, ts.URL+"/add", url.Values{
		"title":    {"Report"},
		"deadline": {isoDate(1)},
		"priority": {"Normal"},
	})

	userService := service.UserService{}
	taskService := service.TaskService{}
	alice := userService.CheckUser("alice@example.com", "pw1")
	tasks, _ := taskService.GetTasks(alice.Id)
	assert.Len(t, tasks, 1)
	taskId := tasks[0].Id

	body := get(t, client, ts.URL+"/delete_account")
	assert.Contains(t, body, "Login")

	_, err := userService.GetUser(alice.Id)
	assert.True(t, database.IsNotFound(err))
	_, err = taskService.GetTask(taskId, alice.Id)
	assert.True(t, database.IsNotFound(err))

	// The cleared session no longer reaches the dashboard.
	body = get(t, client, ts.URL+"/")
	assert.Contains(t, body, "Login")
}
